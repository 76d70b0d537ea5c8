package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/boxtree/pkg/errors"
	"github.com/matzehuels/boxtree/pkg/layout"
)

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// status maps an error code to an HTTP status.
func status(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidParentNode, errors.ErrCodeInvalidChildNode,
		errors.ErrCodeInvalidInputNode, errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeChildIndexOutOfBounds, errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeLockUnavailable:
		return http.StatusServiceUnavailable
	case errors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	st := status(code)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if st >= 500 {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, st, errorBody{Code: code, Message: errors.UserMessage(err)})
}

// writeJSON encodes to a buffer first so encoding failures still produce a
// well-formed response.
func writeJSON(w http.ResponseWriter, st int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(st)
	_, _ = w.Write(buf.Bytes())
}

// decode reads a JSON body into v. An empty body leaves v unchanged.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body")
	}
	return nil
}

func (s *Server) lookup(r *http.Request) (*entry, error) {
	id, err := uuid.Parse(chi.URLParam(r, "tree"))
	if err != nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no tree %q", chi.URLParam(r, "tree"))
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.trees[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no tree %s", id)
	}
	return e, nil
}

func parseNodeID(s string) (layout.NodeID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "node id %q is not a decimal integer", s)
	}
	return layout.NodeID(n), nil
}

func parseNodeIDs(ss []string) ([]layout.NodeID, error) {
	out := make([]layout.NodeID, len(ss))
	for i, s := range ss {
		id, err := parseNodeID(s)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

func nodeIDs(ids []layout.NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
