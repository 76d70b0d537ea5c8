package server

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/boxtree/pkg/buildinfo"
	"github.com/matzehuels/boxtree/pkg/document"
	"github.com/matzehuels/boxtree/pkg/errors"
	"github.com/matzehuels/boxtree/pkg/layout"
	"github.com/matzehuels/boxtree/pkg/measure"
)

type createTreeRequest struct {
	Rounding *bool  `json:"rounding,omitempty"`
	Capacity uint64 `json:"capacity,omitempty"`
}

type treeResponse struct {
	ID       string    `json:"id"`
	Nodes    uint64    `json:"nodes"`
	Rounding bool      `json:"rounding"`
	Created  time.Time `json:"created"`
}

type createNodeRequest struct {
	Style    document.StyleSpec `json:"style"`
	Text     *string            `json:"text,omitempty"`
	Children []string           `json:"children,omitempty"`
}

type idResponse struct {
	ID string `json:"id"`
}

type nodeResponse struct {
	ID       string             `json:"id"`
	Style    document.StyleSpec `json:"style"`
	Children []string           `json:"children"`
	Parent   string             `json:"parent,omitempty"`
	Dirty    bool               `json:"dirty"`
	Measured bool               `json:"measured"`
	Text     string             `json:"text,omitempty"`
	Layout   layout.Layout      `json:"layout"`
}

type childrenRequest struct {
	Children []string `json:"children"`
}

type layoutRequest struct {
	Width  string `json:"width,omitempty"`
	Height string `json:"height,omitempty"`
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleCreateTree(w http.ResponseWriter, r *http.Request) {
	var req createTreeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	e := &entry{
		tree:    layout.NewTreeWithCapacity(req.Capacity),
		text:    measure.NewText(nil),
		created: time.Now().UTC(),
	}
	if req.Rounding != nil && !*req.Rounding {
		_ = e.tree.DisableRounding()
	}

	id := uuid.New()
	s.mu.Lock()
	if len(s.trees) >= s.maxTrees {
		s.mu.Unlock()
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "tree limit of %d reached", s.maxTrees))
		return
	}
	s.trees[id] = e
	s.mu.Unlock()

	s.logger.Debug("tree created", "tree", id)
	w.Header().Set("Location", "/trees/"+id.String())
	writeJSON(w, http.StatusCreated, idResponse{ID: id.String()})
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := e.tree.TotalNodeCount()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rounding, err := e.tree.RoundingEnabled()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, treeResponse{
		ID:       chi.URLParam(r, "tree"),
		Nodes:    n,
		Rounding: rounding,
		Created:  e.created,
	})
}

func (s *Server) handleDeleteTree(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "tree"))
	if err == nil {
		s.mu.Lock()
		_, ok := s.trees[id]
		delete(s.trees, id)
		s.mu.Unlock()
		if ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no tree %q", chi.URLParam(r, "tree")))
}

func (s *Server) handleCreateNode(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req createNodeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	style, err := req.Style.Style()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var id layout.NodeID
	switch {
	case req.Text != nil && len(req.Children) > 0:
		err = errors.New(errors.ErrCodeInvalidInput, "a text node cannot have children")
	case req.Text != nil:
		if id, err = e.tree.NewLeafWithContext(style); err == nil {
			e.text.Set(id, *req.Text)
		}
	case len(req.Children) > 0:
		var kids []layout.NodeID
		if kids, err = parseNodeIDs(req.Children); err == nil {
			id, err = e.tree.NewWithChildren(style, kids)
		}
	default:
		id, err = e.tree.NewLeaf(style)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id.String()})
}

// node resolves the tree and node of the request path.
func (s *Server) node(r *http.Request) (*entry, layout.NodeID, error) {
	e, err := s.lookup(r)
	if err != nil {
		return nil, 0, err
	}
	id, err := parseNodeID(chi.URLParam(r, "node"))
	if err != nil {
		return nil, 0, err
	}
	return e, id, nil
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	e, id, err := s.node(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp, err := describe(e, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func describe(e *entry, id layout.NodeID) (nodeResponse, error) {
	resp := nodeResponse{ID: id.String()}
	style, err := e.tree.Style(id)
	if err != nil {
		return resp, err
	}
	resp.Style = document.Spec(style)

	kids, err := e.tree.Children(id)
	if err != nil {
		return resp, err
	}
	resp.Children = nodeIDs(kids)

	if p, ok, err := e.tree.Parent(id); err != nil {
		return resp, err
	} else if ok {
		resp.Parent = p.String()
	}
	if resp.Dirty, err = e.tree.Dirty(id); err != nil {
		return resp, err
	}
	if resp.Measured, err = e.tree.NodeContext(id); err != nil {
		return resp, err
	}
	resp.Text, _ = e.text.Get(id)
	if resp.Layout, err = e.tree.Layout(id); err != nil {
		return resp, err
	}
	return resp, nil
}

func (s *Server) handleSetStyle(w http.ResponseWriter, r *http.Request) {
	e, id, err := s.node(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var spec document.StyleSpec
	if err := s.decode(w, r, &spec); err != nil {
		s.writeError(w, r, err)
		return
	}
	style, err := spec.Style()
	if err == nil {
		err = e.tree.SetStyle(id, style)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetChildren(w http.ResponseWriter, r *http.Request) {
	e, id, err := s.node(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req childrenRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	kids, err := parseNodeIDs(req.Children)
	if err == nil {
		err = e.tree.SetChildren(id, kids)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveNode(w http.ResponseWriter, r *http.Request) {
	e, id, err := s.node(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	subtree, err := descendants(e.tree, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	removed, err := e.tree.Remove(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	e.text.Delete(removed)
	for _, d := range subtree {
		if ok, err := e.tree.Contains(d); err == nil && !ok {
			e.text.Delete(d)
		}
	}
	writeJSON(w, http.StatusOK, idResponse{ID: removed.String()})
}

func (s *Server) handleComputeLayout(w http.ResponseWriter, r *http.Request) {
	e, id, err := s.node(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req layoutRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	avail, err := document.Available(req.Width, req.Height)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	b := &document.Built{Tree: e.tree, Root: id, Text: e.text}
	if err := b.Compute(r.Context(), &avail); err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := document.Export(b)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleLayout computes a whole document in one request. The format comes
// from the format query parameter or the Content-Type header, JSON by
// default; width, height and round=false override the document.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read document"))
		return
	}
	doc, err := document.Decode(bytes.NewReader(raw), requestFormat(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	opts := document.Options{
		Width:   q.Get("width"),
		Height:  q.Get("height"),
		NoRound: q.Get("round") == "false",
	}
	out, hit, err := document.ComputeCached(r.Context(), s.cache, s.keys, raw, doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	writeJSON(w, http.StatusOK, out)
}

func requestFormat(r *http.Request) document.Format {
	if f := r.URL.Query().Get("format"); f != "" {
		return document.Format(strings.ToLower(f))
	}
	ct := r.Header.Get("Content-Type")
	switch {
	case strings.Contains(ct, "toml"):
		return document.FormatTOML
	case strings.Contains(ct, "yaml"):
		return document.FormatYAML
	}
	return document.FormatJSON
}

// descendants lists every node below id, depth first.
func descendants(tree *layout.Tree, id layout.NodeID) ([]layout.NodeID, error) {
	children, err := tree.Children(id)
	if err != nil {
		return nil, err
	}
	var out []layout.NodeID
	for _, c := range children {
		sub, err := descendants(tree, c)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
		out = append(out, sub...)
	}
	return out, nil
}
