package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/boxtree/pkg/cache"
	"github.com/matzehuels/boxtree/pkg/document"
	"github.com/matzehuels/boxtree/pkg/errors"
	"github.com/matzehuels/boxtree/pkg/observability"
)

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeInto[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func newTree(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/trees", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /trees = %d, want 201: %s", rec.Code, rec.Body)
	}
	return "/trees/" + decodeInto[idResponse](t, rec).ID
}

func newNode(t *testing.T, h http.Handler, tree string, req createNodeRequest) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, tree+"/nodes", req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST %s/nodes = %d, want 201: %s", tree, rec.Code, rec.Body)
	}
	return decodeInto[idResponse](t, rec).ID
}

func TestTreeLifecycle(t *testing.T) {
	srv := New(Config{})
	h := srv.Handler()
	tree := newTree(t, h)

	grow := float32(1)
	a := newNode(t, h, tree, createNodeRequest{Style: document.StyleSpec{FlexGrow: &grow}})
	b := newNode(t, h, tree, createNodeRequest{Style: document.StyleSpec{FlexGrow: &grow}})
	root := newNode(t, h, tree, createNodeRequest{
		Style:    document.StyleSpec{Width: "200", Height: "100"},
		Children: []string{a, b},
	})

	rec := do(t, h, http.MethodPost, tree+"/nodes/"+root+"/layout", layoutRequest{Width: "max-content"})
	if rec.Code != http.StatusOK {
		t.Fatalf("layout = %d: %s", rec.Code, rec.Body)
	}
	out := decodeInto[document.LayoutNode](t, rec)
	if len(out.Children) != 2 || out.Children[1].Layout.Location.X != 100 || out.Children[1].Layout.Size.Width != 100 {
		t.Errorf("layout children = %+v, want two 100-wide boxes", out.Children)
	}

	rec = do(t, h, http.MethodGet, tree+"/nodes/"+a, nil)
	node := decodeInto[nodeResponse](t, rec)
	if node.Parent != root || node.Dirty || node.Layout.Size.Height != 100 {
		t.Errorf("GET node = parent %q dirty %v height %v, want parent %s, clean, 100", node.Parent, node.Dirty, node.Layout.Size.Height, root)
	}
	if node.Style.FlexGrow == nil || *node.Style.FlexGrow != 1 {
		t.Errorf("GET node style flex_grow = %v, want 1", node.Style.FlexGrow)
	}

	rec = do(t, h, http.MethodPut, tree+"/nodes/"+a+"/style", document.StyleSpec{Width: "10"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("PUT style = %d: %s", rec.Code, rec.Body)
	}
	node = decodeInto[nodeResponse](t, do(t, h, http.MethodGet, tree+"/nodes/"+root, nil))
	if !node.Dirty {
		t.Error("root is clean after a child's style changed")
	}

	rec = do(t, h, http.MethodPut, tree+"/nodes/"+root+"/children", childrenRequest{Children: []string{b}})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("PUT children = %d: %s", rec.Code, rec.Body)
	}
	rec = do(t, h, http.MethodDelete, tree+"/nodes/"+a, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("DELETE node = %d: %s", rec.Code, rec.Body)
	}

	info := decodeInto[treeResponse](t, do(t, h, http.MethodGet, tree, nil))
	if info.Nodes != 2 || !info.Rounding {
		t.Errorf("GET tree = %+v, want 2 nodes with rounding", info)
	}

	if rec := do(t, h, http.MethodDelete, tree, nil); rec.Code != http.StatusNoContent {
		t.Errorf("DELETE tree = %d, want 204", rec.Code)
	}
	if srv.Trees() != 0 {
		t.Errorf("Trees() = %d after delete, want 0", srv.Trees())
	}
}

func TestTextNodes(t *testing.T) {
	h := New(Config{}).Handler()
	tree := newTree(t, h)
	text := "hello world"
	leaf := newNode(t, h, tree, createNodeRequest{Text: &text})

	rec := do(t, h, http.MethodPost, tree+"/nodes/"+leaf+"/layout", nil)
	out := decodeInto[document.LayoutNode](t, rec)
	if out.Text != text || out.Layout.Size.Width != 77 || out.Layout.Size.Height != 13 {
		t.Errorf("text layout = %q %v, want 77x13", out.Text, out.Layout.Size)
	}

	rec = do(t, h, http.MethodPost, tree+"/nodes", createNodeRequest{Text: &text, Children: []string{leaf}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("text node with children = %d, want 400", rec.Code)
	}
}

func TestRemoveNodeDropsSubtreeText(t *testing.T) {
	srv := New(Config{})
	h := srv.Handler()
	tree := newTree(t, h)
	text := "hello world"
	leaf := newNode(t, h, tree, createNodeRequest{Text: &text})
	mid := newNode(t, h, tree, createNodeRequest{Children: []string{leaf}})
	top := newNode(t, h, tree, createNodeRequest{Children: []string{mid}})

	if rec := do(t, h, http.MethodDelete, tree+"/nodes/"+top, nil); rec.Code != http.StatusOK {
		t.Fatalf("DELETE node = %d: %s", rec.Code, rec.Body)
	}

	id, err := uuid.Parse(strings.TrimPrefix(tree, "/trees/"))
	if err != nil {
		t.Fatal(err)
	}
	srv.mu.Lock()
	e := srv.trees[id]
	srv.mu.Unlock()
	leafID, err := parseNodeID(leaf)
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := e.text.Get(leafID); ok {
		t.Errorf("text of removed leaf = %q, want it dropped", s)
	}
	if n, _ := e.tree.TotalNodeCount(); n != 0 {
		t.Errorf("TotalNodeCount() = %d, want 0", n)
	}
}

func TestErrorResponses(t *testing.T) {
	h := New(Config{}).Handler()
	tree := newTree(t, h)
	leaf := newNode(t, h, tree, createNodeRequest{})

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
		wantCode   errors.Code
	}{
		{"unknown tree", http.MethodGet, "/trees/1b4e28ba-2fa1-11d2-883f-0016d3cca427", nil, 404, errors.ErrCodeNotFound},
		{"malformed tree", http.MethodGet, "/trees/nope/nodes/1", nil, 404, errors.ErrCodeNotFound},
		{"malformed node", http.MethodGet, tree + "/nodes/abc", nil, 400, errors.ErrCodeInvalidInput},
		{"unknown node", http.MethodGet, tree + "/nodes/99", nil, 404, errors.ErrCodeInvalidInputNode},
		{"unknown parent", http.MethodPut, tree + "/nodes/99/children", childrenRequest{}, 404, errors.ErrCodeInvalidParentNode},
		{"unknown child", http.MethodPut, tree + "/nodes/" + leaf + "/children", childrenRequest{Children: []string{"99"}}, 404, errors.ErrCodeInvalidChildNode},
		{"self child", http.MethodPut, tree + "/nodes/" + leaf + "/children", childrenRequest{Children: []string{leaf}}, 404, errors.ErrCodeInvalidChildNode},
		{"bad style", http.MethodPut, tree + "/nodes/" + leaf + "/style", document.StyleSpec{GridRow: "0"}, 400, errors.ErrCodeInvalidInput},
		{"bad json", http.MethodPost, tree + "/nodes", `{"style": 3}`, 400, errors.ErrCodeInvalidFormat},
		{"unknown field", http.MethodPost, tree + "/nodes", `{"colour": "red"}`, 400, errors.ErrCodeInvalidFormat},
		{"bad space", http.MethodPost, tree + "/nodes/" + leaf + "/layout", layoutRequest{Width: "wide"}, 400, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s = %d, want %d: %s", tt.method, tt.path, rec.Code, tt.wantStatus, rec.Body)
			}
			if got := decodeInto[errorBody](t, rec); got.Code != tt.wantCode {
				t.Errorf("error code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidParentNode, 404},
		{errors.ErrCodeInvalidChildNode, 404},
		{errors.ErrCodeInvalidInputNode, 404},
		{errors.ErrCodeChildIndexOutOfBounds, 400},
		{errors.ErrCodeInvalidInput, 400},
		{errors.ErrCodeLockUnavailable, 503},
		{errors.ErrCodeInternal, 500},
		{"", 500},
	}
	for _, tt := range tests {
		if got := status(tt.code); got != tt.want {
			t.Errorf("status(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestTreeLimit(t *testing.T) {
	h := New(Config{MaxTrees: 1}).Handler()
	newTree(t, h)
	if rec := do(t, h, http.MethodPost, "/trees", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("second tree = %d, want 400", rec.Code)
	}
}

const doc = `
width = "300"

[root]
id = "row"

[[root.children]]
id = "a"
[root.children.style]
flex_grow = 1.0

[[root.children]]
id = "b"
[root.children.style]
flex_grow = 2.0
`

func TestStatelessLayout(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	h := New(Config{Cache: fc}).Handler()

	for _, want := range []string{"MISS", "HIT"} {
		rec := do(t, h, http.MethodPost, "/layout?format=toml", doc)
		if rec.Code != http.StatusOK {
			t.Fatalf("POST /layout = %d: %s", rec.Code, rec.Body)
		}
		if got := rec.Header().Get("X-Cache"); got != want {
			t.Errorf("X-Cache = %q, want %q", got, want)
		}
		out := decodeInto[document.LayoutNode](t, rec)
		if out.Children[1].Name != "b" || out.Children[1].Layout.Size.Width != 200 {
			t.Errorf("b = %s width %v, want 200", out.Children[1].Name, out.Children[1].Layout.Size.Width)
		}
	}

	rec := do(t, h, http.MethodPost, "/layout?format=toml&width=600", doc)
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Error("width override reused the cached layout")
	}
	out := decodeInto[document.LayoutNode](t, rec)
	if out.Layout.Size.Width != 600 {
		t.Errorf("root width = %v, want 600", out.Layout.Size.Width)
	}

	rec = do(t, h, http.MethodPost, "/layout", "not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST /layout with bad body = %d, want 400", rec.Code)
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	routes []string
}

func (h *recordingHooks) OnRequest(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route+" "+http.StatusText(status))
}

func TestRequestHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	h := New(Config{}).Handler()
	tree := newTree(t, h)
	do(t, h, http.MethodGet, tree+"/nodes/5", nil)

	if len(hooks.routes) != 2 {
		t.Fatalf("hook calls = %v, want 2", hooks.routes)
	}
	if got := hooks.routes[0]; !strings.HasPrefix(got, "POST /trees") || !strings.HasSuffix(got, "Created") {
		t.Errorf("first request = %q, want POST /trees Created", got)
	}
	got := hooks.routes[1]
	if !strings.Contains(got, "/trees/{tree}/nodes/{node}") || !strings.HasSuffix(got, "Not Found") {
		t.Errorf("second request = %q, want the route pattern with Not Found", got)
	}
}

func TestVersion(t *testing.T) {
	h := New(Config{}).Handler()
	rec := do(t, h, http.MethodGet, "/version", nil)
	var info map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	if info["version"] == "" || info["go_version"] == "" {
		t.Errorf("GET /version = %v", info)
	}
}

func TestServeShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(Config{}).Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/version")
	if err != nil {
		t.Fatalf("GET /version: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /version = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}
