package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/boxtree/pkg/cache"
	"github.com/matzehuels/boxtree/pkg/layout"
	"github.com/matzehuels/boxtree/pkg/measure"
	"github.com/matzehuels/boxtree/pkg/observability"
)

const (
	defaultMaxTrees = 1024
	defaultMaxBody  = 4 << 20
	shutdownTimeout = 10 * time.Second
)

// Config configures a Server. Zero values pick defaults.
type Config struct {
	Logger   *log.Logger
	Cache    cache.Cache // nil disables caching of POST /layout
	MaxTrees int
	MaxBody  int64
}

// Server holds the trees created through the API.
type Server struct {
	logger   *log.Logger
	cache    cache.Cache
	keys     cache.Keyer
	maxTrees int
	maxBody  int64

	mu    sync.RWMutex
	trees map[uuid.UUID]*entry
}

// entry is one hosted tree with the text of its measured leaves.
type entry struct {
	tree    *layout.Tree
	text    *measure.Text
	created time.Time
}

// New returns a server with no trees.
func New(cfg Config) *Server {
	s := &Server{
		logger:   cfg.Logger,
		cache:    cfg.Cache,
		keys:     cache.NewScopedKeyer(cache.NewDefaultKeyer(), "server:"),
		maxTrees: cfg.MaxTrees,
		maxBody:  cfg.MaxBody,
		trees:    make(map[uuid.UUID]*entry),
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.cache == nil {
		s.cache = cache.NullCache{}
	}
	if s.maxTrees <= 0 {
		s.maxTrees = defaultMaxTrees
	}
	if s.maxBody <= 0 {
		s.maxBody = defaultMaxBody
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/version", s.handleVersion)
	r.Post("/layout", s.handleLayout)

	r.Route("/trees", func(r chi.Router) {
		r.Post("/", s.handleCreateTree)
		r.Route("/{tree}", func(r chi.Router) {
			r.Get("/", s.handleGetTree)
			r.Delete("/", s.handleDeleteTree)
			r.Post("/nodes", s.handleCreateNode)
			r.Route("/nodes/{node}", func(r chi.Router) {
				r.Get("/", s.handleGetNode)
				r.Delete("/", s.handleRemoveNode)
				r.Put("/style", s.handleSetStyle)
				r.Put("/children", s.handleSetChildren)
				r.Post("/layout", s.handleComputeLayout)
			})
		})
	})
	return r
}

// observe reports every request to the HTTP hooks under its route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnRequest(r.Context(), r.Method, route, status, time.Since(start))
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

// Trees returns the number of hosted trees.
func (s *Server) Trees() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.trees)
}
