package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level entries
// to a charmbracelet logger. Failures and poisoning are logged as errors.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnLayoutStart(root uint64, nodes int) {
	h.logger.Debug("layout start", "root", root, "nodes", nodes)
}

func (h *LogHooks) OnLayoutComplete(root uint64, nodes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("layout failed", "root", root, "err", err)
		return
	}
	h.logger.Debug("layout done", "root", root, "nodes", nodes, "took", d)
}

func (h *LogHooks) OnMeasure(node uint64, d time.Duration) {
	h.logger.Debug("measure", "node", node, "took", d)
}

func (h *LogHooks) OnPoisoned(op string, recovered any) {
	h.logger.Error("tree lock poisoned", "op", op, "panic", recovered)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("request", "method", method, "route", route, "status", status, "took", d)
}
