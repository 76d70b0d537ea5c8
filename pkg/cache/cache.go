// Package cache stores computed layouts and rendered artifacts between runs.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for the
// HTTP server and [NullCache] when caching is disabled. Keys come from a
// [Keyer] so that every component derives them the same way; wrap a keyer
// with [NewScopedKeyer] to isolate tenants sharing one backend.
//
// Backends report hits, misses and writes through
// [github.com/matzehuels/boxtree/pkg/observability] when wrapped with
// [Observe].
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/boxtree/pkg/observability"
)

// Default time-to-live values.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 30 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the value stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey identifies the computed layout of a document.
	LayoutKey(docHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered output of a computed layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs besides the document that change a layout.
type LayoutKeyOpts struct {
	Width    string `json:"width"`
	Height   string `json:"height"`
	Rounding bool   `json:"rounding"`
	Measure  string `json:"measure,omitempty"`
}

// ArtifactKeyOpts are the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// observed reports every operation of the wrapped cache to the cache hooks.
type observed struct {
	Cache
	namespace string
}

// Observe wraps c so that its hits, misses and writes reach
// observability.Cache() under the given namespace.
func Observe(c Cache, namespace string) Cache {
	return &observed{Cache: c, namespace: namespace}
}

func (o *observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := o.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, o.namespace)
		} else {
			observability.Cache().OnCacheMiss(ctx, o.namespace)
		}
	}
	return data, ok, err
}

func (o *observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := o.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, o.namespace, len(data))
	return nil
}

type fixedTTL struct {
	Cache
	ttl time.Duration
}

// WithTTL wraps c so that every Set uses ttl instead of the caller's value.
// A non-positive ttl returns c unchanged.
func WithTTL(c Cache, ttl time.Duration) Cache {
	if ttl <= 0 {
		return c
	}
	return &fixedTTL{Cache: c, ttl: ttl}
}

func (f *fixedTTL) Set(ctx context.Context, key string, data []byte, _ time.Duration) error {
	return f.Cache.Set(ctx, key, data, f.ttl)
}
