package document

import (
	"bytes"
	"context"

	"github.com/matzehuels/boxtree/pkg/cache"
)

// Options override the available space and rounding of a document.
type Options struct {
	Width   string
	Height  string
	NoRound bool
}

// Apply writes the overrides into doc.
func (o Options) Apply(doc *Document) {
	if o.Width != "" {
		doc.Width = o.Width
	}
	if o.Height != "" {
		doc.Height = o.Height
	}
	if o.NoRound {
		off := false
		doc.Rounding = &off
	}
}

// Compute builds doc, lays it out and exports the result.
func Compute(ctx context.Context, doc *Document, opts Options) (*LayoutNode, error) {
	opts.Apply(doc)
	b, err := Build(doc, nil)
	if err != nil {
		return nil, err
	}
	if err := b.Compute(ctx, nil); err != nil {
		return nil, err
	}
	return Export(b)
}

// ComputeCached is Compute with results stored in c under a key derived
// from the raw document bytes and opts. hit reports whether the result came
// from the cache.
func ComputeCached(ctx context.Context, c cache.Cache, k cache.Keyer, raw []byte, doc *Document, opts Options) (out *LayoutNode, hit bool, err error) {
	opts.Apply(doc)
	key := k.LayoutKey(cache.Hash(raw), cache.LayoutKeyOpts{
		Width:    doc.Width,
		Height:   doc.Height,
		Rounding: doc.Rounding == nil || *doc.Rounding,
		Measure:  "basicfont-7x13",
	})

	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		if out, err := ReadJSON(bytes.NewReader(data)); err == nil {
			return out, true, nil
		}
	}

	out, err = Compute(ctx, doc, Options{})
	if err != nil {
		return nil, false, err
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, out); err == nil {
		_ = c.Set(ctx, key, buf.Bytes(), cache.LayoutTTL)
	}
	return out, false, nil
}
