package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtree/pkg/cache"
	"github.com/matzehuels/boxtree/pkg/document"
	"github.com/matzehuels/boxtree/pkg/render"
	"github.com/matzehuels/boxtree/pkg/render/boxes"
)

type svgOpts struct {
	docFlags
	output  string
	format  string
	scale   float64
	labels  bool
	noCache bool
}

// svgCommand creates the svg command, which draws every box of the
// computed layout.
func (c *CLI) svgCommand() *cobra.Command {
	opts := svgOpts{format: string(render.FormatSVG), scale: 2}

	cmd := &cobra.Command{
		Use:   "svg <doc>",
		Short: "Draw a document's computed boxes as SVG, PNG or PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch render.Format(opts.format) {
			case render.FormatSVG, render.FormatPNG, render.FormatPDF:
			default:
				return fmt.Errorf("unknown format %q: use svg, png or pdf", opts.format)
			}
			return c.runSVG(cmd.Context(), args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, png or pdf")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "print node names inside boxes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "skip the artifact cache")

	return cmd
}

func (c *CLI) runSVG(ctx context.Context, path string, opts svgOpts) error {
	b, err := c.build(ctx, path, opts.docFlags)
	if err != nil {
		return err
	}
	root, err := document.Export(b)
	if err != nil {
		return err
	}

	var layoutJSON bytes.Buffer
	if err := document.WriteJSON(&layoutJSON, root); err != nil {
		return err
	}

	kv, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer kv.Close()

	format := render.Format(opts.format)
	keyOpts := cache.ArtifactKeyOpts{Format: opts.format}
	if format == render.FormatPNG {
		keyOpts.Scale = opts.scale
	}
	if opts.labels {
		keyOpts.Format += "+labels"
	}
	key := cache.NewDefaultKeyer().ArtifactKey(cache.Hash(layoutJSON.Bytes()), keyOpts)

	data, hit, _ := kv.Get(ctx, key)
	if !hit {
		ropts := []boxes.Option{boxes.WithText(b.Text)}
		if opts.labels {
			ropts = append(ropts, boxes.WithLabels())
		}
		spin := newSpinner(ctx, os.Stderr, "Rendering...").start()
		data, err = render.Convert(ctx, boxes.RenderSVG(root, ropts...), format, opts.scale)
		spin.stop()
		if err != nil {
			return err
		}
		_ = kv.Set(ctx, key, data, cache.ArtifactTTL)
	}

	if err := c.writeOutput(opts.output, data); err != nil {
		return err
	}
	if opts.output != "" {
		c.printSuccess("Rendered %s", opts.format)
		nodes := 0
		root.Walk(func(*document.LayoutNode, int) { nodes++ })
		c.printStats(nodes, hit)
		c.printFile(opts.output)
	}
	return nil
}
