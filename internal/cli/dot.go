package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtree/pkg/document"
	"github.com/matzehuels/boxtree/pkg/render/nodelink"
)

type dotOpts struct {
	docFlags
	output   string
	svg      bool
	detailed bool
}

// dotCommand creates the dot command, which draws the node hierarchy as a
// Graphviz graph.
func (c *CLI) dotCommand() *cobra.Command {
	var opts dotOpts

	cmd := &cobra.Command{
		Use:   "dot <doc>",
		Short: "Write a document's node hierarchy as Graphviz DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDot(cmd.Context(), args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.svg, "svg", false, "render the graph to SVG with Graphviz")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include positions and sizes in labels")

	return cmd
}

func (c *CLI) runDot(ctx context.Context, path string, opts dotOpts) error {
	b, err := c.build(ctx, path, opts.docFlags)
	if err != nil {
		return err
	}
	root, err := document.Export(b)
	if err != nil {
		return err
	}

	dot := nodelink.ToDOT(root, nodelink.Options{Detailed: opts.detailed})
	data := []byte(dot)
	if opts.svg {
		if data, err = nodelink.RenderSVG(ctx, dot); err != nil {
			return err
		}
	}
	if err := c.writeOutput(opts.output, data); err != nil {
		return err
	}
	if opts.output != "" {
		c.printSuccess("Graph written")
		c.printFile(opts.output)
	}
	return nil
}
