package cli

import (
	"bytes"
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtree/pkg/cache"
	"github.com/matzehuels/boxtree/pkg/document"
)

type layoutOpts struct {
	docFlags
	output  string
	noCache bool
}

// layoutCommand creates the layout command, which writes the computed
// layout of a document as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOpts

	cmd := &cobra.Command{
		Use:   "layout <doc>",
		Short: "Compute a document's layout and write it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "skip the layout cache")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, path string, opts layoutOpts) error {
	doc, raw, err := document.Load(path)
	if err != nil {
		return err
	}

	kv, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer kv.Close()

	spin := newSpinner(ctx, os.Stderr, "Computing layout...").start()
	p := newProgress(c.Logger)
	out, hit, err := document.ComputeCached(ctx, kv, cache.NewDefaultKeyer(), raw, doc, c.options(doc, opts.docFlags))
	spin.stop()
	if err != nil {
		return err
	}
	p.done("Computed layout", "path", path, "cached", hit)

	var buf bytes.Buffer
	if err := document.WriteJSON(&buf, out); err != nil {
		return err
	}
	if err := c.writeOutput(opts.output, buf.Bytes()); err != nil {
		return err
	}
	if opts.output != "" {
		c.printSuccess("Layout computed")
		c.printStats(doc.Count(), hit)
		c.printFile(opts.output)
		c.printNextStep("Draw it", "boxtree svg "+path)
	}
	return nil
}

// writeOutput writes data to path, or to the command output when path is
// empty or "-".
func (c *CLI) writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := c.out.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
