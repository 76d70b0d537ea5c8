package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/boxtree/pkg/server"
)

// serveCommand creates the serve command, which hosts layout trees over
// HTTP until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.config.Listen
			}
			if addr == "" {
				addr = defaultListen
			}

			kv, err := c.newCache(ctx, noCache)
			if err != nil {
				return err
			}
			defer kv.Close()

			c.Logger.Info("Listening", "addr", addr)
			return server.New(server.Config{Logger: c.Logger, Cache: kv}).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default "+defaultListen+")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")

	return cmd
}
