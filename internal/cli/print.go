package cli

import (
	"github.com/spf13/cobra"
)

// printCommand creates the print command, which shows the computed tree
// as indented text.
func (c *CLI) printCommand() *cobra.Command {
	var flags docFlags

	cmd := &cobra.Command{
		Use:   "print <doc>",
		Short: "Print a document's computed layout tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.build(cmd.Context(), args[0], flags)
			if err != nil {
				return err
			}
			return b.Tree.FprintTree(c.out, b.Root)
		},
	}

	flags.register(cmd)
	return cmd
}
