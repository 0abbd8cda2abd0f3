package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDumpCmd(o *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the node tree of a file in compact form",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			n, err := o.parseNode(args[0])
			if err != nil {
				o.printer(o.Err).diagnostic(args[0], err)
				return ErrFailed
			}
			fmt.Fprintln(o.Out, n.ContentToString())
			return nil
		},
	}
}
