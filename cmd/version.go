package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the liasp release, overridden at link time with
// -ldflags "-X github.com/ltrel/liasp/cmd.Version=...".
var Version = "0.1.0-dev"

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the liasp version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "liasp", Version)
			return nil
		},
	}
}
