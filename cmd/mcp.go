package cmd

import (
	"context"

	"github.com/ltrel/liasp/mcpserver"
	"github.com/spf13/cobra"
)

func newMCPCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve an interpreter session over the Model Context Protocol",
		Long: `Serve a single interpreter session to an MCP client on standard input
and output.  The tools liasp_eval and liasp_reset are provided.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			j, err := a.openJournal(ctx)
			if err != nil {
				return err
			}
			if j != nil {
				defer j.Close()
			}
			sess, err := a.newSession(j, "")
			if err != nil {
				return err
			}
			return mcpserver.New(sess, Version, a.logger).ServeStdio()
		},
	}
}
