package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newRunCommand(a *app) *cobra.Command {
	var (
		runExpression bool
		runPrint      bool
	)
	runCmd := &cobra.Command{
		Use:   "run [flags] FILE...",
		Short: "Run lisp code",
		Long: `Run lisp code supplied via the command line or a file.  Evaluation
stops at the first error.  A FILE of - reads standard input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			sources, err := runReadSources(args, runExpression, cmd.InOrStdin())
			if err != nil {
				return err
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
			out := cmd.OutOrStdout()
			for _, src := range sources {
				vs, err := sess.EvalSource(ctx, src.name, src.text)
				if runPrint {
					for _, v := range vs {
						fmt.Fprintln(out, v)
					}
				}
				if err != nil {
					return err
				}
			}
			return nil
		},
	}

	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
	return runCmd
}

type runSource struct {
	name string
	text string
}

func runReadSources(args []string, expressions bool, stdin io.Reader) ([]runSource, error) {
	sources := make([]runSource, len(args))
	for i, arg := range args {
		if expressions {
			sources[i] = runSource{name: fmt.Sprintf("arg%d", i+1), text: arg}
			continue
		}
		var b []byte
		var err error
		if arg == "-" {
			b, err = io.ReadAll(stdin)
		} else {
			b, err = os.ReadFile(arg)
		}
		if err != nil {
			return nil, err
		}
		sources[i] = runSource{name: arg, text: string(b)}
	}
	return sources, nil
}
