// Package repl implements an interactive read-eval-print loop over a
// session.Session.
package repl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ltrel/liasp/parser/rdparser"
	"github.com/ltrel/liasp/session"
)

// DefaultPrompt is used when Repl.Prompt is empty.  The default continuation
// prompt is a run of spaces as wide as the prompt.
const DefaultPrompt = "> "

// Repl reads expressions from Lines, evaluates them in Session and prints
// their values to Out.  Errors are printed to Err and never end the loop.
type Repl struct {
	Session    *session.Session
	Lines      LineReader
	Out        io.Writer
	Err        io.Writer
	Prompt     string
	ContPrompt string
	Logger     *slog.Logger
}

// Run loops until input ends, the user enters :quit or ctx is done.  Run
// returns nil when input ends or the user quits.
func (r *Repl) Run(ctx context.Context) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	prompt := r.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	contPrompt := r.ContPrompt
	if contPrompt == "" {
		contPrompt = strings.Repeat(" ", len(prompt))
	}

	var buf []string
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := prompt
		if len(buf) > 0 {
			p = contPrompt
		}
		line, err := r.Lines.ReadLine(p)
		if err == ErrInterrupt {
			buf = nil
			continue
		}
		if err == io.EOF {
			logger.Debug("input ended")
			return nil
		}
		if err != nil {
			return err
		}
		if len(buf) == 0 {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, ":") {
				quit, err := r.command(trimmed)
				if err != nil {
					fmt.Fprintf(r.Err, "Error: %v\n", err)
				}
				if quit {
					return nil
				}
				continue
			}
		}
		buf = append(buf, line)
		src := strings.Join(buf, "\n")
		if incomplete(src) {
			continue
		}
		buf = nil
		r.Lines.AddHistory(strings.ReplaceAll(src, "\n", " "))
		r.eval(ctx, src)
	}
}

func (r *Repl) eval(ctx context.Context, src string) {
	vs, err := r.Session.Eval(ctx, src)
	for _, v := range vs {
		fmt.Fprintln(r.Out, v)
	}
	if err != nil {
		fmt.Fprintf(r.Err, "Error: %v\n", err)
	}
}

func (r *Repl) command(cmd string) (quit bool, err error) {
	switch cmd {
	case ":quit", ":q":
		return true, nil
	case ":reset":
		return false, r.Session.Reset()
	case ":help":
		fmt.Fprintln(r.Out, ":quit   exit the repl")
		fmt.Fprintln(r.Out, ":reset  discard all definitions")
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %s (try :help)", cmd)
	}
}

// incomplete reports whether src ends inside an unclosed list.
func incomplete(src string) bool {
	_, err := rdparser.NewReader().Read("input", strings.NewReader(src))
	return rdparser.IsIncomplete(err)
}
