// Package cmd implements the liasp command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ltrel/liasp/config"
	"github.com/ltrel/liasp/journal"
	"github.com/ltrel/liasp/lisp"
	"github.com/ltrel/liasp/parser"
	"github.com/ltrel/liasp/parser/rdparser"
	"github.com/ltrel/liasp/repl"
	"github.com/ltrel/liasp/session"
	"github.com/spf13/cobra"
)

// app holds the state shared by every command of one invocation.
type app struct {
	cfgFile        string
	logLevel       string
	logFile        string
	parser         string
	maxStackHeight int

	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
}

// Execute runs the command line and exits the process on failure.
func Execute() {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// NewRootCommand returns the liasp command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	var resume string
	rootCmd := &cobra.Command{
		Use:   "liasp",
		Short: "A small lisp interpreter",
		Long: `liasp evaluates a small lisp with numbers, booleans, lists, closures and
the special forms def, lambda and if.  Without arguments it starts an
interactive repl.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRepl(cmd, resume)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "",
		"Configuration file (default $XDG_CONFIG_HOME/liasp/config.toml)")
	flags.StringVar(&a.logLevel, "log-level", "",
		"Log level: debug, info, warn, error or none")
	flags.StringVar(&a.logFile, "log-file", "",
		"Write logs to a file instead of stderr")
	flags.StringVar(&a.parser, "parser", "",
		"Reader used to parse source: rd or parsec")
	flags.IntVar(&a.maxStackHeight, "max-stack-height", lisp.DefaultMaxStackHeight,
		"Maximum call depth, 0 for unlimited (overrides max_stack_height in the config file)")
	rootCmd.Flags().StringVar(&resume, "resume", "",
		"Replay a journaled session before prompting")

	rootCmd.AddCommand(
		newRunCommand(a),
		newMCPCommand(a),
		newJournalCommand(a),
		newVersionCommand(),
	)
	return rootCmd
}

// setup loads the configuration, applies flag overrides and installs the
// default logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = a.logFile
	}
	if flags.Changed("parser") {
		cfg.Parser = a.parser
	}
	if flags.Changed("max-stack-height") {
		cfg.MaxStackHeight = a.maxStackHeight
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	level := strings.ToLower(cfg.Log.Level)
	if level == "none" {
		a.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	} else {
		w := a.configureLogWriter(cmd.ErrOrStderr())
		a.logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: logLevelFromString(level),
		}))
	}
	slog.SetDefault(a.logger)
	a.logger.Debug("configuration loaded",
		slog.String("parser", cfg.Parser),
		slog.String("editor", cfg.Editor),
		slog.Int("max_stack_height", cfg.MaxStackHeight),
		slog.Bool("journal", cfg.Journal.Enabled))
	return nil
}

func (a *app) teardown() error {
	if a.logCloser != nil {
		err := a.logCloser.Close()
		a.logCloser = nil
		return err
	}
	return nil
}

// configureLogWriter opens the configured log file, falling back to stderr
// when it cannot be opened.
func (a *app) configureLogWriter(stderr io.Writer) io.Writer {
	path := a.cfg.Log.File
	if path == "" {
		return stderr
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(stderr, "failed to create log directory: %v\n", err)
		return stderr
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(stderr, "failed to open log file: %v\n", err)
		return stderr
	}
	a.logCloser = f
	return f
}

func logLevelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func (a *app) reader() lisp.Reader {
	if a.cfg.Parser == config.ParserParsec {
		return parser.NewReader()
	}
	return rdparser.NewReader()
}

// openJournal returns nil when the journal is disabled.
func (a *app) openJournal(ctx context.Context) (*journal.Journal, error) {
	if !a.cfg.Journal.Enabled {
		return nil, nil
	}
	return journal.Open(ctx, a.cfg.Journal.Driver, a.cfg.Journal.DSN, a.logger)
}

func (a *app) requireJournal(ctx context.Context) (*journal.Journal, error) {
	j, err := a.openJournal(ctx)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, errors.New("the journal is not enabled in the configuration")
	}
	return j, nil
}

// newSession returns a session recording to j, which may be nil, under id.
func (a *app) newSession(j *journal.Journal, id string) (*session.Session, error) {
	opts := []session.Option{
		session.WithLogger(a.logger),
		session.WithMaxStackHeight(a.cfg.MaxStackHeight),
	}
	if j != nil {
		opts = append(opts, session.WithJournal(j, id))
	}
	return session.New(a.reader(), opts...)
}

func (a *app) runRepl(cmd *cobra.Command, resume string) error {
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
	} else if resume != "" {
		return errors.New("--resume requires the journal to be enabled")
	}
	sess, err := a.newSession(j, resume)
	if err != nil {
		return err
	}
	if resume != "" {
		entries, err := j.Entries(ctx, resume)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("no journaled session %s", resume)
		}
		if err := sess.Replay(ctx, entries); err != nil {
			return err
		}
	}

	var lines repl.LineReader
	switch a.cfg.Editor {
	case config.EditorLiner:
		lines, err = repl.NewLiner(a.cfg.HistoryFile)
	default:
		lines, err = repl.NewReadline(a.cfg.HistoryFile)
	}
	if err != nil {
		return err
	}
	defer lines.Close()

	a.logger.Info("repl started", slog.String("session", sess.ID()))
	r := &repl.Repl{
		Session:    sess,
		Lines:      lines,
		Out:        cmd.OutOrStdout(),
		Err:        cmd.ErrOrStderr(),
		Prompt:     a.cfg.Prompt,
		ContPrompt: a.cfg.ContinuePrompt,
		Logger:     a.logger,
	}
	return r.Run(ctx)
}
