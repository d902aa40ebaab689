// Package session hosts one interactive interpreter session: a global
// environment, the reader that parses its input, and an optional journal of
// everything evaluated.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/ltrel/liasp/journal"
	"github.com/ltrel/liasp/lisp"
)

// Recorder persists evaluated inputs.  *journal.Journal is a Recorder.
type Recorder interface {
	Record(ctx context.Context, e journal.Entry) error
}

// Option configures a Session.
type Option func(s *Session) error

// WithLogger makes the session log to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) error {
		s.logger = logger
		return nil
	}
}

// WithJournal records every evaluated input to rec under session id.  An
// empty id keeps the session's generated id.
func WithJournal(rec Recorder, id string) Option {
	return func(s *Session) error {
		s.journal = rec
		if id != "" {
			s.id = id
		}
		return nil
	}
}

// WithMaxStackHeight limits the call stack of the session environment.  Zero
// removes the limit.
func WithMaxStackHeight(n int) Option {
	return func(s *Session) error {
		if n < 0 {
			return fmt.Errorf("negative maximum stack height: %d", n)
		}
		s.maxHeight = n
		return nil
	}
}

// Session is a global environment with serialized evaluation.  A Session is
// safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	id        string
	reader    lisp.Reader
	env       *lisp.Env
	journal   Recorder
	seq       int
	maxHeight int
	logger    *slog.Logger
}

// New returns a Session that parses input with reader.
func New(reader lisp.Reader, opts ...Option) (*Session, error) {
	if reader == nil {
		return nil, errors.New("session: nil reader")
	}
	s := &Session{
		id:        uuid.NewString(),
		reader:    reader,
		maxHeight: lisp.DefaultMaxStackHeight,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	env, err := s.newEnv()
	if err != nil {
		return nil, err
	}
	s.env = env
	s.logger = s.logger.With(slog.String("session", s.id))
	return s, nil
}

func (s *Session) newEnv() (*lisp.Env, error) {
	return lisp.NewGlobalEnv(
		lisp.WithReader(s.reader),
		lisp.WithMaximumStackHeight(s.maxHeight),
	)
}

// ID returns the session identifier used in the journal.
func (s *Session) ID() string {
	return s.id
}

// Env returns the current global environment.  Callers must not evaluate in
// it while the session is in use by other goroutines.
func (s *Session) Env() *lisp.Env {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.env
}

// Eval evaluates every expression in src in the global environment and
// returns their values.  Evaluation stops at the first error, in which case
// the values computed before it are returned with the error.
func (s *Session) Eval(ctx context.Context, src string) ([]lisp.LVal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eval(ctx, "", src, true)
}

// EvalSource is like Eval but reports error locations relative to name,
// typically a file path.
func (s *Session) EvalSource(ctx context.Context, name, src string) ([]lisp.LVal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eval(ctx, name, src, true)
}

func (s *Session) eval(ctx context.Context, name, src string, record bool) ([]lisp.LVal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.seq++
	if name == "" {
		name = fmt.Sprintf("input-%d", s.seq)
	}
	results, err := s.env.LoadString(name, src)
	if err != nil {
		s.logError(name, err)
	}
	if record && s.journal != nil {
		entry := journal.Entry{
			Session: s.id,
			Seq:     s.seq,
			Input:   src,
			Output:  FormatResults(results),
		}
		if err != nil {
			entry.Error = err.Error()
		}
		if jerr := s.journal.Record(ctx, entry); jerr != nil {
			s.logger.Warn("failed to record input", slog.Any("error", jerr))
		}
	}
	return results, err
}

func (s *Session) logError(name string, err error) {
	attrs := []any{
		slog.String("input", name),
		slog.String("errno", lisp.ErrnoOf(err).String()),
		slog.Any("error", err),
	}
	var lerr *lisp.Error
	if errors.As(err, &lerr) && lerr.Stack != nil {
		attrs = append(attrs, slog.Any("stack", lerr.Stack.Names()))
	}
	s.logger.Debug("evaluation failed", attrs...)
}

// Reset discards every definition by replacing the global environment.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	env, err := s.newEnv()
	if err != nil {
		return err
	}
	s.env = env
	s.logger.Info("session reset")
	return nil
}

// Replay re-evaluates the inputs of entries that succeeded when they were
// recorded.  Replayed inputs are not recorded again but later inputs continue
// the sequence of entries.
func (s *Session) Replay(ctx context.Context, entries []journal.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range entries {
		if e.Seq > s.seq {
			s.seq = e.Seq
		}
		if e.Failed() {
			continue
		}
		seq := s.seq
		_, err := s.eval(ctx, "", e.Input, false)
		s.seq = seq
		if err != nil {
			return fmt.Errorf("replay of entry %d failed: %w", e.Seq, err)
		}
		n++
	}
	s.logger.Info("session replayed", slog.Int("entries", n))
	return nil
}

// FormatResults returns the display text of vs, one value per line.
func FormatResults(vs []lisp.LVal) string {
	lines := make([]string, len(vs))
	for i, v := range vs {
		lines[i] = v.String()
	}
	return strings.Join(lines, "\n")
}
