package repl

import (
	"errors"
	"io"
	"os"

	"github.com/chzyer/readline"
	"github.com/peterh/liner"
)

// ErrInterrupt is returned by a LineReader when the user interrupts the line
// being edited.
var ErrInterrupt = errors.New("interrupt")

// LineReader reads lines of input from a terminal.
type LineReader interface {
	// ReadLine displays prompt and returns the line entered.  ReadLine
	// returns ErrInterrupt if the user presses Ctrl-C and io.EOF when input
	// has ended.
	ReadLine(prompt string) (string, error)
	// AddHistory appends an entered expression to the line history.
	AddHistory(line string)
	Close() error
}

type readlineEditor struct {
	rl *readline.Instance
}

// NewReadline returns a LineReader backed by github.com/chzyer/readline.  If
// historyFile is not empty it is loaded and updated as lines are entered.
func NewReadline(historyFile string) (LineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		HistoryFile:            historyFile,
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		return nil, err
	}
	return &readlineEditor{rl: rl}, nil
}

func (e *readlineEditor) ReadLine(prompt string) (string, error) {
	e.rl.SetPrompt(prompt)
	line, err := e.rl.Readline()
	if err == readline.ErrInterrupt {
		return "", ErrInterrupt
	}
	return line, err
}

func (e *readlineEditor) AddHistory(line string) {
	e.rl.SaveHistory(line)
}

func (e *readlineEditor) Close() error {
	return e.rl.Close()
}

type linerEditor struct {
	ln          *liner.State
	historyFile string
}

// NewLiner returns a LineReader backed by github.com/peterh/liner.  If
// historyFile is not empty it is read now and written when the LineReader is
// closed.
func NewLiner(historyFile string) (LineReader, error) {
	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
	}
	return &linerEditor{ln: ln, historyFile: historyFile}, nil
}

func (e *linerEditor) ReadLine(prompt string) (string, error) {
	line, err := e.ln.Prompt(prompt)
	switch {
	case err == liner.ErrPromptAborted:
		return "", ErrInterrupt
	case errors.Is(err, io.EOF):
		return "", io.EOF
	}
	return line, err
}

func (e *linerEditor) AddHistory(line string) {
	e.ln.AppendHistory(line)
}

func (e *linerEditor) Close() error {
	if e.historyFile != "" {
		if f, err := os.Create(e.historyFile); err == nil {
			e.ln.WriteHistory(f)
			f.Close()
		}
	}
	return e.ln.Close()
}
