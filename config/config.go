// Package config loads interpreter settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ltrel/liasp/lisp"
)

// Editors and parsers accepted in a Config.
const (
	EditorReadline = "readline"
	EditorLiner    = "liner"
	ParserRD       = "rd"
	ParserParsec   = "parsec"
)

// Config holds every setting of the liasp command.  The zero Config is not
// valid; start from Default.
type Config struct {
	Prompt         string  `toml:"prompt"`
	ContinuePrompt string  `toml:"continue_prompt"`
	Editor         string  `toml:"editor"`
	HistoryFile    string  `toml:"history_file"`
	Parser         string  `toml:"parser"`
	MaxStackHeight int     `toml:"max_stack_height"`
	Log            Log     `toml:"log"`
	Journal        Journal `toml:"journal"`
}

type Log struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type Journal struct {
	Enabled bool   `toml:"enabled"`
	Driver  string `toml:"driver"`
	DSN     string `toml:"dsn"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Prompt:         "> ",
		ContinuePrompt: "  ",
		Editor:         EditorReadline,
		HistoryFile:    defaultHistoryFile(),
		Parser:         ParserRD,
		MaxStackHeight: lisp.DefaultMaxStackHeight,
		Log: Log{
			Level: "none",
		},
		Journal: Journal{
			Driver: "sqlite3",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/liasp/config.toml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "liasp", "config.toml")
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".liasp_history")
}

// Load reads the file at path over Default.  When path is empty DefaultPath
// is used and a missing file is not an error.
func Load(path string) (*Config, error) {
	c := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return c, nil
		}
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	err = c.Validate()
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Validate returns an error describing the first invalid setting in c.
func (c *Config) Validate() error {
	switch c.Editor {
	case EditorReadline, EditorLiner:
	default:
		return fmt.Errorf("invalid editor %q (want %s or %s)", c.Editor, EditorReadline, EditorLiner)
	}
	switch c.Parser {
	case ParserRD, ParserParsec:
	default:
		return fmt.Errorf("invalid parser %q (want %s or %s)", c.Parser, ParserRD, ParserParsec)
	}
	if c.MaxStackHeight < 0 {
		return fmt.Errorf("invalid max_stack_height %d", c.MaxStackHeight)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error", "none":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if c.Journal.Enabled {
		switch c.Journal.Driver {
		case "sqlite3", "mysql", "postgres":
		default:
			return fmt.Errorf("invalid journal driver %q", c.Journal.Driver)
		}
		if c.Journal.DSN == "" {
			return fmt.Errorf("journal enabled without a dsn")
		}
	}
	return nil
}
