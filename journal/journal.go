// Package journal records the inputs evaluated by interpreter sessions in a
// SQL database so that sessions can be inspected and resumed later.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Entry is one evaluated input.
type Entry struct {
	Session string
	Seq     int
	Input   string
	// Output holds the display text of each result, one per line.
	Output string
	// Error holds the error text when evaluation failed.
	Error     string
	CreatedAt time.Time
}

// Failed returns true if the input produced an error.
func (e Entry) Failed() bool {
	return e.Error != ""
}

// Summary describes one journaled session.
type Summary struct {
	Session string
	Entries int
	Started time.Time
	Updated time.Time
}

type dialect struct {
	create []string
	// positional reports whether placeholders are numbered ($1) rather
	// than anonymous (?).
	positional bool
}

var dialects = map[string]dialect{
	"sqlite3": {
		create: []string{
			`CREATE TABLE IF NOT EXISTS liasp_journal (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				session TEXT NOT NULL,
				seq INTEGER NOT NULL,
				input TEXT NOT NULL,
				output TEXT NOT NULL,
				error TEXT NOT NULL,
				created_at INTEGER NOT NULL,
				UNIQUE (session, seq)
			)`,
		},
	},
	"mysql": {
		create: []string{
			`CREATE TABLE IF NOT EXISTS liasp_journal (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				session VARCHAR(64) NOT NULL,
				seq INT NOT NULL,
				input TEXT NOT NULL,
				output TEXT NOT NULL,
				error TEXT NOT NULL,
				created_at BIGINT NOT NULL,
				UNIQUE KEY session_seq (session, seq)
			)`,
		},
	},
	"postgres": {
		create: []string{
			`CREATE TABLE IF NOT EXISTS liasp_journal (
				id BIGSERIAL PRIMARY KEY,
				session TEXT NOT NULL,
				seq INTEGER NOT NULL,
				input TEXT NOT NULL,
				output TEXT NOT NULL,
				error TEXT NOT NULL,
				created_at BIGINT NOT NULL,
				UNIQUE (session, seq)
			)`,
		},
		positional: true,
	},
}

// Drivers returns the names of the supported database drivers.
func Drivers() []string {
	return []string{"mysql", "postgres", "sqlite3"}
}

// Journal is a handle to the journal table of one database.  A Journal is
// safe for concurrent use.
type Journal struct {
	db      *sql.DB
	dialect dialect
	logger  *slog.Logger
}

// Open connects to the database identified by driver and dsn and creates the
// journal table if it does not exist.
func Open(ctx context.Context, driver, dsn string, logger *slog.Logger) (*Journal, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("journal: unsupported driver %q", driver)
	}
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("journal: failed to open connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: failed to ping database: %w", err)
	}
	for _, stmt := range d.create {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("journal: failed to create table: %w", err)
		}
	}
	logger.Debug("journal opened", slog.String("driver", driver))
	return &Journal{db: db, dialect: d, logger: logger}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// query rewrites the anonymous placeholders in q for the journal's dialect.
func (j *Journal) query(q string) string {
	if !j.dialect.positional {
		return q
	}
	var b strings.Builder
	n := 0
	for _, c := range q {
		if c == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Record appends e to the journal.  A zero CreatedAt is replaced with the
// current time.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := j.db.ExecContext(ctx,
		j.query(`INSERT INTO liasp_journal (session, seq, input, output, error, created_at) VALUES (?, ?, ?, ?, ?, ?)`),
		e.Session, e.Seq, e.Input, e.Output, e.Error, e.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("journal: record %s/%d: %w", e.Session, e.Seq, err)
	}
	j.logger.Debug("journal entry recorded",
		slog.String("session", e.Session),
		slog.Int("seq", e.Seq))
	return nil
}

// Entries returns the entries of session in sequence order.
func (j *Journal) Entries(ctx context.Context, session string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		j.query(`SELECT session, seq, input, output, error, created_at FROM liasp_journal WHERE session = ? ORDER BY seq`),
		session)
	if err != nil {
		return nil, fmt.Errorf("journal: query failed: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		err := rows.Scan(&e.Session, &e.Seq, &e.Input, &e.Output, &e.Error, &created)
		if err != nil {
			return nil, fmt.Errorf("journal: scan failed: %w", err)
		}
		e.CreatedAt = time.Unix(0, created)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: query failed: %w", err)
	}
	return entries, nil
}

// Sessions summarizes every journaled session, most recently updated first.
func (j *Journal) Sessions(ctx context.Context) ([]Summary, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT session, COUNT(*), MIN(created_at), MAX(created_at) FROM liasp_journal GROUP BY session ORDER BY MAX(created_at) DESC, session`)
	if err != nil {
		return nil, fmt.Errorf("journal: query failed: %w", err)
	}
	defer rows.Close()

	var sessions []Summary
	for rows.Next() {
		var s Summary
		var started, updated int64
		if err := rows.Scan(&s.Session, &s.Entries, &started, &updated); err != nil {
			return nil, fmt.Errorf("journal: scan failed: %w", err)
		}
		s.Started = time.Unix(0, started)
		s.Updated = time.Unix(0, updated)
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: query failed: %w", err)
	}
	return sessions, nil
}
