// ABOUTME: SQLite-backed ledger of generation runs: one row per written deck plus its slide index.
// ABOUTME: Provides record, get, and list queries keyed by the run's ULID build ID.
package history

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/2389-research/deckforge/deck"
	"github.com/2389-research/deckforge/pptx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
)

// ErrNotFound is returned by Get for an unknown build ID.
var ErrNotFound = errors.New("build not found")

const timeLayout = "2006-01-02T15:04:05Z07:00"

// Build is one recorded generation run.
type Build struct {
	BuildID   ulid.ULID
	DeckID    string
	Title     string
	Output    string
	Slides    int
	Notes     int
	Digest    string // hex SHA-256 of the artifact bytes
	CreatedAt time.Time
	Index     []SlideRow
}

// SlideRow is one slide of a recorded build.
type SlideRow struct {
	Number   int
	Kind     string
	Title    string
	HasNotes bool
}

// NewBuild summarizes a presentation and its encoded bytes into a Build.
func NewBuild(id ulid.ULID, p *deck.Presentation, output string, data []byte, at time.Time) Build {
	sum := sha256.Sum256(data)
	b := Build{
		BuildID:   id,
		DeckID:    pptx.DeckID(p.Title).String(),
		Title:     p.Title,
		Output:    output,
		Slides:    p.Len(),
		Digest:    hex.EncodeToString(sum[:]),
		CreatedAt: at.UTC(),
	}
	for i, s := range p.Slides() {
		if s.HasNotes() {
			b.Notes++
		}
		b.Index = append(b.Index, SlideRow{
			Number:   i + 1,
			Kind:     s.Kind().String(),
			Title:    s.TitleText(),
			HasNotes: s.HasNotes(),
		})
	}
	return b
}

// SqliteLedger stores builds in a SQLite database.
type SqliteLedger struct {
	db *sql.DB
}

// OpenSqlite opens or creates a ledger database at the given path and
// ensures the schema exists.
func OpenSqlite(path string) (*SqliteLedger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS builds (
			build_id TEXT PRIMARY KEY,
			deck_id TEXT NOT NULL,
			title TEXT NOT NULL,
			output TEXT NOT NULL,
			slides INTEGER NOT NULL,
			notes INTEGER NOT NULL,
			digest TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS build_slides (
			build_id TEXT NOT NULL,
			number INTEGER NOT NULL,
			kind TEXT NOT NULL,
			title TEXT NOT NULL,
			has_notes INTEGER NOT NULL,
			PRIMARY KEY (build_id, number),
			FOREIGN KEY (build_id) REFERENCES builds(build_id) ON DELETE CASCADE
		);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SqliteLedger{db: db}, nil
}

// Close closes the database connection.
func (l *SqliteLedger) Close() error {
	return l.db.Close()
}

// Record inserts a build and its slide index in one transaction.
// Recording the same build ID twice is an error.
func (l *SqliteLedger) Record(b Build) (err error) {
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.Exec(
		`INSERT INTO builds (build_id, deck_id, title, output, slides, notes, digest, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.BuildID.String(), b.DeckID, b.Title, b.Output, b.Slides, b.Notes, b.Digest,
		b.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	for _, s := range b.Index {
		_, err = tx.Exec(
			`INSERT INTO build_slides (build_id, number, kind, title, has_notes) VALUES (?, ?, ?, ?, ?)`,
			b.BuildID.String(), s.Number, s.Kind, s.Title, s.HasNotes,
		)
		if err != nil {
			return fmt.Errorf("insert slide %d: %w", s.Number, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// List returns up to limit builds, newest first, without their slide index.
// A limit of zero or less returns every build.
func (l *SqliteLedger) List(limit int) ([]Build, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := l.db.Query(
		`SELECT build_id, deck_id, title, output, slides, notes, digest, created_at
		 FROM builds ORDER BY created_at DESC, build_id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var builds []Build
	for rows.Next() {
		b, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		builds = append(builds, b)
	}
	return builds, rows.Err()
}

// Get returns one build with its slide index.
func (l *SqliteLedger) Get(id ulid.ULID) (Build, error) {
	row := l.db.QueryRow(
		`SELECT build_id, deck_id, title, output, slides, notes, digest, created_at
		 FROM builds WHERE build_id = ?`, id.String(),
	)
	b, err := scanBuild(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Build{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Build{}, err
	}

	rows, err := l.db.Query(
		`SELECT number, kind, title, has_notes FROM build_slides WHERE build_id = ? ORDER BY number`,
		id.String(),
	)
	if err != nil {
		return Build{}, fmt.Errorf("list slides: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var s SlideRow
		if err := rows.Scan(&s.Number, &s.Kind, &s.Title, &s.HasNotes); err != nil {
			return Build{}, fmt.Errorf("scan slide: %w", err)
		}
		b.Index = append(b.Index, s)
	}
	return b, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBuild(s scanner) (Build, error) {
	var (
		b      Build
		id, at string
	)
	if err := s.Scan(&id, &b.DeckID, &b.Title, &b.Output, &b.Slides, &b.Notes, &b.Digest, &at); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Build{}, err
		}
		return Build{}, fmt.Errorf("scan build: %w", err)
	}
	parsed, err := ulid.Parse(id)
	if err != nil {
		return Build{}, fmt.Errorf("parse build id %q: %w", id, err)
	}
	b.BuildID = parsed
	b.CreatedAt, err = time.Parse(timeLayout, at)
	if err != nil {
		return Build{}, fmt.Errorf("parse created_at %q: %w", at, err)
	}
	return b, nil
}
