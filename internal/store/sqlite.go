package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const DefaultSQLitePath = "career-navigator.db"

// SQLite stores each document as a JSON body in a single table.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = DefaultSQLitePath
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("sqlite store: mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: init schema: %w", err)
	}

	return &SQLite{db: db, now: time.Now}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS documents (
		user_id    TEXT PRIMARY KEY,
		body       TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	return err
}

func (s *SQLite) Load(ctx context.Context, userID string) (*Document, error) {
	if err := validUserID(userID); err != nil {
		return nil, err
	}
	return loadRow(ctx, s.db, userID)
}

func (s *SQLite) Merge(ctx context.Context, userID string, patch Patch) (*Document, error) {
	if err := validUserID(userID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	doc, err := loadRow(ctx, tx, userID)
	if errors.Is(err, ErrNotFound) {
		doc = &Document{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	patch.Apply(doc, s.now())

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: encode document: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (user_id, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		userID, string(body), doc.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: upsert %s: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite store: commit: %w", err)
	}

	return doc, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func loadRow(ctx context.Context, q queryer, userID string) (*Document, error) {
	var body string
	err := q.QueryRowContext(ctx, `SELECT body FROM documents WHERE user_id = ?`, userID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite store: load %s: %w", userID, err)
	}

	var doc Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("sqlite store: decode %s: %w", userID, err)
	}
	return &doc, nil
}
