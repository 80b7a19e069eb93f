package pricecache

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the cache document in a single-row SQLite table.
type SQLiteStore struct {
	db  *sql.DB
	dsn string
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, dsn: dsn}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS price_cache (
	id       INTEGER PRIMARY KEY CHECK (id = 1),
	document TEXT NOT NULL,
	saved_at DATETIME NOT NULL
);
`

// Migrate creates the cache table.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Name() string { return "sqlite:" + s.dsn }

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Read(ctx context.Context) ([]byte, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM price_cache WHERE id = 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: read cache")
	}
	return []byte(doc), nil
}

func (s *SQLiteStore) Write(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO price_cache (id, document, saved_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET document = excluded.document, saved_at = excluded.saved_at`,
		string(data), time.Now().UTC(),
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: write cache")
	}
	return nil
}

func (s *SQLiteStore) Remove(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM price_cache WHERE id = 1`); err != nil {
		return eris.Wrap(err, "sqlite: remove cache")
	}
	return nil
}
