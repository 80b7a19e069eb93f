package pricecache

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool used by PostgresStore.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore keeps the cache document in a single-row Postgres table.
type PostgresStore struct {
	pool Pool
}

// NewPostgres connects to Postgres and verifies the connection.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS price_cache (
	id       SMALLINT PRIMARY KEY CHECK (id = 1),
	document JSONB NOT NULL,
	saved_at TIMESTAMPTZ NOT NULL
)`

// Migrate creates the cache table.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (p *PostgresStore) Name() string { return "postgres" }

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

func (p *PostgresStore) Read(ctx context.Context) ([]byte, error) {
	var doc []byte
	err := p.pool.QueryRow(ctx, `SELECT document FROM price_cache WHERE id = 1`).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: read cache")
	}
	return doc, nil
}

func (p *PostgresStore) Write(ctx context.Context, data []byte) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO price_cache (id, document, saved_at) VALUES (1, $1, $2)
		 ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, saved_at = EXCLUDED.saved_at`,
		string(data), time.Now().UTC(),
	)
	if err != nil {
		return eris.Wrap(err, "postgres: write cache")
	}
	return nil
}

func (p *PostgresStore) Remove(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM price_cache WHERE id = 1`); err != nil {
		return eris.Wrap(err, "postgres: remove cache")
	}
	return nil
}
