package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-jobscout-automation/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS scraped_records (
	id         BIGSERIAL PRIMARY KEY,
	table_name TEXT NOT NULL,
	fields     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS script_runs (
	id         BIGSERIAL PRIMARY KEY,
	fields     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Repository mirrors posting and run records into Postgres as JSONB rows.
type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// PgBouncer in transaction mode cannot hold prepared statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// CreateRecords inserts one batch in a single transaction, so a batch is
// either fully stored or not at all.
func (r *Repository) CreateRecords(ctx context.Context, table string, records []store.Record) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin batch: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	batch := &pgx.Batch{}
	for _, rec := range records {
		fields, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		batch.Queue(`INSERT INTO scraped_records (table_name, fields) VALUES ($1, $2::jsonb)`, table, string(fields))
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert records: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

func (r *Repository) CreateRunRecord(ctx context.Context, record store.Record) error {
	fields, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode run record: %w", err)
	}
	if _, err := r.db.Exec(ctx, `INSERT INTO script_runs (fields) VALUES ($1::jsonb)`, string(fields)); err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}
	return nil
}

// CountRecords returns how many rows were mirrored for table.
func (r *Repository) CountRecords(ctx context.Context, table string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM scraped_records WHERE table_name = $1`, table).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}
