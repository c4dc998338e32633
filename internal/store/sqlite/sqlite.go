package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go-jobscout-automation/internal/store"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS scraped_records (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	table_name TEXT NOT NULL,
	fields     TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE TABLE IF NOT EXISTS script_runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	fields     TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);`

// DB is a local mirror of everything sent to the record store.
type DB struct {
	Pool *sql.DB
}

func Open(ctx context.Context, path string) (*DB, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(1)
	pool.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		return nil, err
	}
	if _, err := pool.ExecContext(ctx, schemaSQL); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (d *DB) Close() error {
	if d == nil || d.Pool == nil {
		return nil
	}
	return d.Pool.Close()
}

func (d *DB) CreateRecords(ctx context.Context, table string, records []store.Record) error {
	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO scraped_records (table_name, fields) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite prepare: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		fields, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("sqlite encode: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, table, string(fields)); err != nil {
			return fmt.Errorf("sqlite insert: %w", err)
		}
	}
	return tx.Commit()
}

func (d *DB) CreateRunRecord(ctx context.Context, record store.Record) error {
	fields, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("sqlite encode: %w", err)
	}
	if _, err := d.Pool.ExecContext(ctx, `INSERT INTO script_runs (fields) VALUES (?)`, string(fields)); err != nil {
		return fmt.Errorf("sqlite insert run: %w", err)
	}
	return nil
}

// Records decodes the stored rows of table in insertion order.
func (d *DB) Records(ctx context.Context, table string) ([]store.Record, error) {
	rows, err := d.Pool.QueryContext(ctx, `SELECT fields FROM scraped_records WHERE table_name = ? ORDER BY id`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Record
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var rec store.Record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("sqlite decode: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (d *DB) RunCount(ctx context.Context) (int, error) {
	var n int
	err := d.Pool.QueryRowContext(ctx, `SELECT count(*) FROM script_runs`).Scan(&n)
	return n, err
}
