package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a handle without touching the server; call EnsureSchema to
// verify connectivity and create the collections.
func Open(driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:student_submissions.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/student_submissions?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
	h, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// sqlite has a single writer
		h.SetMaxOpenConns(1)
	}
	return h, nil
}

// EnsureSchema pings the database and creates the tables if missing.
func EnsureSchema(ctx context.Context, h *sql.DB) error {
	if err := h.PingContext(ctx); err != nil {
		return err
	}
	_, err := h.ExecContext(ctx, schema)
	return err
}

// Each collection keeps the JSON document next to the columns used to
// address it. created_at is unix nanoseconds and gives listings their order.
const schema = `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  user_name TEXT NOT NULL UNIQUE,
  doc TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS exams (
  id TEXT PRIMARY KEY,
  exam_name TEXT NOT NULL UNIQUE,
  doc TEXT NOT NULL,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  doc TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`
