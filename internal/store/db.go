package store

import (
	"context"
	"database/sql"
)

// DBTX abstracts the database access layer used by the SQL entry stores.
// It is implemented by both *sql.DB and *sql.Tx, so a store can run
// against a plain connection pool or inside a caller's transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
