package store

import (
	"context"
	"database/sql"
)

// DBTX abstracts the database handle the stores run their queries
// against. Both *sql.DB and *sql.Tx satisfy it, so a store can be
// pointed at a transaction without changing its code.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
