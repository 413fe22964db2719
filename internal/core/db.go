package core

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the query surface the services need. Satisfied by *pgxpool.Pool and
// by pgx.Tx, so helpers can run either on the pool or inside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxDB adds transaction support for the read-modify-write paths: quota
// reservation and cascading deletes.
type TxDB interface {
	DB
	Begin(ctx context.Context) (pgx.Tx, error)
}
