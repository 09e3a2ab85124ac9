// internal/repository/postgres/db.go
package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	xerrors "activity-booking-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type DB struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewDB(pool *pgxpool.Pool) *DB {
	return &DB{pool: pool, now: func() time.Time { return time.Now().UTC() }}
}

func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Migrate creates the tables when they do not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// WithTx runs fn in a transaction, committing when it returns nil.
func (db *DB) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// advisoryLock holds a transaction-scoped lock on key.
func advisoryLock(ctx context.Context, tx pgx.Tx, key string) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("failed to acquire lock %q: %w", key, err)
	}
	return nil
}

func rowsAffected(tag pgconn.CommandTag, entity string) error {
	if tag.RowsAffected() == 0 {
		return xerrors.NotFound(entity)
	}
	return nil
}
