package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pocketbase/dbx"
)

// TxRunner runs fn inside a single database transaction.
type TxRunner func(ctx context.Context, fn func(tx dbx.Builder) error) error

// Store is the persistent store for doctors, queue entries and board rows.
// A Store returned to a RunInTx callback is bound to that transaction.
type Store struct {
	db    dbx.Builder
	runTx TxRunner
	inTx  bool
}

// New wraps a standalone dbx connection.
func New(db *dbx.DB) *Store {
	return &Store{
		db: db,
		runTx: func(ctx context.Context, fn func(tx dbx.Builder) error) error {
			return db.TransactionalContext(ctx, nil, func(tx *dbx.Tx) error {
				return fn(tx)
			})
		},
	}
}

// NewWithRunner lets a host that owns transactions (PocketBase) supply its own runner.
func NewWithRunner(db dbx.Builder, run TxRunner) *Store {
	return &Store{db: db, runTx: run}
}

// RunInTx executes fn with a transaction-bound store. Nested calls reuse the
// outer transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.runTx(ctx, func(tx dbx.Builder) error {
		return fn(&Store{db: tx, runTx: s.runTx, inTx: true})
	})
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	var one int
	return s.db.NewQuery("SELECT 1").WithContext(ctx).Row(&one)
}

// IsNotFound reports whether err means the looked-up row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
