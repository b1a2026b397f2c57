// Package store provides the transactional helper every booking mutation
// goes through: WithTx opens a transaction, runs fn, and commits on success
// or rolls back on any error or panic. The pattern is grounded on
// shivamshaw23-Hintro's booking_repository.go (BeginTx/defer Rollback/Commit),
// generalized into one shared helper since the booking engine needs it for a
// dozen operations rather than two.
package store

import (
	"context"
	"fmt"

	"github.com/crosslogic/bookingcore/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps the connection pool and exposes the transactional boundary.
type Store struct {
	db *database.Database
}

func New(db *database.Database) *Store {
	return &Store{db: db}
}

func (s *Store) Pool() *pgxpool.Pool { return s.db.Pool }

// TxFunc is the unit of work run inside a transaction. Returning an error
// rolls the transaction back; the caller's error is propagated unchanged.
type TxFunc func(ctx context.Context, tx pgx.Tx) error

// WithTx runs fn inside a Read Committed transaction. Commits on success;
// rolls back on any error, including a panic from fn (re-panicking after
// rollback so the caller's recover/Recoverer middleware still sees it).
func (s *Store) WithTx(ctx context.Context, fn TxFunc) (err error) {
	tx, err := s.db.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()
	defer tx.Rollback(ctx) //nolint:errcheck // no-op once committed

	if err = fn(ctx, tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
