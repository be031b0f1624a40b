package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// DB is the subset of *pgxpool.Pool the repositories use.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UnitOfWork is one atomic persistence boundary. Writes made through Tx
// become visible together on Commit or not at all.
type UnitOfWork interface {
	// Tx exposes the transaction to repository writes.
	Tx() pgx.Tx

	// Commit makes every write durable.
	Commit(ctx context.Context) error

	// Rollback discards every write. It is a no-op after Commit.
	Rollback(ctx context.Context) error
}

// Transactor begins units of work.
type Transactor interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

// pgxTransactor implements Transactor on a pgx connection pool.
type pgxTransactor struct {
	db     DB
	logger zerolog.Logger
}

// NewTransactor creates a Transactor backed by db.
func NewTransactor(db DB, logger zerolog.Logger) Transactor {
	return &pgxTransactor{
		db:     db,
		logger: logger.With().Str("component", "unit-of-work").Logger(),
	}
}

// Begin starts a new database transaction.
func (t *pgxTransactor) Begin(ctx context.Context) (UnitOfWork, error) {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		t.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &pgxUnitOfWork{tx: tx}, nil
}

type pgxUnitOfWork struct {
	tx pgx.Tx
}

func (u *pgxUnitOfWork) Tx() pgx.Tx {
	return u.tx
}

func (u *pgxUnitOfWork) Commit(ctx context.Context) error {
	if err := u.tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (u *pgxUnitOfWork) Rollback(ctx context.Context) error {
	err := u.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// RunInUnitOfWork runs fn inside a new unit of work, committing when fn
// succeeds and rolling back on any error, including a failed commit. A panic
// in fn rolls back and is re-raised.
func RunInUnitOfWork(ctx context.Context, t Transactor, logger zerolog.Logger, fn func(tx pgx.Tx) error) (err error) {
	uow, err := t.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := uow.Rollback(ctx); rbErr != nil {
				logger.Error().Err(rbErr).Msg("failed to rollback transaction after panic")
			}
			panic(p)
		}
		if err != nil {
			if rbErr := uow.Rollback(ctx); rbErr != nil {
				logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = fn(uow.Tx()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
