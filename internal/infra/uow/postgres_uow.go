package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"selfcare-backend/internal/infra"
	"selfcare-backend/internal/infra/db"
	"selfcare-backend/internal/infra/repository"
	"selfcare-backend/internal/pkg/errs"
	"selfcare-backend/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool         *pgxpool.Pool
	reservations *repository.ReservationRepository
	orders       *repository.OrderRepository
	products     *repository.ProductRepository
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{
		pool:         pool,
		reservations: repository.NewReservationRepository(),
		orders:       repository.NewOrderRepository(),
		products:     repository.NewProductRepository(),
	}
}

// ReadCommitted plus per-client advisory locks covers the credit
// check-then-write; serialization retries stay in for deadlock recovery.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, q db.Querier) error) error {
	return fn(ctx, u.pool)
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{dbtx: pgxTx, uow: u}

		err = fn(ctx, tx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	if attempt >= maxRetries {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrCodeSerializationFailure || pgErr.Code == pgErrCodeDeadlockDetected
	}
	return false
}

// Exponential backoff with jitter to avoid thundering-herd retries.
func calculateBackoff(attempt int, base time.Duration) time.Duration {
	backoff := base << attempt

	var buf [8]byte
	jitter := time.Duration(0)
	if _, err := rand.Read(buf[:]); err == nil {
		jitter = time.Duration(binary.LittleEndian.Uint64(buf[:]) % uint64(base))
	}
	return backoff + jitter
}

type pgTx struct {
	dbtx pgx.Tx
	uow  *PostgresUoW
}

func (t *pgTx) Reservations() shared.ReservationRepository { return t.uow.reservations }
func (t *pgTx) Orders() shared.OrderRepository             { return t.uow.orders }
func (t *pgTx) Products() shared.ProductRepository         { return t.uow.products }
func (t *pgTx) DB() db.Querier                             { return t.dbtx }

// LockClient takes a transaction-scoped advisory lock keyed on the customer.
// There is no local customer row to SELECT FOR UPDATE, so the advisory lock
// stands in for it; everything mutating one customer's credit takes it first.
func (t *pgTx) LockClient(ctx context.Context, clientID string) error {
	_, err := t.dbtx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, clientID)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to lock client", err)
	}
	return nil
}
