package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	pgx "github.com/D00256764/u-vote-sub002/internal/platform/postgres"
	dErrors "github.com/D00256764/u-vote-sub002/pkg/domain-errors"
	"github.com/D00256764/u-vote-sub002/pkg/platform/sentinel"
	txcontext "github.com/D00256764/u-vote-sub002/pkg/platform/tx"
)

const (
	defaultTxTimeout = 5 * time.Second
	maxTxRetries     = 3
)

// postgresTx runs fn inside a database transaction carried through the
// context. The key argument exists for the in-memory runner's sharding; here
// the per-election advisory locks taken inside the stores do the serializing.
type postgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newPostgresTx(db *sql.DB) *postgresTx {
	return &postgresTx{db: db, timeout: defaultTxTimeout}
}

func (t *postgresTx) RunInTx(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	var lastErr error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		lastErr = t.runOnce(ctx, fn)
		if lastErr == nil || !pgx.IsSerializationFailure(lastErr) {
			return lastErr
		}
	}
	return fmt.Errorf("transaction retries exhausted: %w", sentinel.ErrConcurrency)
}

func (t *postgresTx) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit()
}
