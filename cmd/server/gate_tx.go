package main

import (
	"context"
	"database/sql"
	"time"

	dErrors "compliancecore/pkg/domain-errors"
	"compliancecore/pkg/platform/tx"
)

const defaultGateTxTimeout = 5 * time.Second

// gatePostgresTx runs the gate's admission flow inside one SQL
// transaction. The stores pick the transaction up from the context.
type gatePostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newGatePostgresTx(db *sql.DB) *gatePostgresTx {
	return &gatePostgresTx{db: db}
}

func (t *gatePostgresTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultGateTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	sqlTx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(tx.WithTx(ctx, sqlTx)); err != nil {
		return err
	}

	return sqlTx.Commit()
}
