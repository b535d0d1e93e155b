package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/travelport/order-approval/internal/application/port"
)

type contextKey string

const txKey = contextKey("tx")

// executor interface covers both *sql.DB and *sql.Tx
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// getExecutor returns the transaction from the context when one is open,
// otherwise the shared connection pool
func getExecutor(ctx context.Context, db *sql.DB) executor {
	if tx, ok := ctx.Value(txKey).(*sql.Tx); ok {
		return tx
	}
	return db
}

// TransactionManager implements port.TransactionManager over database/sql
type TransactionManager struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(db *sql.DB, logger *zap.Logger) port.TransactionManager {
	return &TransactionManager{
		db:     db,
		logger: logger,
	}
}

// WithTransaction runs fn inside a transaction. Repositories called with the
// returned context execute against that transaction. Nested calls reuse the
// open transaction rather than starting another one.
func (m *TransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		m.logger.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}

	txCtx := context.WithValue(ctx, txKey, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			m.logger.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		m.logger.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Verify interface compliance
var _ port.TransactionManager = (*TransactionManager)(nil)
