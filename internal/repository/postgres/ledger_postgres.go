package postgres

import (
	"context"
	"errors"

	"zerowaste/internal/ledger"
	"zerowaste/internal/repository"
)

// LedgerPostgres keeps receiver capacity in organizations.capacity.
// Each mutation is a single conditional UPDATE, so the check and the write
// happen under the same row lock.
type LedgerPostgres struct {
	db DBTX
}

// NewLedgerPostgres creates a ledger over db, which may be a pool or a transaction.
func NewLedgerPostgres(db DBTX) *LedgerPostgres {
	return &LedgerPostgres{db: db}
}

var _ ledger.Ledger = (*LedgerPostgres)(nil)

// Debit implements ledger.Ledger.
func (l *LedgerPostgres) Debit(ctx context.Context, receiverID string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, ledger.ErrInvalidQuantity
	}
	const q = `
		UPDATE organizations
		SET capacity = capacity - $2
		WHERE id = $1 AND role = 'receiver' AND capacity >= $2
		RETURNING capacity
	`
	var remaining int
	err := l.db.QueryRowContext(ctx, q, receiverID, quantity).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	return l.explain(ctx, receiverID, mapError(err), ledger.ErrInsufficientCapacity)
}

// Credit implements ledger.Ledger.
func (l *LedgerPostgres) Credit(ctx context.Context, receiverID string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, ledger.ErrInvalidQuantity
	}
	const q = `
		UPDATE organizations
		SET capacity = capacity + $2
		WHERE id = $1 AND role = 'receiver' AND capacity + $2 <= original_capacity
		RETURNING capacity
	`
	var remaining int
	err := l.db.QueryRowContext(ctx, q, receiverID, quantity).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	return l.explain(ctx, receiverID, mapError(err), ledger.ErrLedgerOverflow)
}

// Remaining implements ledger.Ledger.
func (l *LedgerPostgres) Remaining(ctx context.Context, receiverID string) (int, error) {
	const q = `SELECT capacity FROM organizations WHERE id = $1 AND role = 'receiver'`
	var remaining int
	if err := l.db.QueryRowContext(ctx, q, receiverID).Scan(&remaining); err != nil {
		if errors.Is(mapError(err), repository.ErrNotFound) {
			return 0, ledger.ErrUnknownReceiver
		}
		return 0, err
	}
	return remaining, nil
}

// explain turns a conditional UPDATE that touched no row into the right ledger error.
func (l *LedgerPostgres) explain(ctx context.Context, receiverID string, err, guardErr error) (int, error) {
	if !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}
	remaining, err := l.Remaining(ctx, receiverID)
	if err != nil {
		return 0, err
	}
	return remaining, guardErr
}
