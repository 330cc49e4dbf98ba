// Package ledger owns receiver intake capacity.
//
// A Ledger is the only component allowed to change a receiver's remaining
// capacity. Every debit is a compare-and-debit: it either subtracts the full
// quantity or leaves the balance untouched. Credits are bounded by the
// receiver's original capacity so a double credit is rejected instead of
// inflating the balance.
package ledger

import (
	"context"
	"errors"
)

var (
	// ErrInsufficientCapacity is returned when a debit exceeds the remaining capacity.
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	// ErrLedgerOverflow is returned when a credit would push capacity past the original capacity.
	ErrLedgerOverflow = errors.New("ledger overflow: credit exceeds original capacity")
	// ErrUnknownReceiver is returned for receivers the ledger has no account for.
	ErrUnknownReceiver = errors.New("unknown receiver")
	// ErrInvalidQuantity is returned for non-positive quantities.
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// Ledger tracks the remaining intake capacity of each receiver.
// Operations on one receiver are serialized; different receivers never block each other.
type Ledger interface {
	// Debit atomically subtracts quantity and returns the new balance.
	Debit(ctx context.Context, receiverID string, quantity int) (int, error)
	// Credit atomically adds quantity back and returns the new balance.
	Credit(ctx context.Context, receiverID string, quantity int) (int, error)
	// Remaining returns the current balance.
	Remaining(ctx context.Context, receiverID string) (int, error)
}

// Balance is a receiver's remaining and original capacity.
type Balance struct {
	Remaining int
	Original  int
}

// UsedPercentage returns the share of original capacity currently in use, 0..100.
func (b Balance) UsedPercentage() float64 {
	if b.Original <= 0 {
		return 0
	}
	return float64(b.Original-b.Remaining) / float64(b.Original) * 100
}
