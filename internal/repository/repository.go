// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres, memory) inside this directory.
package repository

import (
	"context"
	"errors"

	"zerowaste/internal/ledger"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("duplicate record")
	// ErrStatusConflict is returned when a conditional status update finds the row in another state.
	ErrStatusConflict = errors.New("status conflict")
)

// Repositories groups the repositories and the capacity ledger that share one
// connection or transaction.
type Repositories interface {
	Organizations() OrganizationRepository
	Donations() DonationRepository
	Ledger() ledger.Ledger
}

// Store is the durable store the core runs against.
type Store interface {
	Repositories

	// WithinTx runs fn inside a single transaction. If fn returns an error every
	// write made through tx is rolled back and the error is returned unchanged.
	WithinTx(ctx context.Context, fn func(tx Repositories) error) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
