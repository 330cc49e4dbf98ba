// Package memory provides an in-process implementation of repository.Store.
//
// Capacity lives in a ledger.Memory with one lock per receiver, so unrelated
// receivers never contend. Transactions keep an undo log: every write made
// through a transaction registers its inverse, and a failed transaction
// replays the log in reverse. Writes become visible to other readers as soon
// as they are applied, which is weaker isolation than PostgreSQL but keeps
// the all-or-nothing guarantee the lifecycle relies on.
package memory

import (
	"context"
	"sync"

	"zerowaste/internal/ledger"
	"zerowaste/internal/model"
	"zerowaste/internal/repository"
)

// Store is an in-memory repository.Store.
type Store struct {
	orgMu    sync.RWMutex
	orgs     map[string]model.Organization
	orgNames map[string]string
	orgOrder []string

	donMu     sync.RWMutex
	donations map[string]model.Donation
	donOrder  []string

	ledger *ledger.Memory
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		orgs:      make(map[string]model.Organization),
		orgNames:  make(map[string]string),
		donations: make(map[string]model.Donation),
		ledger:    ledger.NewMemory(),
	}
}

var _ repository.Store = (*Store)(nil)

// Organizations implements repository.Repositories.
func (s *Store) Organizations() repository.OrganizationRepository {
	return &organizations{s: s}
}

// Donations implements repository.Repositories.
func (s *Store) Donations() repository.DonationRepository {
	return &donations{s: s}
}

// Ledger implements repository.Repositories.
func (s *Store) Ledger() ledger.Ledger {
	return &txLedger{l: s.ledger}
}

// WithinTx implements repository.Store.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Repositories) error) error {
	t := &tx{s: s}
	if err := fn(t); err != nil {
		t.rollback()
		return err
	}
	return nil
}

// Ping implements repository.Store.
func (s *Store) Ping(context.Context) error { return nil }

type tx struct {
	s    *Store
	mu   sync.Mutex
	undo []func()
}

func (t *tx) record(fn func()) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.undo = append(t.undo, fn)
	t.mu.Unlock()
}

func (t *tx) rollback() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (t *tx) Organizations() repository.OrganizationRepository {
	return &organizations{s: t.s, tx: t}
}

func (t *tx) Donations() repository.DonationRepository {
	return &donations{s: t.s, tx: t}
}

func (t *tx) Ledger() ledger.Ledger {
	return &txLedger{l: t.s.ledger, tx: t}
}

// txLedger forwards to the shared ledger and records compensating entries.
type txLedger struct {
	l  *ledger.Memory
	tx *tx
}

func (l *txLedger) Debit(ctx context.Context, receiverID string, quantity int) (int, error) {
	rem, err := l.l.Debit(ctx, receiverID, quantity)
	if err == nil {
		l.tx.record(func() { _, _ = l.l.Credit(context.Background(), receiverID, quantity) })
	}
	return rem, err
}

func (l *txLedger) Credit(ctx context.Context, receiverID string, quantity int) (int, error) {
	rem, err := l.l.Credit(ctx, receiverID, quantity)
	if err == nil {
		l.tx.record(func() { _, _ = l.l.Debit(context.Background(), receiverID, quantity) })
	}
	return rem, err
}

func (l *txLedger) Remaining(ctx context.Context, receiverID string) (int, error) {
	return l.l.Remaining(ctx, receiverID)
}
