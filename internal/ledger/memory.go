package ledger

import (
	"context"
	"fmt"
	"sync"
)

type account struct {
	mu        sync.Mutex
	remaining int
	original  int
}

// Memory is an in-process Ledger. Each receiver account has its own mutex;
// the account map lock is only held long enough to find the account.
type Memory struct {
	mu       sync.RWMutex
	accounts map[string]*account
}

// NewMemory returns an empty in-process ledger.
func NewMemory() *Memory {
	return &Memory{accounts: make(map[string]*account)}
}

var _ Ledger = (*Memory)(nil)

// Open registers a receiver with a full balance of capacity.
func (m *Memory) Open(receiverID string, capacity int) error {
	if capacity < 0 {
		return fmt.Errorf("open account %s: capacity must not be negative", receiverID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[receiverID]; ok {
		return fmt.Errorf("open account %s: already exists", receiverID)
	}
	m.accounts[receiverID] = &account{remaining: capacity, original: capacity}
	return nil
}

// Close removes a receiver account. It is used to undo an Open.
func (m *Memory) Close(receiverID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, receiverID)
}

func (m *Memory) account(receiverID string) (*account, error) {
	m.mu.RLock()
	acc, ok := m.accounts[receiverID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownReceiver
	}
	return acc, nil
}

// Debit implements Ledger.
func (m *Memory) Debit(_ context.Context, receiverID string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, ErrInvalidQuantity
	}
	acc, err := m.account(receiverID)
	if err != nil {
		return 0, err
	}

	acc.mu.Lock()
	defer acc.mu.Unlock()
	if quantity > acc.remaining {
		return acc.remaining, ErrInsufficientCapacity
	}
	acc.remaining -= quantity
	return acc.remaining, nil
}

// Credit implements Ledger.
func (m *Memory) Credit(_ context.Context, receiverID string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, ErrInvalidQuantity
	}
	acc, err := m.account(receiverID)
	if err != nil {
		return 0, err
	}

	acc.mu.Lock()
	defer acc.mu.Unlock()
	if acc.remaining+quantity > acc.original {
		return acc.remaining, ErrLedgerOverflow
	}
	acc.remaining += quantity
	return acc.remaining, nil
}

// Remaining implements Ledger.
func (m *Memory) Remaining(_ context.Context, receiverID string) (int, error) {
	b, err := m.Balance(receiverID)
	if err != nil {
		return 0, err
	}
	return b.Remaining, nil
}

// Balance returns both remaining and original capacity of a receiver.
func (m *Memory) Balance(receiverID string) (Balance, error) {
	acc, err := m.account(receiverID)
	if err != nil {
		return Balance{}, err
	}
	acc.mu.Lock()
	defer acc.mu.Unlock()
	return Balance{Remaining: acc.remaining, Original: acc.original}, nil
}
