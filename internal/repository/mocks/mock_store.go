package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"zerowaste/internal/ledger"
	"zerowaste/internal/repository"
)

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Debit(ctx context.Context, receiverID string, quantity int) (int, error) {
	args := m.Called(ctx, receiverID, quantity)
	return args.Int(0), args.Error(1)
}

func (m *MockLedger) Credit(ctx context.Context, receiverID string, quantity int) (int, error) {
	args := m.Called(ctx, receiverID, quantity)
	return args.Int(0), args.Error(1)
}

func (m *MockLedger) Remaining(ctx context.Context, receiverID string) (int, error) {
	args := m.Called(ctx, receiverID)
	return args.Int(0), args.Error(1)
}

// MockStore hands the same mocked repositories to WithinTx callbacks.
// Rollback behaviour is not simulated.
type MockStore struct {
	mock.Mock
	Orgs     *MockOrganizationRepository
	Donation *MockDonationRepository
	Capacity *MockLedger
}

func NewMockStore() *MockStore {
	return &MockStore{
		Orgs:     new(MockOrganizationRepository),
		Donation: new(MockDonationRepository),
		Capacity: new(MockLedger),
	}
}

func (m *MockStore) Organizations() repository.OrganizationRepository { return m.Orgs }
func (m *MockStore) Donations() repository.DonationRepository         { return m.Donation }
func (m *MockStore) Ledger() ledger.Ledger                            { return m.Capacity }

func (m *MockStore) WithinTx(ctx context.Context, fn func(tx repository.Repositories) error) error {
	return fn(m)
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
