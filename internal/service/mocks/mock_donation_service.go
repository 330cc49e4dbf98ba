package mocks

import (
	"context"

	"zerowaste/internal/model"
	"zerowaste/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockDonationService struct {
	mock.Mock
}

func (m *MockDonationService) CreateAndAssign(ctx context.Context, donorID, foodName string, quantity, expiryHours int) (*model.Donation, error) {
	args := m.Called(ctx, donorID, foodName, quantity, expiryHours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Donation), args.Error(1)
}

func (m *MockDonationService) Collect(ctx context.Context, receiverID, donationID string) (*model.Donation, error) {
	args := m.Called(ctx, receiverID, donationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Donation), args.Error(1)
}

func (m *MockDonationService) Get(ctx context.Context, id string) (*model.Donation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Donation), args.Error(1)
}

func (m *MockDonationService) ListByDonor(ctx context.Context, donorID string) ([]model.Donation, error) {
	args := m.Called(ctx, donorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Donation), args.Error(1)
}

func (m *MockDonationService) ReceiverDashboard(ctx context.Context, receiverID string) (*service.Dashboard, error) {
	args := m.Called(ctx, receiverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Dashboard), args.Error(1)
}

func (m *MockDonationService) Stats(ctx context.Context) (model.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Stats), args.Error(1)
}
