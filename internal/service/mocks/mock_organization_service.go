package mocks

import (
	"context"

	"zerowaste/internal/model"
	"zerowaste/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockOrganizationService struct {
	mock.Mock
}

func (m *MockOrganizationService) Register(ctx context.Context, in service.RegisterInput) (*model.Organization, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Organization), args.Error(1)
}

func (m *MockOrganizationService) Authenticate(ctx context.Context, name string, role model.Role, password string) (*service.Session, error) {
	args := m.Called(ctx, name, role, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *MockOrganizationService) Get(ctx context.Context, id string) (*model.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Organization), args.Error(1)
}
