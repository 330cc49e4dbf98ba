package mocks

import (
	"context"

	"zerowaste/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) ExportImpactReport(ctx context.Context) (*service.ExportedReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportedReport), args.Error(1)
}
