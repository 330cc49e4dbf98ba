package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"zerowaste/internal/model"
	repoMocks "zerowaste/internal/repository/mocks"
	"zerowaste/internal/storage"
	storeMocks "zerowaste/internal/storage/mocks"
)

func TestReportService_ExportImpactReport(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 30, 5, 0, time.UTC)
	wantKey := "reports/impact-20250301T123005Z.json"

	newRepo := func() *repoMocks.MockStore {
		s := repoMocks.NewMockStore()
		s.Donation.On("CountByStatus", ctx).Return(model.Stats{Total: 3, Assigned: 2, Collected: 1}, nil)
		s.Orgs.On("ListReceivers", ctx).Return([]model.Organization{
			{ID: "r1", Name: "Shelter", Role: model.RoleReceiver, Capacity: 5, OriginalCapacity: 20},
		}, nil)
		return s
	}

	t.Run("uploads and presigns", func(t *testing.T) {
		objects := new(storeMocks.MockStorage)
		var uploaded ImpactReport
		objects.On("Put", ctx, wantKey, mock.Anything, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
			return o.ContentType == "application/json" && o.Size > 0
		})).Run(func(args mock.Arguments) {
			body, err := io.ReadAll(args.Get(2).(io.Reader))
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(body, &uploaded))
		}).Return(storage.ObjectInfo{Key: wantKey}, nil)
		objects.On("PresignGet", ctx, wantKey, ReportURLExpiry).Return("https://minio.local/signed", nil)

		svc := NewReportService(newRepo(), objects, nil).(*reportService)
		svc.now = func() time.Time { return now }

		got, err := svc.ExportImpactReport(ctx)
		require.NoError(t, err)
		assert.Equal(t, wantKey, got.Key)
		assert.Equal(t, "https://minio.local/signed", got.URL)
		assert.Equal(t, now.Add(15*time.Minute), got.ExpiresAt)

		assert.Equal(t, 3, uploaded.Stats.Total)
		require.Len(t, uploaded.Receivers, 1)
		assert.Equal(t, 75.0, uploaded.Receivers[0].UsedPercentage)
		objects.AssertExpectations(t)
	})

	t.Run("presign failure removes the object", func(t *testing.T) {
		objects := new(storeMocks.MockStorage)
		objects.On("Put", ctx, wantKey, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, nil)
		objects.On("PresignGet", ctx, wantKey, ReportURLExpiry).Return("", errors.New("no signer"))
		objects.On("Delete", ctx, wantKey).Return(nil)

		svc := NewReportService(newRepo(), objects, nil).(*reportService)
		svc.now = func() time.Time { return now }

		_, err := svc.ExportImpactReport(ctx)
		assert.EqualError(t, err, "presign report: no signer")
		objects.AssertExpectations(t)
	})

	t.Run("upload failure", func(t *testing.T) {
		objects := new(storeMocks.MockStorage)
		objects.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(storage.ObjectInfo{}, errors.New("bucket gone"))

		_, err := NewReportService(newRepo(), objects, nil).ExportImpactReport(ctx)
		require.Error(t, err)
		assert.True(t, strings.HasPrefix(err.Error(), "upload report:"))
	})

	t.Run("disabled without storage", func(t *testing.T) {
		_, err := NewReportService(newRepo(), nil, nil).ExportImpactReport(ctx)
		assert.ErrorIs(t, err, ErrReportsDisabled)
	})
}
