package matcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"zerowaste/internal/geo"
	"zerowaste/internal/model"
	"zerowaste/internal/repository"
	repoMocks "zerowaste/internal/repository/mocks"
)

func receiver(id string, lat, lon float64, capacity int) model.Organization {
	return model.Organization{
		ID:               id,
		Name:             id,
		Role:             model.RoleReceiver,
		Location:         model.Coordinate{Latitude: lat, Longitude: lon},
		Capacity:         capacity,
		OriginalCapacity: capacity,
	}
}

func TestSelect(t *testing.T) {
	origin := model.Coordinate{}

	tests := []struct {
		name      string
		receivers []model.Organization
		quantity  int
		expiry    int
		wantID    string
		wantFound bool
	}{
		{
			name:      "closer receiver wins",
			receivers: []model.Organization{receiver("R2", 0, 5, 10), receiver("R1", 0, 1, 10)},
			quantity:  5,
			expiry:    2,
			wantID:    "R1",
			wantFound: true,
		},
		{
			name:      "receiver without enough capacity is skipped",
			receivers: []model.Organization{receiver("R1", 0, 1, 3), receiver("R2", 0, 5, 10)},
			quantity:  5,
			expiry:    2,
			wantID:    "R2",
			wantFound: true,
		},
		{
			name:      "exact capacity is eligible",
			receivers: []model.Organization{receiver("R1", 0, 1, 5)},
			quantity:  5,
			expiry:    1,
			wantID:    "R1",
			wantFound: true,
		},
		{
			name:      "no eligible receiver",
			receivers: []model.Organization{receiver("R1", 0, 1, 3)},
			quantity:  5,
			expiry:    2,
		},
		{
			name:      "ties keep the first receiver",
			receivers: []model.Organization{receiver("A", 0, 1, 10), receiver("B", 0, -1, 10), receiver("C", 1, 0, 10)},
			quantity:  1,
			expiry:    4,
			wantID:    "A",
			wantFound: true,
		},
		{
			name: "donors are never candidates",
			receivers: []model.Organization{
				{ID: "D", Role: model.RoleDonor, Capacity: 100},
				receiver("R", 0, 3, 10),
			},
			quantity:  1,
			expiry:    1,
			wantID:    "R",
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Select(origin, tt.receivers, tt.quantity, tt.expiry, DefaultPolicy(), geo.Distance)

			assert.Equal(t, tt.wantFound, ok)
			if tt.wantFound {
				assert.Equal(t, tt.wantID, got.Receiver.ID)
				assert.InDelta(t, got.Distance+0.5*float64(tt.expiry), got.Score, 1e-9)
			}
		})
	}
}

func TestSelect_CustomPolicy(t *testing.T) {
	farthest := PolicyFunc(func(d float64, _ int) float64 { return -d })
	receivers := []model.Organization{receiver("near", 0, 1, 10), receiver("far", 0, 9, 10)}

	got, ok := Select(model.Coordinate{}, receivers, 1, 1, farthest, geo.Distance)

	require.True(t, ok)
	assert.Equal(t, "far", got.Receiver.ID)
}

func TestExpiryWeighted_Score(t *testing.T) {
	assert.Equal(t, 11.0, ExpiryWeighted{Weight: 0.5}.Score(10, 2))
	assert.Equal(t, 10.0, ExpiryWeighted{}.Score(10, 2))
	assert.Equal(t, 0.5, DefaultPolicy().Weight)
}

func TestMatcher_Match(t *testing.T) {
	ctx := context.Background()
	donor := &model.Organization{ID: "donor-1", Role: model.RoleDonor, Location: model.Coordinate{}}
	receivers := []model.Organization{receiver("R1", 0, 1, 10), receiver("R2", 0, 5, 10)}

	tests := []struct {
		name    string
		setup   func(m *repoMocks.MockOrganizationRepository)
		wantID  string
		wantErr error
	}{
		{
			name: "nearest receiver",
			setup: func(m *repoMocks.MockOrganizationRepository) {
				m.On("FindByID", ctx, "donor-1").Return(donor, nil)
				m.On("ListReceivers", ctx).Return(receivers, nil)
			},
			wantID: "R1",
		},
		{
			name: "unknown donor",
			setup: func(m *repoMocks.MockOrganizationRepository) {
				m.On("FindByID", ctx, "donor-1").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrUnknownDonor,
		},
		{
			name: "receiver id used as donor",
			setup: func(m *repoMocks.MockOrganizationRepository) {
				r := receivers[0]
				m.On("FindByID", ctx, "donor-1").Return(&r, nil)
			},
			wantErr: ErrUnknownDonor,
		},
		{
			name: "no capacity anywhere",
			setup: func(m *repoMocks.MockOrganizationRepository) {
				m.On("FindByID", ctx, "donor-1").Return(donor, nil)
				m.On("ListReceivers", ctx).Return([]model.Organization{receiver("R1", 0, 1, 2)}, nil)
			},
			wantErr: ErrNoMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orgs := new(repoMocks.MockOrganizationRepository)
			tt.setup(orgs)

			got, err := New(orgs).Match(ctx, "donor-1", 5, 2)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, got.Receiver.ID)
				assert.Equal(t, "donor-1", got.Donor.ID)
				assert.InDelta(t, 111.195, got.Distance, 0.01)
			}
			orgs.AssertExpectations(t)
		})
	}
}

func TestMatcher_MatchIsDeterministic(t *testing.T) {
	ctx := context.Background()
	orgs := new(repoMocks.MockOrganizationRepository)
	orgs.On("FindByID", mock.Anything, "d").Return(&model.Organization{ID: "d", Role: model.RoleDonor}, nil)
	orgs.On("ListReceivers", mock.Anything).Return([]model.Organization{
		receiver("X", 1, 0, 10), receiver("Y", 0, 1, 10), receiver("Z", -1, 0, 10),
	}, nil)

	m := New(orgs)
	first, err := m.Match(ctx, "d", 1, 3)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		got, err := m.Match(ctx, "d", 1, 3)
		require.NoError(t, err)
		assert.Equal(t, first.Receiver.ID, got.Receiver.ID)
	}
}

func TestMatcher_ListError(t *testing.T) {
	ctx := context.Background()
	orgs := new(repoMocks.MockOrganizationRepository)
	orgs.On("FindByID", ctx, "d").Return(&model.Organization{ID: "d", Role: model.RoleDonor}, nil)
	orgs.On("ListReceivers", ctx).Return(nil, errors.New("db down"))

	_, err := New(orgs, WithDistance(geo.Distance), WithPolicy(DefaultPolicy())).Match(ctx, "d", 1, 1)

	assert.ErrorContains(t, err, "list receivers: db down")
}
