package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"zerowaste/internal/auth"
	"zerowaste/internal/model"
	"zerowaste/internal/repository"
	"zerowaste/internal/repository/memory"
	repoMocks "zerowaste/internal/repository/mocks"
)

func newOrgService(store repository.Store) (OrganizationService, *auth.Tokens) {
	tokens := auth.NewTokens("test-secret", time.Hour)
	return NewOrganizationService(store, auth.NewBcryptHasher(bcrypt.MinCost), tokens, nil), tokens
}

func TestOrganizationService_Register(t *testing.T) {
	ctx := context.Background()
	svc, _ := newOrgService(memory.NewStore())

	t.Run("receiver keeps capacity", func(t *testing.T) {
		org, err := svc.Register(ctx, RegisterInput{
			Name: "City Shelter", Password: "password123", Role: model.RoleReceiver,
			Latitude: -6.2, Longitude: 106.8, Capacity: 40,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, org.ID)
		assert.Equal(t, 40, org.Capacity)
		assert.Equal(t, 40, org.OriginalCapacity)
		assert.NotEqual(t, "password123", org.PasswordHash)
	})

	t.Run("donor capacity is zeroed", func(t *testing.T) {
		org, err := svc.Register(ctx, RegisterInput{
			Name: "<b>Corner Bakery</b>", Password: "password123", Role: model.RoleDonor, Capacity: 99,
		})
		require.NoError(t, err)
		assert.Equal(t, "Corner Bakery", org.Name)
		assert.Equal(t, 0, org.Capacity)
		assert.Equal(t, 0, org.OriginalCapacity)
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterInput{Name: "City Shelter", Password: "password123", Role: model.RoleDonor})
		assert.ErrorIs(t, err, ErrDuplicateName)
	})

	invalid := []struct {
		name string
		in   RegisterInput
	}{
		{"empty name", RegisterInput{Name: "  ", Password: "password123", Role: model.RoleDonor}},
		{"short password", RegisterInput{Name: "A", Password: "short", Role: model.RoleDonor}},
		{"bad role", RegisterInput{Name: "A", Password: "password123", Role: "admin"}},
		{"latitude out of range", RegisterInput{Name: "A", Password: "password123", Role: model.RoleDonor, Latitude: 91}},
		{"longitude out of range", RegisterInput{Name: "A", Password: "password123", Role: model.RoleDonor, Longitude: -181}},
		{"negative capacity", RegisterInput{Name: "A", Password: "password123", Role: model.RoleReceiver, Capacity: -1}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestOrganizationService_Register_RepoError(t *testing.T) {
	ctx := context.Background()
	s := repoMocks.NewMockStore()
	s.Orgs.On("Create", ctx, mock.AnythingOfType("*model.Organization")).Return(nil, errors.New("db down"))
	svc, _ := newOrgService(s)

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Password: "password123", Role: model.RoleDonor})
	assert.EqualError(t, err, "create organization: db down")
}

func TestOrganizationService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newOrgService(memory.NewStore())

	org, err := svc.Register(ctx, RegisterInput{Name: "Pantry", Password: "password123", Role: model.RoleReceiver, Capacity: 5})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		sess, err := svc.Authenticate(ctx, "Pantry", model.RoleReceiver, "password123")
		require.NoError(t, err)
		assert.Equal(t, org.ID, sess.Organization.ID)

		actor, err := tokens.Verify(sess.Token)
		require.NoError(t, err)
		assert.Equal(t, model.Actor{ID: org.ID, Role: model.RoleReceiver}, actor)
	})

	for name, tc := range map[string]struct {
		name, password string
		role           model.Role
	}{
		"wrong password": {"Pantry", "password124", model.RoleReceiver},
		"wrong role":     {"Pantry", "password123", model.RoleDonor},
		"unknown name":   {"Nobody", "password123", model.RoleReceiver},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Authenticate(ctx, tc.name, tc.role, tc.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestOrganizationService_Get(t *testing.T) {
	ctx := context.Background()
	svc, _ := newOrgService(memory.NewStore())

	org, err := svc.Register(ctx, RegisterInput{Name: "Pantry", Password: "password123", Role: model.RoleReceiver, Capacity: 5})
	require.NoError(t, err)

	got, err := svc.Get(ctx, org.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pantry", got.Name)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrUnknownOrg)

	_, err = svc.Get(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
