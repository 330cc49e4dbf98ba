package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"zerowaste/internal/auth"
	"zerowaste/internal/model"
	"zerowaste/internal/repository"
	"zerowaste/internal/sanitize"
)

// minPasswordLength is the shortest password accepted at registration.
const minPasswordLength = 8

// RegisterInput carries the fields needed to register an organization.
type RegisterInput struct {
	Name      string
	Password  string
	Role      model.Role
	Latitude  float64
	Longitude float64
	Capacity  int
}

// Session is the result of a successful login.
type Session struct {
	Organization model.Organization `json:"organization"`
	Token        string             `json:"token"`
}

// OrganizationService manages donor and receiver accounts.
type OrganizationService interface {
	Register(ctx context.Context, in RegisterInput) (*model.Organization, error)
	Authenticate(ctx context.Context, name string, role model.Role, password string) (*Session, error)
	Get(ctx context.Context, id string) (*model.Organization, error)
}

type organizationService struct {
	store  repository.Store
	hasher auth.PasswordHasher
	tokens *auth.Tokens
	log    *zap.Logger
	now    func() time.Time
}

// NewOrganizationService constructs a new OrganizationService.
func NewOrganizationService(store repository.Store, hasher auth.PasswordHasher, tokens *auth.Tokens, log *zap.Logger) OrganizationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &organizationService{store: store, hasher: hasher, tokens: tokens, log: log, now: time.Now}
}

func (s *organizationService) Register(ctx context.Context, in RegisterInput) (*model.Organization, error) {
	ctx, span := tracer.Start(ctx, "OrganizationService.Register")
	defer span.End()

	name := sanitize.Text(in.Name)
	loc := model.Coordinate{Latitude: in.Latitude, Longitude: in.Longitude}
	switch {
	case name == "":
		return nil, fail(span, fmt.Errorf("%w: name is required", ErrInvalidInput))
	case len(in.Password) < minPasswordLength:
		return nil, fail(span, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength))
	case !in.Role.Valid():
		return nil, fail(span, fmt.Errorf("%w: role must be donor or receiver", ErrInvalidInput))
	case !loc.Valid():
		return nil, fail(span, fmt.Errorf("%w: coordinates out of range", ErrInvalidInput))
	case in.Role == model.RoleReceiver && in.Capacity < 0:
		return nil, fail(span, fmt.Errorf("%w: capacity must not be negative", ErrInvalidInput))
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fail(span, err)
	}

	capacity := in.Capacity
	if in.Role == model.RoleDonor {
		capacity = 0
	}
	org := &model.Organization{
		ID:               uuid.New().String(),
		Name:             name,
		PasswordHash:     hash,
		Role:             in.Role,
		Location:         loc,
		Capacity:         capacity,
		OriginalCapacity: capacity,
		CreatedAt:        s.now().UTC(),
	}

	stored, err := s.store.Organizations().Create(ctx, org)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fail(span, ErrDuplicateName)
		}
		return nil, fail(span, fmt.Errorf("create organization: %w", err))
	}

	s.log.Info("organization_registered",
		zap.String("organization_id", stored.ID),
		zap.String("role", string(stored.Role)),
		zap.Int("capacity", stored.OriginalCapacity),
	)
	return stored, nil
}

func (s *organizationService) Authenticate(ctx context.Context, name string, role model.Role, password string) (*Session, error) {
	ctx, span := tracer.Start(ctx, "OrganizationService.Authenticate")
	defer span.End()

	org, err := s.store.Organizations().FindByName(ctx, sanitize.Text(name))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fail(span, ErrInvalidCredentials)
		}
		return nil, fail(span, err)
	}
	if org.Role != role {
		return nil, fail(span, ErrInvalidCredentials)
	}
	if err := s.hasher.Compare(org.PasswordHash, password); err != nil {
		return nil, fail(span, ErrInvalidCredentials)
	}

	token, err := s.tokens.Issue(model.Actor{ID: org.ID, Role: org.Role})
	if err != nil {
		return nil, fail(span, err)
	}
	return &Session{Organization: *org, Token: token}, nil
}

func (s *organizationService) Get(ctx context.Context, id string) (*model.Organization, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	org, err := s.store.Organizations().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownOrg
		}
		return nil, err
	}
	return org, nil
}
