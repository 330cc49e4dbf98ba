package repository

import (
	"context"

	"zerowaste/internal/model"
)

// OrganizationRepository defines data access for donors and receivers.
// Capacity columns are read-only here; only the ledger changes them.
type OrganizationRepository interface {
	// Create inserts a new organization. Returns ErrDuplicate if the name is taken.
	Create(ctx context.Context, org *model.Organization) (*model.Organization, error)

	// FindByID returns an organization by its ID or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Organization, error)

	// FindByName returns an organization by its unique name or ErrNotFound.
	FindByName(ctx context.Context, name string) (*model.Organization, error)

	// ListReceivers returns every receiver in registration order (created_at, id).
	ListReceivers(ctx context.Context) ([]model.Organization, error)
}
