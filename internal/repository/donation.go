package repository

import (
	"context"
	"time"

	"zerowaste/internal/model"
)

// DonationRepository defines data access for donations.
type DonationRepository interface {
	// Create inserts a new donation record.
	Create(ctx context.Context, d *model.Donation) (*model.Donation, error)

	// FindByID returns a donation by its ID or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Donation, error)

	// MarkCollected moves an Assigned donation to Collected.
	// It returns ErrNotFound for unknown ids and ErrStatusConflict when the
	// donation is not currently Assigned.
	MarkCollected(ctx context.Context, id string, at time.Time) (*model.Donation, error)

	// List returns donations matching the filter, newest first.
	List(ctx context.Context, f DonationFilter) ([]model.Donation, error)

	// CountByStatus returns total, assigned and collected counts.
	CountByStatus(ctx context.Context) (model.Stats, error)
}

// DonationFilter narrows List. Empty fields do not filter.
type DonationFilter struct {
	DonorID    string
	ReceiverID string
	Status     model.DonationStatus
}
