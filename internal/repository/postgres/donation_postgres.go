package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"zerowaste/internal/model"
	"zerowaste/internal/repository"
)

// DonationPostgres is a PostgreSQL implementation of repository.DonationRepository.
type DonationPostgres struct {
	db DBTX
}

// NewDonationPostgres creates a new DonationPostgres repository.
func NewDonationPostgres(db DBTX) *DonationPostgres {
	return &DonationPostgres{db: db}
}

var _ repository.DonationRepository = (*DonationPostgres)(nil)

const donationColumns = `id, donor_id, food_name, quantity, expiry_hours, assigned_receiver_id, distance_km, status, created_at, collected_at`

// donationJoinColumns adds the donor name for listing views.
const donationJoinColumns = `d.id, d.donor_id, o.name, d.food_name, d.quantity, d.expiry_hours,
	d.assigned_receiver_id, d.distance_km, d.status, d.created_at, d.collected_at`

func scanDonation(row rowScanner, withDonorName bool) (*model.Donation, error) {
	var (
		d           model.Donation
		receiverID  sql.NullString
		collectedAt sql.NullTime
	)
	dest := []any{&d.ID, &d.DonorID}
	if withDonorName {
		dest = append(dest, &d.DonorName)
	}
	dest = append(dest,
		&d.FoodName,
		&d.Quantity,
		&d.ExpiryHours,
		&receiverID,
		&d.Distance,
		&d.Status,
		&d.CreatedAt,
		&collectedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, mapError(err)
	}
	d.AssignedReceiverID = receiverID.String
	if collectedAt.Valid {
		t := collectedAt.Time
		d.CollectedAt = &t
	}
	return &d, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Create inserts a new donation row and returns the stored record.
func (r *DonationPostgres) Create(ctx context.Context, d *model.Donation) (*model.Donation, error) {
	const q = `
		INSERT INTO donations (id, donor_id, food_name, quantity, expiry_hours, assigned_receiver_id, distance_km, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + donationColumns
	row := r.db.QueryRowContext(ctx, q,
		d.ID,
		d.DonorID,
		d.FoodName,
		d.Quantity,
		d.ExpiryHours,
		nullableString(d.AssignedReceiverID),
		d.Distance,
		d.Status,
		d.CreatedAt,
	)
	out, err := scanDonation(row, false)
	if err != nil {
		return nil, err
	}
	out.DonorName = d.DonorName
	return out, nil
}

// FindByID fetches a single donation by its ID.
func (r *DonationPostgres) FindByID(ctx context.Context, id string) (*model.Donation, error) {
	const q = `
		SELECT ` + donationJoinColumns + `
		FROM donations d
		JOIN organizations o ON o.id = d.donor_id
		WHERE d.id = $1
	`
	return scanDonation(r.db.QueryRowContext(ctx, q, id), true)
}

// MarkCollected flips an Assigned donation to Collected in a single conditional UPDATE.
func (r *DonationPostgres) MarkCollected(ctx context.Context, id string, at time.Time) (*model.Donation, error) {
	const q = `
		UPDATE donations
		SET status = 'Collected', collected_at = $2
		WHERE id = $1 AND status = 'Assigned'
		RETURNING ` + donationColumns
	d, err := scanDonation(r.db.QueryRowContext(ctx, q, id, at), false)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// Nothing updated: either the row is missing or it is not Assigned.
	const qStatus = `SELECT status FROM donations WHERE id = $1`
	var status string
	if err := r.db.QueryRowContext(ctx, qStatus, id).Scan(&status); err != nil {
		return nil, mapError(err)
	}
	return nil, fmt.Errorf("%w: donation %s is %s", repository.ErrStatusConflict, id, status)
}

// List returns donations matching the filter, newest first.
func (r *DonationPostgres) List(ctx context.Context, f repository.DonationFilter) ([]model.Donation, error) {
	var (
		where []string
		args  []any
	)
	if f.DonorID != "" {
		args = append(args, f.DonorID)
		where = append(where, fmt.Sprintf("d.donor_id = $%d", len(args)))
	}
	if f.ReceiverID != "" {
		args = append(args, f.ReceiverID)
		where = append(where, fmt.Sprintf("d.assigned_receiver_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("d.status = $%d", len(args)))
	}

	q := `SELECT ` + donationJoinColumns + ` FROM donations d JOIN organizations o ON o.id = d.donor_id`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY d.created_at DESC, d.id DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Donation, 0)
	for rows.Next() {
		d, err := scanDonation(rows, true)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// CountByStatus computes the impact counters in one pass.
func (r *DonationPostgres) CountByStatus(ctx context.Context) (model.Stats, error) {
	const q = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'Assigned'),
			COUNT(*) FILTER (WHERE status = 'Collected')
		FROM donations
	`
	var s model.Stats
	if err := r.db.QueryRowContext(ctx, q).Scan(&s.Total, &s.Assigned, &s.Collected); err != nil {
		return model.Stats{}, err
	}
	return s, nil
}
