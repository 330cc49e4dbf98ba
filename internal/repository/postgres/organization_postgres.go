package postgres

import (
	"context"

	"zerowaste/internal/model"
	"zerowaste/internal/repository"
)

// OrganizationPostgres is a PostgreSQL implementation of repository.OrganizationRepository.
type OrganizationPostgres struct {
	db DBTX
}

// NewOrganizationPostgres creates a new OrganizationPostgres repository.
func NewOrganizationPostgres(db DBTX) *OrganizationPostgres {
	return &OrganizationPostgres{db: db}
}

var _ repository.OrganizationRepository = (*OrganizationPostgres)(nil)

const organizationColumns = `id, name, password_hash, role, latitude, longitude, capacity, original_capacity, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrganization(row rowScanner) (*model.Organization, error) {
	var o model.Organization
	if err := row.Scan(
		&o.ID,
		&o.Name,
		&o.PasswordHash,
		&o.Role,
		&o.Location.Latitude,
		&o.Location.Longitude,
		&o.Capacity,
		&o.OriginalCapacity,
		&o.CreatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	return &o, nil
}

// Create inserts a new organization row and returns the stored record.
func (r *OrganizationPostgres) Create(ctx context.Context, org *model.Organization) (*model.Organization, error) {
	const q = `
		INSERT INTO organizations (id, name, password_hash, role, latitude, longitude, capacity, original_capacity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + organizationColumns
	row := r.db.QueryRowContext(ctx, q,
		org.ID,
		org.Name,
		org.PasswordHash,
		org.Role,
		org.Location.Latitude,
		org.Location.Longitude,
		org.Capacity,
		org.OriginalCapacity,
		org.CreatedAt,
	)
	return scanOrganization(row)
}

// FindByID fetches a single organization by its ID.
func (r *OrganizationPostgres) FindByID(ctx context.Context, id string) (*model.Organization, error) {
	const q = `SELECT ` + organizationColumns + ` FROM organizations WHERE id = $1`
	return scanOrganization(r.db.QueryRowContext(ctx, q, id))
}

// FindByName fetches a single organization by its unique name.
func (r *OrganizationPostgres) FindByName(ctx context.Context, name string) (*model.Organization, error) {
	const q = `SELECT ` + organizationColumns + ` FROM organizations WHERE name = $1`
	return scanOrganization(r.db.QueryRowContext(ctx, q, name))
}

// ListReceivers returns all receivers in registration order.
func (r *OrganizationPostgres) ListReceivers(ctx context.Context) ([]model.Organization, error) {
	const q = `
		SELECT ` + organizationColumns + `
		FROM organizations
		WHERE role = 'receiver'
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Organization, 0)
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
