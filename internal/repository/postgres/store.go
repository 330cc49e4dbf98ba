package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"zerowaste/internal/ledger"
	"zerowaste/internal/repository"
)

const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02"
)

// DBTX is the subset of *sql.DB and *sql.Tx the repositories need.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type repositories struct {
	orgs      *OrganizationPostgres
	donations *DonationPostgres
	ledger    *LedgerPostgres
}

func newRepositories(db DBTX) repositories {
	return repositories{
		orgs:      NewOrganizationPostgres(db),
		donations: NewDonationPostgres(db),
		ledger:    NewLedgerPostgres(db),
	}
}

func (r repositories) Organizations() repository.OrganizationRepository { return r.orgs }
func (r repositories) Donations() repository.DonationRepository         { return r.donations }
func (r repositories) Ledger() ledger.Ledger                            { return r.ledger }

// Store is a PostgreSQL implementation of repository.Store.
// Transactions run at READ COMMITTED; per-receiver serialization comes from
// the row lock taken by the ledger's conditional UPDATE, not from a global lock.
type Store struct {
	repositories
	db *sql.DB
}

// NewStore creates a Store over an open connection pool.
func NewStore(db *sql.DB) *Store {
	return &Store{repositories: newRepositories(db), db: db}
}

var _ repository.Store = (*Store)(nil)

// WithinTx implements repository.Store.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(newRepositories(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w; rollback failed: %v", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Ping implements repository.Store.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// mapError translates driver errors into repository sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
		case invalidTextRepresentation:
			// A malformed UUID can never name a stored row.
			return repository.ErrNotFound
		}
	}
	return err
}
