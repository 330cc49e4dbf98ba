package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zerowaste/internal/repository"
)

func TestStore_WithinTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commit on success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE organizations").
			WithArgs("r1", 4).
			WillReturnRows(sqlmock.NewRows([]string{"capacity"}).AddRow(6))
		mock.ExpectCommit()

		store := NewStore(db)
		err = store.WithinTx(ctx, func(tx repository.Repositories) error {
			_, err := tx.Ledger().Debit(ctx, "r1", 4)
			return err
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback on error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err = NewStore(db).WithinTx(ctx, func(tx repository.Repositories) error {
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin().WillReturnError(errors.New("no conn"))

		err = NewStore(db).WithinTx(ctx, func(tx repository.Repositories) error {
			t.Fatal("fn must not run")
			return nil
		})

		assert.ErrorContains(t, err, "begin tx: no conn")
	})
}

func TestStore_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	assert.NoError(t, NewStore(db).Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "organizations_name_key"}), repository.ErrDuplicate)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: invalidTextRepresentation}), repository.ErrNotFound)

	other := errors.New("other")
	assert.Equal(t, other, mapError(other))
}
