// Package migration creates the PostgreSQL schema on first start.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is the last table created; its presence means the schema is in place.
const sentinelTable = "public.donations"

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_organizations",
		SQL: `CREATE TABLE IF NOT EXISTS organizations (
  id                UUID             PRIMARY KEY DEFAULT uuid_generate_v4(),
  name              TEXT             NOT NULL UNIQUE,
  password_hash     TEXT             NOT NULL,
  role              TEXT             NOT NULL CHECK (role IN ('donor', 'receiver')),
  latitude          DOUBLE PRECISION NOT NULL CHECK (latitude BETWEEN -90 AND 90),
  longitude         DOUBLE PRECISION NOT NULL CHECK (longitude BETWEEN -180 AND 180),
  capacity          INTEGER          NOT NULL DEFAULT 0,
  original_capacity INTEGER          NOT NULL DEFAULT 0,
  created_at        TIMESTAMPTZ      NOT NULL DEFAULT now(),
  CONSTRAINT organizations_capacity_bounds CHECK (capacity >= 0 AND capacity <= original_capacity),
  CONSTRAINT organizations_donor_no_capacity CHECK (role = 'receiver' OR original_capacity = 0)
);`,
	},
	{
		Name: "create_index_organizations_receivers",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_organizations_receivers ON organizations (created_at, id) WHERE role = 'receiver';`,
	},
	{
		Name: "create_table_donations",
		SQL: `CREATE TABLE IF NOT EXISTS donations (
  id                   UUID             PRIMARY KEY DEFAULT uuid_generate_v4(),
  donor_id             UUID             NOT NULL REFERENCES organizations (id),
  food_name            TEXT             NOT NULL,
  quantity             INTEGER          NOT NULL CHECK (quantity > 0),
  expiry_hours         INTEGER          NOT NULL CHECK (expiry_hours > 0),
  assigned_receiver_id UUID             REFERENCES organizations (id),
  distance_km          DOUBLE PRECISION NOT NULL DEFAULT 0,
  status               TEXT             NOT NULL CHECK (status IN ('Unassigned', 'Assigned', 'Collected')),
  created_at           TIMESTAMPTZ      NOT NULL DEFAULT now(),
  collected_at         TIMESTAMPTZ,
  CONSTRAINT donations_assigned_has_receiver CHECK (status = 'Unassigned' OR assigned_receiver_id IS NOT NULL)
);`,
	},
	{
		Name: "create_index_donations_donor",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_donations_donor ON donations (donor_id, created_at DESC);`,
	},
	{
		Name: "create_index_donations_receiver",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_donations_receiver ON donations (assigned_receiver_id, created_at DESC);`,
	},
	{
		Name: "create_index_donations_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_donations_status ON donations (status);`,
	},
}

// EnsureMigrated runs the schema steps unless the sentinel table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", sentinelTable).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("reason", "schema already exists"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"), zap.Int("steps", len(steps)))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
