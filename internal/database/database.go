package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"zerowaste/internal/config"
)

// ApplicationName is reported to PostgreSQL in pg_stat_activity.
const ApplicationName = "zerowaste"

const pingTimeout = 5 * time.Second

var errIncompleteConfig = errors.New("database config: host, port, user and name are required")

var sqlOpen = sql.Open

// DSN renders c as a postgres:// URL for the pgx driver. Session settings such
// as application_name and statement_timeout travel as query parameters, which
// pgx forwards to the server as runtime parameters.
func DSN(c config.DatabaseConfig) (string, error) {
	if c.Host == "" || c.Port == "" || c.User == "" || c.Name == "" {
		return "", errIncompleteConfig
	}

	user := url.User(c.User)
	if c.Password != "" {
		user = url.UserPassword(c.User, c.Password)
	}

	params := url.Values{"application_name": {ApplicationName}}
	if c.SSLMode != "" {
		params.Set("sslmode", c.SSLMode)
	}
	if c.StatementTimeoutMs > 0 {
		params.Set("statement_timeout", strconv.Itoa(c.StatementTimeoutMs))
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     user,
		Host:     c.Host + ":" + c.Port,
		Path:     c.Name,
		RawQuery: params.Encode(),
	}
	return u.String(), nil
}

// NewPostgres opens a traced database/sql pool on the pgx stdlib driver and
// pings it before handing it to the repositories.
func NewPostgres(ctx context.Context, c config.DatabaseConfig) (*sql.DB, error) {
	dsn, err := DSN(c)
	if err != nil {
		return nil, err
	}

	driverName, err := otelsql.Register("pgx",
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithSQLCommenter(true),
	)
	if err != nil {
		return nil, fmt.Errorf("register traced driver: %w", err)
	}

	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	configurePool(db, c)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// configurePool applies the non-zero pool limits from c.
func configurePool(db *sql.DB, c config.DatabaseConfig) {
	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetimeSec > 0 {
		db.SetConnMaxLifetime(time.Duration(c.ConnMaxLifetimeSec) * time.Second)
	}
}
