// Package db provides database connectivity and migration functionality for the store API.
// It handles establishing the PostgreSQL connection pool, exposing it to the repositories
// through sqlx, classifying driver errors, and running the embedded schema migrations.
package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	// Registers the "postgres" database driver for golang-migrate (built on lib/pq).
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // driver for database/sql, needed by migrate's postgres driver with DSN

	"github.com/user/storeapi-go/apperror"
	"github.com/user/storeapi-go/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgreSQL error codes the repositories care about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Database bundles the pgx pool with the sqlx handle built on top of it.
// Both share the same connections; Close releases them once.
//
// Repositories take the *sqlx.DB. The pool is kept for health checks and for
// callers that want pgx directly.
type Database struct {
	Pool *pgxpool.Pool
	DB   *sqlx.DB
}

// Close closes the sqlx handle and the underlying pool.
func (d *Database) Close() {
	_ = d.DB.Close()
	d.Pool.Close()
}

// Ping verifies the database is reachable.
func (d *Database) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// Connect establishes a pgxpool connection pool using the provided configuration and
// wraps it for sqlx so repositories get struct scanning and named queries.
//
// The pool is pinged before Connect returns, so a nil error means the database
// was reachable at startup. Callers must Close the returned Database.
func Connect(cfg *config.DatabaseConfig) (*Database, error) {
	pool, err := createPgxPool(cfg)
	if err != nil {
		return nil, err
	}
	// OpenDBFromPool hands out connections from the pool through database/sql.
	sqlDB := stdlib.OpenDBFromPool(pool)
	return &Database{Pool: pool, DB: sqlx.NewDb(sqlDB, "pgx")}, nil
}

// createPgxPool establishes a single pgxpool connection pool.
// MaxConns comes from DB_POOL_SIZE; idle connections are dropped after 10 minutes
// and every connection is recycled after 30.
func createPgxPool(cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, apperror.NewDatabaseError("error parsing database DSN", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxSize)
	poolConfig.MaxConnIdleTime = 10 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError("error creating pgxpool", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperror.NewDatabaseError("error connecting to the database with pgxpool", err)
	}

	return pool, nil
}

// newMigrator builds a golang-migrate instance reading the embedded SQL files.
func newMigrator(cfg *config.DatabaseConfig) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, apperror.NewMigrationError("failed to open embedded migrations", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.DSN())
	if err != nil {
		return nil, apperror.NewMigrationError("failed to create migrator", err)
	}
	return m, nil
}

// RunMigrations applies any pending migrations. No pending migrations is not an error.
func RunMigrations(cfg *config.DatabaseConfig) error {
	m, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewMigrationError("failed to run migrations", err)
	}
	return nil
}

// RollbackMigrations reverts the given number of migrations, or all of them when steps <= 0.
func RollbackMigrations(cfg *config.DatabaseConfig, steps int) error {
	m, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if steps > 0 {
		err = m.Steps(-steps)
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewMigrationError("failed to roll back migrations", err)
	}
	return nil
}

// MigrationVersion reports the current schema version and whether it is dirty.
func MigrationVersion(cfg *config.DatabaseConfig) (uint, bool, error) {
	m, err := newMigrator(cfg)
	if err != nil {
		return 0, false, err
	}
	defer closeMigrator(m)

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, apperror.NewMigrationError("failed to read migration version", err)
	}
	return version, dirty, nil
}

func closeMigrator(m *migrate.Migrate) {
	if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
		fmt.Printf("Warning: error closing migrator: source=%v database=%v\n", srcErr, dbErr)
	}
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsForeignKeyViolation reports whether err is a PostgreSQL foreign key violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
