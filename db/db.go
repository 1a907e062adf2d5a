// Package db provides database connectivity and migration functionality for
// the bookshelf service. The store runs on database/sql through sqlx so that
// the same SQL serves both supported drivers: pgx for PostgreSQL deployments
// and sqlite3 for the embedded/file-backed deployment and the test suite.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres:// migration driver
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"  // sqlite3:// migration driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file:// migration source
	_ "github.com/jackc/pgx/v5/stdlib"                         // database/sql driver "pgx"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // database/sql driver "sqlite3"

	"github.com/user/bookshelf-go/apperror"
	"github.com/user/bookshelf-go/config"
)

// Open establishes a database connection pool using the configured driver
// and DSN, and verifies connectivity with a ping. Callers are responsible
// for closing the returned handle at shutdown.
func Open(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	database, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, apperror.NewDatabaseError(fmt.Sprintf("failed to open %s database", cfg.Driver), err)
	}

	if cfg.MaxOpenConns > 0 {
		database.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	database.SetConnMaxIdleTime(10 * time.Minute)
	database.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.PingContext(ctx); err != nil {
		_ = database.Close()
		return nil, apperror.NewDatabaseError(fmt.Sprintf("failed to connect to %s database", cfg.Driver), err)
	}

	return database, nil
}

// migrationURL converts the service DSN into the URL form golang-migrate
// expects for the configured driver.
func migrationURL(cfg *config.DatabaseConfig) string {
	if cfg.Driver == "sqlite3" {
		return "sqlite3://" + cfg.DSN
	}
	// pgx DSNs are already postgres:// URLs, which migrate's postgres
	// driver accepts directly.
	return cfg.DSN
}

// migrationsPath returns the configured migrations directory, defaulting to
// the dialect-specific directory shipped with the service.
func migrationsPath(cfg *config.DatabaseConfig) string {
	if cfg.MigrationsPath != "" {
		return cfg.MigrationsPath
	}
	if cfg.Driver == "sqlite3" {
		return "migrations/sqlite3"
	}
	return "migrations/postgres"
}

// RunMigrations applies any pending migrations from the configured
// migrations directory. migrate.ErrNoChange is not treated as a failure.
func RunMigrations(cfg *config.DatabaseConfig) error {
	m, err := migrate.New("file://"+migrationsPath(cfg), migrationURL(cfg))
	if err != nil {
		return apperror.NewDatabaseError("failed to create migrator", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			fmt.Printf("warning: error closing migration source: %v\n", srcErr)
		}
		if dbErr != nil {
			fmt.Printf("warning: error closing migration database: %v\n", dbErr)
		}
	}()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return apperror.NewDatabaseError("failed to run migrations", err)
	}
	return nil
}
