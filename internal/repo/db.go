// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for the
// two interchangeable storage engines: embedded SQLite (pure Go driver) for
// single-node operation and PostgreSQL for networked deployment. The engine
// is selected at startup by configuration; everything above this file is
// engine-agnostic.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/cardioai/cardioai-backend/internal/config"
)

// Open connects to the storage engine named by cfg.DBDriver. When trace is
// true the GORM OpenTelemetry plugin is installed so queries appear as spans.
func Open(cfg config.Config, trace bool) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err = OpenPostgres(cfg.DatabaseURL)
	case config.DriverSQLite:
		db, err = OpenSQLite(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, err
	}
	if trace {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite
	// "out of memory (14)" much later).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	tunePool(db)
	return db, nil
}

// OpenPostgres connects to a PostgreSQL instance using the given DSN.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	tunePool(db)
	return db, nil
}

func tunePool(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
}

// IsPostgres reports whether db speaks the PostgreSQL dialect. Aggregate
// queries use it to pick date-bucketing syntax; nothing else may branch on it.
func IsPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}
