package repository

import (
	"fmt"

	"github.com/content-distributor/internal/config"
	"github.com/content-distributor/internal/database"
	"github.com/rs/zerolog"
)

// NewMemory creates repositories that live in process memory
func NewMemory(limit int) *Repositories {
	return &Repositories{
		History:  NewHistoryMemoryRepo(limit),
		Settings: NewSettingsMemoryRepo(),
	}
}

// NewFile creates repositories backed by JSON files
func NewFile(historyPath, settingsPath string, limit int, log zerolog.Logger) *Repositories {
	return &Repositories{
		History:  NewHistoryFileRepo(historyPath, limit, log),
		Settings: NewSettingsFileRepo(settingsPath, log),
	}
}

// NewSQL creates repositories with the given database connection
func NewSQL(db *database.DB, limit int, log zerolog.Logger) *Repositories {
	return &Repositories{
		History:  NewHistorySQLRepo(db, limit, log),
		Settings: NewSettingsSQLRepo(db),
	}
}

// Open builds the repositories for the configured backend. The returned
// close function releases any database connection and is never nil.
func Open(cfg *config.Config, log zerolog.Logger) (*Repositories, func() error, error) {
	noop := func() error { return nil }
	limit := cfg.History.Limit

	switch cfg.History.Backend {
	case config.BackendMemory:
		return NewMemory(limit), noop, nil

	case config.BackendFile:
		return NewFile(cfg.History.File, cfg.History.SettingsFile, limit, log), noop, nil

	case config.BackendSQLite:
		db, err := database.NewSQLite(cfg.History.SQLitePath, log)
		if err != nil {
			return nil, noop, err
		}
		return NewSQL(db, limit, log), db.Close, nil

	case config.BackendPostgres:
		db, err := database.NewPostgres(&cfg.Database, log)
		if err != nil {
			return nil, noop, err
		}
		if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return NewSQL(db, limit, log), db.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown history backend: %s", cfg.History.Backend)
	}
}
