package database

import (
	"fmt"
	"path/filepath"

	"tp-go/internal/config"
	"tp-go/internal/tp"
)

// NewDatabaseFromConfig creates a Database implementation based on the
// database config type. File-backed databases are migrated on open.
func NewDatabaseFromConfig(cfg config.DatabaseConfig) (tp.Database, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		return open(filepath.Join(cfg.DataDir, "tp.db"))
	case "memory":
		return open(":memory:")
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}

func open(path string) (tp.Database, error) {
	db, err := NewSQLiteDatabase(path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return db, nil
}
