package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"docflow/internal/config"
)

// NewDatabaseFromConfig opens the database selected by cfg.Type.
func NewDatabaseFromConfig(ctx context.Context, cfg config.DatabaseConfig, instanceID string) (*SQLDatabase, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, fmt.Errorf("creating data_dir: %w", err)
		}
		return OpenSQLite(filepath.Join(cfg.DataDir, instanceID+".db"))
	case "memory":
		return OpenSQLite(":memory:")
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("dsn required for postgres database")
		}
		return OpenPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
