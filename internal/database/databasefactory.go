package database

import (
	"fmt"
	"log/slog"
)

func NewDatabase(databaseType, connectionString string) (DatabaseService, error) {
	var service DatabaseService
	var err error

	switch databaseType {
	case "sqlite":
		service, err = NewSQLiteDatabase(connectionString)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", databaseType)
	}

	// Ensure the schema exists (idempotent), important for in-memory SQLite
	if err = service.CreateDatabase(); err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}
	slog.Debug("database schema initialized", "type", databaseType)

	return service, nil
}
