package config

import (
	"fmt"
	"os"

	"todo-list/internal/logging"
	"todo-list/internal/repository/sqlite"
)

// CreateRepository creates a repository instance using the configuration system.
// The testing environment gets an in-memory database.
func CreateRepository(config *Config) (sqlite.Repository, error) {
	if config.IsTesting() {
		return CreateTestRepository()
	}

	if err := os.MkdirAll(expandHome(config.Database.Dir), os.FileMode(config.Database.DirPermissions)); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dbPath := config.GetDatabasePath()
	logging.Debugf("config: opening database %s\n", dbPath)

	repo, err := sqlite.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return repo, nil
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository() (sqlite.Repository, error) {
	repo, err := sqlite.New(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}

	return repo, nil
}
