package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rrens/legal-assistant/internal/config"
	"github.com/Rrens/legal-assistant/internal/repository/migrations"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	dialect, url, err := target(cfg.Storage)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Applying %s migrations...\n", dialect)

	if err := migrations.Up(dialect, url); err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Migrations applied")
}

// target maps the configured storage onto a migrate dialect and URL
func target(cfg config.StorageConfig) (string, string, error) {
	switch strings.ToLower(cfg.Driver) {
	case "sqlite", "":
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return "", "", fmt.Errorf("failed to create data directory: %w", err)
		}
		return migrations.SQLite, migrations.SQLiteURL(cfg.Path), nil
	case "postgres":
		return migrations.Postgres, cfg.DSN, nil
	case "mysql":
		return migrations.MySQL, migrations.MySQLURL(cfg.DSN), nil
	default:
		return "", "", fmt.Errorf("storage driver %q has no schema to migrate", cfg.Driver)
	}
}
