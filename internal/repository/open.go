// Package repository selects the persisted-state backend configured for the process.
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rrens/legal-assistant/internal/config"
	"github.com/Rrens/legal-assistant/internal/domain"
	"github.com/Rrens/legal-assistant/internal/repository/memory"
	"github.com/Rrens/legal-assistant/internal/repository/mongo"
	"github.com/Rrens/legal-assistant/internal/repository/mysql"
	"github.com/Rrens/legal-assistant/internal/repository/pebble"
	"github.com/Rrens/legal-assistant/internal/repository/postgres"
	"github.com/Rrens/legal-assistant/internal/repository/redis"
	"github.com/Rrens/legal-assistant/internal/repository/sqlite"
	"github.com/rs/zerolog/log"
)

// Drivers lists the accepted values of storage.driver
var Drivers = []string{"sqlite", "postgres", "mysql", "redis", "mongo", "pebble", "memory"}

// Open connects the slot store named by cfg.Driver
func Open(ctx context.Context, cfg config.StorageConfig) (domain.SlotStore, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	driver := strings.ToLower(cfg.Driver)
	log.Info().Str("driver", driver).Msg("Opening document storage")

	switch driver {
	case "sqlite", "":
		return sqlite.NewStore(ctx, cfg.Path)
	case "pebble":
		return pebble.NewStore(cfg.Path)
	case "memory":
		return memory.NewStore(), nil
	case "postgres":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("storage.dsn is required for postgres")
		}
		return postgres.NewDB(ctx, cfg.DSN)
	case "mysql":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("storage.dsn is required for mysql")
		}
		return mysql.NewStore(ctx, cfg.DSN)
	case "mongo":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("storage.dsn is required for mongo")
		}
		return mongo.NewStore(ctx, cfg.DSN, cfg.Database)
	case "redis":
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return redis.NewSlotStore(client), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q (supported: %s)", cfg.Driver, strings.Join(Drivers, ", "))
	}
}
