// Package bootstrap loads configuration, logging and the database handle
// shared by every command.
package bootstrap

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/techdesk-io/techdesk/internal/infrastructure/config"
	"github.com/techdesk-io/techdesk/internal/infrastructure/database"
	"github.com/techdesk-io/techdesk/internal/shared/logger"
)

// Options are the persistent flags common to all commands.
type Options struct {
	Env        string
	ConfigPath string
}

// Env is a loaded configuration with an initialized process logger.
type Env struct {
	Config *config.Config
	Log    logger.Interface
}

func Load(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.Env, opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Server.Mode = MapEnvToGinMode(cfg.Server.Mode)

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode == "debug"); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &Env{
		Config: cfg,
		Log:    logger.NewLogger(),
	}, nil
}

// OpenDatabase opens the configured database. The caller closes it with
// database.Close.
func (e *Env) OpenDatabase(ctx context.Context) (*gorm.DB, error) {
	db, err := database.Open(ctx, &e.Config.Database, e.Log.Named("database"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

// Close flushes the logger.
func (e *Env) Close() {
	_ = logger.Sync()
}

// MapEnvToGinMode translates environment names into gin modes.
func MapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
