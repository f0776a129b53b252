package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"dailynotes/api/internal/config"
	"dailynotes/api/internal/logging"
	"dailynotes/api/internal/store"
)

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:          "api",
		Short:        "Daily notes writing assistant API",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "optional config file (yaml, json or toml)")

	root.AddCommand(
		newServeCmd(&configFile),
		newMigrateCmd(&configFile),
		newResetReadyCmd(&configFile),
		newReindexCmd(&configFile),
	)
	return root
}

// runtime is what every subcommand needs before doing its own work.
type runtime struct {
	cfg config.Config
	log *logging.ZapLogger
	db  *sql.DB
}

// bootstrap loads config, builds the logger and opens the database with
// migrations applied.
func bootstrap(ctx context.Context, configFile string) (*runtime, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logging.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := store.ApplyMigrations(ctx, db); err != nil {
		_ = db.Close()
		_ = log.Sync()
		return nil, fmt.Errorf("migrations failed: %w", err)
	}
	return &runtime{cfg: cfg, log: log, db: db}, nil
}

func (r *runtime) Close() {
	_ = r.db.Close()
	_ = r.log.Sync()
}
