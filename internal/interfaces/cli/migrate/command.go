package migrate

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/techdesk-io/techdesk/internal/infrastructure/database"
	"github.com/techdesk-io/techdesk/internal/infrastructure/migration"
	"github.com/techdesk-io/techdesk/internal/interfaces/cli/bootstrap"
	"github.com/techdesk-io/techdesk/internal/shared/logger"
)

var (
	opts  bootstrap.Options
	name  string
	steps int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations including running migrations, checking status, and creating new migration files.`,
	}

	cmd.PersistentFlags().StringVarP(&opts.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(ctx context.Context, strategy *migration.GooseStrategy, db *gorm.DB, log logger.Interface) error {
				if err := strategy.Migrate(ctx, db); err != nil {
					log.Errorw("migration failed", "error", err)
					return fmt.Errorf("migration failed: %w", err)
				}
				log.Infow("migrations completed successfully")
				return nil
			})
		},
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("steps must be at least 1")
			}
			return withDatabase(cmd.Context(), func(ctx context.Context, strategy *migration.GooseStrategy, db *gorm.DB, log logger.Interface) error {
				if err := strategy.MigrateDown(ctx, db, steps); err != nil {
					log.Errorw("rollback failed", "error", err)
					return fmt.Errorf("rollback failed: %w", err)
				}
				log.Infow("rollback completed successfully", "steps", steps)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(ctx context.Context, strategy *migration.GooseStrategy, db *gorm.DB, log logger.Interface) error {
				version, err := strategy.GetVersion(ctx, db)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Current version: %d\n", version)
				return strategy.Status(ctx, db)
			})
		},
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create a new SQL migration file for the configured database driver.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := bootstrap.Load(opts)
			if err != nil {
				return err
			}
			defer env.Close()

			strategy, err := migration.NewGooseStrategy(env.Config.Database.Driver, env.Log)
			if err != nil {
				return err
			}
			return strategy.Create(name)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

type migrationFunc func(ctx context.Context, strategy *migration.GooseStrategy, db *gorm.DB, log logger.Interface) error

func withDatabase(ctx context.Context, fn migrationFunc) error {
	env, err := bootstrap.Load(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	env.Log.Infow("running migration command", "environment", opts.Env, "driver", env.Config.Database.Driver)

	strategy, err := migration.NewGooseStrategy(env.Config.Database.Driver, env.Log)
	if err != nil {
		return err
	}

	db, err := env.OpenDatabase(ctx)
	if err != nil {
		return err
	}
	defer database.Close(db)

	return fn(ctx, strategy, db, env.Log)
}
