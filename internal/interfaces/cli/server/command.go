package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/techdesk-io/techdesk/internal/infrastructure/database"
	"github.com/techdesk-io/techdesk/internal/infrastructure/migration"
	"github.com/techdesk-io/techdesk/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/techdesk-io/techdesk/internal/interfaces/http"
	"github.com/techdesk-io/techdesk/internal/shared/logger"
	"github.com/techdesk-io/techdesk/internal/shared/version"
)

const shutdownTimeout = 30 * time.Second

var (
	opts        bootstrap.Options
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the ticket intake HTTP server and its background jobs.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&opts.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", true, "Apply pending database migrations on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	env, err := bootstrap.Load(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	cfg := env.Config
	log := env.Log

	log.Infow("starting server",
		"environment", opts.Env,
		"version", version.String(),
		"mode", cfg.Server.Mode,
		"auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := env.OpenDatabase(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Errorw("failed to close database", "error", err)
		}
	}()

	if err := handleMigrations(ctx, db, cfg.Database.Driver, log); err != nil {
		return err
	}

	container, err := httpRouter.NewContainer(db, cfg, afero.NewOsFs(), log)
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}
	container.SetupRoutes()

	srv := &http.Server{
		Addr:              cfg.Server.GetAddr(),
		Handler:           container.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	if sched := container.Scheduler(); sched != nil {
		sched.Start()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infow("server starting", "address", srv.Addr, "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Infow("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var shutdownErr error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorw("server forced to shutdown", "error", err)
			shutdownErr = err
		}
		if err := container.Shutdown(shutdownCtx); err != nil {
			log.Errorw("failed to stop background services", "error", err)
			if shutdownErr == nil {
				shutdownErr = err
			}
		}
		return shutdownErr
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

func handleMigrations(ctx context.Context, db *gorm.DB, driver string, log logger.Interface) error {
	strategy, err := migration.NewGooseStrategy(driver, log)
	if err != nil {
		return err
	}

	if autoMigrate {
		log.Infow("running auto-migration")
		if err := strategy.Migrate(ctx, db); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
		return nil
	}

	version, err := strategy.GetVersion(ctx, db)
	if err != nil {
		log.Warnw("failed to check migration status", "error", err)
		return nil
	}
	log.Infow("current migration version", "version", version)
	return nil
}
