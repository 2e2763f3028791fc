package http

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"gorm.io/gorm"

	"github.com/techdesk-io/techdesk/internal/infrastructure/config"
	"github.com/techdesk-io/techdesk/internal/infrastructure/metrics"
	"github.com/techdesk-io/techdesk/internal/infrastructure/scheduler"
	"github.com/techdesk-io/techdesk/internal/infrastructure/storage"
	"github.com/techdesk-io/techdesk/internal/interfaces/http/middleware"
	"github.com/techdesk-io/techdesk/internal/shared/logger"
)

// Container holds the infrastructure components, repositories, use cases,
// handlers and background jobs of the server, wired together.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	fs     afero.Fs
	redis  redis.UniversalClient

	// Repositories
	repos *repositories

	// Use cases
	ucs *allUseCases

	// Handlers
	hdlrs *allHandlers

	// Intake services
	stager   *storage.AttachmentStager
	notifier ticketNotifier
	metrics  *metrics.IntakeMetrics

	// Middlewares
	submissionRateLimit *middleware.SubmissionRateLimitMiddleware

	// Background jobs
	schedulerManager *scheduler.SchedulerManager
}

// NewContainer wires every component of the server. Attachments are stored
// on fs under cfg.Upload.Dir.
func NewContainer(db *gorm.DB, cfg *config.Config, fs afero.Fs, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
		fs:     fs,
	}

	// Section 1: Infrastructure - Redis, Repositories, Intake Services
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Use cases
	c.initUseCases()

	// Section 3: Handlers and middlewares
	c.initHandlers()

	// Section 4: Scheduler jobs
	if err := c.initScheduler(); err != nil {
		c.closeRedis()
		return nil, err
	}

	return c, nil
}

// Engine returns the Gin engine
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Scheduler returns the background job manager
func (c *Container) Scheduler() *scheduler.SchedulerManager {
	return c.schedulerManager
}

// Shutdown stops background jobs and releases connections owned by the
// container. The database handle belongs to the caller.
func (c *Container) Shutdown(_ context.Context) error {
	var firstErr error
	if c.schedulerManager != nil && c.schedulerManager.IsStarted() {
		if err := c.schedulerManager.Stop(); err != nil {
			firstErr = fmt.Errorf("failed to stop scheduler: %w", err)
		}
	}
	if err := c.closeRedis(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (c *Container) closeRedis() error {
	if c.redis == nil {
		return nil
	}
	if err := c.redis.Close(); err != nil {
		return fmt.Errorf("failed to close redis: %w", err)
	}
	c.redis = nil
	return nil
}
