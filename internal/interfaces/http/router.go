package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/techdesk-io/techdesk/internal/infrastructure/scheduler"
	"github.com/techdesk-io/techdesk/internal/interfaces/http/middleware"
	"github.com/techdesk-io/techdesk/internal/interfaces/http/routes"
)

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.CustomLogger(c.log))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.SecurityHeaders())
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))

	c.engine.GET("/health", c.hdlrs.healthHandler.HealthCheck)
	c.engine.GET("/metrics", gin.WrapH(c.metrics.Handler()))

	routeCfg := &routes.TicketRouteConfig{
		TicketHandler:     c.hdlrs.ticketHandler,
		AttachmentHandler: c.hdlrs.attachmentHandler,
	}
	if c.submissionRateLimit != nil {
		routeCfg.SubmissionLimit = c.submissionRateLimit.LimitByClientIP()
	}
	routes.SetupTicketRoutes(c.engine, routeCfg)
}

// initScheduler registers the orphaned attachment audit. A zero interval
// disables it.
func (c *Container) initScheduler() error {
	interval := time.Duration(c.cfg.Scheduler.OrphanAuditIntervalMinutes) * time.Minute
	if interval <= 0 {
		return nil
	}

	manager, err := scheduler.NewSchedulerManager(c.log)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := manager.RegisterOrphanAuditJob(c.ucs.auditAttachmentsUC, interval); err != nil {
		return fmt.Errorf("failed to register orphan audit job: %w", err)
	}
	c.schedulerManager = manager
	return nil
}

// sqlPinger adapts the gorm handle for health checks.
type sqlPinger struct {
	db *gorm.DB
}

func (p sqlPinger) PingContext(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
