package http

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/techdesk-io/techdesk/internal/application/ticket/usecases"
	"github.com/techdesk-io/techdesk/internal/infrastructure/config"
	"github.com/techdesk-io/techdesk/internal/infrastructure/email"
	"github.com/techdesk-io/techdesk/internal/infrastructure/metrics"
	"github.com/techdesk-io/techdesk/internal/infrastructure/ratelimit"
	"github.com/techdesk-io/techdesk/internal/infrastructure/storage"
	"github.com/techdesk-io/techdesk/internal/interfaces/http/middleware"
	sharedConfig "github.com/techdesk-io/techdesk/internal/shared/config"
	"github.com/techdesk-io/techdesk/internal/shared/logger"
	"github.com/techdesk-io/techdesk/internal/shared/services/markdown"
)

const redisPingTimeout = 5 * time.Second

type ticketNotifier = usecases.TicketNotifier

// initInfrastructure sets up Redis, repositories and the intake services.
func (c *Container) initInfrastructure() error {
	if c.cfg.Redis.Enabled {
		client, err := initRedis(c.cfg, c.log)
		if err != nil {
			return err
		}
		c.redis = client
		c.submissionRateLimit = middleware.NewSubmissionRateLimitMiddleware(
			ratelimit.NewRedisRateLimiter(client),
			ratelimit.Limits{
				RequestsPerMinute: c.cfg.RateLimit.RequestsPerMinute,
				RequestsPerHour:   c.cfg.RateLimit.RequestsPerHour,
			},
			c.log.Named("middleware.ratelimit"),
		)
	}

	c.repos = newRepositories(c.db)
	c.metrics = metrics.NewIntakeMetrics()
	c.stager = storage.NewAttachmentStager(c.fs, &c.cfg.Upload, c.log.Named("storage.stager"))
	c.notifier = newTicketNotifier(c.cfg.Email, c.stager, c.log)

	return nil
}

func initRedis(cfg *config.Config, log logger.Interface) (redis.UniversalClient, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.GetAddr(), err)
	}
	log.Infow("Redis connection established successfully", "addr", cfg.Redis.GetAddr())

	return redisClient, nil
}

// newTicketNotifier builds the mail notifier reading attachments back from
// the stager's directory.
func newTicketNotifier(cfg sharedConfig.EmailConfig, stager *storage.AttachmentStager, log logger.Interface) *email.TicketNotifier {
	smtp := email.NewSMTPEmailService(cfg, log.Named("email.smtp"))

	files := email.AttachmentReaderFunc(func(storageName string) (io.ReadCloser, error) {
		return stager.Open(storageName)
	})

	return email.NewTicketNotifier(
		smtp,
		files,
		markdown.NewMarkdownService(),
		smtp.DefaultRecipient(),
		log.Named("email"),
	)
}
