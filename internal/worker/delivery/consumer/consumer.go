package consumer

import (
	"context"
	"sync"
	"time"

	"memecoin-radar/internal/tracker/config"
	"memecoin-radar/internal/worker/service"
	"memecoin-radar/pkg/common"
	"memecoin-radar/pkg/logger"
	"memecoin-radar/pkg/utils"

	"github.com/robfig/cron/v3"
)

// RedisConsumer manages consumption of refresh requests from the Redis
// stream and the cron trigger that enqueues them.
type RedisConsumer struct {
	cfg            *config.Config
	refreshService service.RefreshService
	logger         *logger.Logger
	cron           *cron.Cron
	stopChan       chan struct{}
	wg             sync.WaitGroup
}

// NewRedisConsumer creates a new RedisConsumer.
func NewRedisConsumer(
	cfg *config.Config,
	refreshService service.RefreshService,
	log *logger.Logger,
) *RedisConsumer {
	return &RedisConsumer{
		cfg:            cfg,
		refreshService: refreshService,
		logger:         log,
		cron:           cron.New(),
		stopChan:       make(chan struct{}),
	}
}

// Start begins the consumer loop and the cron trigger.
func (c *RedisConsumer) Start(ctx context.Context) error {
	if err := c.refreshService.EnsureGroup(ctx); err != nil {
		return err
	}
	c.logger.Info("Redis consumer started")

	c.RegisterStreamHandler(ctx, c.refreshService.ProcessTask, common.RedisStreamPredictionRefresh, c.cfg.Worker.RedisStreamTimeout)

	if spec := c.cfg.Worker.RefreshCronSpec; spec != "" {
		_, err := c.cron.AddFunc(spec, func() {
			if err := c.refreshService.EnqueueRefresh(ctx); err != nil {
				c.logger.Error("Failed to enqueue scheduled refresh", logger.ErrorField(err))
			}
		})
		if err != nil {
			return err
		}
		c.cron.Start()
		c.logger.Info("Refresh schedule registered", logger.StringField("spec", spec))
	}

	return nil
}

func (c *RedisConsumer) RegisterStreamHandler(ctx context.Context, fn func(ctx context.Context), streamName string, timeout time.Duration) {
	c.logger.Info("Registering stream handler", logger.Field("stream", streamName))
	c.wg.Add(1)
	utils.GoSafe(func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Redis consumer stopping due to context cancellation")
				return
			case <-c.stopChan:
				c.logger.Info("Redis consumer stopping")
				return
			default:
				ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
				fn(ctxTimeout)
				cancel()
			}
		}
	})
}

// Stop gracefully shuts down the consumer and the cron trigger.
func (c *RedisConsumer) Stop() {
	cronCtx := c.cron.Stop()
	<-cronCtx.Done()
	close(c.stopChan)
	c.wg.Wait()
	c.logger.Info("Redis consumer stopped")
}
