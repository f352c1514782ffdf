package service

import (
	"context"
	"strings"
	"time"

	"memecoin-radar/internal/tracker/config"
	trackerservice "memecoin-radar/internal/tracker/service"
	"memecoin-radar/pkg/common"
	"memecoin-radar/pkg/logger"
	pkgredis "memecoin-radar/pkg/redis"

	"github.com/redis/go-redis/v9"
)

// RefreshService consumes prediction-refresh requests from the Redis stream
// and runs the batch update. It also publishes requests for the cron trigger.
type RefreshService interface {
	EnsureGroup(ctx context.Context) error
	EnqueueRefresh(ctx context.Context) error
	ProcessTask(ctx context.Context)
}

type refreshService struct {
	cfg               *config.Config
	redisClient       *pkgredis.Client
	predictionService trackerservice.PredictionService
	logger            *logger.Logger
}

// NewRefreshService creates a new RefreshService.
func NewRefreshService(
	cfg *config.Config,
	redisClient *pkgredis.Client,
	predictionService trackerservice.PredictionService,
	log *logger.Logger,
) RefreshService {
	return &refreshService{
		cfg:               cfg,
		redisClient:       redisClient,
		predictionService: predictionService,
		logger:            log,
	}
}

// EnsureGroup creates the consumer group, tolerating an existing one.
func (s *refreshService) EnsureGroup(ctx context.Context) error {
	err := s.redisClient.XGroupCreateMkStream(ctx, common.RedisStreamPredictionRefresh, common.RedisStreamGroup, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// EnqueueRefresh publishes a refresh request to the stream. Used by the cron
// trigger; the API publishes the same message shape on demand.
func (s *refreshService) EnqueueRefresh(ctx context.Context) error {
	messageID, err := s.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamPredictionRefresh,
		MaxLen: s.cfg.Redis.StreamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"requested_at": time.Now().UTC().Format(time.RFC3339),
		},
	}).Result()
	if err != nil {
		return err
	}
	s.logger.Info("Scheduled refresh enqueued", logger.StringField("message_id", messageID))
	return nil
}

// ProcessTask dequeues a single refresh request and runs the batch update.
// Consecutive requests collapse into sequential runs; there is never more
// than one batch in flight per consumer.
func (s *refreshService) ProcessTask(ctx context.Context) {
	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamPredictionRefresh, ">"}, // ">" means only new messages
		Count:    1,
		Block:    2 * time.Second, // Block briefly to allow graceful shutdown
		NoAck:    true,
	}).Result()

	if err != nil {
		// Cancellation and empty reads are expected during shutdown or idle periods.
		if err == context.Canceled || err == redis.Nil {
			return
		}
		s.logger.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}

	message := streams[0].Messages[0]
	s.logger.Info("Processing prediction refresh", logger.StringField("message_id", message.ID))

	result, err := s.predictionService.UpdateAllPredictions(ctx)
	if err != nil {
		s.logger.Error("Batch prediction update failed", logger.ErrorField(err), logger.StringField("message_id", message.ID))
		return
	}

	s.logger.Info("Prediction refresh completed",
		logger.StringField("message_id", message.ID),
		logger.IntField("updated", result.Updated),
		logger.IntField("failed", result.Failed),
	)
}
