package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"memecoin-radar/internal/entity"
	"memecoin-radar/internal/tracker/config"
	"memecoin-radar/internal/tracker/service"
	"memecoin-radar/pkg/common"
	"memecoin-radar/pkg/logger"
	pkgredis "memecoin-radar/pkg/redis"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// PredictionHandler handles HTTP requests for success predictions.
type PredictionHandler struct {
	cfg               *config.Config
	predictionService service.PredictionService
	redisClient       *pkgredis.Client
	logger            *logger.Logger
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(
	cfg *config.Config,
	predictionService service.PredictionService,
	redisClient *pkgredis.Client,
	logger *logger.Logger,
) *PredictionHandler {
	return &PredictionHandler{
		cfg:               cfg,
		predictionService: predictionService,
		redisClient:       redisClient,
		logger:            logger,
	}
}

// RegisterRoutes registers the prediction routes to the Echo group.
func (h *PredictionHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetTopPredictions)
	g.GET("/:symbol/history", h.GetPredictionHistory)
	g.POST("/:symbol/refresh", h.RefreshPrediction)
	g.POST("/batch-update", h.EnqueueBatchUpdate)
}

// GetTopPredictions godoc
// @Summary Get top predictions
// @Description Get coins ranked by stored success probability, highest first
// @Tags predictions
// @Produce  json
// @Param   limit  query   int false   "Maximum number of results"
// @Success 200 {array} dto.SuccessPrediction
// @Failure 500 {object} dto.ErrorResponse
// @Router /predictions [get]
func (h *PredictionHandler) GetTopPredictions(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	predictions, err := h.predictionService.GetTopPredictions(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("Failed to get top predictions", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get predictions"})
	}
	return c.JSON(http.StatusOK, predictions)
}

// GetPredictionHistory godoc
// @Summary Get prediction history
// @Description Get the stored prediction runs for a coin, newest first
// @Tags predictions
// @Produce  json
// @Param   symbol  path    string true    "Coin symbol"
// @Param   limit   query   int    false   "Maximum number of entries"
// @Success 200 {array} dto.PredictionHistoryEntry
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /predictions/{symbol}/history [get]
func (h *PredictionHandler) GetPredictionHistory(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	entries, err := h.predictionService.GetPredictionHistory(c.Request().Context(), c.Param("symbol"), limit)
	if err != nil {
		if errors.Is(err, entity.ErrCoinNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		h.logger.Error("Failed to get prediction history", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get prediction history"})
	}
	return c.JSON(http.StatusOK, entries)
}

// RefreshPrediction godoc
// @Summary Recompute one prediction
// @Description Recompute and persist the success probability for a single coin
// @Tags predictions
// @Produce  json
// @Param   symbol  path    string true    "Coin symbol"
// @Success 200 {object} map[string]float64
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /predictions/{symbol}/refresh [post]
func (h *PredictionHandler) RefreshPrediction(c echo.Context) error {
	probability, err := h.predictionService.PredictSuccess(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		if errors.Is(err, entity.ErrCoinNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"success_probability": probability})
}

// EnqueueBatchUpdate godoc
// @Summary Enqueue a batch prediction refresh
// @Description Publish a refresh request to the worker stream and return immediately
// @Tags predictions
// @Produce  json
// @Success 202 {object} map[string]string
// @Failure 500 {object} dto.ErrorResponse
// @Router /predictions/batch-update [post]
func (h *PredictionHandler) EnqueueBatchUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	messageID, err := h.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamPredictionRefresh,
		MaxLen: h.cfg.Redis.StreamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"requested_at": time.Now().UTC().Format(time.RFC3339),
		},
	}).Result()
	if err != nil {
		h.logger.Error("Failed to enqueue batch update", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to enqueue batch update"})
	}

	h.logger.Info("Batch update enqueued", logger.StringField("message_id", messageID))
	return c.JSON(http.StatusAccepted, echo.Map{"message_id": messageID})
}
