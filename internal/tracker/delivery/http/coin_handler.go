package http

import (
	"errors"
	"net/http"

	"memecoin-radar/internal/entity"
	"memecoin-radar/internal/tracker/dto"
	"memecoin-radar/internal/tracker/service"
	"memecoin-radar/pkg/logger"

	"github.com/labstack/echo/v4"
)

// CoinHandler handles HTTP requests for coins and their per-coin analytics.
type CoinHandler struct {
	coinService      service.CoinService
	priceService     service.PriceAnalysisService
	sentimentService service.SentimentService
	logger           *logger.Logger
}

// NewCoinHandler creates a new CoinHandler.
func NewCoinHandler(
	coinService service.CoinService,
	priceService service.PriceAnalysisService,
	sentimentService service.SentimentService,
	logger *logger.Logger,
) *CoinHandler {
	return &CoinHandler{
		coinService:      coinService,
		priceService:     priceService,
		sentimentService: sentimentService,
		logger:           logger,
	}
}

// RegisterRoutes registers the coin routes to the Echo group.
func (h *CoinHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateCoin)
	g.GET("", h.GetAllCoins)
	g.GET("/:symbol", h.GetCoinBySymbol)
	g.GET("/:symbol/indicators", h.GetIndicators)
	g.GET("/:symbol/indicators/breakdown", h.GetTechnicalBreakdown)
	g.GET("/:symbol/sentiment", h.GetSentiment)
	g.GET("/:symbol/sentiment/breakdown", h.GetSentimentBreakdown)
}

// CreateCoin godoc
// @Summary Register a new coin
// @Description Register a coin profile to track
// @Tags coins
// @Accept  json
// @Produce  json
// @Param   coin  body    dto.CreateCoinRequest   true    "Coin to register"
// @Success 201 {object} entity.Coin
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /coins [post]
func (h *CoinHandler) CreateCoin(c echo.Context) error {
	var req dto.CreateCoinRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}

	coin, err := h.coinService.CreateCoin(c.Request().Context(), &req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, coin)
}

// GetAllCoins godoc
// @Summary Get all tracked coins
// @Description Get all tracked coins
// @Tags coins
// @Produce  json
// @Success 200 {array} entity.Coin
// @Failure 500 {object} dto.ErrorResponse
// @Router /coins [get]
func (h *CoinHandler) GetAllCoins(c echo.Context) error {
	coins, err := h.coinService.GetAllCoins(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get all coins", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get coins"})
	}
	return c.JSON(http.StatusOK, coins)
}

// GetCoinBySymbol godoc
// @Summary Get a coin by symbol
// @Description Get a single tracked coin by its ticker symbol
// @Tags coins
// @Produce  json
// @Param   symbol  path    string true    "Coin symbol"
// @Success 200 {object} entity.Coin
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /coins/{symbol} [get]
func (h *CoinHandler) GetCoinBySymbol(c echo.Context) error {
	coin, err := h.coinService.GetCoinBySymbol(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		if errors.Is(err, entity.ErrCoinNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, coin)
}

// GetIndicators godoc
// @Summary Get technical indicators
// @Description Get the current technical indicator set for a coin
// @Tags coins
// @Produce  json
// @Param   symbol  path    string true    "Coin symbol"
// @Success 200 {object} dto.PriceIndicators
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /coins/{symbol}/indicators [get]
func (h *CoinHandler) GetIndicators(c echo.Context) error {
	indicators, err := h.priceService.GetIndicators(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		if errors.Is(err, entity.ErrCoinNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, indicators)
}

// GetTechnicalBreakdown godoc
// @Summary Get technical analysis breakdown
// @Description Get indicators with human-readable interpretations and a composite score
// @Tags coins
// @Produce  json
// @Param   symbol  path    string true    "Coin symbol"
// @Success 200 {object} dto.TechnicalBreakdown
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /coins/{symbol}/indicators/breakdown [get]
func (h *CoinHandler) GetTechnicalBreakdown(c echo.Context) error {
	breakdown, err := h.priceService.GetTechnicalBreakdown(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		if errors.Is(err, entity.ErrCoinNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, breakdown)
}

// GetSentiment godoc
// @Summary Get social sentiment score
// @Description Get the aggregated social sentiment score for a coin
// @Tags coins
// @Produce  json
// @Param   symbol  path    string true    "Coin symbol"
// @Success 200 {object} dto.SentimentScore
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /coins/{symbol}/sentiment [get]
func (h *CoinHandler) GetSentiment(c echo.Context) error {
	score, err := h.sentimentService.CalculateSentimentScore(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		if errors.Is(err, entity.ErrCoinNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, score)
}

// GetSentimentBreakdown godoc
// @Summary Get sentiment breakdown
// @Description Get per-platform and per-day sentiment over the trailing window
// @Tags coins
// @Produce  json
// @Param   symbol  path    string true    "Coin symbol"
// @Success 200 {object} dto.SentimentBreakdown
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /coins/{symbol}/sentiment/breakdown [get]
func (h *CoinHandler) GetSentimentBreakdown(c echo.Context) error {
	breakdown, err := h.sentimentService.GetSentimentBreakdown(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		if errors.Is(err, entity.ErrCoinNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, breakdown)
}
