package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"memecoin-radar/internal/entity"
	"memecoin-radar/internal/tracker/config"
	"memecoin-radar/internal/tracker/dto"
	"memecoin-radar/internal/tracker/repository"
	"memecoin-radar/pkg/common"
	"memecoin-radar/pkg/logger"
	pkgredis "memecoin-radar/pkg/redis"
	"memecoin-radar/pkg/utils"

	"github.com/patrickmn/go-cache"
)

// minIndicatorPoints is the smallest series that yields a real technical
// reading: RSI(14) needs 14 deltas, hence 15 points. Anything shorter gets
// the neutral default, which callers must treat as "insufficient data".
const minIndicatorPoints = 15

// PriceAnalysisService computes technical indicators for a coin, reading the
// locally cached series first and falling back to the market-data feed.
type PriceAnalysisService interface {
	GetIndicators(ctx context.Context, symbol string) (dto.PriceIndicators, error)
	GetTechnicalBreakdown(ctx context.Context, symbol string) (dto.TechnicalBreakdown, error)
}

type priceAnalysisService struct {
	cfg         *config.Config
	log         *logger.Logger
	coinRepo    repository.CoinRepository
	priceRepo   repository.PriceHistoryRepository
	marketRepo  repository.MarketDataRepository
	redisClient *pkgredis.Client
	memCache    *cache.Cache
}

// NewPriceAnalysisService creates a new PriceAnalysisService. redisClient
// may be nil, in which case only the in-process cache is used.
func NewPriceAnalysisService(
	cfg *config.Config,
	log *logger.Logger,
	coinRepo repository.CoinRepository,
	priceRepo repository.PriceHistoryRepository,
	marketRepo repository.MarketDataRepository,
	redisClient *pkgredis.Client,
) PriceAnalysisService {
	return &priceAnalysisService{
		cfg:         cfg,
		log:         log,
		coinRepo:    coinRepo,
		priceRepo:   priceRepo,
		marketRepo:  marketRepo,
		redisClient: redisClient,
		memCache:    cache.New(cfg.Tracker.IndicatorCacheTTL, 2*cfg.Tracker.IndicatorCacheTTL),
	}
}

// NeutralIndicators is the documented insufficient-data default.
func NeutralIndicators() dto.PriceIndicators {
	return dto.PriceIndicators{
		RSI:             50,
		MACD:            dto.MACD{},
		EMA20:           0,
		EMA50:           0,
		VolumeChange24h: 0,
	}
}

// ComputeIndicators derives the full indicator set from an ordered price
// series. Pure: no I/O, no state. Series shorter than minIndicatorPoints
// return the neutral default.
func ComputeIndicators(points []entity.PricePoint) dto.PriceIndicators {
	if len(points) < minIndicatorPoints {
		return NeutralIndicators()
	}

	prices := make([]float64, len(points))
	volumes := make([]float64, len(points))
	for i, p := range points {
		prices[i] = p.Price
		volumes[i] = p.Volume
	}

	return dto.PriceIndicators{
		RSI:             calculateRSI(prices, 14),
		MACD:            calculateMACD(prices),
		EMA20:           calculateEMA(prices, 20),
		EMA50:           calculateEMA(prices, 50),
		VolumeChange24h: calculateVolumeChange(volumes),
	}
}

// calculateRSI implements Wilder's smoothed RSI. The first period deltas are
// averaged arithmetically, later ones exponentially; a step's gain and loss
// are mutually exclusive.
func calculateRSI(prices []float64, period int) float64 {
	if len(prices) < period+1 {
		return 50
	}

	var gains, losses float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change >= 0 {
			gains += change
		} else {
			losses += math.Abs(change)
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change >= 0 {
			avgGain = (avgGain*float64(period-1) + change) / float64(period)
			avgLoss = (avgLoss * float64(period-1)) / float64(period)
		} else {
			avgGain = (avgGain * float64(period-1)) / float64(period)
			avgLoss = (avgLoss*float64(period-1) + math.Abs(change)) / float64(period)
		}
	}

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// calculateEMA seeds with the SMA of the first period prices and iterates
// the standard multiplier over the rest. Shorter series degrade to the last
// price, or 0 when empty.
func calculateEMA(prices []float64, period int) float64 {
	if len(prices) < period {
		if len(prices) == 0 {
			return 0
		}
		return prices[len(prices)-1]
	}

	multiplier := 2 / float64(period+1)

	var ema float64
	for _, p := range prices[:period] {
		ema += p
	}
	ema /= float64(period)

	for i := period; i < len(prices); i++ {
		ema = (prices[i]-ema)*multiplier + ema
	}

	return ema
}

// calculateMACD computes EMA(12)-EMA(26) over the whole series. The signal
// line is the MACD value scaled by 0.9 rather than a true EMA(9) of the MACD
// series; downstream scoring depends on this documented approximation, so do
// not swap in the textbook formula without revisiting the technical factor.
func calculateMACD(prices []float64) dto.MACD {
	if len(prices) < 26 {
		return dto.MACD{}
	}

	value := calculateEMA(prices, 12) - calculateEMA(prices, 26)
	signal := value * 0.9
	return dto.MACD{
		Value:     value,
		Signal:    signal,
		Histogram: value - signal,
	}
}

// calculateVolumeChange compares the last two observations. A zero previous
// volume maps to +100% when any volume appeared, 0 otherwise.
func calculateVolumeChange(volumes []float64) float64 {
	if len(volumes) < 2 {
		return 0
	}

	last := volumes[len(volumes)-1]
	prev := volumes[len(volumes)-2]

	if prev == 0 {
		if last > 0 {
			return 100
		}
		return 0
	}

	return (last - prev) / prev * 100
}

// GetIndicators returns the indicator set for a symbol. Only an unknown coin
// is an error; a failing market feed degrades to the neutral default with
// Degraded set.
func (s *priceAnalysisService) GetIndicators(ctx context.Context, symbol string) (dto.PriceIndicators, error) {
	coin, err := s.coinRepo.FindBySymbol(ctx, symbol)
	if err != nil {
		return dto.PriceIndicators{}, err
	}

	cacheKey := common.RedisKeyIndicators + coin.Symbol
	if cached, ok := s.memCache.Get(cacheKey); ok {
		return cached.(dto.PriceIndicators), nil
	}
	if indicators, ok := s.getFromRedis(ctx, cacheKey); ok {
		s.memCache.Set(cacheKey, indicators, cache.DefaultExpiration)
		return indicators, nil
	}

	points, err := s.priceRepo.FindByCoinID(ctx, coin.ID)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load price history", logger.ErrorField(err), logger.StringField("symbol", coin.Symbol))
		points = nil
	}

	if len(points) < minIndicatorPoints {
		fetched, err := s.fetchAndStoreSeries(ctx, coin)
		if err != nil {
			s.log.ErrorContext(ctx, "Market feed unavailable, using neutral indicators",
				logger.ErrorField(err), logger.StringField("symbol", coin.Symbol))
			degraded := NeutralIndicators()
			degraded.Degraded = true
			return degraded, nil
		}
		points = fetched
	}

	indicators := ComputeIndicators(points)
	s.storeInCaches(ctx, cacheKey, indicators)
	return indicators, nil
}

// GetTechnicalBreakdown pairs the indicators with interpretations and a
// composite 0-100 technical score for the coin detail page.
func (s *priceAnalysisService) GetTechnicalBreakdown(ctx context.Context, symbol string) (dto.TechnicalBreakdown, error) {
	indicators, err := s.GetIndicators(ctx, symbol)
	if err != nil {
		return dto.TechnicalBreakdown{}, err
	}
	return BuildTechnicalBreakdown(indicators), nil
}

// BuildTechnicalBreakdown interprets an indicator set. Pure.
func BuildTechnicalBreakdown(indicators dto.PriceIndicators) dto.TechnicalBreakdown {
	var rsiText string
	switch {
	case indicators.RSI > 70:
		rsiText = "Overbought (bearish)"
	case indicators.RSI < 30:
		rsiText = "Oversold (bullish)"
	default:
		rsiText = "Neutral"
	}

	var macdText string
	switch {
	case indicators.MACD.Histogram > 0:
		macdText = "Bullish (rising trend)"
	case indicators.MACD.Histogram < 0:
		macdText = "Bearish (falling trend)"
	default:
		macdText = "Neutral"
	}

	var volumeText string
	switch {
	case indicators.VolumeChange24h > 50:
		volumeText = "Strong increase (bullish)"
	case indicators.VolumeChange24h > 20:
		volumeText = "Moderate increase (slightly bullish)"
	case indicators.VolumeChange24h < -50:
		volumeText = "Strong decrease (bearish)"
	case indicators.VolumeChange24h < -20:
		volumeText = "Moderate decrease (slightly bearish)"
	default:
		volumeText = "Stable (neutral)"
	}

	score := 50.0
	switch {
	case indicators.RSI < 30:
		score += 15
	case indicators.RSI > 70:
		score -= 15
	default:
		score += (indicators.RSI - 50) * 0.3
	}

	score += indicators.MACD.Histogram * 5

	if indicators.VolumeChange24h > 0 {
		score += math.Min(indicators.VolumeChange24h*0.1, 10)
	} else {
		score += math.Max(indicators.VolumeChange24h*0.1, -10)
	}

	score = utils.Clamp(score, 0, 100)

	return dto.TechnicalBreakdown{
		Indicators: indicators,
		Interpretations: dto.TechnicalInterpretations{
			RSI:    rsiText,
			MACD:   macdText,
			Volume: volumeText,
		},
		TechnicalScore: int(math.Round(score)),
	}
}

// fetchAndStoreSeries pulls the market chart from the feed, appends it to
// the local series cache and returns the points in timestamp order.
func (s *priceAnalysisService) fetchAndStoreSeries(ctx context.Context, coin *entity.Coin) ([]entity.PricePoint, error) {
	chart, err := s.marketRepo.GetMarketChart(ctx, coin.Symbol, s.cfg.CoinGecko.LookbackDays)
	if err != nil {
		return nil, err
	}

	volumeByTS := make(map[int64]float64, len(chart.TotalVolumes))
	for _, v := range chart.TotalVolumes {
		volumeByTS[int64(v[0])] = v[1]
	}

	points := make([]entity.PricePoint, 0, len(chart.Prices))
	for _, p := range chart.Prices {
		ts := int64(p[0])
		points = append(points, entity.PricePoint{
			CoinID:    coin.ID,
			Price:     p[1],
			Volume:    volumeByTS[ts],
			Timestamp: time.UnixMilli(ts).UTC(),
		})
	}

	if err := s.priceRepo.CreateIgnoreConflict(ctx, points); err != nil {
		s.log.ErrorContext(ctx, "Failed to persist fetched price series",
			logger.ErrorField(err), logger.StringField("symbol", coin.Symbol))
	}

	return points, nil
}

func (s *priceAnalysisService) getFromRedis(ctx context.Context, key string) (dto.PriceIndicators, bool) {
	if s.redisClient == nil {
		return dto.PriceIndicators{}, false
	}
	raw, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		return dto.PriceIndicators{}, false
	}
	var indicators dto.PriceIndicators
	if err := json.Unmarshal([]byte(raw), &indicators); err != nil {
		return dto.PriceIndicators{}, false
	}
	return indicators, true
}

func (s *priceAnalysisService) storeInCaches(ctx context.Context, key string, indicators dto.PriceIndicators) {
	s.memCache.Set(key, indicators, cache.DefaultExpiration)
	if s.redisClient == nil {
		return
	}
	raw, err := json.Marshal(indicators)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, key, raw, s.cfg.Tracker.IndicatorCacheTTL).Err(); err != nil {
		s.log.ErrorContext(ctx, "Failed to cache indicators in redis", logger.ErrorField(err), logger.StringField("key", key))
	}
}
