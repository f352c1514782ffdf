package service

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"time"

	"memecoin-radar/internal/entity"
	"memecoin-radar/internal/tracker/config"
	"memecoin-radar/internal/tracker/dto"
	"memecoin-radar/internal/tracker/repository"
	"memecoin-radar/pkg/logger"
	"memecoin-radar/pkg/utils"
)

// Factor weights. They must sum to exactly 1.0.
const (
	weightSentiment = 0.30
	weightTechnical = 0.25
	weightCommunity = 0.20
	weightLiquidity = 0.15
	weightMisc      = 0.10
)

// defaultHistoryLimit bounds the history listing when no limit is given.
const defaultHistoryLimit = 30

// PredictionService computes the composite success probability per coin.
type PredictionService interface {
	PredictSuccess(ctx context.Context, symbol string) (float64, error)
	GetTopPredictions(ctx context.Context, limit int) ([]dto.SuccessPrediction, error)
	GetPredictionHistory(ctx context.Context, symbol string, limit int) ([]dto.PredictionHistoryEntry, error)
	UpdateAllPredictions(ctx context.Context) (dto.BatchResult, error)
}

type predictionService struct {
	cfg          *config.Config
	log          *logger.Logger
	coinRepo     repository.CoinRepository
	snapshotRepo repository.PredictionSnapshotRepository
	sentimentSvc SentimentService
	priceSvc     PriceAnalysisService
}

// NewPredictionService creates a new PredictionService.
func NewPredictionService(
	cfg *config.Config,
	log *logger.Logger,
	coinRepo repository.CoinRepository,
	snapshotRepo repository.PredictionSnapshotRepository,
	sentimentSvc SentimentService,
	priceSvc PriceAnalysisService,
) PredictionService {
	return &predictionService{
		cfg:          cfg,
		log:          log,
		coinRepo:     coinRepo,
		snapshotRepo: snapshotRepo,
		sentimentSvc: sentimentSvc,
		priceSvc:     priceSvc,
	}
}

// TechnicalFactor converts an indicator set into a 0-100 score. Pure.
func TechnicalFactor(indicators dto.PriceIndicators) float64 {
	score := 50.0

	switch {
	case indicators.RSI < 30:
		// Oversold, potential rebound.
		score += 20
	case indicators.RSI > 70:
		// Overbought, potential correction.
		score -= 20
	default:
		score += (indicators.RSI - 50) * 0.4
	}

	if indicators.MACD.Histogram > 0 {
		score += 15 * math.Min(indicators.MACD.Histogram, 2)
	} else {
		score += 15 * math.Max(indicators.MACD.Histogram, -2)
	}

	switch {
	case indicators.VolumeChange24h > 50:
		score += 15
	case indicators.VolumeChange24h > 20:
		score += 8
	case indicators.VolumeChange24h < -50:
		score -= 15
	case indicators.VolumeChange24h < -20:
		score -= 8
	}

	return utils.Clamp(score, 0, 100)
}

// MiscFactor scores exchange presence, age, market cap and dev activity on
// the 0-100 scale. Pure given the reference time.
func MiscFactor(coin *entity.Coin, now time.Time) float64 {
	score := 50.0

	exchangeCount := len(coin.Exchanges)
	switch {
	case exchangeCount >= 5:
		score += 15
	case exchangeCount >= 3:
		score += 10
	case exchangeCount >= 1:
		score += 5
	}

	ageInDays := now.Sub(coin.CreatedAt).Hours() / 24
	switch {
	case ageInDays > 180:
		score += 15
	case ageInDays > 30:
		score += 10
	case ageInDays < 7:
		score -= 10
	}

	switch {
	case coin.MarketCap > 100_000_000:
		score += 10
	case coin.MarketCap > 10_000_000:
		score += 5
	case coin.MarketCap < 1_000_000:
		score -= 5
	}

	if coin.DevelopmentActivity != nil {
		switch {
		case *coin.DevelopmentActivity > 70:
			score += 10
		case *coin.DevelopmentActivity > 30:
			score += 5
		}
	}

	return utils.Clamp(score, 0, 100)
}

// PredictSuccess computes and persists the success probability for a
// symbol. The sentiment and indicator fetches run concurrently; either one
// failing upstream has already been degraded to a neutral reading by its
// service, so the only error path left is an unknown coin.
func (s *predictionService) PredictSuccess(ctx context.Context, symbol string) (float64, error) {
	coin, err := s.coinRepo.FindBySymbol(ctx, symbol)
	if err != nil {
		return 0, err
	}
	return s.predictCoin(ctx, coin)
}

func (s *predictionService) predictCoin(ctx context.Context, coin *entity.Coin) (float64, error) {
	var (
		wg         sync.WaitGroup
		sentiment  dto.SentimentScore
		indicators dto.PriceIndicators
	)

	wg.Add(2)
	utils.GoSafe(func() {
		defer wg.Done()
		score, err := s.sentimentSvc.CalculateSentimentScore(ctx, coin.Symbol)
		if err != nil {
			s.log.ErrorContext(ctx, "Sentiment unavailable, using neutral",
				logger.ErrorField(err), logger.StringField("symbol", coin.Symbol))
			score = dto.SentimentScore{Total: 50, Degraded: true}
		}
		sentiment = score
	})
	utils.GoSafe(func() {
		defer wg.Done()
		ind, err := s.priceSvc.GetIndicators(ctx, coin.Symbol)
		if err != nil {
			s.log.ErrorContext(ctx, "Indicators unavailable, using neutral",
				logger.ErrorField(err), logger.StringField("symbol", coin.Symbol))
			ind = NeutralIndicators()
			ind.Degraded = true
		}
		indicators = ind
	})
	wg.Wait()

	factors := dto.FactorSnapshot{
		SocialSentiment: sentiment.Total,
		Technical:       TechnicalFactor(indicators),
		CommunityGrowth: coin.CommunityGrowth,
		Liquidity:       coin.LiquidityScore,
		Misc:            MiscFactor(coin, time.Now().UTC()),
	}

	probability := utils.Clamp(
		weightSentiment*factors.SocialSentiment+
			weightTechnical*factors.Technical+
			weightCommunity*factors.CommunityGrowth+
			weightLiquidity*factors.Liquidity+
			weightMisc*factors.Misc,
		0, 100,
	)

	if err := s.coinRepo.UpdateSuccessProbability(ctx, coin.ID, probability); err != nil {
		return 0, err
	}
	s.storeSnapshot(ctx, coin.ID, probability, factors)

	s.log.InfoContext(ctx, "Prediction updated",
		logger.StringField("symbol", coin.Symbol),
		logger.Float64Field("probability", probability),
	)

	return probability, nil
}

// GetTopPredictions ranks by the stored probability and assembles the
// factors payload from live data. The live recomputation may drift from the
// stored value; ranking deliberately trusts the store.
func (s *predictionService) GetTopPredictions(ctx context.Context, limit int) ([]dto.SuccessPrediction, error) {
	if limit <= 0 {
		limit = s.cfg.Tracker.TopPredictionsLimit
	}

	coins, err := s.coinRepo.FindTopBySuccessProbability(ctx, limit)
	if err != nil {
		return nil, err
	}

	predictions := make([]dto.SuccessPrediction, 0, len(coins))
	for i := range coins {
		coin := &coins[i]

		var (
			wg        sync.WaitGroup
			sentiment dto.SentimentScore
			breakdown dto.TechnicalBreakdown
		)
		wg.Add(2)
		utils.GoSafe(func() {
			defer wg.Done()
			score, err := s.sentimentSvc.CalculateSentimentScore(ctx, coin.Symbol)
			if err != nil {
				score = dto.SentimentScore{Total: 50, Degraded: true}
			}
			sentiment = score
		})
		utils.GoSafe(func() {
			defer wg.Done()
			tb, err := s.priceSvc.GetTechnicalBreakdown(ctx, coin.Symbol)
			if err != nil {
				tb = BuildTechnicalBreakdown(NeutralIndicators())
			}
			breakdown = tb
		})
		wg.Wait()

		var probability float64
		if coin.SuccessProbability != nil {
			probability = *coin.SuccessProbability
		}

		predictions = append(predictions, dto.SuccessPrediction{
			Symbol:             coin.Symbol,
			Name:               coin.Name,
			SuccessProbability: probability,
			Factors: dto.PredictionFactors{
				SocialSentiment:   sentiment,
				TechnicalAnalysis: breakdown.Indicators,
				CommunityGrowth:   coin.CommunityGrowth,
				LiquidityScore:    coin.LiquidityScore,
			},
		})
	}

	return predictions, nil
}

// GetPredictionHistory returns the stored snapshot trail for a coin, newest
// first, for the probability-over-time chart.
func (s *predictionService) GetPredictionHistory(ctx context.Context, symbol string, limit int) ([]dto.PredictionHistoryEntry, error) {
	coin, err := s.coinRepo.FindBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	snapshots, err := s.snapshotRepo.FindByCoinID(ctx, coin.ID, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.PredictionHistoryEntry, 0, len(snapshots))
	for _, snapshot := range snapshots {
		var factors dto.FactorSnapshot
		if err := json.Unmarshal(snapshot.Factors, &factors); err != nil {
			s.log.ErrorContext(ctx, "Skipping malformed factor snapshot",
				logger.ErrorField(err), logger.Field("snapshot_id", snapshot.ID))
			continue
		}
		entries = append(entries, dto.PredictionHistoryEntry{
			Probability: snapshot.Probability,
			Factors:     factors,
			CreatedAt:   snapshot.CreatedAt,
		})
	}
	return entries, nil
}

// UpdateAllPredictions walks every coin sequentially with an enforced delay
// between iterations. The delay is backpressure against upstream rate
// limits, so concurrent fan-out across coins is deliberately avoided.
// Per-coin failures are logged and skipped.
func (s *predictionService) UpdateAllPredictions(ctx context.Context) (dto.BatchResult, error) {
	coins, err := s.coinRepo.FindAll(ctx)
	if err != nil {
		return dto.BatchResult{}, err
	}

	var result dto.BatchResult
	for i := range coins {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}

		if i > 0 {
			select {
			case <-ctx.Done():
				return result, nil
			case <-time.After(s.cfg.Tracker.BatchUpdateDelay):
			}
		}

		if _, err := s.predictCoin(ctx, &coins[i]); err != nil {
			result.Failed++
			s.log.ErrorContext(ctx, "Failed to update prediction",
				logger.ErrorField(err), logger.StringField("symbol", coins[i].Symbol))
			continue
		}
		result.Updated++
	}

	s.log.InfoContext(ctx, "Batch prediction update finished",
		logger.IntField("updated", result.Updated),
		logger.IntField("failed", result.Failed),
	)

	return result, nil
}

func (s *predictionService) storeSnapshot(ctx context.Context, coinID uint, probability float64, factors dto.FactorSnapshot) {
	raw, err := json.Marshal(factors)
	if err != nil {
		return
	}
	snapshot := &entity.PredictionSnapshot{
		CoinID:      coinID,
		Probability: probability,
		Factors:     raw,
	}
	if err := s.snapshotRepo.Create(ctx, snapshot); err != nil {
		s.log.ErrorContext(ctx, "Failed to store prediction snapshot", logger.ErrorField(err), logger.Field("coin_id", coinID))
	}
}
