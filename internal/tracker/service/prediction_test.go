package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"memecoin-radar/internal/entity"
	"memecoin-radar/internal/tracker/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestFactorWeightsSumToOne(t *testing.T) {
	sum := weightSentiment + weightTechnical + weightCommunity + weightLiquidity + weightMisc
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestTechnicalFactor(t *testing.T) {
	t.Run("neutral indicators score 50", func(t *testing.T) {
		assert.InDelta(t, 50.0, TechnicalFactor(NeutralIndicators()), 1e-9)
	})

	t.Run("oversold with momentum and volume", func(t *testing.T) {
		indicators := dto.PriceIndicators{
			RSI:             20,
			MACD:            dto.MACD{Histogram: 1.5},
			VolumeChange24h: 60,
		}
		// 50 + 20 + 15*1.5 + 15 = 107.5, clamped.
		assert.InDelta(t, 100.0, TechnicalFactor(indicators), 1e-9)
	})

	t.Run("overbought with falling volume", func(t *testing.T) {
		indicators := dto.PriceIndicators{
			RSI:             80,
			MACD:            dto.MACD{Histogram: -0.5},
			VolumeChange24h: -30,
		}
		// 50 - 20 - 7.5 - 8 = 14.5
		assert.InDelta(t, 14.5, TechnicalFactor(indicators), 1e-9)
	})

	t.Run("histogram contribution is capped", func(t *testing.T) {
		up := TechnicalFactor(dto.PriceIndicators{RSI: 50, MACD: dto.MACD{Histogram: 5}})
		capped := TechnicalFactor(dto.PriceIndicators{RSI: 50, MACD: dto.MACD{Histogram: 2}})
		assert.InDelta(t, capped, up, 1e-9)

		down := TechnicalFactor(dto.PriceIndicators{RSI: 50, MACD: dto.MACD{Histogram: -5}})
		// 50 - 30
		assert.InDelta(t, 20.0, down, 1e-9)
	})

	t.Run("mid-range rsi scales linearly", func(t *testing.T) {
		// 50 + (60-50)*0.4
		assert.InDelta(t, 54.0, TechnicalFactor(dto.PriceIndicators{RSI: 60}), 1e-9)
	})

	t.Run("extremes stay within bounds", func(t *testing.T) {
		worst := TechnicalFactor(dto.PriceIndicators{RSI: 95, MACD: dto.MACD{Histogram: -10}, VolumeChange24h: -90})
		assert.GreaterOrEqual(t, worst, 0.0)
		best := TechnicalFactor(dto.PriceIndicators{RSI: 5, MACD: dto.MACD{Histogram: 10}, VolumeChange24h: 90})
		assert.LessOrEqual(t, best, 100.0)
	})
}

func TestMiscFactor(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	devHigh := 80.0
	devMid := 50.0

	tests := []struct {
		name string
		coin entity.Coin
		want float64
	}{
		{
			name: "bare coin of middling age",
			coin: entity.Coin{CreatedAt: now.AddDate(0, 0, -14), MarketCap: 5_000_000},
			want: 50,
		},
		{
			name: "established listed coin",
			coin: entity.Coin{
				Exchanges:           []string{"binance", "coinbase", "kraken", "okx", "bybit"},
				CreatedAt:           now.AddDate(0, 0, -200),
				MarketCap:           150_000_000,
				DevelopmentActivity: &devHigh,
			},
			// 50 + 15 + 15 + 10 + 10
			want: 100,
		},
		{
			name: "brand new micro cap",
			coin: entity.Coin{CreatedAt: now.AddDate(0, 0, -2), MarketCap: 500_000},
			// 50 - 10 - 5
			want: 35,
		},
		{
			name: "partial credit tiers",
			coin: entity.Coin{
				Exchanges:           []string{"binance", "coinbase", "kraken"},
				CreatedAt:           now.AddDate(0, 0, -60),
				MarketCap:           20_000_000,
				DevelopmentActivity: &devMid,
			},
			// 50 + 10 + 10 + 5 + 5
			want: 80,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MiscFactor(&tt.coin, now), 1e-9)
		})
	}
}

func TestPredictSuccess(t *testing.T) {
	coin := entity.Coin{
		ID:              1,
		Symbol:          "DOGE",
		Name:            "Dogecoin",
		CommunityGrowth: 60,
		LiquidityScore:  70,
		MarketCap:       50_000_000,
		CreatedAt:       time.Now().UTC().AddDate(0, 0, -100),
	}
	coinRepo := newFakeCoinRepo(coin)
	snapshotRepo := &fakeSnapshotRepo{}
	sentimentSvc := &fakeSentimentService{score: dto.SentimentScore{Positive: 8, Negative: 2, Total: 80}}
	priceSvc := &fakePriceAnalysisService{indicators: NeutralIndicators()}

	svc := NewPredictionService(newTestConfig(), newTestLogger(t), coinRepo, snapshotRepo, sentimentSvc, priceSvc)

	probability, err := svc.PredictSuccess(context.Background(), "DOGE")
	require.NoError(t, err)

	// misc: 50 + 10 (age > 30d) + 5 (cap > 10M) = 65
	// 0.30*80 + 0.25*50 + 0.20*60 + 0.15*70 + 0.10*65 = 65.5
	assert.InDelta(t, 65.5, probability, 1e-9)
	assert.InDelta(t, 65.5, coinRepo.updated[1], 1e-9)

	require.Len(t, snapshotRepo.snapshots, 1)
	snapshot := snapshotRepo.snapshots[0]
	assert.Equal(t, uint(1), snapshot.CoinID)
	assert.InDelta(t, 65.5, snapshot.Probability, 1e-9)

	var factors dto.FactorSnapshot
	require.NoError(t, json.Unmarshal(snapshot.Factors, &factors))
	assert.InDelta(t, 80.0, factors.SocialSentiment, 1e-9)
	assert.InDelta(t, 50.0, factors.Technical, 1e-9)
	assert.InDelta(t, 65.0, factors.Misc, 1e-9)
}

func TestPredictSuccess_ClampsExtremeFactors(t *testing.T) {
	t.Run("extreme high community growth caps at 100", func(t *testing.T) {
		coin := entity.Coin{
			ID:              1,
			Symbol:          "DOGE",
			CommunityGrowth: 1000,
			LiquidityScore:  100,
			MarketCap:       150_000_000,
			CreatedAt:       time.Now().UTC().AddDate(0, 0, -200),
		}
		coinRepo := newFakeCoinRepo(coin)
		sentimentSvc := &fakeSentimentService{score: dto.SentimentScore{Total: 100}}
		priceSvc := &fakePriceAnalysisService{indicators: dto.PriceIndicators{RSI: 20, MACD: dto.MACD{Histogram: 2}, VolumeChange24h: 60}}

		svc := NewPredictionService(newTestConfig(), newTestLogger(t), coinRepo, &fakeSnapshotRepo{}, sentimentSvc, priceSvc)

		probability, err := svc.PredictSuccess(context.Background(), "DOGE")
		require.NoError(t, err)
		// Raw weighted sum is 277.5; the stored value must be exactly 100.
		assert.Equal(t, 100.0, probability)
		assert.Equal(t, 100.0, coinRepo.updated[1])
	})

	t.Run("extreme negative community growth floors at 0", func(t *testing.T) {
		coin := entity.Coin{
			ID:              1,
			Symbol:          "DOGE",
			CommunityGrowth: -1000,
			CreatedAt:       time.Now().UTC().AddDate(0, 0, -14),
			MarketCap:       5_000_000,
		}
		coinRepo := newFakeCoinRepo(coin)
		sentimentSvc := &fakeSentimentService{score: dto.SentimentScore{Total: 0}}
		priceSvc := &fakePriceAnalysisService{indicators: NeutralIndicators()}

		svc := NewPredictionService(newTestConfig(), newTestLogger(t), coinRepo, &fakeSnapshotRepo{}, sentimentSvc, priceSvc)

		probability, err := svc.PredictSuccess(context.Background(), "DOGE")
		require.NoError(t, err)
		assert.Equal(t, 0.0, probability)
		assert.Equal(t, 0.0, coinRepo.updated[1])
	})
}

func TestPredictSuccess_UnknownCoin(t *testing.T) {
	svc := NewPredictionService(newTestConfig(), newTestLogger(t), newFakeCoinRepo(), &fakeSnapshotRepo{}, &fakeSentimentService{}, &fakePriceAnalysisService{})

	_, err := svc.PredictSuccess(context.Background(), "NOPE")
	assert.ErrorIs(t, err, entity.ErrCoinNotFound)
}

func TestPredictSuccess_NeutralFallbacks(t *testing.T) {
	coin := entity.Coin{
		ID:        1,
		Symbol:    "DOGE",
		CreatedAt: time.Now().UTC().AddDate(0, 0, -14),
		MarketCap: 5_000_000,
	}
	coinRepo := newFakeCoinRepo(coin)
	sentimentSvc := &fakeSentimentService{err: errors.New("feeds down")}
	priceSvc := &fakePriceAnalysisService{err: errors.New("market down")}

	svc := NewPredictionService(newTestConfig(), newTestLogger(t), coinRepo, &fakeSnapshotRepo{}, sentimentSvc, priceSvc)

	probability, err := svc.PredictSuccess(context.Background(), "DOGE")
	require.NoError(t, err)
	// 0.30*50 + 0.25*50 + 0.20*0 + 0.15*0 + 0.10*50 = 32.5
	assert.InDelta(t, 32.5, probability, 1e-9)
}

func TestUpdateAllPredictions(t *testing.T) {
	now := time.Now().UTC().AddDate(0, 0, -14)
	coinRepo := newFakeCoinRepo(
		entity.Coin{ID: 1, Symbol: "DOGE", CreatedAt: now, MarketCap: 5_000_000},
		entity.Coin{ID: 2, Symbol: "PEPE", CreatedAt: now, MarketCap: 5_000_000},
		entity.Coin{ID: 3, Symbol: "SHIB", CreatedAt: now, MarketCap: 5_000_000},
	)
	coinRepo.updateErrFor = 2
	coinRepo.updateErr = errors.New("db down")

	sentimentSvc := &fakeSentimentService{score: dto.SentimentScore{Total: 50}}
	priceSvc := &fakePriceAnalysisService{indicators: NeutralIndicators()}
	svc := NewPredictionService(newTestConfig(), newTestLogger(t), coinRepo, &fakeSnapshotRepo{}, sentimentSvc, priceSvc)

	result, err := svc.UpdateAllPredictions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, coinRepo.updated, uint(1))
	assert.Contains(t, coinRepo.updated, uint(3))
	assert.NotContains(t, coinRepo.updated, uint(2))
}

func TestUpdateAllPredictions_HonorsDelay(t *testing.T) {
	now := time.Now().UTC().AddDate(0, 0, -14)
	coinRepo := newFakeCoinRepo(
		entity.Coin{ID: 1, Symbol: "DOGE", CreatedAt: now},
		entity.Coin{ID: 2, Symbol: "PEPE", CreatedAt: now},
		entity.Coin{ID: 3, Symbol: "SHIB", CreatedAt: now},
	)
	cfg := newTestConfig()
	cfg.Tracker.BatchUpdateDelay = 30 * time.Millisecond

	sentimentSvc := &fakeSentimentService{score: dto.SentimentScore{Total: 50}}
	priceSvc := &fakePriceAnalysisService{indicators: NeutralIndicators()}
	svc := NewPredictionService(cfg, newTestLogger(t), coinRepo, &fakeSnapshotRepo{}, sentimentSvc, priceSvc)

	start := time.Now()
	result, err := svc.UpdateAllPredictions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Updated)
	// Two inter-coin delays.
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestUpdateAllPredictions_StopsOnCancel(t *testing.T) {
	now := time.Now().UTC().AddDate(0, 0, -14)
	coinRepo := newFakeCoinRepo(
		entity.Coin{ID: 1, Symbol: "DOGE", CreatedAt: now},
		entity.Coin{ID: 2, Symbol: "PEPE", CreatedAt: now},
	)
	cfg := newTestConfig()
	cfg.Tracker.BatchUpdateDelay = time.Hour

	sentimentSvc := &fakeSentimentService{score: dto.SentimentScore{Total: 50}}
	priceSvc := &fakePriceAnalysisService{indicators: NeutralIndicators()}
	svc := NewPredictionService(cfg, newTestLogger(t), coinRepo, &fakeSnapshotRepo{}, sentimentSvc, priceSvc)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	result, err := svc.UpdateAllPredictions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
}

func TestGetTopPredictions(t *testing.T) {
	now := time.Now().UTC().AddDate(0, 0, -14)
	p1, p2 := 80.0, 65.0
	coinRepo := newFakeCoinRepo(
		entity.Coin{ID: 1, Symbol: "DOGE", Name: "Dogecoin", SuccessProbability: &p2, CommunityGrowth: 40, LiquidityScore: 55, CreatedAt: now},
		entity.Coin{ID: 2, Symbol: "PEPE", Name: "Pepe", SuccessProbability: &p1, CommunityGrowth: 70, LiquidityScore: 60, CreatedAt: now},
		entity.Coin{ID: 3, Symbol: "SHIB", Name: "Shiba Inu", CreatedAt: now},
	)
	sentimentSvc := &fakeSentimentService{score: dto.SentimentScore{Total: 60}}
	priceSvc := &fakePriceAnalysisService{indicators: NeutralIndicators()}
	svc := NewPredictionService(newTestConfig(), newTestLogger(t), coinRepo, &fakeSnapshotRepo{}, sentimentSvc, priceSvc)

	predictions, err := svc.GetTopPredictions(context.Background(), 5)
	require.NoError(t, err)

	// Unscored coins are excluded; the rest come back highest first.
	require.Len(t, predictions, 2)
	assert.Equal(t, "PEPE", predictions[0].Symbol)
	assert.InDelta(t, 80.0, predictions[0].SuccessProbability, 1e-9)
	assert.Equal(t, "DOGE", predictions[1].Symbol)
	assert.InDelta(t, 60.0, predictions[0].Factors.SocialSentiment.Total, 1e-9)
	assert.InDelta(t, 70.0, predictions[0].Factors.CommunityGrowth, 1e-9)
}

func TestGetPredictionHistory(t *testing.T) {
	now := time.Now().UTC()
	coinRepo := newFakeCoinRepo(entity.Coin{ID: 1, Symbol: "DOGE", CreatedAt: now.AddDate(0, 0, -30)})

	newest, err := json.Marshal(dto.FactorSnapshot{SocialSentiment: 80, Technical: 55, CommunityGrowth: 60, Liquidity: 70, Misc: 65})
	require.NoError(t, err)
	oldest, err := json.Marshal(dto.FactorSnapshot{SocialSentiment: 40, Technical: 50, CommunityGrowth: 30, Liquidity: 45, Misc: 50})
	require.NoError(t, err)
	snapshotRepo := &fakeSnapshotRepo{snapshots: []entity.PredictionSnapshot{
		{ID: 2, CoinID: 1, Probability: 68.5, Factors: datatypes.JSON(newest), CreatedAt: now},
		{ID: 1, CoinID: 1, Probability: 42.0, Factors: datatypes.JSON(oldest), CreatedAt: now.Add(-time.Hour)},
		{ID: 3, CoinID: 2, Probability: 90.0, Factors: datatypes.JSON(newest), CreatedAt: now},
	}}

	svc := NewPredictionService(newTestConfig(), newTestLogger(t), coinRepo, snapshotRepo, &fakeSentimentService{}, &fakePriceAnalysisService{})

	entries, err := svc.GetPredictionHistory(context.Background(), "DOGE", 0)
	require.NoError(t, err)

	// Only DOGE's snapshots, with factors decoded from the stored JSON.
	require.Len(t, entries, 2)
	assert.InDelta(t, 68.5, entries[0].Probability, 1e-9)
	assert.InDelta(t, 80.0, entries[0].Factors.SocialSentiment, 1e-9)
	assert.InDelta(t, 65.0, entries[0].Factors.Misc, 1e-9)
	assert.Equal(t, now, entries[0].CreatedAt)
	assert.InDelta(t, 42.0, entries[1].Probability, 1e-9)
}

func TestGetPredictionHistory_SkipsMalformedSnapshots(t *testing.T) {
	now := time.Now().UTC()
	coinRepo := newFakeCoinRepo(entity.Coin{ID: 1, Symbol: "DOGE", CreatedAt: now.AddDate(0, 0, -30)})

	good, err := json.Marshal(dto.FactorSnapshot{SocialSentiment: 80})
	require.NoError(t, err)
	snapshotRepo := &fakeSnapshotRepo{snapshots: []entity.PredictionSnapshot{
		{ID: 1, CoinID: 1, Probability: 68.5, Factors: datatypes.JSON(good), CreatedAt: now},
		{ID: 2, CoinID: 1, Probability: 42.0, Factors: datatypes.JSON(`not-json`), CreatedAt: now.Add(-time.Hour)},
	}}

	svc := NewPredictionService(newTestConfig(), newTestLogger(t), coinRepo, snapshotRepo, &fakeSentimentService{}, &fakePriceAnalysisService{})

	entries, err := svc.GetPredictionHistory(context.Background(), "DOGE", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.InDelta(t, 68.5, entries[0].Probability, 1e-9)
}

func TestGetPredictionHistory_UnknownCoin(t *testing.T) {
	svc := NewPredictionService(newTestConfig(), newTestLogger(t), newFakeCoinRepo(), &fakeSnapshotRepo{}, &fakeSentimentService{}, &fakePriceAnalysisService{})

	_, err := svc.GetPredictionHistory(context.Background(), "NOPE", 0)
	assert.ErrorIs(t, err, entity.ErrCoinNotFound)
}

func TestGetTopPredictions_DefaultLimit(t *testing.T) {
	now := time.Now().UTC().AddDate(0, 0, -14)
	var coins []entity.Coin
	for i := 1; i <= 15; i++ {
		p := float64(i)
		coins = append(coins, entity.Coin{ID: uint(i), Symbol: "C", SuccessProbability: &p, CreatedAt: now})
	}
	coinRepo := newFakeCoinRepo(coins...)
	sentimentSvc := &fakeSentimentService{score: dto.SentimentScore{Total: 50}}
	priceSvc := &fakePriceAnalysisService{indicators: NeutralIndicators()}
	svc := NewPredictionService(newTestConfig(), newTestLogger(t), coinRepo, &fakeSnapshotRepo{}, sentimentSvc, priceSvc)

	predictions, err := svc.GetTopPredictions(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, predictions, 10)
}
