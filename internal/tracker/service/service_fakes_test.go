package service

import (
	"context"
	"testing"
	"time"

	"memecoin-radar/internal/entity"
	"memecoin-radar/internal/tracker/config"
	"memecoin-radar/internal/tracker/dto"
	"memecoin-radar/pkg/logger"

	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func newTestConfig() *config.Config {
	return &config.Config{
		Tracker: config.Tracker{
			SentimentWindowDays: 7,
			IndicatorCacheTTL:   time.Minute,
			SentimentCacheTTL:   time.Minute,
			BatchUpdateDelay:    time.Millisecond,
			TopPredictionsLimit: 10,
		},
		CoinGecko: config.CoinGecko{LookbackDays: 30},
	}
}

type fakeCoinRepo struct {
	coins         []entity.Coin
	updated       map[uint]float64
	updateErrFor  uint
	updateErr     error
	findAllErr    error
	findSymbolErr error
}

func newFakeCoinRepo(coins ...entity.Coin) *fakeCoinRepo {
	return &fakeCoinRepo{coins: coins, updated: make(map[uint]float64)}
}

func (f *fakeCoinRepo) Create(ctx context.Context, coin *entity.Coin) error {
	coin.ID = uint(len(f.coins) + 1)
	f.coins = append(f.coins, *coin)
	return nil
}

func (f *fakeCoinRepo) FindBySymbol(ctx context.Context, symbol string) (*entity.Coin, error) {
	if f.findSymbolErr != nil {
		return nil, f.findSymbolErr
	}
	for i := range f.coins {
		if f.coins[i].Symbol == symbol {
			coin := f.coins[i]
			return &coin, nil
		}
	}
	return nil, entity.ErrCoinNotFound
}

func (f *fakeCoinRepo) FindAll(ctx context.Context) ([]entity.Coin, error) {
	if f.findAllErr != nil {
		return nil, f.findAllErr
	}
	return f.coins, nil
}

func (f *fakeCoinRepo) FindTopBySuccessProbability(ctx context.Context, limit int) ([]entity.Coin, error) {
	var out []entity.Coin
	for _, c := range f.coins {
		if c.SuccessProbability != nil {
			out = append(out, c)
		}
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if *out[j].SuccessProbability > *out[i].SuccessProbability {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCoinRepo) UpdateSuccessProbability(ctx context.Context, coinID uint, probability float64) error {
	if f.updateErr != nil && coinID == f.updateErrFor {
		return f.updateErr
	}
	f.updated[coinID] = probability
	return nil
}

type fakeMentionRepo struct {
	mentions []entity.SocialMention
	findErr  error
}

func (f *fakeMentionRepo) FindSince(ctx context.Context, coinID uint, since time.Time) ([]entity.SocialMention, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []entity.SocialMention
	for _, m := range f.mentions {
		if m.CoinID == coinID && !m.Timestamp.Before(since) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMentionRepo) CreateIgnoreConflict(ctx context.Context, mention *entity.SocialMention) error {
	for _, m := range f.mentions {
		if m.PostID == mention.PostID {
			return nil
		}
	}
	f.mentions = append(f.mentions, *mention)
	return nil
}

type fakeFeed struct {
	platform string
	result   *dto.SocialFeedResult
	err      error
	calls    int
}

func (f *fakeFeed) Platform() string { return f.platform }

func (f *fakeFeed) FetchRecentPosts(ctx context.Context, symbol string) (*dto.SocialFeedResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakePriceRepo struct {
	points []entity.PricePoint
}

func (f *fakePriceRepo) FindByCoinID(ctx context.Context, coinID uint) ([]entity.PricePoint, error) {
	var out []entity.PricePoint
	for _, p := range f.points {
		if p.CoinID == coinID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePriceRepo) CreateIgnoreConflict(ctx context.Context, points []entity.PricePoint) error {
	f.points = append(f.points, points...)
	return nil
}

type fakeMarketRepo struct {
	chart *dto.MarketChart
	err   error
	calls int
}

func (f *fakeMarketRepo) GetMarketChart(ctx context.Context, symbol string, days int) (*dto.MarketChart, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.chart, nil
}

type fakeSnapshotRepo struct {
	snapshots []entity.PredictionSnapshot
}

func (f *fakeSnapshotRepo) Create(ctx context.Context, snapshot *entity.PredictionSnapshot) error {
	f.snapshots = append(f.snapshots, *snapshot)
	return nil
}

func (f *fakeSnapshotRepo) FindByCoinID(ctx context.Context, coinID uint, limit int) ([]entity.PredictionSnapshot, error) {
	var out []entity.PredictionSnapshot
	for _, s := range f.snapshots {
		if s.CoinID == coinID {
			out = append(out, s)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeSentimentService struct {
	score dto.SentimentScore
	err   error
}

func (f *fakeSentimentService) CalculateSentimentScore(ctx context.Context, symbol string) (dto.SentimentScore, error) {
	if f.err != nil {
		return dto.SentimentScore{}, f.err
	}
	return f.score, nil
}

func (f *fakeSentimentService) GetSentimentBreakdown(ctx context.Context, symbol string) (dto.SentimentBreakdown, error) {
	return dto.SentimentBreakdown{Overall: f.score}, f.err
}

type fakePriceAnalysisService struct {
	indicators dto.PriceIndicators
	err        error
}

func (f *fakePriceAnalysisService) GetIndicators(ctx context.Context, symbol string) (dto.PriceIndicators, error) {
	if f.err != nil {
		return dto.PriceIndicators{}, f.err
	}
	return f.indicators, nil
}

func (f *fakePriceAnalysisService) GetTechnicalBreakdown(ctx context.Context, symbol string) (dto.TechnicalBreakdown, error) {
	if f.err != nil {
		return dto.TechnicalBreakdown{}, f.err
	}
	return BuildTechnicalBreakdown(f.indicators), nil
}
