package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"memecoin-radar/internal/tracker/config"
	"memecoin-radar/internal/tracker/dto"
	"memecoin-radar/pkg/logger"

	"golang.org/x/time/rate"
)

// MarketDataRepository fetches price/volume time series from an external
// market-data provider.
type MarketDataRepository interface {
	GetMarketChart(ctx context.Context, symbol string, days int) (*dto.MarketChart, error)
}

type coinGeckoRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewCoinGeckoRepository creates a rate-limited CoinGecko client.
func NewCoinGeckoRepository(cfg *config.Config, log *logger.Logger) MarketDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.CoinGecko.MaxRequestPerMinute)
	return &coinGeckoRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

// GetMarketChart fetches the price and volume series for a symbol. The
// symbol is lowercased as a naive CoinGecko id mapping, matching how the
// rest of the pipeline addresses coins.
func (r *coinGeckoRepository) GetMarketChart(ctx context.Context, symbol string, days int) (*dto.MarketChart, error) {
	coinID := strings.ToLower(symbol)
	url := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d", r.cfg.CoinGecko.BaseURL, coinID, days)

	body, err := r.sendRequest(ctx, url)
	if err != nil {
		return nil, err
	}

	var chart dto.MarketChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal market chart: %w", err)
	}

	r.log.DebugContext(ctx, "CoinGecko market chart fetched",
		logger.StringField("coin_id", coinID),
		logger.IntField("points", len(chart.Prices)),
	)

	return &chart, nil
}

func (r *coinGeckoRepository) sendRequest(ctx context.Context, url string) ([]byte, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		r.log.ErrorContext(ctx, "Failed to wait for request limit", logger.ErrorField(err), logger.StringField("url", url))
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to CoinGecko API", logger.ErrorField(err), logger.StringField("url", url))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coingecko returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
