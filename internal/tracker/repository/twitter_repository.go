package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"memecoin-radar/internal/tracker/config"
	"memecoin-radar/internal/tracker/dto"
	"memecoin-radar/pkg/logger"

	"golang.org/x/time/rate"
)

// SocialFeedRepository fetches recent raw posts mentioning a symbol from one
// social platform.
type SocialFeedRepository interface {
	Platform() string
	FetchRecentPosts(ctx context.Context, symbol string) (*dto.SocialFeedResult, error)
}

type twitterTweet struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	CreatedAt     string `json:"created_at"`
	PublicMetrics struct {
		RetweetCount int `json:"retweet_count"`
		ReplyCount   int `json:"reply_count"`
		LikeCount    int `json:"like_count"`
		QuoteCount   int `json:"quote_count"`
	} `json:"public_metrics"`
}

type twitterSearchResponse struct {
	Data []twitterTweet `json:"data"`
	Meta struct {
		ResultCount int `json:"result_count"`
	} `json:"meta"`
}

type twitterRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewTwitterRepository creates a rate-limited Twitter recent-search client.
func NewTwitterRepository(cfg *config.Config, log *logger.Logger) SocialFeedRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Twitter.MaxRequestPerMinute)
	return &twitterRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

func (r *twitterRepository) Platform() string {
	return "Twitter"
}

// FetchRecentPosts searches the last 24 hours for the symbol and its
// hashtag, excluding retweets.
func (r *twitterRepository) FetchRecentPosts(ctx context.Context, symbol string) (*dto.SocialFeedResult, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("(%s OR #%s) -is:retweet lang:en", strings.ToUpper(symbol), strings.ToLower(symbol))
	startTime := time.Now().UTC().Add(-24 * time.Hour).Format(time.RFC3339)

	params := url.Values{}
	params.Set("query", query)
	params.Set("max_results", fmt.Sprintf("%d", r.cfg.Twitter.MaxResults))
	params.Set("start_time", startTime)
	params.Set("tweet.fields", "created_at,public_metrics")

	reqURL := fmt.Sprintf("%s/tweets/search/recent?%s", r.cfg.Twitter.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.cfg.Twitter.BearerToken)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to search Twitter", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twitter returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var search twitterSearchResponse
	if err := json.Unmarshal(body, &search); err != nil {
		return nil, fmt.Errorf("failed to unmarshal twitter response: %w", err)
	}

	result := &dto.SocialFeedResult{
		RawMentionCount: search.Meta.ResultCount,
	}
	for _, tweet := range search.Data {
		createdAt, err := time.Parse(time.RFC3339, tweet.CreatedAt)
		if err != nil {
			createdAt = time.Now().UTC()
		}
		result.Posts = append(result.Posts, dto.SocialPost{
			ID:        tweet.ID,
			Platform:  r.Platform(),
			Text:      tweet.Text,
			CreatedAt: createdAt,
			Metrics: dto.EngagementMetrics{
				Retweets: tweet.PublicMetrics.RetweetCount,
				Replies:  tweet.PublicMetrics.ReplyCount,
				Likes:    tweet.PublicMetrics.LikeCount,
				Quotes:   tweet.PublicMetrics.QuoteCount,
			},
			URL: fmt.Sprintf("https://twitter.com/twitter/status/%s", tweet.ID),
		})
	}

	return result, nil
}
