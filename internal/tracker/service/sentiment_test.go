package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"memecoin-radar/internal/entity"
	"memecoin-radar/internal/tracker/dto"
	"memecoin-radar/internal/tracker/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"positive keyword", "This coin is going to the moon!", entity.SentimentPositive},
		{"negative keyword", "Obvious rugpull, stay away", entity.SentimentNegative},
		{"no keywords", "Just moved some tokens between wallets", entity.SentimentNeutral},
		{"case insensitive", "BULLISH on this GEM", entity.SentimentPositive},
		{"majority wins", "Might dump soon but huge gains, whale activity, breakout incoming", entity.SentimentPositive},
		{"tie is neutral", "pump then dump", entity.SentimentNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestEngagementScore(t *testing.T) {
	metrics := dto.EngagementMetrics{Retweets: 4, Replies: 2, Likes: 10, Quotes: 2}
	// 4*2 + 2*1.5 + 10*1 + 2*2.5 = 26
	assert.InDelta(t, 26.0, EngagementScore(metrics), 1e-9)

	assert.Equal(t, 0.0, EngagementScore(dto.EngagementMetrics{}))
}

func TestSentimentTotal(t *testing.T) {
	tests := []struct {
		name                          string
		positive, negative, mentioned int
		want                          float64
	}{
		{"no mentions is neutral", 0, 0, 0, 50},
		{"all positive", 10, 0, 10, 100},
		{"all negative", 0, 10, 10, 0},
		{"even split", 5, 5, 10, 50},
		{"positive lean", 6, 2, 10, 70},
		{"unclassified mentions dilute", 5, 0, 20, 62.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, sentimentTotal(tt.positive, tt.negative, tt.mentioned), 1e-9)
		})
	}
}

func TestCalculateSentimentScore_ClassifiesFreshPosts(t *testing.T) {
	coinRepo := newFakeCoinRepo(entity.Coin{ID: 1, Symbol: "DOGE"})
	mentionRepo := &fakeMentionRepo{}
	now := time.Now().UTC()
	feed := &fakeFeed{
		platform: "Twitter",
		result: &dto.SocialFeedResult{
			RawMentionCount: 3,
			Posts: []dto.SocialPost{
				{ID: "1", Platform: "Twitter", Text: "to the moon", CreatedAt: now},
				{ID: "2", Platform: "Twitter", Text: "total scam", CreatedAt: now},
				{ID: "3", Platform: "Twitter", Text: "interesting project", CreatedAt: now},
			},
		},
	}
	svc := NewSentimentService(newTestConfig(), newTestLogger(t), coinRepo, mentionRepo, []repository.SocialFeedRepository{feed}, nil)

	score, err := svc.CalculateSentimentScore(context.Background(), "DOGE")
	require.NoError(t, err)
	assert.Equal(t, 1, score.Positive)
	assert.Equal(t, 1, score.Negative)
	assert.Equal(t, 1, score.Neutral)
	assert.InDelta(t, 50.0, score.Total, 1e-9)
	assert.False(t, score.Degraded)

	// Fresh posts are persisted for the trailing window.
	assert.Len(t, mentionRepo.mentions, 3)
}

func TestCalculateSentimentScore_UnknownCoin(t *testing.T) {
	svc := NewSentimentService(newTestConfig(), newTestLogger(t), newFakeCoinRepo(), &fakeMentionRepo{}, nil, nil)

	_, err := svc.CalculateSentimentScore(context.Background(), "NOPE")
	assert.ErrorIs(t, err, entity.ErrCoinNotFound)
}

func TestCalculateSentimentScore_DegradedWhenAllFeedsFail(t *testing.T) {
	coinRepo := newFakeCoinRepo(entity.Coin{ID: 1, Symbol: "DOGE"})
	feeds := []repository.SocialFeedRepository{
		&fakeFeed{platform: "Twitter", err: errors.New("rate limited")},
		&fakeFeed{platform: "Reddit", err: errors.New("unreachable")},
	}
	svc := NewSentimentService(newTestConfig(), newTestLogger(t), coinRepo, &fakeMentionRepo{}, feeds, nil)

	score, err := svc.CalculateSentimentScore(context.Background(), "DOGE")
	require.NoError(t, err)
	assert.True(t, score.Degraded)
	assert.InDelta(t, 50.0, score.Total, 1e-9)
}

func TestCalculateSentimentScore_StoredWindowSurvivesFeedOutage(t *testing.T) {
	coinRepo := newFakeCoinRepo(entity.Coin{ID: 1, Symbol: "DOGE"})
	now := time.Now().UTC()
	mentionRepo := &fakeMentionRepo{mentions: []entity.SocialMention{
		{CoinID: 1, Platform: "Twitter", PostID: "a", Sentiment: entity.SentimentPositive, Timestamp: now.Add(-time.Hour)},
		{CoinID: 1, Platform: "Twitter", PostID: "b", Sentiment: entity.SentimentPositive, Timestamp: now.Add(-2 * time.Hour)},
	}}
	feeds := []repository.SocialFeedRepository{
		&fakeFeed{platform: "Twitter", err: errors.New("rate limited")},
	}
	svc := NewSentimentService(newTestConfig(), newTestLogger(t), coinRepo, mentionRepo, feeds, nil)

	score, err := svc.CalculateSentimentScore(context.Background(), "DOGE")
	require.NoError(t, err)
	assert.False(t, score.Degraded)
	assert.Equal(t, 2, score.Positive)
	assert.InDelta(t, 100.0, score.Total, 1e-9)
}

func TestCalculateSentimentScore_DeduplicatesStoredPosts(t *testing.T) {
	coinRepo := newFakeCoinRepo(entity.Coin{ID: 1, Symbol: "DOGE"})
	now := time.Now().UTC()
	mentionRepo := &fakeMentionRepo{mentions: []entity.SocialMention{
		{CoinID: 1, Platform: "Twitter", PostID: "1", Sentiment: entity.SentimentPositive, Timestamp: now.Add(-time.Hour)},
	}}
	feed := &fakeFeed{
		platform: "Twitter",
		result: &dto.SocialFeedResult{
			RawMentionCount: 1,
			Posts: []dto.SocialPost{
				{ID: "1", Platform: "Twitter", Text: "to the moon", CreatedAt: now},
			},
		},
	}
	svc := NewSentimentService(newTestConfig(), newTestLogger(t), coinRepo, mentionRepo, []repository.SocialFeedRepository{feed}, nil)

	score, err := svc.CalculateSentimentScore(context.Background(), "DOGE")
	require.NoError(t, err)
	// The stored copy counts once; the fresh duplicate is skipped.
	assert.Equal(t, 1, score.Positive)
	assert.Len(t, mentionRepo.mentions, 1)
}

func TestCalculateSentimentScore_RawCountDilutes(t *testing.T) {
	coinRepo := newFakeCoinRepo(entity.Coin{ID: 1, Symbol: "DOGE"})
	now := time.Now().UTC()
	feed := &fakeFeed{
		platform: "Twitter",
		result: &dto.SocialFeedResult{
			RawMentionCount: 10,
			Posts: []dto.SocialPost{
				{ID: "1", Platform: "Twitter", Text: "to the moon", CreatedAt: now},
			},
		},
	}
	svc := NewSentimentService(newTestConfig(), newTestLogger(t), coinRepo, &fakeMentionRepo{}, []repository.SocialFeedRepository{feed}, nil)

	score, err := svc.CalculateSentimentScore(context.Background(), "DOGE")
	require.NoError(t, err)
	// 1 positive over 10 reported mentions: 50 + 10/2.
	assert.InDelta(t, 55.0, score.Total, 1e-9)
}

func TestCalculateSentimentScore_CachesResult(t *testing.T) {
	coinRepo := newFakeCoinRepo(entity.Coin{ID: 1, Symbol: "DOGE"})
	now := time.Now().UTC()
	feed := &fakeFeed{
		platform: "Twitter",
		result: &dto.SocialFeedResult{
			RawMentionCount: 1,
			Posts: []dto.SocialPost{
				{ID: "1", Platform: "Twitter", Text: "to the moon", CreatedAt: now},
			},
		},
	}
	svc := NewSentimentService(newTestConfig(), newTestLogger(t), coinRepo, &fakeMentionRepo{}, []repository.SocialFeedRepository{feed}, nil)

	first, err := svc.CalculateSentimentScore(context.Background(), "DOGE")
	require.NoError(t, err)
	second, err := svc.CalculateSentimentScore(context.Background(), "DOGE")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, feed.calls)
}

func TestCalculateSentimentScore_DegradedResultNotCached(t *testing.T) {
	coinRepo := newFakeCoinRepo(entity.Coin{ID: 1, Symbol: "DOGE"})
	feed := &fakeFeed{platform: "Twitter", err: errors.New("rate limited")}
	svc := NewSentimentService(newTestConfig(), newTestLogger(t), coinRepo, &fakeMentionRepo{}, []repository.SocialFeedRepository{feed}, nil)

	_, err := svc.CalculateSentimentScore(context.Background(), "DOGE")
	require.NoError(t, err)
	_, err = svc.CalculateSentimentScore(context.Background(), "DOGE")
	require.NoError(t, err)

	// The feed is retried because the neutral fallback never entered the cache.
	assert.Equal(t, 2, feed.calls)
}

func TestGetSentimentBreakdown(t *testing.T) {
	coinRepo := newFakeCoinRepo(entity.Coin{ID: 1, Symbol: "DOGE"})
	mentionRepo := &fakeMentionRepo{mentions: []entity.SocialMention{
		{CoinID: 1, Platform: "Twitter", PostID: "a", Sentiment: entity.SentimentPositive, Engagement: 10, Timestamp: time.Now().UTC().Add(-time.Hour)},
		{CoinID: 1, Platform: "Twitter", PostID: "b", Sentiment: entity.SentimentNegative, Engagement: 5, Timestamp: time.Now().UTC().Add(-time.Hour)},
		{CoinID: 1, Platform: "Reddit", PostID: "c", Sentiment: entity.SentimentPositive, Engagement: 0, Timestamp: time.Now().UTC().Add(-26 * time.Hour)},
	}}
	svc := NewSentimentService(newTestConfig(), newTestLogger(t), coinRepo, mentionRepo, nil, nil)

	breakdown, err := svc.GetSentimentBreakdown(context.Background(), "DOGE")
	require.NoError(t, err)

	require.Contains(t, breakdown.Platforms, "Twitter")
	require.Contains(t, breakdown.Platforms, "Reddit")
	assert.Equal(t, 2, breakdown.Platforms["Twitter"].TotalMentions)
	assert.InDelta(t, 50.0, breakdown.Platforms["Twitter"].Score, 1e-9)
	assert.InDelta(t, 100.0, breakdown.Platforms["Reddit"].Score, 1e-9)

	require.Len(t, breakdown.Days, 2)
	// Days come back in ascending date order.
	assert.Less(t, breakdown.Days[0].Date, breakdown.Days[1].Date)
	assert.InDelta(t, 15.0, breakdown.Days[0].TotalEngagement+breakdown.Days[1].TotalEngagement, 1e-9)
}
