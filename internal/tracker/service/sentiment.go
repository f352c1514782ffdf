package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
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

// Crypto-specific keyword sets driving the classifier. Fixed configuration
// data, not tunable state.
var positiveKeywords = []string{
	"moon", "bullish", "gem", "lambo", "rocket", "pump", "hodl", "hold",
	"gains", "buy", "profit", "win", "winner", "x10", "x100", "to the moon",
	"millionaire", "breakout", "explosion", "mooning", "trending", "viral",
	"whale", "early",
}

var negativeKeywords = []string{
	"dump", "scam", "rugpull", "rug", "ponzi", "crash", "bear", "bearish",
	"sell", "selling", "fall", "lost", "lose", "loser", "waste", "avoid",
	"shit", "shitcoin", "dead", "rekt", "fake", "fraud", "red", "dip",
}

// SentimentService aggregates social sentiment for a coin from live feeds
// and the stored mention window.
type SentimentService interface {
	CalculateSentimentScore(ctx context.Context, symbol string) (dto.SentimentScore, error)
	GetSentimentBreakdown(ctx context.Context, symbol string) (dto.SentimentBreakdown, error)
}

type sentimentService struct {
	cfg         *config.Config
	log         *logger.Logger
	coinRepo    repository.CoinRepository
	mentionRepo repository.SocialMentionRepository
	feeds       []repository.SocialFeedRepository
	redisClient *pkgredis.Client
	memCache    *cache.Cache
}

// NewSentimentService creates a new SentimentService over the given feeds.
// redisClient may be nil, in which case only the in-process cache is used.
func NewSentimentService(
	cfg *config.Config,
	log *logger.Logger,
	coinRepo repository.CoinRepository,
	mentionRepo repository.SocialMentionRepository,
	feeds []repository.SocialFeedRepository,
	redisClient *pkgredis.Client,
) SentimentService {
	return &sentimentService{
		cfg:         cfg,
		log:         log,
		coinRepo:    coinRepo,
		mentionRepo: mentionRepo,
		feeds:       feeds,
		redisClient: redisClient,
		memCache:    cache.New(cfg.Tracker.SentimentCacheTTL, 2*cfg.Tracker.SentimentCacheTTL),
	}
}

// Classify labels a post by counting keyword hits from each set; the larger
// count wins, ties (including zero hits) are neutral.
func Classify(text string) int {
	lowered := strings.ToLower(text)

	var posMatches, negMatches int
	for _, word := range positiveKeywords {
		if strings.Contains(lowered, word) {
			posMatches++
		}
	}
	for _, word := range negativeKeywords {
		if strings.Contains(lowered, word) {
			negMatches++
		}
	}

	switch {
	case posMatches > negMatches:
		return entity.SentimentPositive
	case negMatches > posMatches:
		return entity.SentimentNegative
	default:
		return entity.SentimentNeutral
	}
}

// EngagementScore weights raw interaction counts for post ranking. Not used
// in the sentiment total itself.
func EngagementScore(m dto.EngagementMetrics) float64 {
	return float64(m.Retweets)*2 + float64(m.Replies)*1.5 + float64(m.Likes) + float64(m.Quotes)*2.5
}

// sentimentTotal normalizes counts to the 0-100 scale with 50 as the
// neutral midpoint. totalMentions may exceed positive+negative+neutral when
// the platform reported more mentions than were classified.
func sentimentTotal(positive, negative, totalMentions int) float64 {
	if totalMentions == 0 {
		return 50
	}
	positivePct := float64(positive) / float64(totalMentions) * 100
	negativePct := float64(negative) / float64(totalMentions) * 100
	return utils.Clamp(50+(positivePct-negativePct)/2, 0, 100)
}

// CalculateSentimentScore merges freshly fetched posts with the stored
// trailing-window mentions into one count set. Feed failures degrade to the
// neutral result; only an unknown coin is an error.
func (s *sentimentService) CalculateSentimentScore(ctx context.Context, symbol string) (dto.SentimentScore, error) {
	coin, err := s.coinRepo.FindBySymbol(ctx, symbol)
	if err != nil {
		return dto.SentimentScore{}, err
	}

	cacheKey := common.RedisKeySentiment + coin.Symbol
	if cached, ok := s.memCache.Get(cacheKey); ok {
		return cached.(dto.SentimentScore), nil
	}
	if score, ok := s.getFromRedis(ctx, cacheKey); ok {
		s.memCache.Set(cacheKey, score, cache.DefaultExpiration)
		return score, nil
	}

	stored, err := s.loadWindow(ctx, coin)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load stored mentions", logger.ErrorField(err), logger.StringField("symbol", coin.Symbol))
		stored = nil
	}

	seen := make(map[string]bool, len(stored))
	for _, m := range stored {
		seen[m.PostID] = true
	}

	var positive, negative, neutral, rawCount int
	degraded := true

	for _, feed := range s.feeds {
		result, err := feed.FetchRecentPosts(ctx, coin.Symbol)
		if err != nil {
			s.log.ErrorContext(ctx, "Social feed unavailable",
				logger.ErrorField(err),
				logger.StringField("platform", feed.Platform()),
				logger.StringField("symbol", coin.Symbol),
			)
			continue
		}
		degraded = false
		rawCount += result.RawMentionCount

		for _, post := range result.Posts {
			if seen[post.ID] {
				continue
			}
			seen[post.ID] = true

			sentiment := Classify(post.Text)
			switch sentiment {
			case entity.SentimentPositive:
				positive++
			case entity.SentimentNegative:
				negative++
			default:
				neutral++
			}

			s.storeMention(ctx, coin.ID, post, sentiment)
		}
	}

	for _, m := range stored {
		switch {
		case m.Sentiment > 0:
			positive++
		case m.Sentiment < 0:
			negative++
		default:
			neutral++
		}
	}

	classified := positive + negative + neutral
	totalMentions := classified
	if rawCount > totalMentions {
		totalMentions = rawCount
	}

	score := dto.SentimentScore{
		Positive: positive,
		Negative: negative,
		Neutral:  neutral,
		Total:    sentimentTotal(positive, negative, totalMentions),
	}
	if degraded && classified == 0 {
		score.Degraded = true
	}
	// Degraded fallbacks are never cached so recovery is picked up on the
	// next request.
	if !score.Degraded {
		s.storeInCaches(ctx, cacheKey, score)
	}
	return score, nil
}

func (s *sentimentService) getFromRedis(ctx context.Context, key string) (dto.SentimentScore, bool) {
	if s.redisClient == nil {
		return dto.SentimentScore{}, false
	}
	raw, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		return dto.SentimentScore{}, false
	}
	var score dto.SentimentScore
	if err := json.Unmarshal([]byte(raw), &score); err != nil {
		return dto.SentimentScore{}, false
	}
	return score, true
}

func (s *sentimentService) storeInCaches(ctx context.Context, key string, score dto.SentimentScore) {
	s.memCache.Set(key, score, cache.DefaultExpiration)
	if s.redisClient == nil {
		return
	}
	raw, err := json.Marshal(score)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, key, raw, s.cfg.Tracker.SentimentCacheTTL).Err(); err != nil {
		s.log.ErrorContext(ctx, "Failed to cache sentiment in redis", logger.ErrorField(err), logger.StringField("key", key))
	}
}

// GetSentimentBreakdown returns the overall score plus per-platform and
// per-day partitions over the trailing window.
func (s *sentimentService) GetSentimentBreakdown(ctx context.Context, symbol string) (dto.SentimentBreakdown, error) {
	// Refreshes the stored window as a side effect.
	overall, err := s.CalculateSentimentScore(ctx, symbol)
	if err != nil {
		return dto.SentimentBreakdown{}, err
	}

	coin, err := s.coinRepo.FindBySymbol(ctx, symbol)
	if err != nil {
		return dto.SentimentBreakdown{}, err
	}

	mentions, err := s.loadWindow(ctx, coin)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load mentions for breakdown", logger.ErrorField(err), logger.StringField("symbol", coin.Symbol))
		mentions = nil
	}

	return dto.SentimentBreakdown{
		Overall:   overall,
		Platforms: partitionByPlatform(mentions),
		Days:      partitionByDay(mentions),
	}, nil
}

func (s *sentimentService) loadWindow(ctx context.Context, coin *entity.Coin) ([]entity.SocialMention, error) {
	since := time.Now().UTC().AddDate(0, 0, -s.cfg.Tracker.SentimentWindowDays)
	return s.mentionRepo.FindSince(ctx, coin.ID, since)
}

func (s *sentimentService) storeMention(ctx context.Context, coinID uint, post dto.SocialPost, sentiment int) {
	mention := &entity.SocialMention{
		CoinID:     coinID,
		Platform:   post.Platform,
		PostID:     post.ID,
		Content:    post.Text,
		Sentiment:  sentiment,
		Engagement: EngagementScore(post.Metrics),
		Timestamp:  post.CreatedAt,
		URL:        post.URL,
	}
	if err := s.mentionRepo.CreateIgnoreConflict(ctx, mention); err != nil {
		s.log.ErrorContext(ctx, "Failed to store mention",
			logger.ErrorField(err),
			logger.StringField("platform", post.Platform),
			logger.StringField("post_id", post.ID),
		)
	}
}

// partitionByPlatform applies the aggregation formula per platform.
func partitionByPlatform(mentions []entity.SocialMention) map[string]dto.PlatformSentiment {
	groups := make(map[string][]entity.SocialMention)
	for _, m := range mentions {
		groups[m.Platform] = append(groups[m.Platform], m)
	}

	breakdown := make(map[string]dto.PlatformSentiment, len(groups))
	for platform, group := range groups {
		var positive, negative, neutral int
		for _, m := range group {
			switch {
			case m.Sentiment > 0:
				positive++
			case m.Sentiment < 0:
				negative++
			default:
				neutral++
			}
		}
		breakdown[platform] = dto.PlatformSentiment{
			Positive:      positive,
			Negative:      negative,
			Neutral:       neutral,
			TotalMentions: len(group),
			Score:         sentimentTotal(positive, negative, len(group)),
		}
	}
	return breakdown
}

// partitionByDay groups mentions per calendar day, ascending.
func partitionByDay(mentions []entity.SocialMention) []dto.DailySentiment {
	groups := make(map[string][]entity.SocialMention)
	for _, m := range mentions {
		day := m.Timestamp.UTC().Format("2006-01-02")
		groups[day] = append(groups[day], m)
	}

	days := make([]string, 0, len(groups))
	for day := range groups {
		days = append(days, day)
	}
	sort.Strings(days)

	result := make([]dto.DailySentiment, 0, len(days))
	for _, day := range days {
		group := groups[day]
		var positive, negative int
		var engagement float64
		for _, m := range group {
			switch {
			case m.Sentiment > 0:
				positive++
			case m.Sentiment < 0:
				negative++
			}
			engagement += m.Engagement
		}
		result = append(result, dto.DailySentiment{
			Date:            day,
			MentionCount:    len(group),
			TotalEngagement: engagement,
			Sentiment:       sentimentTotal(positive, negative, len(group)),
		})
	}
	return result
}
