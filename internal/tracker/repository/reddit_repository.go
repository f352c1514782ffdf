package repository

import (
	"context"
	"fmt"
	"strings"

	"memecoin-radar/internal/tracker/config"
	"memecoin-radar/internal/tracker/dto"
	"memecoin-radar/pkg/logger"

	"github.com/mmcdole/gofeed"
)

type redditRepository struct {
	cfg *config.Config
	log *logger.Logger
}

// NewRedditRepository creates a Reddit search client backed by the public
// RSS feed, which needs no credentials.
func NewRedditRepository(cfg *config.Config, log *logger.Logger) SocialFeedRepository {
	return &redditRepository{cfg: cfg, log: log}
}

func (r *redditRepository) Platform() string {
	return "Reddit"
}

// FetchRecentPosts searches Reddit for the symbol over the past week. RSS
// carries no vote/comment counts, so engagement metrics stay zero; those
// posts still count toward mention volume and classification.
func (r *redditRepository) FetchRecentPosts(ctx context.Context, symbol string) (*dto.SocialFeedResult, error) {
	feedURL := fmt.Sprintf("%s/search.rss?q=%s&sort=new&t=week&limit=%d",
		r.cfg.Reddit.BaseURL, strings.ToUpper(symbol), r.cfg.Reddit.Limit)

	fp := gofeed.NewParser()
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to parse Reddit feed", logger.ErrorField(err), logger.StringField("url", feedURL))
		return nil, fmt.Errorf("failed to parse reddit feed: %w", err)
	}

	result := &dto.SocialFeedResult{
		RawMentionCount: len(feed.Items),
	}
	for _, item := range feed.Items {
		if item.PublishedParsed == nil {
			continue
		}
		text := item.Title
		if item.Description != "" {
			text = text + " " + item.Description
		}
		result.Posts = append(result.Posts, dto.SocialPost{
			ID:        item.GUID,
			Platform:  r.Platform(),
			Text:      text,
			CreatedAt: *item.PublishedParsed,
			URL:       item.Link,
		})
	}

	return result, nil
}
