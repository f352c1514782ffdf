package dto

import "time"

// EngagementMetrics holds the raw interaction counts of a social post.
type EngagementMetrics struct {
	Retweets int `json:"retweets"`
	Replies  int `json:"replies"`
	Likes    int `json:"likes"`
	Quotes   int `json:"quotes"`
}

// SocialPost is a raw post fetched from a social feed, before
// classification.
type SocialPost struct {
	ID        string            `json:"id"`
	Platform  string            `json:"platform"`
	Text      string            `json:"text"`
	CreatedAt time.Time         `json:"created_at"`
	Metrics   EngagementMetrics `json:"metrics"`
	URL       string            `json:"url"`
}

// SocialFeedResult is what a feed returns for one symbol: the posts it
// could retrieve plus the broader raw mention count the platform reported.
type SocialFeedResult struct {
	Posts           []SocialPost `json:"posts"`
	RawMentionCount int          `json:"raw_mention_count"`
}
