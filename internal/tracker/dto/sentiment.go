package dto

// SentimentScore aggregates classified mentions for a coin over the trailing
// window. Total is derived from the counts only (50 = neutral midpoint).
// Degraded marks a neutral fallback after a feed failure.
type SentimentScore struct {
	Positive int     `json:"positive"`
	Negative int     `json:"negative"`
	Neutral  int     `json:"neutral"`
	Total    float64 `json:"total"`
	Degraded bool    `json:"degraded,omitempty"`
}

// PlatformSentiment is the per-platform partition of the aggregate.
type PlatformSentiment struct {
	Positive      int     `json:"positive"`
	Negative      int     `json:"negative"`
	Neutral       int     `json:"neutral"`
	TotalMentions int     `json:"total_mentions"`
	Score         float64 `json:"score"`
}

// DailySentiment is one calendar day of the trailing window.
type DailySentiment struct {
	Date            string  `json:"date"`
	MentionCount    int     `json:"mention_count"`
	TotalEngagement float64 `json:"total_engagement"`
	Sentiment       float64 `json:"sentiment"`
}

// SentimentBreakdown is the full sentiment view for a coin detail page.
type SentimentBreakdown struct {
	Overall   SentimentScore               `json:"overall"`
	Platforms map[string]PlatformSentiment `json:"platforms"`
	Days      []DailySentiment             `json:"days"`
}
