package entity

import "time"

// Sentiment classification outcomes.
const (
	SentimentPositive = 1
	SentimentNeutral  = 0
	SentimentNegative = -1
)

// SocialMention is a classified social post tied to a coin. Immutable once
// stored; the 7-day trailing window over these rows feeds the sentiment
// aggregate.
type SocialMention struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CoinID     uint      `gorm:"not null;index" json:"coin_id"`
	Platform   string    `gorm:"not null" json:"platform"`
	PostID     string    `gorm:"unique;not null" json:"post_id"`
	Content    string    `json:"content"`
	Sentiment  int       `gorm:"not null" json:"sentiment"`
	Engagement float64   `json:"engagement"`
	Timestamp  time.Time `gorm:"not null;index" json:"timestamp"`
	URL        string    `json:"url"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the SocialMention model.
func (SocialMention) TableName() string {
	return "social_mentions"
}
