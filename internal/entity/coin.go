package entity

import (
	"errors"
	"time"

	"github.com/lib/pq"
)

// ErrCoinNotFound is returned when a symbol has no coin profile.
var ErrCoinNotFound = errors.New("coin not found")

// Coin represents a tracked memcoin profile. SuccessProbability stays nil
// until the first prediction run and is only written by the prediction
// service.
type Coin struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	Symbol              string         `gorm:"unique;not null" json:"symbol"`
	Name                string         `gorm:"not null" json:"name"`
	MarketCap           float64        `json:"market_cap"`
	CommunityGrowth     float64        `json:"community_growth"`
	LiquidityScore      float64        `json:"liquidity_score"`
	Exchanges           pq.StringArray `gorm:"type:text[]" json:"exchanges"`
	DevelopmentActivity *float64       `json:"development_activity,omitempty"`
	SuccessProbability  *float64       `json:"success_probability,omitempty"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Coin model.
func (Coin) TableName() string {
	return "coins"
}
