package entity

import "time"

// PricePoint is one observation of a coin's price/volume series. Rows are
// append-only; the series acts as a local cache of fetched market data.
type PricePoint struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CoinID    uint      `gorm:"not null;uniqueIndex:idx_price_points_coin_ts" json:"coin_id"`
	Price     float64   `gorm:"not null" json:"price"`
	Volume    float64   `gorm:"not null" json:"volume"`
	Timestamp time.Time `gorm:"not null;uniqueIndex:idx_price_points_coin_ts" json:"timestamp"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the PricePoint model.
func (PricePoint) TableName() string {
	return "price_points"
}
