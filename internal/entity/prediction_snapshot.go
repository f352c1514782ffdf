package entity

import (
	"time"

	"gorm.io/datatypes"
)

// PredictionSnapshot records one prediction run for a coin, including the
// factor values that produced the probability. The dashboard's history chart
// reads from this table.
type PredictionSnapshot struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CoinID      uint           `gorm:"not null;index" json:"coin_id"`
	Probability float64        `gorm:"not null" json:"probability"`
	Factors     datatypes.JSON `json:"factors"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the PredictionSnapshot model.
func (PredictionSnapshot) TableName() string {
	return "prediction_snapshots"
}
