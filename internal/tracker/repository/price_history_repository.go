package repository

import (
	"context"

	"memecoin-radar/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PriceHistoryRepository provides access to cached price series.
type PriceHistoryRepository interface {
	FindByCoinID(ctx context.Context, coinID uint) ([]entity.PricePoint, error)
	CreateIgnoreConflict(ctx context.Context, points []entity.PricePoint) error
}

type priceHistoryRepository struct {
	db *gorm.DB
}

// NewPriceHistoryRepository creates a new PriceHistoryRepository.
func NewPriceHistoryRepository(db *gorm.DB) PriceHistoryRepository {
	return &priceHistoryRepository{db: db}
}

// FindByCoinID returns the full stored series for a coin, oldest first.
func (r *priceHistoryRepository) FindByCoinID(ctx context.Context, coinID uint) ([]entity.PricePoint, error) {
	var points []entity.PricePoint
	err := r.db.WithContext(ctx).
		Where("coin_id = ?", coinID).
		Order("timestamp asc").
		Find(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}

// CreateIgnoreConflict appends fetched points, skipping timestamps already
// stored for the coin.
func (r *priceHistoryRepository) CreateIgnoreConflict(ctx context.Context, points []entity.PricePoint) error {
	if len(points) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "coin_id"}, {Name: "timestamp"}},
		DoNothing: true,
	}).Create(&points).Error
}
