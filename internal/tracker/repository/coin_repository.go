package repository

import (
	"context"
	"errors"
	"strings"

	"memecoin-radar/internal/entity"

	"gorm.io/gorm"
)

// CoinRepository provides access to coin profiles.
type CoinRepository interface {
	Create(ctx context.Context, coin *entity.Coin) error
	FindBySymbol(ctx context.Context, symbol string) (*entity.Coin, error)
	FindAll(ctx context.Context) ([]entity.Coin, error)
	FindTopBySuccessProbability(ctx context.Context, limit int) ([]entity.Coin, error)
	UpdateSuccessProbability(ctx context.Context, coinID uint, probability float64) error
}

type coinRepository struct {
	db *gorm.DB
}

// NewCoinRepository creates a new CoinRepository.
func NewCoinRepository(db *gorm.DB) CoinRepository {
	return &coinRepository{db: db}
}

func (r *coinRepository) Create(ctx context.Context, coin *entity.Coin) error {
	coin.Symbol = strings.ToUpper(coin.Symbol)
	return r.db.WithContext(ctx).Create(coin).Error
}

func (r *coinRepository) FindBySymbol(ctx context.Context, symbol string) (*entity.Coin, error) {
	var coin entity.Coin
	err := r.db.WithContext(ctx).Where("symbol = ?", strings.ToUpper(symbol)).First(&coin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrCoinNotFound
		}
		return nil, err
	}
	return &coin, nil
}

func (r *coinRepository) FindAll(ctx context.Context) ([]entity.Coin, error) {
	var coins []entity.Coin
	if err := r.db.WithContext(ctx).Order("id asc").Find(&coins).Error; err != nil {
		return nil, err
	}
	return coins, nil
}

func (r *coinRepository) FindTopBySuccessProbability(ctx context.Context, limit int) ([]entity.Coin, error) {
	var coins []entity.Coin
	err := r.db.WithContext(ctx).
		Where("success_probability IS NOT NULL").
		Order("success_probability desc").
		Limit(limit).
		Find(&coins).Error
	if err != nil {
		return nil, err
	}
	return coins, nil
}

func (r *coinRepository) UpdateSuccessProbability(ctx context.Context, coinID uint, probability float64) error {
	return r.db.WithContext(ctx).
		Model(&entity.Coin{}).
		Where("id = ?", coinID).
		Update("success_probability", probability).Error
}
