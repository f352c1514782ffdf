package repository

import (
	"context"

	"memecoin-radar/internal/entity"

	"gorm.io/gorm"
)

// PredictionSnapshotRepository stores the audit trail of prediction runs.
type PredictionSnapshotRepository interface {
	Create(ctx context.Context, snapshot *entity.PredictionSnapshot) error
	FindByCoinID(ctx context.Context, coinID uint, limit int) ([]entity.PredictionSnapshot, error)
}

type predictionSnapshotRepository struct {
	db *gorm.DB
}

// NewPredictionSnapshotRepository creates a new PredictionSnapshotRepository.
func NewPredictionSnapshotRepository(db *gorm.DB) PredictionSnapshotRepository {
	return &predictionSnapshotRepository{db: db}
}

func (r *predictionSnapshotRepository) Create(ctx context.Context, snapshot *entity.PredictionSnapshot) error {
	return r.db.WithContext(ctx).Create(snapshot).Error
}

func (r *predictionSnapshotRepository) FindByCoinID(ctx context.Context, coinID uint, limit int) ([]entity.PredictionSnapshot, error) {
	var snapshots []entity.PredictionSnapshot
	err := r.db.WithContext(ctx).
		Where("coin_id = ?", coinID).
		Order("created_at desc").
		Limit(limit).
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}
