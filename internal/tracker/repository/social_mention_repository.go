package repository

import (
	"context"
	"time"

	"memecoin-radar/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SocialMentionRepository provides access to stored classified mentions.
type SocialMentionRepository interface {
	FindSince(ctx context.Context, coinID uint, since time.Time) ([]entity.SocialMention, error)
	CreateIgnoreConflict(ctx context.Context, mention *entity.SocialMention) error
}

type socialMentionRepository struct {
	db *gorm.DB
}

// NewSocialMentionRepository creates a new SocialMentionRepository.
func NewSocialMentionRepository(db *gorm.DB) SocialMentionRepository {
	return &socialMentionRepository{db: db}
}

// FindSince returns mentions for a coin newer than the given time, oldest
// first.
func (r *socialMentionRepository) FindSince(ctx context.Context, coinID uint, since time.Time) ([]entity.SocialMention, error) {
	var mentions []entity.SocialMention
	err := r.db.WithContext(ctx).
		Where("coin_id = ? AND timestamp >= ?", coinID, since).
		Order("timestamp asc").
		Find(&mentions).Error
	if err != nil {
		return nil, err
	}
	return mentions, nil
}

// CreateIgnoreConflict stores a mention, skipping posts already seen.
func (r *socialMentionRepository) CreateIgnoreConflict(ctx context.Context, mention *entity.SocialMention) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}},
		DoNothing: true,
	}).Create(mention).Error
}
