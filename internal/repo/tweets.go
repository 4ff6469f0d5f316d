package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/videohub/internal/models"
)

type Tweets struct {
	DB *gorm.DB
}

func (r *Tweets) Create(ctx context.Context, t *models.Tweet) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *Tweets) FindByID(ctx context.Context, id uuid.UUID) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&tweet).Error; err != nil {
		return nil, err
	}
	return &tweet, nil
}

func (r *Tweets) ByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]models.Tweet, error) {
	var tweets []models.Tweet
	err := r.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&tweets).Error
	return tweets, err
}

func (r *Tweets) Save(ctx context.Context, t *models.Tweet) error {
	return r.DB.WithContext(ctx).Omit("Owner").Save(t).Error
}

func (r *Tweets) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Delete(&models.Tweet{}, "id = ?", id).Error
}

func (r *Tweets) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Tweet{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
