package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/videohub/internal/models"
)

type Comments struct {
	DB *gorm.DB
}

func (r *Comments) Create(ctx context.Context, c *models.Comment) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *Comments) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *Comments) ByVideo(ctx context.Context, videoID uuid.UUID, offset, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.DB.WithContext(ctx).
		Preload("Owner", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "avatar")
		}).
		Where("video_id = ?", videoID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&comments).Error
	return comments, err
}

func (r *Comments) Save(ctx context.Context, c *models.Comment) error {
	return r.DB.WithContext(ctx).Omit("Owner").Save(c).Error
}

func (r *Comments) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id).Error
}

func (r *Comments) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
