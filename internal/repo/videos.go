package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/videohub/internal/models"
)

type Videos struct {
	DB *gorm.DB
}

// ownerFields limits joined owner records to the public channel projection.
func ownerFields(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "fullname", "avatar")
}

func (r *Videos) Create(ctx context.Context, v *models.Video) error {
	return r.DB.WithContext(ctx).Create(v).Error
}

func (r *Videos) FindByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	var video models.Video
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&video).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *Videos) FindByIDWithOwner(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	var video models.Video
	err := r.DB.WithContext(ctx).
		Preload("Owner", ownerFields).
		Where("id = ?", id).
		First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *Videos) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Video{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Feed lists published videos newest first with the owner projection joined.
func (r *Videos) Feed(ctx context.Context, offset, limit int) ([]models.Video, error) {
	var videos []models.Video
	err := r.DB.WithContext(ctx).
		Preload("Owner", ownerFields).
		Where("is_published = ?", true).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&videos).Error
	return videos, err
}

func (r *Videos) ByChannel(ctx context.Context, channelID uuid.UUID, offset, limit int) ([]models.Video, error) {
	var videos []models.Video
	err := r.DB.WithContext(ctx).
		Where("owner_id = ? AND is_published = ?", channelID, true).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&videos).Error
	return videos, err
}

func (r *Videos) Save(ctx context.Context, v *models.Video) error {
	return r.DB.WithContext(ctx).Omit("Owner").Save(v).Error
}

func (r *Videos) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Delete(&models.Video{}, "id = ?", id).Error
}
