package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/videohub/internal/models"
)

type Subscriptions struct {
	DB *gorm.DB
}

// Toggle removes the subscription when it exists and creates it otherwise.
// Returns true when the caller is subscribed after the call.
func (r *Subscriptions) Toggle(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	var existing models.Subscription
	err := r.DB.WithContext(ctx).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		First(&existing).Error
	switch {
	case err == nil:
		if err := r.DB.WithContext(ctx).Delete(&existing).Error; err != nil {
			return false, err
		}
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub := models.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
		if err := r.DB.WithContext(ctx).Create(&sub).Error; err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

// ChannelInfo is the joined channel projection for subscription listings.
type ChannelInfo struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Fullname string    `json:"fullname"`
	Avatar   string    `json:"avatar"`
}

func (r *Subscriptions) SubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]ChannelInfo, error) {
	var channels []ChannelInfo
	err := r.DB.WithContext(ctx).
		Model(&models.Subscription{}).
		Select("users.id", "users.username", "users.fullname", "users.avatar").
		Joins("JOIN users ON users.id = subscriptions.channel_id").
		Where("subscriptions.subscriber_id = ?", subscriberID).
		Order("subscriptions.created_at DESC").
		Scan(&channels).Error
	return channels, err
}

func (r *Subscriptions) CountForChannel(ctx context.Context, channelID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error
	return count, err
}

func (r *Subscriptions) IsSubscribed(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
