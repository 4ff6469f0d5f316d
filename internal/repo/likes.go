package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/videohub/internal/models"
)

// LikeTarget names the kind of entity a like attaches to.
type LikeTarget string

const (
	LikeVideo   LikeTarget = "video"
	LikeComment LikeTarget = "comment"
	LikeTweet   LikeTarget = "tweet"
)

type Likes struct {
	DB *gorm.DB
}

func (t LikeTarget) column() string {
	switch t {
	case LikeComment:
		return "comment_id"
	case LikeTweet:
		return "tweet_id"
	default:
		return "video_id"
	}
}

// Toggle likes the target when no like exists and removes the like otherwise.
// Returns whether the target is liked after the call plus the new like count.
func (r *Likes) Toggle(ctx context.Context, userID uuid.UUID, target LikeTarget, targetID uuid.UUID) (bool, int64, error) {
	column := target.column()

	liked := false
	var existing models.Like
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND "+column+" = ?", userID, targetID).
		First(&existing).Error
	switch {
	case err == nil:
		if err := r.DB.WithContext(ctx).Delete(&existing).Error; err != nil {
			return false, 0, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		like := models.Like{UserID: userID}
		switch target {
		case LikeComment:
			like.CommentID = &targetID
		case LikeTweet:
			like.TweetID = &targetID
		default:
			like.VideoID = &targetID
		}
		if err := r.DB.WithContext(ctx).Create(&like).Error; err != nil {
			return false, 0, err
		}
		liked = true
	default:
		return false, 0, err
	}

	count, err := r.Count(ctx, target, targetID)
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

func (r *Likes) Count(ctx context.Context, target LikeTarget, targetID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Like{}).
		Where(target.column()+" = ?", targetID).
		Count(&count).Error
	return count, err
}
