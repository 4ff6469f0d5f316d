package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username           string    `gorm:"uniqueIndex;not null" json:"username"`
	Email              string    `gorm:"uniqueIndex;not null" json:"email"`
	Fullname           string    `gorm:"not null"             json:"fullname"`
	Avatar             string    `json:"avatar"`
	AvatarPublicID     string    `json:"-"`
	CoverImage         string    `json:"coverImage"`
	CoverImagePublicID string    `json:"-"`
	PasswordHash       string    `gorm:"not null"             json:"-"`
	// Digest of the single currently valid refresh token. Empty means the
	// user has no active session; overwritten on every login and refresh.
	RefreshTokenHash string    `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// PublicView strips credential material before the record crosses the API
// boundary or rides along in a request context.
func (u *User) PublicView() *User {
	view := *u
	view.PasswordHash = ""
	view.RefreshTokenHash = ""
	return &view
}

type Video struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title             string    `gorm:"not null"             json:"title"`
	Description       string    `gorm:"not null"             json:"description"`
	VideoFile         string    `gorm:"not null"             json:"videoFile"`
	VideoFilePublicID string    `gorm:"not null"             json:"-"`
	Thumbnail         string    `gorm:"not null"             json:"thumbnail"`
	ThumbnailPublicID string    `gorm:"not null"             json:"-"`
	Duration          float64   `json:"duration"`
	IsPublished       bool      `gorm:"default:true"         json:"isPublished"`
	OwnerID           uuid.UUID `gorm:"type:uuid;index;not null" json:"ownerId"`
	Owner             *User     `gorm:"foreignKey:OwnerID"   json:"owner,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Content   string    `gorm:"not null"                 json:"content"`
	VideoID   uuid.UUID `gorm:"type:uuid;index;not null" json:"videoId"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index;not null" json:"ownerId"`
	Owner     *User     `gorm:"foreignKey:OwnerID"       json:"owner,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Playlist struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Description string    `gorm:"not null"                 json:"description"`
	OwnerID     uuid.UUID `gorm:"type:uuid;index;not null" json:"ownerId"`
	Owner       *User     `gorm:"foreignKey:OwnerID"       json:"owner,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (p *Playlist) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type PlaylistVideo struct {
	ID         uint      `gorm:"primaryKey"                               json:"id"`
	PlaylistID uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_playlist_video;not null" json:"playlistId"`
	VideoID    uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_playlist_video;not null" json:"videoId"`
	Position   int       `gorm:"not null"                                 json:"position"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Tweet struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Content   string    `gorm:"not null"                 json:"content"`
	OwnerID   uuid.UUID `gorm:"type:uuid;index;not null" json:"ownerId"`
	Owner     *User     `gorm:"foreignKey:OwnerID"       json:"owner,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Tweet) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type Subscription struct {
	ID           uint      `gorm:"primaryKey"                                  json:"id"`
	SubscriberID uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_subscription;not null" json:"subscriberId"`
	ChannelID    uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_subscription;not null" json:"channelId"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Like struct {
	ID        uint       `gorm:"primaryKey"                          json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;index;not null;uniqueIndex:uq_like_video;uniqueIndex:uq_like_comment;uniqueIndex:uq_like_tweet" json:"userId"`
	VideoID   *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_like_video"   json:"videoId,omitempty"`
	CommentID *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_like_comment" json:"commentId,omitempty"`
	TweetID   *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_like_tweet"   json:"tweetId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// All returns every persisted model, in migration order.
func All() []any {
	return []any{
		&User{},
		&Video{},
		&Comment{},
		&Playlist{},
		&PlaylistVideo{},
		&Tweet{},
		&Subscription{},
		&Like{},
	}
}
