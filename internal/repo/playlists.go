package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/videohub/internal/models"
)

var ErrAlreadyInPlaylist = errors.New("video already in playlist")

type Playlists struct {
	DB *gorm.DB
}

func (r *Playlists) Create(ctx context.Context, p *models.Playlist) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *Playlists) FindByID(ctx context.Context, id uuid.UUID) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&playlist).Error; err != nil {
		return nil, err
	}
	return &playlist, nil
}

func (r *Playlists) FindByIDWithOwner(ctx context.Context, id uuid.UUID) (*models.Playlist, error) {
	var playlist models.Playlist
	err := r.DB.WithContext(ctx).
		Preload("Owner", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "username", "avatar")
		}).
		Where("id = ?", id).
		First(&playlist).Error
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

func (r *Playlists) ByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]models.Playlist, error) {
	var playlists []models.Playlist
	err := r.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&playlists).Error
	return playlists, err
}

func (r *Playlists) Save(ctx context.Context, p *models.Playlist) error {
	return r.DB.WithContext(ctx).Omit("Owner").Save(p).Error
}

// Delete removes the playlist and its membership rows.
func (r *Playlists) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.PlaylistVideo{}, "playlist_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Playlist{}, "id = ?", id).Error
	})
}

// AddVideo appends the video at the end of the playlist.
func (r *Playlists) AddVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PlaylistVideo{}).
			Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyInPlaylist
		}

		var position int64
		if err := tx.Model(&models.PlaylistVideo{}).
			Where("playlist_id = ?", playlistID).
			Count(&position).Error; err != nil {
			return err
		}

		entry := models.PlaylistVideo{
			PlaylistID: playlistID,
			VideoID:    videoID,
			Position:   int(position),
		}
		return tx.Create(&entry).Error
	})
}

func (r *Playlists) RemoveVideo(ctx context.Context, playlistID, videoID uuid.UUID) error {
	return r.DB.WithContext(ctx).
		Delete(&models.PlaylistVideo{}, "playlist_id = ? AND video_id = ?", playlistID, videoID).Error
}

// PlaylistVideoInfo is the thin projection returned by the playlist-videos
// page.
type PlaylistVideoInfo struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Thumbnail string    `json:"thumbnail"`
	Duration  float64   `json:"duration"`
}

func (r *Playlists) Videos(ctx context.Context, playlistID uuid.UUID, offset, limit int) ([]PlaylistVideoInfo, error) {
	var infos []PlaylistVideoInfo
	err := r.DB.WithContext(ctx).
		Model(&models.PlaylistVideo{}).
		Select("videos.id", "videos.title", "videos.thumbnail", "videos.duration").
		Joins("JOIN videos ON videos.id = playlist_videos.video_id").
		Where("playlist_videos.playlist_id = ?", playlistID).
		Order("playlist_videos.position ASC").
		Offset(offset).Limit(limit).
		Scan(&infos).Error
	return infos, err
}
