package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/videohub/internal/httpx"
	authmw "github.com/Skotchmaster/videohub/internal/middleware/auth"
	"github.com/Skotchmaster/videohub/internal/models"
	"github.com/Skotchmaster/videohub/internal/repo"
)

type PlaylistHandler struct {
	Playlists *repo.Playlists
	Videos    *repo.Videos
	Users     *repo.Users
}

func (h *PlaylistHandler) Create(c echo.Context) error {
	user := authmw.CurrentUser(c)

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return httpx.BadRequest("invalid body")
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Description) == "" {
		return httpx.BadRequest("name and description are required")
	}

	playlist := models.Playlist{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     user.ID,
	}
	if err := h.Playlists.Create(c.Request().Context(), &playlist); err != nil {
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusCreated, playlist, "playlist created successfully")
}

func (h *PlaylistHandler) ListByUser(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}

	exists, err := h.Users.Exists(ctx, userID)
	if err != nil {
		return httpx.ErrDependency
	}
	if !exists {
		return httpx.NotFound("user not found")
	}

	offset, limit := pageParams(c)
	playlists, err := h.Playlists.ByOwner(ctx, userID, offset, limit)
	if err != nil {
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusOK, playlists, "user playlists fetched successfully")
}

func (h *PlaylistHandler) GetByID(c echo.Context) error {
	playlistID, err := paramID(c, "playlistId")
	if err != nil {
		return err
	}

	playlist, err := h.Playlists.FindByIDWithOwner(c.Request().Context(), playlistID)
	if err != nil {
		if repo.IsNotFound(err) {
			return httpx.NotFound("playlist not found")
		}
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusOK, playlist, "playlist fetched successfully")
}

func (h *PlaylistHandler) ListVideos(c echo.Context) error {
	ctx := c.Request().Context()

	playlistID, err := paramID(c, "playlistId")
	if err != nil {
		return err
	}

	if _, err := h.Playlists.FindByID(ctx, playlistID); err != nil {
		if repo.IsNotFound(err) {
			return httpx.NotFound("playlist not found")
		}
		return httpx.ErrDependency
	}

	offset, limit := pageParams(c)
	videos, err := h.Playlists.Videos(ctx, playlistID, offset, limit)
	if err != nil {
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusOK, videos, "playlist videos fetched successfully")
}

func (h *PlaylistHandler) AddVideo(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	playlistID, err := paramID(c, "playlistId")
	if err != nil {
		return err
	}
	videoID, err := paramID(c, "videoId")
	if err != nil {
		return err
	}

	playlist, err := h.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		if repo.IsNotFound(err) {
			return httpx.NotFound("playlist not found")
		}
		return httpx.ErrDependency
	}

	if playlist.OwnerID != user.ID {
		return httpx.Forbidden("you are unauthorized to add video to the playlist")
	}

	exists, err := h.Videos.Exists(ctx, videoID)
	if err != nil {
		return httpx.ErrDependency
	}
	if !exists {
		return httpx.NotFound("video not found")
	}

	if err := h.Playlists.AddVideo(ctx, playlistID, videoID); err != nil {
		if errors.Is(err, repo.ErrAlreadyInPlaylist) {
			return httpx.BadRequest("video already in playlist")
		}
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusOK, playlist, "video added to the playlist successfully")
}

func (h *PlaylistHandler) RemoveVideo(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	playlistID, err := paramID(c, "playlistId")
	if err != nil {
		return err
	}
	videoID, err := paramID(c, "videoId")
	if err != nil {
		return err
	}

	playlist, err := h.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		if repo.IsNotFound(err) {
			return httpx.NotFound("playlist not found")
		}
		return httpx.ErrDependency
	}

	if playlist.OwnerID != user.ID {
		return httpx.Forbidden("you are unauthorized to remove video from the playlist")
	}

	if err := h.Playlists.RemoveVideo(ctx, playlistID, videoID); err != nil {
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusOK, playlist, "video removed from playlist successfully")
}

func (h *PlaylistHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	playlistID, err := paramID(c, "playlistId")
	if err != nil {
		return err
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return httpx.BadRequest("invalid body")
	}
	if strings.TrimSpace(req.Name) == "" && strings.TrimSpace(req.Description) == "" {
		return httpx.BadRequest("at least one field is required")
	}

	playlist, err := h.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		if repo.IsNotFound(err) {
			return httpx.NotFound("playlist not found")
		}
		return httpx.ErrDependency
	}

	if playlist.OwnerID != user.ID {
		return httpx.Forbidden("you are unauthorized to update the playlist")
	}

	if n := strings.TrimSpace(req.Name); n != "" {
		playlist.Name = n
	}
	if d := strings.TrimSpace(req.Description); d != "" {
		playlist.Description = d
	}
	if err := h.Playlists.Save(ctx, playlist); err != nil {
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusOK, playlist, "playlist updated successfully")
}

func (h *PlaylistHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	playlistID, err := paramID(c, "playlistId")
	if err != nil {
		return err
	}

	playlist, err := h.Playlists.FindByID(ctx, playlistID)
	if err != nil {
		if repo.IsNotFound(err) {
			return httpx.NotFound("playlist not found")
		}
		return httpx.ErrDependency
	}

	if playlist.OwnerID != user.ID {
		return httpx.Forbidden("you are unauthorized to delete the playlist")
	}

	if err := h.Playlists.Delete(ctx, playlistID); err != nil {
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusOK, echo.Map{}, "playlist deleted successfully")
}
