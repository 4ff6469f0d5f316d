package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/videohub/internal/events"
	"github.com/Skotchmaster/videohub/internal/httpx"
	"github.com/Skotchmaster/videohub/internal/logging"
	"github.com/Skotchmaster/videohub/internal/media"
	authmw "github.com/Skotchmaster/videohub/internal/middleware/auth"
	"github.com/Skotchmaster/videohub/internal/models"
	"github.com/Skotchmaster/videohub/internal/repo"
	"github.com/Skotchmaster/videohub/internal/search"
)

type VideoHandler struct {
	Videos   *repo.Videos
	Media    media.Host
	Index    *search.Index
	Producer *events.Producer
}

// Upload stores the paired video file and thumbnail on the media host and
// creates the video record. If the thumbnail upload fails the already
// uploaded video file is removed so no orphan asset stays behind.
func (h *VideoHandler) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	title := strings.TrimSpace(c.FormValue("title"))
	description := strings.TrimSpace(c.FormValue("description"))
	if title == "" || description == "" {
		return httpx.BadRequest("title and description are required")
	}

	videoFile, err := c.FormFile("videoFile")
	if err != nil {
		return httpx.BadRequest("videoFile and thumbnail are required")
	}
	thumbFile, err := c.FormFile("thumbnail")
	if err != nil {
		return httpx.BadRequest("videoFile and thumbnail are required")
	}

	videoSrc, err := videoFile.Open()
	if err != nil {
		return httpx.BadRequest("cannot read videoFile")
	}
	defer videoSrc.Close()

	videoAsset, err := h.Media.Upload(ctx, videoFile.Filename, videoSrc)
	if err != nil {
		return httpx.ErrDependency
	}

	thumbSrc, err := thumbFile.Open()
	if err != nil {
		_ = h.Media.Remove(ctx, videoAsset.PublicID, media.KindVideo)
		return httpx.BadRequest("cannot read thumbnail")
	}
	defer thumbSrc.Close()

	thumbAsset, err := h.Media.Upload(ctx, thumbFile.Filename, thumbSrc)
	if err != nil {
		_ = h.Media.Remove(ctx, videoAsset.PublicID, media.KindVideo)
		return httpx.ErrDependency
	}

	video := models.Video{
		Title:             title,
		Description:       description,
		VideoFile:         videoAsset.URL,
		VideoFilePublicID: videoAsset.PublicID,
		Thumbnail:         thumbAsset.URL,
		ThumbnailPublicID: thumbAsset.PublicID,
		Duration:          videoAsset.Duration,
		IsPublished:       true,
		OwnerID:           user.ID,
	}
	if err := h.Videos.Create(ctx, &video); err != nil {
		return httpx.ErrDependency
	}

	h.index(c, &video)
	publish(c, h.Producer, events.TopicVideoEvents, video.ID.String(), map[string]any{
		"type":    "video_uploaded",
		"videoID": video.ID,
		"ownerID": user.ID,
		"title":   video.Title,
	})

	return httpx.OK(c, http.StatusCreated, video, "video uploaded successfully")
}

func (h *VideoHandler) GetByID(c echo.Context) error {
	id, err := paramID(c, "videoId")
	if err != nil {
		return err
	}

	video, err := h.Videos.FindByIDWithOwner(c.Request().Context(), id)
	if err != nil {
		if repo.IsNotFound(err) {
			return httpx.NotFound("video not found")
		}
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusOK, video, "video fetched successfully")
}

// List serves both the feed and a channel's uploads, newest first.
func (h *VideoHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	listType := c.QueryParam("type")
	if listType == "" {
		return httpx.BadRequest("type is required")
	}

	offset, limit := pageParams(c)

	var (
		videos []models.Video
		err    error
	)
	switch listType {
	case "feed":
		videos, err = h.Videos.Feed(ctx, offset, limit)
	default:
		rawChannel := c.QueryParam("channelId")
		if rawChannel == "" {
			return httpx.BadRequest("channelId is required")
		}
		channelID, parseErr := uuid.Parse(rawChannel)
		if parseErr != nil {
			return httpx.BadRequest("invalid channelId")
		}
		videos, err = h.Videos.ByChannel(ctx, channelID, offset, limit)
	}
	if err != nil {
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusOK, videos, "videos fetched successfully")
}

func (h *VideoHandler) UpdateDetails(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	id, err := paramID(c, "videoId")
	if err != nil {
		return err
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return httpx.BadRequest("invalid body")
	}
	if strings.TrimSpace(req.Title) == "" && strings.TrimSpace(req.Description) == "" {
		return httpx.BadRequest("at least one field is required")
	}

	video, err := h.Videos.FindByIDWithOwner(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return httpx.NotFound("video not found")
		}
		return httpx.ErrDependency
	}

	if video.OwnerID != user.ID {
		return httpx.Forbidden("you are unauthorized to update video details")
	}

	if t := strings.TrimSpace(req.Title); t != "" {
		video.Title = t
	}
	if d := strings.TrimSpace(req.Description); d != "" {
		video.Description = d
	}

	if err := h.Videos.Save(ctx, video); err != nil {
		return httpx.ErrDependency
	}
	h.index(c, video)

	return httpx.OK(c, http.StatusOK, video, "video details updated successfully")
}

// UpdateThumbnail replaces the thumbnail and removes the previous remote copy.
func (h *VideoHandler) UpdateThumbnail(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	id, err := paramID(c, "videoId")
	if err != nil {
		return err
	}

	video, err := h.Videos.FindByIDWithOwner(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return httpx.NotFound("video not found")
		}
		return httpx.ErrDependency
	}

	if video.OwnerID != user.ID {
		return httpx.Forbidden("you are unauthorized to update video thumbnail")
	}

	file, err := c.FormFile("thumbnail")
	if err != nil {
		return httpx.BadRequest("thumbnail file is missing")
	}
	src, err := file.Open()
	if err != nil {
		return httpx.BadRequest("cannot read thumbnail")
	}
	defer src.Close()

	asset, err := h.Media.Upload(ctx, file.Filename, src)
	if err != nil {
		return httpx.ErrDependency
	}

	oldPublicID := video.ThumbnailPublicID
	video.Thumbnail = asset.URL
	video.ThumbnailPublicID = asset.PublicID
	if err := h.Videos.Save(ctx, video); err != nil {
		return httpx.ErrDependency
	}

	if err := h.Media.Remove(ctx, oldPublicID, media.KindImage); err != nil {
		logging.FromContext(ctx).Warn("removing old thumbnail failed", "video_id", video.ID, "error", err)
	}
	h.index(c, video)

	return httpx.OK(c, http.StatusOK, video, "video thumbnail updated successfully")
}

func (h *VideoHandler) TogglePublish(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	id, err := paramID(c, "videoId")
	if err != nil {
		return err
	}

	video, err := h.Videos.FindByIDWithOwner(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return httpx.NotFound("video not found")
		}
		return httpx.ErrDependency
	}

	if video.OwnerID != user.ID {
		return httpx.Forbidden("you are unauthorized to update video details")
	}

	video.IsPublished = !video.IsPublished
	if err := h.Videos.Save(ctx, video); err != nil {
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusOK, video, "published status toggled successfully")
}

// Delete removes the record along with both remote assets.
func (h *VideoHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	id, err := paramID(c, "videoId")
	if err != nil {
		return err
	}

	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return httpx.NotFound("video not found")
		}
		return httpx.ErrDependency
	}

	if video.OwnerID != user.ID {
		return httpx.Forbidden("not authorized to delete this video")
	}

	if err := h.Media.Remove(ctx, video.VideoFilePublicID, media.KindVideo); err != nil {
		logging.FromContext(ctx).Warn("removing video file failed", "video_id", video.ID, "error", err)
	}
	if err := h.Media.Remove(ctx, video.ThumbnailPublicID, media.KindImage); err != nil {
		logging.FromContext(ctx).Warn("removing thumbnail failed", "video_id", video.ID, "error", err)
	}

	if err := h.Videos.Delete(ctx, id); err != nil {
		return httpx.ErrDependency
	}

	if err := h.Index.DeleteVideo(ctx, id); err != nil {
		logging.FromContext(ctx).Warn("search index delete failed", "video_id", id, "error", err)
	}
	publish(c, h.Producer, events.TopicVideoEvents, id.String(), map[string]any{
		"type":    "video_deleted",
		"videoID": id,
		"ownerID": user.ID,
	})

	return httpx.OK(c, http.StatusOK, echo.Map{"id": id}, "video deleted successfully")
}

func (h *VideoHandler) index(c echo.Context, video *models.Video) {
	ctx := c.Request().Context()
	if err := h.Index.IndexVideo(ctx, video); err != nil {
		logging.FromContext(ctx).Warn("search index update failed", "video_id", video.ID, "error", err)
	}
}
