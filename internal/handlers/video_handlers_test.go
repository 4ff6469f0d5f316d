package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/videohub/internal/models"
)

func TestVideoUpload(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("uploader", "uploader@example.com")

	rec, c := env.doMultipartRequest(http.MethodPost, "/api/v1/videos",
		map[string]string{"title": "My video", "description": "About things"},
		map[string]string{"videoFile": "clip.mp4", "thumbnail": "thumb.png"})
	env.asPrincipal(c, user)

	require.NoError(t, env.V.Upload(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var video models.Video
	decodeEnvelope(t, rec, &video)
	require.Equal(t, "My video", video.Title)
	require.Equal(t, "https://media.test/clip.mp4", video.VideoFile)
	require.Equal(t, "https://media.test/thumb.png", video.Thumbnail)
	require.Equal(t, user.ID, video.OwnerID)
	require.True(t, video.IsPublished)
	require.ElementsMatch(t, []string{"clip.mp4", "thumb.png"}, env.Media.Uploads)
}

func TestVideoUploadThumbnailFailureRemovesVideoFile(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("uploader", "uploader@example.com")
	env.Media.FailOn["thumb.png"] = true

	_, c := env.doMultipartRequest(http.MethodPost, "/api/v1/videos",
		map[string]string{"title": "My video", "description": "About things"},
		map[string]string{"videoFile": "clip.mp4", "thumbnail": "thumb.png"})
	env.asPrincipal(c, user)

	requireAPIError(t, env.V.Upload(c), http.StatusBadGateway)
	// the video file that was already uploaded must not be orphaned
	require.Contains(t, env.Media.Removed, "asset-clip.mp4")
}

func TestVideoUploadMissingParts(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser("uploader", "uploader@example.com")

	_, c := env.doMultipartRequest(http.MethodPost, "/api/v1/videos",
		map[string]string{"title": "My video", "description": "About things"},
		map[string]string{"videoFile": "clip.mp4"})
	env.asPrincipal(c, user)
	requireAPIError(t, env.V.Upload(c), http.StatusBadRequest)

	_, c = env.doMultipartRequest(http.MethodPost, "/api/v1/videos",
		map[string]string{"title": "", "description": ""},
		map[string]string{"videoFile": "clip.mp4", "thumbnail": "thumb.png"})
	env.asPrincipal(c, user)
	requireAPIError(t, env.V.Upload(c), http.StatusBadRequest)
}

func TestVideoGetByID(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("owner", "owner@example.com")
	video := env.createVideo(owner, "clip")

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/videos/"+video.ID.String(), nil)
	c.SetParamNames("videoId")
	c.SetParamValues(video.ID.String())

	require.NoError(t, env.V.GetByID(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Video
	decodeEnvelope(t, rec, &got)
	require.Equal(t, video.ID, got.ID)
	require.NotNil(t, got.Owner)
	require.Equal(t, "owner", got.Owner.Username)
}

func TestVideoGetByIDNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/api/v1/videos/x", nil)
	c.SetParamNames("videoId")
	c.SetParamValues(uuid.NewString())
	requireAPIError(t, env.V.GetByID(c), http.StatusNotFound)

	_, c = env.doJSONRequest(http.MethodGet, "/api/v1/videos/x", nil)
	c.SetParamNames("videoId")
	c.SetParamValues("not-a-uuid")
	requireAPIError(t, env.V.GetByID(c), http.StatusBadRequest)
}

func TestVideoListFeed(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("owner", "owner@example.com")
	env.createVideo(owner, "first")
	unpublished := env.createVideo(owner, "second")
	unpublished.IsPublished = false
	require.NoError(t, env.Videos.Save(t.Context(), unpublished))

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/videos?type=feed", nil)

	require.NoError(t, env.V.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var videos []models.Video
	decodeEnvelope(t, rec, &videos)
	require.Len(t, videos, 1)
	require.Equal(t, "first", videos[0].Title)
}

func TestVideoListByChannel(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("owner", "owner@example.com")
	other := env.createUser("other", "other@example.com")
	env.createVideo(owner, "mine")
	env.createVideo(other, "theirs")

	rec, c := env.doJSONRequest(http.MethodGet,
		"/api/v1/videos?type=channel&channelId="+owner.ID.String(), nil)

	require.NoError(t, env.V.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var videos []models.Video
	decodeEnvelope(t, rec, &videos)
	require.Len(t, videos, 1)
	require.Equal(t, "mine", videos[0].Title)
}

func TestVideoListRequiresType(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodGet, "/api/v1/videos", nil)
	requireAPIError(t, env.V.List(c), http.StatusBadRequest)
}

func TestVideoUpdateDetails(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("owner", "owner@example.com")
	video := env.createVideo(owner, "clip")

	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/videos/"+video.ID.String(),
		map[string]string{"title": "New title"})
	c.SetParamNames("videoId")
	c.SetParamValues(video.ID.String())
	env.asPrincipal(c, owner)

	require.NoError(t, env.V.UpdateDetails(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Video
	decodeEnvelope(t, rec, &got)
	require.Equal(t, "New title", got.Title)
	require.Equal(t, "description of clip", got.Description)
}

func TestVideoUpdateDetailsOwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("owner", "owner@example.com")
	intruder := env.createUser("intruder", "intruder@example.com")
	video := env.createVideo(owner, "clip")

	_, c := env.doJSONRequest(http.MethodPatch, "/api/v1/videos/"+video.ID.String(),
		map[string]string{"title": "Hijacked"})
	c.SetParamNames("videoId")
	c.SetParamValues(video.ID.String())
	env.asPrincipal(c, intruder)

	requireAPIError(t, env.V.UpdateDetails(c), http.StatusForbidden)
}

func TestVideoTogglePublish(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("owner", "owner@example.com")
	video := env.createVideo(owner, "clip")

	rec, c := env.doJSONRequest(http.MethodPatch, "/api/v1/videos/"+video.ID.String()+"/publish", nil)
	c.SetParamNames("videoId")
	c.SetParamValues(video.ID.String())
	env.asPrincipal(c, owner)

	require.NoError(t, env.V.TogglePublish(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Video
	decodeEnvelope(t, rec, &got)
	require.False(t, got.IsPublished)
}

func TestVideoUpdateThumbnailRemovesOldAsset(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("owner", "owner@example.com")
	video := env.createVideo(owner, "clip")

	rec, c := env.doMultipartRequest(http.MethodPatch,
		"/api/v1/videos/"+video.ID.String()+"/thumbnail",
		nil, map[string]string{"thumbnail": "new-thumb.png"})
	c.SetParamNames("videoId")
	c.SetParamValues(video.ID.String())
	env.asPrincipal(c, owner)

	require.NoError(t, env.V.UpdateThumbnail(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Video
	decodeEnvelope(t, rec, &got)
	require.Equal(t, "https://media.test/new-thumb.png", got.Thumbnail)
	require.Contains(t, env.Media.Removed, "asset-clip.png")
}

func TestVideoDelete(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("owner", "owner@example.com")
	video := env.createVideo(owner, "clip")

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/videos/"+video.ID.String(), nil)
	c.SetParamNames("videoId")
	c.SetParamValues(video.ID.String())
	env.asPrincipal(c, owner)

	require.NoError(t, env.V.Delete(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// both remote assets went with the record
	require.ElementsMatch(t, []string{"asset-clip.mp4", "asset-clip.png"}, env.Media.Removed)

	_, err := env.Videos.FindByID(t.Context(), video.ID)
	require.Error(t, err)
}

func TestVideoDeleteOwnershipEnforced(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser("owner", "owner@example.com")
	intruder := env.createUser("intruder", "intruder@example.com")
	video := env.createVideo(owner, "clip")

	_, c := env.doJSONRequest(http.MethodDelete, "/api/v1/videos/"+video.ID.String(), nil)
	c.SetParamNames("videoId")
	c.SetParamValues(video.ID.String())
	env.asPrincipal(c, intruder)

	requireAPIError(t, env.V.Delete(c), http.StatusForbidden)

	_, err := env.Videos.FindByID(t.Context(), video.ID)
	require.NoError(t, err)
}
