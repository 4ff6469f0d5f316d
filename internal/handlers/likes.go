package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/videohub/internal/httpx"
	authmw "github.com/Skotchmaster/videohub/internal/middleware/auth"
	"github.com/Skotchmaster/videohub/internal/repo"
)

type LikeHandler struct {
	Likes    *repo.Likes
	Videos   *repo.Videos
	Comments *repo.Comments
	Tweets   *repo.Tweets
}

func (h *LikeHandler) ToggleVideoLike(c echo.Context) error {
	return h.toggle(c, "videoId", repo.LikeVideo)
}

func (h *LikeHandler) ToggleCommentLike(c echo.Context) error {
	return h.toggle(c, "commentId", repo.LikeComment)
}

func (h *LikeHandler) ToggleTweetLike(c echo.Context) error {
	return h.toggle(c, "tweetId", repo.LikeTweet)
}

func (h *LikeHandler) toggle(c echo.Context, param string, target repo.LikeTarget) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	targetID, err := paramID(c, param)
	if err != nil {
		return err
	}

	var exists bool
	switch target {
	case repo.LikeComment:
		exists, err = h.Comments.Exists(ctx, targetID)
	case repo.LikeTweet:
		exists, err = h.Tweets.Exists(ctx, targetID)
	default:
		exists, err = h.Videos.Exists(ctx, targetID)
	}
	if err != nil {
		return httpx.ErrDependency
	}
	if !exists {
		return httpx.NotFound(string(target) + " not found")
	}

	liked, count, err := h.Likes.Toggle(ctx, user.ID, target, targetID)
	if err != nil {
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusOK, echo.Map{
		"liked":      liked,
		"likesCount": count,
	}, "like toggled successfully")
}
