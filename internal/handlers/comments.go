package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/videohub/internal/httpx"
	authmw "github.com/Skotchmaster/videohub/internal/middleware/auth"
	"github.com/Skotchmaster/videohub/internal/models"
	"github.com/Skotchmaster/videohub/internal/repo"
)

type CommentHandler struct {
	Comments *repo.Comments
	Videos   *repo.Videos
}

func (h *CommentHandler) ListByVideo(c echo.Context) error {
	ctx := c.Request().Context()

	videoID, err := paramID(c, "videoId")
	if err != nil {
		return err
	}

	exists, err := h.Videos.Exists(ctx, videoID)
	if err != nil {
		return httpx.ErrDependency
	}
	if !exists {
		return httpx.NotFound("video not found")
	}

	offset, limit := pageParams(c)
	comments, err := h.Comments.ByVideo(ctx, videoID, offset, limit)
	if err != nil {
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusOK, comments, "comments fetched successfully")
}

func (h *CommentHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	videoID, err := paramID(c, "videoId")
	if err != nil {
		return err
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return httpx.BadRequest("invalid body")
	}
	if strings.TrimSpace(req.Content) == "" {
		return httpx.BadRequest("content is required")
	}

	exists, err := h.Videos.Exists(ctx, videoID)
	if err != nil {
		return httpx.ErrDependency
	}
	if !exists {
		return httpx.NotFound("video not found")
	}

	comment := models.Comment{
		Content: req.Content,
		VideoID: videoID,
		OwnerID: user.ID,
	}
	if err := h.Comments.Create(ctx, &comment); err != nil {
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusCreated, comment, "comment added successfully")
}

func (h *CommentHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	commentID, err := paramID(c, "commentId")
	if err != nil {
		return err
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return httpx.BadRequest("invalid body")
	}
	if strings.TrimSpace(req.Content) == "" {
		return httpx.BadRequest("content is required")
	}

	comment, err := h.Comments.FindByID(ctx, commentID)
	if err != nil {
		if repo.IsNotFound(err) {
			return httpx.NotFound("comment not found")
		}
		return httpx.ErrDependency
	}

	if comment.OwnerID != user.ID {
		return httpx.Forbidden("you are unauthorized to update the comment")
	}

	comment.Content = req.Content
	if err := h.Comments.Save(ctx, comment); err != nil {
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusOK, comment, "comment updated successfully")
}

func (h *CommentHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	commentID, err := paramID(c, "commentId")
	if err != nil {
		return err
	}

	comment, err := h.Comments.FindByID(ctx, commentID)
	if err != nil {
		if repo.IsNotFound(err) {
			return httpx.NotFound("comment not found")
		}
		return httpx.ErrDependency
	}

	if comment.OwnerID != user.ID {
		return httpx.Forbidden("you are unauthorized to delete the comment")
	}

	if err := h.Comments.Delete(ctx, commentID); err != nil {
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusOK, echo.Map{}, "comment deleted successfully")
}
