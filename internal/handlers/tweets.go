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

type TweetHandler struct {
	Tweets *repo.Tweets
	Users  *repo.Users
}

func (h *TweetHandler) Create(c echo.Context) error {
	user := authmw.CurrentUser(c)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return httpx.BadRequest("invalid body")
	}
	if strings.TrimSpace(req.Content) == "" {
		return httpx.BadRequest("content is required")
	}

	tweet := models.Tweet{
		Content: req.Content,
		OwnerID: user.ID,
	}
	if err := h.Tweets.Create(c.Request().Context(), &tweet); err != nil {
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusCreated, tweet, "tweet added successfully")
}

func (h *TweetHandler) ListByUser(c echo.Context) error {
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
	tweets, err := h.Tweets.ByOwner(ctx, userID, offset, limit)
	if err != nil {
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusOK, tweets, "tweets fetched successfully")
}

func (h *TweetHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	tweetID, err := paramID(c, "tweetId")
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

	tweet, err := h.Tweets.FindByID(ctx, tweetID)
	if err != nil {
		if repo.IsNotFound(err) {
			return httpx.NotFound("tweet not found")
		}
		return httpx.ErrDependency
	}

	if tweet.OwnerID != user.ID {
		return httpx.Forbidden("you are unauthorized to update the tweet")
	}

	tweet.Content = req.Content
	if err := h.Tweets.Save(ctx, tweet); err != nil {
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusOK, tweet, "tweet updated successfully")
}

func (h *TweetHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	tweetID, err := paramID(c, "tweetId")
	if err != nil {
		return err
	}

	tweet, err := h.Tweets.FindByID(ctx, tweetID)
	if err != nil {
		if repo.IsNotFound(err) {
			return httpx.NotFound("tweet not found")
		}
		return httpx.ErrDependency
	}

	if tweet.OwnerID != user.ID {
		return httpx.Forbidden("you are unauthorized to delete the tweet")
	}

	if err := h.Tweets.Delete(ctx, tweetID); err != nil {
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusOK, echo.Map{}, "tweet deleted successfully")
}
