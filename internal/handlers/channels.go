package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/videohub/internal/httpx"
	authmw "github.com/Skotchmaster/videohub/internal/middleware/auth"
	"github.com/Skotchmaster/videohub/internal/repo"
)

type ChannelHandler struct {
	Users         *repo.Users
	Subscriptions *repo.Subscriptions
}

// GetChannel returns the public channel profile together with its subscriber
// count and whether the caller is subscribed.
func (h *ChannelHandler) GetChannel(c echo.Context) error {
	ctx := c.Request().Context()
	caller := authmw.CurrentUser(c)

	username := c.Param("username")
	if username == "" {
		return httpx.BadRequest("username is missing")
	}

	channel, err := h.Users.FindByUsername(ctx, username)
	if err != nil {
		if repo.IsNotFound(err) {
			return httpx.NotFound("channel not found")
		}
		return httpx.ErrDependency
	}

	subscribers, err := h.Subscriptions.CountForChannel(ctx, channel.ID)
	if err != nil {
		return httpx.ErrDependency
	}

	isSubscribed, err := h.Subscriptions.IsSubscribed(ctx, caller.ID, channel.ID)
	if err != nil {
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusOK, echo.Map{
		"channel":          channel.PublicView(),
		"subscribersCount": subscribers,
		"isSubscribed":     isSubscribed,
	}, "channel fetched successfully")
}
