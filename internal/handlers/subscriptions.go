package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/videohub/internal/events"
	"github.com/Skotchmaster/videohub/internal/httpx"
	authmw "github.com/Skotchmaster/videohub/internal/middleware/auth"
	"github.com/Skotchmaster/videohub/internal/repo"
)

type SubscriptionHandler struct {
	Subscriptions *repo.Subscriptions
	Users         *repo.Users
	Producer      *events.Producer
}

// Toggle subscribes the caller to the channel or removes an existing
// subscription. 201 on subscribe, 200 on unsubscribe.
func (h *SubscriptionHandler) Toggle(c echo.Context) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	channelID, err := paramID(c, "channelId")
	if err != nil {
		return err
	}

	exists, err := h.Users.Exists(ctx, channelID)
	if err != nil {
		return httpx.ErrDependency
	}
	if !exists {
		return httpx.NotFound("channel not found")
	}

	subscribed, err := h.Subscriptions.Toggle(ctx, user.ID, channelID)
	if err != nil {
		return httpx.ErrDependency
	}

	publish(c, h.Producer, events.TopicUserEvents, user.ID.String(), map[string]any{
		"type":       "subscription_toggled",
		"subscriber": user.ID,
		"channel":    channelID,
		"subscribed": subscribed,
	})

	code := http.StatusOK
	message := "subscription deleted successfully"
	if subscribed {
		code = http.StatusCreated
		message = "subscription added successfully"
	}
	return httpx.OK(c, code, echo.Map{}, message)
}

func (h *SubscriptionHandler) SubscribedChannels(c echo.Context) error {
	user := authmw.CurrentUser(c)

	channels, err := h.Subscriptions.SubscribedChannels(c.Request().Context(), user.ID)
	if err != nil {
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusOK, channels, "subscribed channels fetched successfully")
}
