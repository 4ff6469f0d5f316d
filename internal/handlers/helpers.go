package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/videohub/internal/events"
	"github.com/Skotchmaster/videohub/internal/httpx"
	"github.com/Skotchmaster/videohub/internal/logging"
	"github.com/Skotchmaster/videohub/internal/util"
)

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func pageParams(c echo.Context) (offset, limit int) {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	return util.Calculate(page, size)
}

// paramID parses a uuid path parameter, rejecting malformed ids before any
// store call.
func paramID(c echo.Context, name string) (uuid.UUID, error) {
	raw := c.Param(name)
	if raw == "" {
		return uuid.Nil, httpx.BadRequest(name + " is missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, httpx.BadRequest("invalid " + name)
	}
	return id, nil
}

// publish sends a domain event best-effort; delivery failure is logged and
// never fails the request.
func publish(c echo.Context, producer *events.Producer, topic, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := producer.Publish(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "topic", topic, "error", err)
	}
}
