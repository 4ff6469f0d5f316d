package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/videohub/internal/httpx"
	"github.com/Skotchmaster/videohub/internal/search"
)

type SearchHandler struct {
	Index *search.Index
}

func (h *SearchHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return httpx.BadRequest("q is required")
	}

	offset, limit := pageParams(c)

	total, videos, err := h.Index.Search(c.Request().Context(), q, offset, limit)
	if err != nil {
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusOK, echo.Map{
		"total":  total,
		"videos": videos,
	}, "videos fetched successfully")
}
