package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/videohub/internal/httpx"
	"github.com/Skotchmaster/videohub/internal/logging"
	"github.com/Skotchmaster/videohub/internal/media"
	authmw "github.com/Skotchmaster/videohub/internal/middleware/auth"
	"github.com/Skotchmaster/videohub/internal/repo"
	authsvc "github.com/Skotchmaster/videohub/internal/service/auth"
)

type UserHandler struct {
	Users *repo.Users
	Svc   *authsvc.Service
	Media media.Host
}

func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	return httpx.OK(c, http.StatusOK, authmw.CurrentUser(c), "success")
}

func (h *UserHandler) UpdateDetails(c echo.Context) error {
	user := authmw.CurrentUser(c)

	var req struct {
		Username string `json:"username"`
		Fullname string `json:"fullname"`
	}
	if err := c.Bind(&req); err != nil {
		return httpx.BadRequest("invalid body")
	}

	updates := map[string]any{}
	if strings.TrimSpace(req.Username) != "" {
		updates["username"] = strings.TrimSpace(req.Username)
	}
	if strings.TrimSpace(req.Fullname) != "" {
		updates["fullname"] = strings.TrimSpace(req.Fullname)
	}
	if len(updates) == 0 {
		return httpx.BadRequest("at least one field is required")
	}

	updated, err := h.Users.UpdateDetails(c.Request().Context(), user.ID, updates)
	if err != nil {
		return httpx.ErrDependency
	}

	return httpx.OK(c, http.StatusOK, updated.PublicView(), "user details updated successfully")
}

func (h *UserHandler) ChangePassword(c echo.Context) error {
	user := authmw.CurrentUser(c)

	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.Bind(&req); err != nil {
		return httpx.BadRequest("invalid body")
	}

	if err := h.Svc.ChangePassword(c.Request().Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}

	return httpx.OK(c, http.StatusOK, echo.Map{}, "password changed successfully")
}

func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	return h.updateImage(c, "avatar")
}

func (h *UserHandler) UpdateCoverImage(c echo.Context) error {
	return h.updateImage(c, "coverImage")
}

// updateImage replaces the avatar or cover image and removes the previous
// remote copy once the row update lands.
func (h *UserHandler) updateImage(c echo.Context, field string) error {
	ctx := c.Request().Context()
	user := authmw.CurrentUser(c)

	file, err := c.FormFile(field)
	if err != nil {
		return httpx.BadRequest(field + " file is missing")
	}

	current, err := h.Users.FindByID(ctx, user.ID)
	if err != nil {
		return httpx.ErrDependency
	}

	src, err := file.Open()
	if err != nil {
		return httpx.BadRequest("cannot read " + field)
	}
	defer src.Close()

	asset, err := h.Media.Upload(ctx, file.Filename, src)
	if err != nil {
		return httpx.ErrDependency
	}

	column, idColumn, oldPublicID := "avatar", "avatar_public_id", current.AvatarPublicID
	if field == "coverImage" {
		column, idColumn, oldPublicID = "cover_image", "cover_image_public_id", current.CoverImagePublicID
	}
	updated, err := h.Users.UpdateDetails(ctx, user.ID, map[string]any{
		column:   asset.URL,
		idColumn: asset.PublicID,
	})
	if err != nil {
		return httpx.ErrDependency
	}

	if err := h.Media.Remove(ctx, oldPublicID, media.KindImage); err != nil {
		logging.FromContext(ctx).Warn("removing old "+field+" failed", "user_id", user.ID, "error", err)
	}

	return httpx.OK(c, http.StatusOK, updated.PublicView(), field+" updated successfully")
}
