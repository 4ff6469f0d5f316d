package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/videohub/internal/events"
	"github.com/Skotchmaster/videohub/internal/httpx"
	"github.com/Skotchmaster/videohub/internal/media"
	authmw "github.com/Skotchmaster/videohub/internal/middleware/auth"
	authsvc "github.com/Skotchmaster/videohub/internal/service/auth"
)

type AuthHandler struct {
	Svc      *authsvc.Service
	Media    media.Host
	Producer *events.Producer
}

// Register creates the account from a multipart form: profile fields plus a
// required avatar and an optional cover image.
func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	in := authsvc.RegisterInput{
		Username: c.FormValue("username"),
		Email:    c.FormValue("email"),
		Fullname: c.FormValue("fullname"),
		Password: c.FormValue("password"),
	}

	avatarFile, err := c.FormFile("avatar")
	if err != nil {
		return httpx.BadRequest("avatar is required")
	}

	// Validate fields and the username/email conflict before any upload, so a
	// 400/409 registration never leaves assets behind on the media host.
	if err := h.Svc.CheckRegistration(ctx, in); err != nil {
		return err
	}

	avatarSrc, err := avatarFile.Open()
	if err != nil {
		return httpx.BadRequest("cannot read avatar")
	}
	defer avatarSrc.Close()

	avatar, err := h.Media.Upload(ctx, avatarFile.Filename, avatarSrc)
	if err != nil {
		return httpx.ErrDependency
	}
	in.Avatar = avatar.URL
	in.AvatarPublicID = avatar.PublicID

	if coverFile, err := c.FormFile("coverImage"); err == nil {
		coverSrc, err := coverFile.Open()
		if err != nil {
			_ = h.Media.Remove(ctx, avatar.PublicID, media.KindImage)
			return httpx.BadRequest("cannot read coverImage")
		}
		defer coverSrc.Close()

		cover, err := h.Media.Upload(ctx, coverFile.Filename, coverSrc)
		if err != nil {
			// Keep the media host consistent: drop the avatar that already
			// made it up before failing the registration.
			_ = h.Media.Remove(ctx, avatar.PublicID, media.KindImage)
			return httpx.ErrDependency
		}
		in.CoverImage = cover.URL
		in.CoverImagePublicID = cover.PublicID
	}

	user, err := h.Svc.Register(ctx, in)
	if err != nil {
		// Register can still fail after the pre-check, e.g. when a concurrent
		// registration claims the name between check and create. Drop whatever
		// was uploaded in the meantime.
		_ = h.Media.Remove(ctx, in.AvatarPublicID, media.KindImage)
		_ = h.Media.Remove(ctx, in.CoverImagePublicID, media.KindImage)
		return err
	}

	publish(c, h.Producer, events.TopicUserEvents, user.ID.String(), map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})

	return httpx.OK(c, http.StatusCreated, user, "user registered successfully")
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return httpx.BadRequest("invalid body")
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}

	user, pair, err := h.Svc.Login(ctx, identifier, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(httpx.CreateCookie("accessToken", pair.AccessToken, "/", pair.AccessExp))
	c.SetCookie(httpx.CreateCookie("refreshToken", pair.RefreshToken, "/", pair.RefreshExp))

	publish(c, h.Producer, events.TopicUserEvents, user.ID.String(), map[string]any{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	})

	return httpx.OK(c, http.StatusOK, echo.Map{
		"user":         user,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "user logged in successfully")
}

// Refresh accepts the refresh token from the cookie first, then the body.
func (h *AuthHandler) Refresh(c echo.Context) error {
	presented := ""
	if cookie, err := c.Cookie("refreshToken"); err == nil {
		presented = cookie.Value
	}
	if presented == "" {
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.Bind(&req); err == nil {
			presented = req.RefreshToken
		}
	}

	pair, err := h.Svc.Refresh(c.Request().Context(), presented)
	if err != nil {
		return err
	}

	c.SetCookie(httpx.CreateCookie("accessToken", pair.AccessToken, "/", pair.AccessExp))
	c.SetCookie(httpx.CreateCookie("refreshToken", pair.RefreshToken, "/", pair.RefreshExp))

	return httpx.OK(c, http.StatusOK, echo.Map{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "tokens refreshed")
}

func (h *AuthHandler) Logout(c echo.Context) error {
	user := authmw.CurrentUser(c)

	if err := h.Svc.Logout(c.Request().Context(), user.ID); err != nil {
		return err
	}

	c.SetCookie(httpx.DeleteCookie("accessToken", "/"))
	c.SetCookie(httpx.DeleteCookie("refreshToken", "/"))

	return httpx.OK(c, http.StatusOK, echo.Map{}, "user logged out")
}
