package auth

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/videohub/internal/httpx"
	"github.com/Skotchmaster/videohub/internal/models"
	"github.com/Skotchmaster/videohub/internal/repo"
	"github.com/Skotchmaster/videohub/internal/tokens"
)

const contextKey = "currentUser"

// Guard gates a route group behind a valid access token. It loads the
// principal on every request so a deleted account is rejected even while its
// access token is still unexpired.
type Guard struct {
	Users  *repo.Users
	Tokens *tokens.Service
}

func (g *Guard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := extractToken(c)
		if raw == "" {
			return httpx.ErrUnauthorized
		}

		claims, err := g.Tokens.ParseAccess(raw)
		if err != nil {
			return httpx.ErrUnauthorized
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return httpx.ErrUnauthorized
		}

		user, err := g.Users.FindByID(c.Request().Context(), userID)
		if err != nil {
			if repo.IsNotFound(err) {
				return httpx.ErrUnauthorized
			}
			return httpx.ErrDependency
		}

		c.Set(contextKey, user.PublicView())
		return next(c)
	}
}

// extractToken prefers the cookie and falls back to the bearer header.
func extractToken(c echo.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}

// CurrentUser returns the sanitized principal the guard attached, or nil on
// unguarded routes.
func CurrentUser(c echo.Context) *models.User {
	if user, ok := c.Get(contextKey).(*models.User); ok {
		return user
	}
	return nil
}
