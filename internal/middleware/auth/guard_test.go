package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/videohub/internal/httpx"
	"github.com/Skotchmaster/videohub/internal/models"
	"github.com/Skotchmaster/videohub/internal/repo"
	"github.com/Skotchmaster/videohub/internal/tokens"
)

func newTestGuard(t *testing.T) (*Guard, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.All()...))

	guard := &Guard{
		Users: &repo.Users{DB: db},
		Tokens: &tokens.Service{
			AccessSecret:  []byte("access-secret"),
			RefreshSecret: []byte("refresh-secret"),
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    7 * 24 * time.Hour,
		},
	}
	return guard, db
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	user := models.User{
		Username:     "test_user",
		Email:        "test@example.com",
		Fullname:     "Test User",
		PasswordHash: "irrelevant",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func doGuarded(guard *Guard, mutate func(*http.Request)) (*models.User, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	mutate(req)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *models.User
	handler := guard.RequireAuth(func(c echo.Context) error {
		seen = CurrentUser(c)
		return c.NoContent(http.StatusOK)
	})
	return seen, handler(c)
}

func TestRequireAuthWithCookie(t *testing.T) {
	guard, db := newTestGuard(t)
	user := createTestUser(t, db)

	access, exp, err := guard.Tokens.IssueAccess(user.ID)
	require.NoError(t, err)

	seen, err := doGuarded(guard, func(req *http.Request) {
		req.AddCookie(httpx.CreateCookie("accessToken", access, "/", exp))
	})
	require.NoError(t, err)
	require.NotNil(t, seen)
	require.Equal(t, user.ID, seen.ID)
	require.Empty(t, seen.PasswordHash)
	require.Empty(t, seen.RefreshTokenHash)
}

func TestRequireAuthWithBearerHeader(t *testing.T) {
	guard, db := newTestGuard(t)
	user := createTestUser(t, db)

	access, _, err := guard.Tokens.IssueAccess(user.ID)
	require.NoError(t, err)

	seen, err := doGuarded(guard, func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+access)
	})
	require.NoError(t, err)
	require.Equal(t, user.ID, seen.ID)
}

func TestRequireAuthCookieWinsOverHeader(t *testing.T) {
	guard, db := newTestGuard(t)
	user := createTestUser(t, db)

	access, exp, err := guard.Tokens.IssueAccess(user.ID)
	require.NoError(t, err)

	seen, err := doGuarded(guard, func(req *http.Request) {
		req.AddCookie(httpx.CreateCookie("accessToken", access, "/", exp))
		req.Header.Set(echo.HeaderAuthorization, "Bearer garbage")
	})
	require.NoError(t, err)
	require.Equal(t, user.ID, seen.ID)
}

func TestRequireAuthMissingToken(t *testing.T) {
	guard, _ := newTestGuard(t)

	_, err := doGuarded(guard, func(*http.Request) {})
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	guard, _ := newTestGuard(t)

	_, err := doGuarded(guard, func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	})
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestRequireAuthRejectsRefreshToken(t *testing.T) {
	guard, db := newTestGuard(t)
	user := createTestUser(t, db)

	refresh, _, err := guard.Tokens.IssueRefresh(user.ID)
	require.NoError(t, err)

	_, err = doGuarded(guard, func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+refresh)
	})
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestRequireAuthDeletedUser(t *testing.T) {
	guard, db := newTestGuard(t)
	user := createTestUser(t, db)

	access, _, err := guard.Tokens.IssueAccess(user.ID)
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.User{}, "id = ?", user.ID).Error)

	_, err = doGuarded(guard, func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+access)
	})
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestRequireAuthUnknownSubject(t *testing.T) {
	guard, _ := newTestGuard(t)

	access, _, err := guard.Tokens.IssueAccess(uuid.New())
	require.NoError(t, err)

	_, err = doGuarded(guard, func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+access)
	})
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestCurrentUserOnUnguardedRoute(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	require.Nil(t, CurrentUser(c))
}
