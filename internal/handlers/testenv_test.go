package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/videohub/internal/httpx"
	"github.com/Skotchmaster/videohub/internal/media"
	authmw "github.com/Skotchmaster/videohub/internal/middleware/auth"
	"github.com/Skotchmaster/videohub/internal/models"
	"github.com/Skotchmaster/videohub/internal/repo"
	authsvc "github.com/Skotchmaster/videohub/internal/service/auth"
	"github.com/Skotchmaster/videohub/internal/tokens"
)

// fakeMediaHost records uploads and removals. Filenames listed in FailOn
// make the upload fail, which is how the paired-upload rollback is exercised.
type fakeMediaHost struct {
	Uploads []string
	Removed []string
	FailOn  map[string]bool
}

func newFakeMediaHost() *fakeMediaHost {
	return &fakeMediaHost{FailOn: map[string]bool{}}
}

func (f *fakeMediaHost) Upload(ctx context.Context, name string, r io.Reader) (*media.Asset, error) {
	if f.FailOn[name] {
		return nil, fmt.Errorf("upload rejected: %s", name)
	}
	f.Uploads = append(f.Uploads, name)
	return &media.Asset{
		URL:      "https://media.test/" + name,
		PublicID: "asset-" + name,
		Duration: 42,
	}, nil
}

func (f *fakeMediaHost) Remove(ctx context.Context, publicID, kind string) error {
	if publicID == "" {
		return nil
	}
	f.Removed = append(f.Removed, publicID)
	return nil
}

type testEnv struct {
	T     *testing.T
	E     *echo.Echo
	DB    *gorm.DB
	Media *fakeMediaHost

	Users         *repo.Users
	Videos        *repo.Videos
	Comments      *repo.Comments
	Playlists     *repo.Playlists
	Tweets        *repo.Tweets
	Subscriptions *repo.Subscriptions
	Likes         *repo.Likes

	Svc    *authsvc.Service
	Guard  *authmw.Guard
	Tokens *tokens.Service

	A  *AuthHandler
	U  *UserHandler
	V  *VideoHandler
	C  *CommentHandler
	P  *PlaylistHandler
	TH *TweetHandler
	S  *SubscriptionHandler
	L  *LikeHandler
	Ch *ChannelHandler
}

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := initTestDB(t)
	host := newFakeMediaHost()

	env := &testEnv{
		T:     t,
		E:     echo.New(),
		DB:    db,
		Media: host,

		Users:         &repo.Users{DB: db},
		Videos:        &repo.Videos{DB: db},
		Comments:      &repo.Comments{DB: db},
		Playlists:     &repo.Playlists{DB: db},
		Tweets:        &repo.Tweets{DB: db},
		Subscriptions: &repo.Subscriptions{DB: db},
		Likes:         &repo.Likes{DB: db},
	}

	env.Tokens = &tokens.Service{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
	env.Svc = &authsvc.Service{Users: env.Users, Tokens: env.Tokens}
	env.Guard = &authmw.Guard{Users: env.Users, Tokens: env.Tokens}

	env.A = &AuthHandler{Svc: env.Svc, Media: host}
	env.U = &UserHandler{Users: env.Users, Svc: env.Svc, Media: host}
	env.V = &VideoHandler{Videos: env.Videos, Media: host}
	env.C = &CommentHandler{Comments: env.Comments, Videos: env.Videos}
	env.P = &PlaylistHandler{Playlists: env.Playlists, Videos: env.Videos, Users: env.Users}
	env.TH = &TweetHandler{Tweets: env.Tweets, Users: env.Users}
	env.S = &SubscriptionHandler{Subscriptions: env.Subscriptions, Users: env.Users}
	env.L = &LikeHandler{Likes: env.Likes, Videos: env.Videos, Comments: env.Comments, Tweets: env.Tweets}
	env.Ch = &ChannelHandler{Users: env.Users, Subscriptions: env.Subscriptions}

	return env
}

func (env *testEnv) doJSONRequest(method, path string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

// doMultipartRequest builds a multipart form with string fields and one
// small in-memory file per entry in files.
func (env *testEnv) doMultipartRequest(method, path string, fields map[string]string, files map[string]string) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(env.T, w.WriteField(k, v))
	}
	for field, filename := range files {
		part, err := w.CreateFormFile(field, filename)
		require.NoError(env.T, err)
		_, err = part.Write([]byte("file-content"))
		require.NoError(env.T, err)
	}
	require.NoError(env.T, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

// asPrincipal mimics what the guard does on authenticated routes.
func (env *testEnv) asPrincipal(c echo.Context, user *models.User) {
	c.Set("currentUser", user.PublicView())
}

func (env *testEnv) createUser(username, email string) *models.User {
	env.T.Helper()

	user, err := env.Svc.Register(context.Background(), authsvc.RegisterInput{
		Username: username,
		Email:    email,
		Fullname: "Test " + username,
		Password: "password",
	})
	require.NoError(env.T, err)

	full, err := env.Users.FindByID(context.Background(), user.ID)
	require.NoError(env.T, err)
	return full
}

func (env *testEnv) createVideo(owner *models.User, title string) *models.Video {
	env.T.Helper()

	video := models.Video{
		Title:             title,
		Description:       "description of " + title,
		VideoFile:         "https://media.test/" + title + ".mp4",
		VideoFilePublicID: "asset-" + title + ".mp4",
		Thumbnail:         "https://media.test/" + title + ".png",
		ThumbnailPublicID: "asset-" + title + ".png",
		Duration:          42,
		IsPublished:       true,
		OwnerID:           owner.ID,
	}
	require.NoError(env.T, env.Videos.Create(context.Background(), &video))
	return &video
}

// requireAPIError asserts the handler failed with the given status code.
func requireAPIError(t *testing.T, err error, code int) *httpx.APIError {
	t.Helper()

	var apiErr *httpx.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, code, apiErr.Code)
	return apiErr
}

// decodeEnvelope unwraps the success envelope into out via a JSON round trip.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, out any) httpx.Response {
	t.Helper()

	var resp httpx.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	if out != nil {
		data, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, out))
	}
	return resp
}
