package auth

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/videohub/internal/hash"
	"github.com/Skotchmaster/videohub/internal/httpx"
	"github.com/Skotchmaster/videohub/internal/logging"
	"github.com/Skotchmaster/videohub/internal/models"
	"github.com/Skotchmaster/videohub/internal/repo"
	"github.com/Skotchmaster/videohub/internal/tokens"
)

// Service owns the session lifecycle: login issues a token pair and makes the
// refresh token the single valid one, refresh rotates it, logout clears it.
type Service struct {
	Users  *repo.Users
	Tokens *tokens.Service
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

type RegisterInput struct {
	Username           string
	Email              string
	Fullname           string
	Password           string
	Avatar             string
	AvatarPublicID     string
	CoverImage         string
	CoverImagePublicID string
}

// CheckRegistration runs the field validation and the username/email conflict
// check without creating anything, so callers with side-effectful setup work
// (media uploads) can fail before doing any of it.
func (s *Service) CheckRegistration(ctx context.Context, in RegisterInput) error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Fullname = strings.TrimSpace(in.Fullname)
	if in.Username == "" || in.Email == "" || in.Fullname == "" || in.Password == "" {
		return httpx.BadRequest("all fields are required")
	}

	exists, err := s.Users.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		logging.FromContext(ctx).Error("register check failed", "error", err)
		return httpx.ErrDependency
	}
	if exists {
		return httpx.Conflict("user with email or username already exists")
	}
	return nil
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Fullname = strings.TrimSpace(in.Fullname)

	if err := s.CheckRegistration(ctx, in); err != nil {
		return nil, err
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register failed", "reason", "cannot hash the password", "error", err)
		return nil, httpx.Internal("could not register user")
	}

	user := models.User{
		Username:           in.Username,
		Email:              in.Email,
		Fullname:           in.Fullname,
		Avatar:             in.Avatar,
		AvatarPublicID:     in.AvatarPublicID,
		CoverImage:         in.CoverImage,
		CoverImagePublicID: in.CoverImagePublicID,
		PasswordHash:       pwHash,
	}
	if err := s.Users.Create(ctx, &user); err != nil {
		l.Error("register failed", "error", err)
		return nil, httpx.ErrDependency
	}

	l.Info("user registered", "user_id", user.ID)
	return user.PublicView(), nil
}

// Login resolves the principal by username or email. Unknown identifier and
// wrong password collapse into the same error so the response never confirms
// whether an account exists.
func (s *Service) Login(ctx context.Context, identifier, password string) (*models.User, *TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if identifier == "" || password == "" {
		return nil, nil, httpx.BadRequest("identifier and password are required")
	}

	user, err := s.Users.FindByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, nil, httpx.ErrInvalidCredentials
		}
		l.Error("login failed", "error", err)
		return nil, nil, httpx.ErrDependency
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, nil, httpx.ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	l.Info("login successful", "user_id", user.ID)
	return user.PublicView(), pair, nil
}

// Refresh rotates the refresh token. The presented token must verify against
// the refresh secret and match the digest stored on the principal; a token
// superseded by a newer login or refresh fails here.
func (s *Service) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	if presented == "" {
		return nil, httpx.ErrUnauthorized
	}

	claims, err := s.Tokens.ParseRefresh(presented)
	if err != nil {
		return nil, httpx.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, httpx.ErrUnauthorized
	}

	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, httpx.ErrUnauthorized
		}
		l.Error("refresh failed", "error", err)
		return nil, httpx.ErrDependency
	}

	presentedDigest := hash.Sha256Hex(presented)
	if user.RefreshTokenHash == "" ||
		subtle.ConstantTimeCompare([]byte(presentedDigest), []byte(user.RefreshTokenHash)) != 1 {
		// Reuse of a rotated-out token is a replay signal; worth a log line.
		l.Warn("stale refresh token presented", "user_id", user.ID)
		return nil, httpx.ErrUnauthorized
	}

	access, accessExp, err := s.Tokens.IssueAccess(user.ID)
	if err != nil {
		l.Error("refresh failed", "error", err)
		return nil, httpx.Internal("could not issue tokens")
	}
	refresh, refreshExp, err := s.Tokens.IssueRefresh(user.ID)
	if err != nil {
		l.Error("refresh failed", "error", err)
		return nil, httpx.Internal("could not issue tokens")
	}

	// Compare-and-swap on the stored digest: of two concurrent refreshes with
	// the same token exactly one lands, the other sees a mismatch.
	rotated, err := s.Users.RotateRefreshToken(ctx, user.ID, presentedDigest, hash.Sha256Hex(refresh))
	if err != nil {
		l.Error("refresh failed", "error", err)
		return nil, httpx.ErrDependency
	}
	if !rotated {
		return nil, httpx.ErrUnauthorized
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

// Logout clears the stored refresh token. Calling it again is not an error.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.Users.SetRefreshToken(ctx, userID, ""); err != nil {
		logging.FromContext(ctx).Error("logout failed", "user_id", userID, "error", err)
		return httpx.ErrDependency
	}
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return httpx.BadRequest("all fields are required")
	}
	if oldPassword == newPassword {
		return httpx.BadRequest("old and new password shouldn't be the same")
	}

	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return httpx.ErrUnauthorized
		}
		return httpx.ErrDependency
	}

	if !hash.CheckPassword(user.PasswordHash, oldPassword) {
		return httpx.BadRequest("old password is incorrect")
	}

	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return httpx.Internal("could not change password")
	}
	if err := s.Users.SetPasswordHash(ctx, userID, pwHash); err != nil {
		return httpx.ErrDependency
	}
	return nil
}

// issuePair mints both tokens and persists the refresh digest before any
// token is handed out, so a client never holds tokens the store rejected.
func (s *Service) issuePair(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	l := logging.FromContext(ctx)

	access, accessExp, err := s.Tokens.IssueAccess(userID)
	if err != nil {
		l.Error("token issue failed", "error", err)
		return nil, httpx.Internal("could not issue tokens")
	}
	refresh, refreshExp, err := s.Tokens.IssueRefresh(userID)
	if err != nil {
		l.Error("token issue failed", "error", err)
		return nil, httpx.Internal("could not issue tokens")
	}

	if err := s.Users.SetRefreshToken(ctx, userID, hash.Sha256Hex(refresh)); err != nil {
		l.Error("persisting refresh token failed", "error", err)
		return nil, httpx.ErrDependency
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}
