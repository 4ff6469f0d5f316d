package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers malformed, badly signed and expired tokens alike so
// callers cannot distinguish the cases.
var ErrInvalidToken = errors.New("invalid or expired token")

type Claims struct {
	jwt.RegisteredClaims
}

// Service issues and verifies the two token classes. Access and refresh
// tokens are signed with distinct secrets, so one class never verifies as
// the other.
type Service struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func (s *Service) IssueAccess(userID uuid.UUID) (string, time.Time, error) {
	return sign(userID, s.AccessSecret, s.AccessTTL)
}

func (s *Service) IssueRefresh(userID uuid.UUID) (string, time.Time, error) {
	return sign(userID, s.RefreshSecret, s.RefreshTTL)
}

func (s *Service) ParseAccess(raw string) (*Claims, error) {
	return parse(raw, s.AccessSecret)
}

func (s *Service) ParseRefresh(raw string) (*Claims, error) {
	return parse(raw, s.RefreshSecret)
}

func sign(userID uuid.UUID, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func parse(raw string, secret []byte) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
