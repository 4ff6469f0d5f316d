package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/videohub/internal/models"
)

// ErrNotFound is what lookups return when no row matches; IsNotFound is the
// matching predicate for callers that should not import gorm.
var ErrNotFound = gorm.ErrRecordNotFound

// Users is the credential store. Refresh-token mutations are column-level
// updates so profile validation never runs on a token rotation.
type Users struct {
	DB *gorm.DB
}

func (r *Users) Create(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *Users) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Users) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Users) FindByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Users) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Users) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetRefreshToken overwrites the stored refresh-token digest, invalidating
// whatever token was active before. An empty value clears the session.
func (r *Users) SetRefreshToken(ctx context.Context, id uuid.UUID, digest string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("refresh_token_hash", digest).Error
}

// RotateRefreshToken swaps the stored digest only when it still matches the
// presented one. A false return means a concurrent rotation (or a logout)
// already replaced it.
func (r *Users) RotateRefreshToken(ctx context.Context, id uuid.UUID, oldDigest, newDigest string) (bool, error) {
	result := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND refresh_token_hash = ?", id, oldDigest).
		Update("refresh_token_hash", newDigest)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *Users) SetPasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (r *Users) UpdateDetails(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.User, error) {
	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
