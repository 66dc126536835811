package users

import (
	"context"
	"strings"
	"time"

	"github.com/riderhub/riderhub-backend/internal/repo"
	"github.com/riderhub/riderhub-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes user persistence on top of the shared typed store.
type Repository struct {
	repo.Store[models.User]
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Store: repo.NewStore[models.User](db, "user", func(u *models.User) uint { return u.ID })}
}

// FindByEmail matches case-insensitively; emails are stored lower-cased.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.DB(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, repo.MapError(err, "user")
	}
	return &user, nil
}

// FindByResetDigest loads the user holding an unexpired password reset token.
func (r *Repository) FindByResetDigest(ctx context.Context, digest string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.DB(ctx).
		Where("reset_password_token = ? AND reset_password_expires > ?", digest, now).
		First(&user).Error
	if err != nil {
		return nil, repo.MapError(err, "user")
	}
	return &user, nil
}

// FindByVerificationCode loads the user with a matching, unexpired code.
func (r *Repository) FindByVerificationCode(ctx context.Context, email, code string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.DB(ctx).
		Where("email = ? AND verification_code = ? AND verification_expires > ?", NormalizeEmail(email), code, now).
		First(&user).Error
	if err != nil {
		return nil, repo.MapError(err, "user")
	}
	return &user, nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return repo.MapError(r.DB(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error, "user")
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
