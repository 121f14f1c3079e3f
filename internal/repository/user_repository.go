package repository

import (
	"context"
	"errors"
	"time"

	"github.com/haiminh-dev/projecthub/internal/models"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserUpdate carries a partial profile update; nil fields are left untouched.
type UserUpdate struct {
	Name  *string
	Email *string
	Age   *int
	Role  *models.Role
}

// UserRepository is the credential store. Default reads exclude credential
// fields; the With*/ByResetTokenHash variants include exactly what their name
// says and nothing more.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmailWithPassword(ctx context.Context, email string) (*models.User, error)
	FindByIDWithRefreshToken(ctx context.Context, id string) (*models.User, error)
	FindByResetTokenHash(ctx context.Context, hash string, now time.Time) (*models.User, error)

	SetRefreshToken(ctx context.Context, id, token string) error
	ClearRefreshToken(ctx context.Context, id string) error
	SetResetToken(ctx context.Context, id, hash string, expires time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id string) error
}
