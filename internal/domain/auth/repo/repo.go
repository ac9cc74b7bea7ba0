package repo

import (
	"context"
	"time"

	"github.com/Miraines/hoops-auth/internal/domain/auth/model"
)

type UserRepo interface {
	// CreateUser persists u and fills in its ID and timestamps.
	CreateUser(ctx context.Context, u *model.User) error

	GetUserByID(ctx context.Context, id int64) (model.User, error)

	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	GetUserByGoogleID(ctx context.Context, googleID string) (model.User, error)

	UpdateUser(ctx context.Context, u *model.User) error

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	ExistsByNickname(ctx context.Context, nickname string) (bool, error)

	ExistsByGoogleID(ctx context.Context, googleID string) (bool, error)
}

// RefreshTokenStore keeps the single live refresh token of every user.
type RefreshTokenStore interface {
	Put(ctx context.Context, userID int64, token string, ttl time.Duration) error

	// Get returns errors.ErrNotFound when no token is stored.
	Get(ctx context.Context, userID int64) (string, error)

	Delete(ctx context.Context, userID int64) error
}
