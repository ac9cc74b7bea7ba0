package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	customErrors "github.com/Miraines/hoops-auth/internal/domain/auth/errors"
	"github.com/Miraines/hoops-auth/internal/domain/auth/model"
)

const uniqueViolation = "23505"

type PostgresUserRepo struct {
	db *gorm.DB
}

func NewPostgresUserRepo(db *gorm.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

func (p *PostgresUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	res := p.db.WithContext(ctx).Create(user)
	if err := res.Error; err != nil {
		if isUniqueViolation(err) {
			return customErrors.ErrAlreadyExists
		}
		return customErrors.WrapInternal(err, "CreateUser")
	}
	return nil
}

func (p *PostgresUserRepo) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	return p.first(ctx, "GetUserByID", "user_id = ?", id)
}

func (p *PostgresUserRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return p.first(ctx, "GetUserByEmail", "email = ?", email)
}

func (p *PostgresUserRepo) GetUserByGoogleID(ctx context.Context, googleID string) (model.User, error) {
	return p.first(ctx, "GetUserByGoogleID", "google_id = ?", googleID)
}

// UpdateUser overwrites every column of the stored row.
func (p *PostgresUserRepo) UpdateUser(ctx context.Context, user *model.User) error {
	res := p.db.WithContext(ctx).Save(user)
	if err := res.Error; err != nil {
		if isUniqueViolation(err) {
			return customErrors.ErrAlreadyExists
		}
		return customErrors.WrapInternal(err, "UpdateUser")
	}
	return nil
}

func (p *PostgresUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return p.exists(ctx, "ExistsByEmail", "email = ?", email)
}

func (p *PostgresUserRepo) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	return p.exists(ctx, "ExistsByNickname", "nickname = ?", nickname)
}

func (p *PostgresUserRepo) ExistsByGoogleID(ctx context.Context, googleID string) (bool, error) {
	return p.exists(ctx, "ExistsByGoogleID", "google_id = ?", googleID)
}

func (p *PostgresUserRepo) Ping(ctx context.Context) error {
	return p.db.WithContext(ctx).Exec("SELECT 1").Error
}

func (p *PostgresUserRepo) first(ctx context.Context, op, query string, arg any) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Where(query, arg).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.User{}, customErrors.WrapInternal(err, op)
	}
	return u, nil
}

func (p *PostgresUserRepo) exists(ctx context.Context, op, query string, arg any) (bool, error) {
	var n int64
	res := p.db.WithContext(ctx).Model(&model.User{}).Where(query, arg).Limit(1).Count(&n)
	if err := res.Error; err != nil {
		return false, customErrors.WrapInternal(err, op)
	}
	return n > 0, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
