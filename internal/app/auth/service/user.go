package service

import (
	"context"
	"strings"

	customErrors "github.com/Miraines/hoops-auth/internal/domain/auth/errors"
	"github.com/Miraines/hoops-auth/internal/domain/auth/model"
	repo "github.com/Miraines/hoops-auth/internal/domain/auth/repo"
)

type UserService struct {
	userRepo repo.UserRepo
}

func NewUserService(ur repo.UserRepo) *UserService {
	return &UserService{userRepo: ur}
}

// Me returns the profile of the authenticated principal.
func (s *UserService) Me(ctx context.Context, userID int64) (model.UserProfile, error) {
	u, err := s.userRepo.GetUserByID(ctx, userID)
	switch {
	case customErrors.IsNotFound(err):
		return model.UserProfile{}, customErrors.ErrUserNotFound
	case err != nil:
		return model.UserProfile{}, customErrors.WrapInternal(err, "Me")
	}

	return model.UserProfile{
		UserID:          u.ID,
		Email:           u.Email,
		Nickname:        u.Nickname,
		PhoneNumber:     u.PhoneNumber,
		ProfileImageURL: u.ProfileImageURL,
		LoginType:       u.LoginType,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}, nil
}

func (s *UserService) CheckEmailAvailability(ctx context.Context, email string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, customErrors.NewInvalidArgument("email is required")
	}
	taken, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return false, customErrors.WrapInternal(err, "CheckEmailAvailability")
	}
	return !taken, nil
}

func (s *UserService) CheckNicknameAvailability(ctx context.Context, nickname string) (bool, error) {
	if strings.TrimSpace(nickname) == "" {
		return false, customErrors.NewInvalidArgument("nickname is required")
	}
	taken, err := s.userRepo.ExistsByNickname(ctx, nickname)
	if err != nil {
		return false, customErrors.WrapInternal(err, "CheckNicknameAvailability")
	}
	return !taken, nil
}
