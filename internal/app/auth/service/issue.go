package service

import (
	"context"
	"time"

	customErrors "github.com/Miraines/hoops-auth/internal/domain/auth/errors"
	"github.com/Miraines/hoops-auth/internal/domain/auth/jwt"
	"github.com/Miraines/hoops-auth/internal/domain/auth/model"
	repo "github.com/Miraines/hoops-auth/internal/domain/auth/repo"
)

const TokenTypeBearer = "Bearer"

// tokenIssuer is shared by password and federated logins. Every issuance
// overwrites the stored refresh token of the user, so at most one refresh
// token per user is ever accepted.
type tokenIssuer struct {
	jwtUtil   jwt.JWTUtil
	tokenRepo repo.RefreshTokenStore
	storeTTL  time.Duration
}

func (t tokenIssuer) expiresIn() int64 {
	return int64(t.jwtUtil.AccessTTL().Seconds())
}

func (t tokenIssuer) issue(ctx context.Context, u model.User, isNewUser bool) (model.AuthResponse, error) {
	at, err := t.jwtUtil.GenerateAccessToken(u)
	if err != nil {
		return model.AuthResponse{}, customErrors.WrapInternal(err, "GenerateAccessToken")
	}
	rt, err := t.jwtUtil.GenerateRefreshToken(u.ID)
	if err != nil {
		return model.AuthResponse{}, customErrors.WrapInternal(err, "GenerateRefreshToken")
	}
	if err := t.tokenRepo.Put(ctx, u.ID, rt, t.storeTTL); err != nil {
		return model.AuthResponse{}, customErrors.WrapInternal(err, "StoreRefresh")
	}

	return model.AuthResponse{
		AccessToken:  at,
		RefreshToken: rt,
		TokenType:    TokenTypeBearer,
		ExpiresIn:    t.expiresIn(),
		User: &model.UserInfo{
			UserID:          u.ID,
			Email:           u.Email,
			Nickname:        u.Nickname,
			ProfileImageURL: u.ProfileImageURL,
			LoginType:       u.LoginType,
			IsNewUser:       isNewUser,
		},
	}, nil
}
