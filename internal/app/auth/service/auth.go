package service

import (
	"context"
	"crypto/subtle"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Miraines/hoops-auth/internal/adapters/transport/http/dto"
	customErrors "github.com/Miraines/hoops-auth/internal/domain/auth/errors"
	"github.com/Miraines/hoops-auth/internal/domain/auth/jwt"
	"github.com/Miraines/hoops-auth/internal/domain/auth/model"
	repo "github.com/Miraines/hoops-auth/internal/domain/auth/repo"
	"github.com/Miraines/hoops-auth/internal/infra/config"
	lg "github.com/Miraines/hoops-auth/internal/infra/log"
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) (bool, error)
}

// AuthService handles local accounts: signup, password login, access token
// refresh and logout.
type AuthService struct {
	userRepo repo.UserRepo
	issuer   tokenIssuer
	hasher   PasswordHasher
	v        *validator.Validate
	log      *zap.Logger
}

func NewAuthService(
	ur repo.UserRepo,
	tr repo.RefreshTokenStore,
	jm jwt.JWTUtil,
	h PasswordHasher,
	cfg *config.Config,
	v *validator.Validate,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo: ur,
		issuer:   tokenIssuer{jwtUtil: jm, tokenRepo: tr, storeTTL: cfg.RefreshStoreTTL},
		hasher:   h,
		v:        v,
		log:      log,
	}
}

func (a *AuthService) Signup(ctx context.Context, in dto.SignupDTO) (model.AuthResponse, error) {
	if err := dto.Validate(a.v, in); err != nil {
		return model.AuthResponse{}, err
	}

	taken, err := a.userRepo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return model.AuthResponse{}, customErrors.WrapInternal(err, "Signup")
	}
	if taken {
		return model.AuthResponse{}, customErrors.ErrEmailExists
	}

	taken, err = a.userRepo.ExistsByNickname(ctx, in.Nickname)
	if err != nil {
		return model.AuthResponse{}, customErrors.WrapInternal(err, "Signup")
	}
	if taken {
		return model.AuthResponse{}, customErrors.ErrNicknameExists
	}

	hash, err := a.hasher.Hash(in.Password)
	if err != nil {
		return model.AuthResponse{}, customErrors.WrapInternal(err, "Signup")
	}

	user := model.User{
		Email:        in.Email,
		PasswordHash: &hash,
		Nickname:     in.Nickname,
		PhoneNumber:  in.PhoneNumber,
		LoginType:    model.LoginTypeLocal,
	}
	if err := a.userRepo.CreateUser(ctx, &user); err != nil {
		if customErrors.IsAlreadyExists(err) {
			return model.AuthResponse{}, a.conflictKind(ctx, in.Email)
		}
		return model.AuthResponse{}, customErrors.WrapInternal(err, "Signup")
	}

	a.log.Info("user signed up", zap.Int64("user_id", user.ID), lg.Email(user.Email))

	// signup is never reported as a new user; only federated creation is
	return a.issuer.issue(ctx, user, false)
}

// conflictKind tells which unique field a concurrent signup took first.
func (a *AuthService) conflictKind(ctx context.Context, email string) error {
	if taken, err := a.userRepo.ExistsByEmail(ctx, email); err == nil && taken {
		return customErrors.ErrEmailExists
	}
	return customErrors.ErrNicknameExists
}

func (a *AuthService) Login(ctx context.Context, in dto.LoginDTO) (model.AuthResponse, error) {
	if err := dto.Validate(a.v, in); err != nil {
		return model.AuthResponse{}, err
	}

	user, err := a.userRepo.GetUserByEmail(ctx, in.Email)
	switch {
	case customErrors.IsNotFound(err):
		return model.AuthResponse{}, customErrors.ErrUserNotFound
	case err != nil:
		return model.AuthResponse{}, customErrors.WrapInternal(err, "Login")
	}

	if user.PasswordHash == nil {
		return model.AuthResponse{}, customErrors.ErrInvalidCredentials
	}
	ok, err := a.hasher.Verify(in.Password, *user.PasswordHash)
	if err != nil {
		return model.AuthResponse{}, customErrors.WrapInternal(err, "Login")
	}
	if !ok {
		return model.AuthResponse{}, customErrors.ErrInvalidCredentials
	}

	a.log.Info("user logged in", zap.Int64("user_id", user.ID))

	return a.issuer.issue(ctx, user, false)
}

// Refresh issues a new access token for a refresh token that is unexpired
// and identical to the one stored for its user. The stored refresh token is
// left untouched. Failures that are not domain errors surface as
// ErrInvalidToken.
func (a *AuthService) Refresh(ctx context.Context, in dto.RefreshDTO) (model.AuthResponse, error) {
	if err := dto.Validate(a.v, in); err != nil {
		return model.AuthResponse{}, err
	}

	resp, err := a.refresh(ctx, in.RefreshToken)
	if err != nil {
		if customErrors.IsDomain(err) {
			return model.AuthResponse{}, err
		}
		a.log.Error("refresh failed", zap.Error(err))
		return model.AuthResponse{}, customErrors.ErrInvalidToken
	}
	return resp, nil
}

func (a *AuthService) refresh(ctx context.Context, token string) (model.AuthResponse, error) {
	jwtUtil := a.issuer.jwtUtil

	if jwtUtil.IsExpired(token) {
		return model.AuthResponse{}, customErrors.ErrTokenExpired
	}

	uid, err := jwtUtil.ExtractUserID(token)
	if err != nil {
		return model.AuthResponse{}, customErrors.ErrInvalidToken
	}

	stored, err := a.issuer.tokenRepo.Get(ctx, uid)
	switch {
	case customErrors.IsNotFound(err):
		return model.AuthResponse{}, customErrors.ErrInvalidToken
	case err != nil:
		return model.AuthResponse{}, err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(token)) != 1 {
		return model.AuthResponse{}, customErrors.ErrInvalidToken
	}

	user, err := a.userRepo.GetUserByID(ctx, uid)
	switch {
	case customErrors.IsNotFound(err):
		return model.AuthResponse{}, customErrors.ErrUserNotFound
	case err != nil:
		return model.AuthResponse{}, err
	}

	at, err := jwtUtil.GenerateAccessToken(user)
	if err != nil {
		return model.AuthResponse{}, err
	}

	a.log.Info("access token refreshed", zap.Int64("user_id", uid))

	return model.AuthResponse{
		AccessToken: at,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   a.issuer.expiresIn(),
	}, nil
}

// Logout drops the stored refresh token of userID. The presented refresh
// token is not compared with the stored one, so logout always succeeds for
// an authenticated principal.
func (a *AuthService) Logout(ctx context.Context, userID int64, in dto.LogoutDTO) error {
	if err := dto.Validate(a.v, in); err != nil {
		return err
	}
	if userID <= 0 {
		return customErrors.ErrUnauthorized
	}

	if err := a.issuer.tokenRepo.Delete(ctx, userID); err != nil {
		return customErrors.WrapInternal(err, "Logout")
	}

	a.log.Info("user logged out", zap.Int64("user_id", userID))
	return nil
}
