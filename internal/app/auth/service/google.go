package service

import (
	"context"
	"strconv"
	"strings"

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

type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (model.GoogleIdentity, error)
}

// GoogleAuthService resolves a verified Google identity to a local user:
// by Google subject first, then by email (linking the account), otherwise
// by creating a new user.
type GoogleAuthService struct {
	userRepo repo.UserRepo
	issuer   tokenIssuer
	verifier GoogleVerifier
	v        *validator.Validate
	log      *zap.Logger
}

func NewGoogleAuthService(
	ur repo.UserRepo,
	tr repo.RefreshTokenStore,
	jm jwt.JWTUtil,
	gv GoogleVerifier,
	cfg *config.Config,
	v *validator.Validate,
	log *zap.Logger,
) *GoogleAuthService {
	return &GoogleAuthService{
		userRepo: ur,
		issuer:   tokenIssuer{jwtUtil: jm, tokenRepo: tr, storeTTL: cfg.RefreshStoreTTL},
		verifier: gv,
		v:        v,
		log:      log,
	}
}

// Authenticate fails with ErrGoogleTokenInvalid when the ID token does not
// verify. Any other failure that is not a domain error is reported as
// ErrGoogleAPI.
func (g *GoogleAuthService) Authenticate(ctx context.Context, in dto.GoogleLoginDTO) (model.AuthResponse, error) {
	if err := dto.Validate(g.v, in); err != nil {
		return model.AuthResponse{}, err
	}

	resp, err := g.authenticate(ctx, in.IDToken)
	if err != nil {
		if customErrors.IsDomain(err) {
			return model.AuthResponse{}, err
		}
		g.log.Error("google login failed", zap.Error(err))
		return model.AuthResponse{}, customErrors.ErrGoogleAPI
	}
	return resp, nil
}

func (g *GoogleAuthService) authenticate(ctx context.Context, idToken string) (model.AuthResponse, error) {
	identity, err := g.verifier.Verify(ctx, idToken)
	if err != nil {
		return model.AuthResponse{}, err
	}

	user, created, err := g.resolve(ctx, identity)
	if err != nil {
		return model.AuthResponse{}, err
	}

	g.log.Info("google login",
		zap.Int64("user_id", user.ID),
		lg.Email(identity.Email),
		zap.Bool("new_user", created),
	)

	return g.issuer.issue(ctx, user, created)
}

// resolve reports created=true only when this call inserted the user.
func (g *GoogleAuthService) resolve(ctx context.Context, id model.GoogleIdentity) (model.User, bool, error) {
	user, err := g.userRepo.GetUserByGoogleID(ctx, id.Subject)
	switch {
	case err == nil:
		return user, false, nil
	case !customErrors.IsNotFound(err):
		return model.User{}, false, customErrors.WrapInternal(err, "GetUserByGoogleID")
	}

	user, err = g.userRepo.GetUserByEmail(ctx, id.Email)
	switch {
	case err == nil:
		linked, err := g.link(ctx, user, id)
		return linked, false, err
	case !customErrors.IsNotFound(err):
		return model.User{}, false, customErrors.WrapInternal(err, "GetUserByEmail")
	}

	created, err := g.create(ctx, id)
	return created, true, err
}

// link attaches the Google identity to an existing account. Password hash,
// nickname and phone number are kept.
func (g *GoogleAuthService) link(ctx context.Context, existing model.User, id model.GoogleIdentity) (model.User, error) {
	subject := id.Subject
	linked := existing
	linked.ProfileImageURL = id.Picture
	linked.LoginType = model.LoginTypeGoogle
	linked.GoogleID = &subject

	if err := g.userRepo.UpdateUser(ctx, &linked); err != nil {
		return model.User{}, customErrors.WrapInternal(err, "UpdateUser")
	}
	g.log.Info("google account linked", zap.Int64("user_id", linked.ID))
	return linked, nil
}

func (g *GoogleAuthService) create(ctx context.Context, id model.GoogleIdentity) (model.User, error) {
	nickname, err := g.uniqueNickname(ctx, id.Name, id.Email)
	if err != nil {
		return model.User{}, err
	}

	subject := id.Subject
	user := model.User{
		Email:           id.Email,
		Nickname:        nickname,
		ProfileImageURL: id.Picture,
		LoginType:       model.LoginTypeGoogle,
		GoogleID:        &subject,
	}
	if err := g.userRepo.CreateUser(ctx, &user); err != nil {
		return model.User{}, customErrors.WrapInternal(err, "CreateUser")
	}
	g.log.Info("google user created", zap.Int64("user_id", user.ID), zap.String("nickname", nickname))
	return user, nil
}

// uniqueNickname tries the display name (or the email local part) and then
// base1, base2, ... until the directory reports it free. Concurrent
// federated signups can still race for the same name; the unique index
// rejects the loser.
func (g *GoogleAuthService) uniqueNickname(ctx context.Context, name, email string) (string, error) {
	base := name
	if base == "" {
		base, _, _ = strings.Cut(email, "@")
	}

	nickname := base
	for suffix := 1; ; suffix++ {
		taken, err := g.userRepo.ExistsByNickname(ctx, nickname)
		if err != nil {
			return "", customErrors.WrapInternal(err, "ExistsByNickname")
		}
		if !taken {
			return nickname, nil
		}
		nickname = base + strconv.Itoa(suffix)
	}
}
