package service_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Miraines/hoops-auth/internal/adapters/transport/http/dto"
	jwtimpl "github.com/Miraines/hoops-auth/internal/app/auth/jwt"
	"github.com/Miraines/hoops-auth/internal/app/auth/service"
	customErrors "github.com/Miraines/hoops-auth/internal/domain/auth/errors"
	jwt2 "github.com/Miraines/hoops-auth/internal/domain/auth/jwt"
	"github.com/Miraines/hoops-auth/internal/domain/auth/model"
	"github.com/Miraines/hoops-auth/internal/infra/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	users  *userRepoStub
	tokens *tokenRepoStub
	jwt    *jwtimpl.JwtUtilImpl
	auth   *service.AuthService
	google *service.GoogleAuthService
	gv     *verifierStub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:       testSecret,
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		RefreshStoreTTL: 7 * 24 * time.Hour,
	}
	ju, err := jwtimpl.NewJWTUtil(cfg)
	require.NoError(t, err)

	f := &fixture{
		users:  newUserRepoStub(),
		tokens: newTokenRepoStub(),
		jwt:    ju,
		gv:     &verifierStub{identities: map[string]model.GoogleIdentity{}},
	}
	v := dto.NewValidator()
	f.auth = service.NewAuthService(f.users, f.tokens, ju, plainHasher{}, cfg, v, zap.NewNop())
	f.google = service.NewGoogleAuthService(f.users, f.tokens, ju, f.gv, cfg, v, zap.NewNop())
	return f
}

func (f *fixture) signup(t *testing.T, email, nickname string) model.AuthResponse {
	t.Helper()
	resp, err := f.auth.Signup(context.Background(), dto.SignupDTO{
		Email: email, Password: "Abc12345!", Nickname: nickname,
	})
	require.NoError(t, err)
	return resp
}

func TestSignup_IssuesAndStoresRefreshToken(t *testing.T) {
	f := newFixture(t)

	resp := f.signup(t, "a@x.com", "hoop")

	require.Equal(t, "Bearer", resp.TokenType)
	require.Equal(t, int64(3600), resp.ExpiresIn)
	require.NotEmpty(t, resp.AccessToken)
	require.NotNil(t, resp.User)
	require.False(t, resp.User.IsNewUser)
	require.Equal(t, model.LoginTypeLocal, resp.User.LoginType)

	stored, ok := f.tokens.stored(resp.User.UserID)
	require.True(t, ok)
	require.Equal(t, resp.RefreshToken, stored)
	require.Equal(t, 7*24*time.Hour, f.tokens.ttls[resp.User.UserID])

	u, err := f.users.GetUserByID(context.Background(), resp.User.UserID)
	require.NoError(t, err)
	require.NotNil(t, u.PasswordHash)
	require.NotEqual(t, "Abc12345!", *u.PasswordHash)
}

func TestSignup_Conflicts(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "a@x.com", "hoop")

	_, err := f.auth.Signup(context.Background(), dto.SignupDTO{Email: "a@x.com", Password: "Abc12345!", Nickname: "other"})
	require.ErrorIs(t, err, customErrors.ErrEmailExists)

	_, err = f.auth.Signup(context.Background(), dto.SignupDTO{Email: "b@x.com", Password: "Abc12345!", Nickname: "hoop"})
	require.ErrorIs(t, err, customErrors.ErrNicknameExists)
}

func TestSignup_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Signup(context.Background(), dto.SignupDTO{Email: "nope", Password: "weak", Nickname: "h"})
	require.True(t, customErrors.IsInvalidArgument(err))

	var ve *customErrors.ValidationError
	require.True(t, errors.As(err, &ve))
	require.Zero(t, f.tokens.puts)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	first := f.signup(t, "a@x.com", "hoop")

	resp, err := f.auth.Login(context.Background(), dto.LoginDTO{Email: "a@x.com", Password: "Abc12345!"})
	require.NoError(t, err)
	require.Equal(t, first.User.UserID, resp.User.UserID)
	require.False(t, resp.User.IsNewUser)

	stored, _ := f.tokens.stored(resp.User.UserID)
	require.Equal(t, resp.RefreshToken, stored)
}

func TestLogin_Failures(t *testing.T) {
	f := newFixture(t)
	resp := f.signup(t, "a@x.com", "hoop")
	putsBefore := f.tokens.puts

	_, err := f.auth.Login(context.Background(), dto.LoginDTO{Email: "a@x.com", Password: "wrong"})
	require.ErrorIs(t, err, customErrors.ErrInvalidCredentials)

	_, err = f.auth.Login(context.Background(), dto.LoginDTO{Email: "ghost@x.com", Password: "Abc12345!"})
	require.ErrorIs(t, err, customErrors.ErrUserNotFound)

	// store untouched on failure
	require.Equal(t, putsBefore, f.tokens.puts)
	stored, _ := f.tokens.stored(resp.User.UserID)
	require.Equal(t, resp.RefreshToken, stored)
}

func TestLogin_FederatedOnlyAccount(t *testing.T) {
	f := newFixture(t)
	f.gv.identities["g"] = model.GoogleIdentity{Subject: "sub-1", Email: "g@x.com", Name: "gee"}
	_, err := f.google.Authenticate(context.Background(), dto.GoogleLoginDTO{IDToken: "g"})
	require.NoError(t, err)

	_, err = f.auth.Login(context.Background(), dto.LoginDTO{Email: "g@x.com", Password: "Abc12345!"})
	require.ErrorIs(t, err, customErrors.ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	f := newFixture(t)
	issued := f.signup(t, "a@x.com", "hoop")

	resp, err := f.auth.Refresh(context.Background(), dto.RefreshDTO{RefreshToken: issued.RefreshToken})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.Empty(t, resp.RefreshToken)
	require.Nil(t, resp.User)
	require.Equal(t, "Bearer", resp.TokenType)
	require.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := f.jwt.Verify(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, strconv.FormatInt(issued.User.UserID, 10), claims.Subject)
	require.Equal(t, "hoop", claims.Nickname)

	// refresh never rotates
	stored, _ := f.tokens.stored(issued.User.UserID)
	require.Equal(t, issued.RefreshToken, stored)

	_, err = f.auth.Refresh(context.Background(), dto.RefreshDTO{RefreshToken: issued.RefreshToken})
	require.NoError(t, err)
}

func TestRefresh_OldTokenRejectedAfterNewLogin(t *testing.T) {
	f := newFixture(t)
	first := f.signup(t, "a@x.com", "hoop")

	second, err := f.auth.Login(context.Background(), dto.LoginDTO{Email: "a@x.com", Password: "Abc12345!"})
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = f.auth.Refresh(context.Background(), dto.RefreshDTO{RefreshToken: first.RefreshToken})
	require.ErrorIs(t, err, customErrors.ErrInvalidToken)

	_, err = f.auth.Refresh(context.Background(), dto.RefreshDTO{RefreshToken: second.RefreshToken})
	require.NoError(t, err)
}

func TestRefresh_Expired(t *testing.T) {
	f := newFixture(t)
	issued := f.signup(t, "a@x.com", "hoop")
	uid := issued.User.UserID

	expired, err := f.jwt.Issue(strconv.FormatInt(uid, 10), jwt2.Claims{TokenType: jwt2.TokenTypeRefresh}, -time.Minute)
	require.NoError(t, err)

	// not stored
	_, err = f.auth.Refresh(context.Background(), dto.RefreshDTO{RefreshToken: expired})
	require.ErrorIs(t, err, customErrors.ErrTokenExpired)

	// stored: still expired
	require.NoError(t, f.tokens.Put(context.Background(), uid, expired, time.Hour))
	_, err = f.auth.Refresh(context.Background(), dto.RefreshDTO{RefreshToken: expired})
	require.ErrorIs(t, err, customErrors.ErrTokenExpired)
}

func TestRefresh_InvalidTokens(t *testing.T) {
	f := newFixture(t)
	issued := f.signup(t, "a@x.com", "hoop")

	other, err := f.jwt.GenerateRefreshToken(issued.User.UserID)
	require.NoError(t, err)
	_, err = f.auth.Refresh(context.Background(), dto.RefreshDTO{RefreshToken: other})
	require.ErrorIs(t, err, customErrors.ErrInvalidToken)

	// unparseable tokens count as expired
	_, err = f.auth.Refresh(context.Background(), dto.RefreshDTO{RefreshToken: "garbage"})
	require.ErrorIs(t, err, customErrors.ErrTokenExpired)

	// no stored entry for this user
	stranger, err := f.jwt.GenerateRefreshToken(999)
	require.NoError(t, err)
	_, err = f.auth.Refresh(context.Background(), dto.RefreshDTO{RefreshToken: stranger})
	require.ErrorIs(t, err, customErrors.ErrInvalidToken)

	_, err = f.auth.Refresh(context.Background(), dto.RefreshDTO{})
	require.True(t, customErrors.IsInvalidArgument(err))
}

func TestRefresh_StoreFailureIsInvalidToken(t *testing.T) {
	f := newFixture(t)
	issued := f.signup(t, "a@x.com", "hoop")
	f.tokens.failGet = errors.New("redis down")

	_, err := f.auth.Refresh(context.Background(), dto.RefreshDTO{RefreshToken: issued.RefreshToken})
	require.ErrorIs(t, err, customErrors.ErrInvalidToken)
}

func TestRefresh_DeletedUser(t *testing.T) {
	f := newFixture(t)
	issued := f.signup(t, "a@x.com", "hoop")
	f.users.delete(issued.User.UserID)

	_, err := f.auth.Refresh(context.Background(), dto.RefreshDTO{RefreshToken: issued.RefreshToken})
	require.ErrorIs(t, err, customErrors.ErrUserNotFound)
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	issued := f.signup(t, "a@x.com", "hoop")
	uid := issued.User.UserID

	require.NoError(t, f.auth.Logout(context.Background(), uid, dto.LogoutDTO{RefreshToken: issued.RefreshToken}))
	_, ok := f.tokens.stored(uid)
	require.False(t, ok)

	_, err := f.auth.Refresh(context.Background(), dto.RefreshDTO{RefreshToken: issued.RefreshToken})
	require.ErrorIs(t, err, customErrors.ErrInvalidToken)

	// idempotent, and the presented token is not compared
	require.NoError(t, f.auth.Logout(context.Background(), uid, dto.LogoutDTO{RefreshToken: "whatever"}))

	err = f.auth.Logout(context.Background(), 0, dto.LogoutDTO{RefreshToken: "x"})
	require.ErrorIs(t, err, customErrors.ErrUnauthorized)

	err = f.auth.Logout(context.Background(), uid, dto.LogoutDTO{})
	require.True(t, customErrors.IsInvalidArgument(err))
}
