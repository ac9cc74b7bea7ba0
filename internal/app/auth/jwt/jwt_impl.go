package jwt

import (
	"errors"
	"strconv"
	"time"

	customErrors "github.com/Miraines/hoops-auth/internal/domain/auth/errors"
	jwt2 "github.com/Miraines/hoops-auth/internal/domain/auth/jwt"
	"github.com/Miraines/hoops-auth/internal/domain/auth/model"
	"github.com/Miraines/hoops-auth/internal/infra/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const minSecretLen = 32

// JwtUtilImpl signs access and refresh tokens with one HMAC key derived from
// the configured secret. The two kinds differ only in TTL and claims.
type JwtUtilImpl struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewJWTUtil(cfg *config.Config) (*JwtUtilImpl, error) {
	if len(cfg.JWTSecret) < minSecretLen {
		return nil, customErrors.WrapInternal(errors.New("secret shorter than 32 bytes"), "NewJWTUtil")
	}
	return &JwtUtilImpl{
		key:        []byte(cfg.JWTSecret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		now:        time.Now,
	}, nil
}

func (j *JwtUtilImpl) AccessTTL() time.Duration  { return j.accessTTL }
func (j *JwtUtilImpl) RefreshTTL() time.Duration { return j.refreshTTL }

func (j *JwtUtilImpl) Issue(subject string, claims jwt2.Claims, ttl time.Duration) (string, error) {
	now := j.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.key)
	if err != nil {
		return "", customErrors.WrapInternal(err, "sign token")
	}
	return signed, nil
}

func (j *JwtUtilImpl) GenerateAccessToken(u model.User) (string, error) {
	return j.Issue(strconv.FormatInt(u.ID, 10), jwt2.Claims{
		Email:     u.Email,
		Nickname:  u.Nickname,
		LoginType: string(u.LoginType),
	}, j.accessTTL)
}

func (j *JwtUtilImpl) GenerateRefreshToken(userID int64) (string, error) {
	return j.Issue(strconv.FormatInt(userID, 10), jwt2.Claims{
		TokenType: jwt2.TokenTypeRefresh,
	}, j.refreshTTL)
}

// Verify checks signature and expiry. Malformed and tampered tokens are
// indistinguishable to the caller.
func (j *JwtUtilImpl) Verify(raw string) (jwt2.Claims, error) {
	claims, err := j.parse(raw, jwt.WithExpirationRequired(), jwt.WithTimeFunc(j.now))
	if err != nil {
		return jwt2.Claims{}, customErrors.ErrInvalidToken
	}
	return claims, nil
}

// IsExpired reports true when the expiry has passed or when the token cannot
// be verified at all.
func (j *JwtUtilImpl) IsExpired(raw string) bool {
	claims, err := j.parse(raw, jwt.WithoutClaimsValidation())
	if err != nil || claims.ExpiresAt == nil {
		return true
	}
	return !claims.ExpiresAt.After(j.now())
}

// ExtractUserID must only be called on a token that passed Verify or
// IsExpired.
func (j *JwtUtilImpl) ExtractUserID(raw string) (int64, error) {
	claims, err := j.parse(raw, jwt.WithoutClaimsValidation())
	if err != nil {
		return 0, customErrors.ErrInvalidToken
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, customErrors.ErrInvalidToken
	}
	return id, nil
}

func (j *JwtUtilImpl) parse(raw string, opts ...jwt.ParserOption) (jwt2.Claims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := jwt.ParseWithClaims(raw, &jwt2.Claims{}, func(t *jwt.Token) (interface{}, error) {
		return j.key, nil
	}, opts...)
	if err != nil || !token.Valid {
		return jwt2.Claims{}, customErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt2.Claims)
	if !ok {
		return jwt2.Claims{}, customErrors.ErrInvalidToken
	}
	return *claims, nil
}
