package jwt

import (
	"time"

	"github.com/Miraines/hoops-auth/internal/domain/auth/model"
	"github.com/golang-jwt/jwt/v5"
)

const TokenTypeRefresh = "REFRESH"

// Claims is the payload of both token kinds. Access tokens carry the
// identity fields, refresh tokens only TokenType.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	LoginType string `json:"loginType,omitempty"`
	TokenType string `json:"tokenType,omitempty"`
}

type JWTUtil interface {
	Issue(subject string, claims Claims, ttl time.Duration) (string, error)
	Verify(token string) (Claims, error)
	IsExpired(token string) bool
	ExtractUserID(token string) (int64, error)

	GenerateAccessToken(u model.User) (string, error)
	GenerateRefreshToken(userID int64) (string, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}
