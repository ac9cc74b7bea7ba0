package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	customErrors "github.com/Miraines/hoops-auth/internal/domain/auth/errors"
)

const refreshKeyPrefix = "refresh_token:"

// RedisTokenRepo keeps one refresh token per user under
// "refresh_token:<userId>". Writes are unconditional, last writer wins.
type RedisTokenRepo struct {
	client redis.UniversalClient
}

func NewRedisTokenRepo(client redis.UniversalClient) *RedisTokenRepo {
	return &RedisTokenRepo{
		client: client,
	}
}

func refreshKey(userID int64) string {
	return refreshKeyPrefix + strconv.FormatInt(userID, 10)
}

func (r *RedisTokenRepo) Put(ctx context.Context, userID int64, token string, ttl time.Duration) error {
	if err := r.client.Set(ctx, refreshKey(userID), token, safeTTL(ttl)).Err(); err != nil {
		return customErrors.WrapInternal(err, "store refresh token")
	}
	return nil
}

func (r *RedisTokenRepo) Get(ctx context.Context, userID int64) (string, error) {
	val, err := r.client.Get(ctx, refreshKey(userID)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", customErrors.ErrNotFound
	case err != nil:
		return "", customErrors.WrapInternal(err, "load refresh token")
	default:
		return val, nil
	}
}

// Delete is idempotent: deleting an absent key is not an error.
func (r *RedisTokenRepo) Delete(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, refreshKey(userID)).Err(); err != nil {
		return customErrors.WrapInternal(err, "delete refresh token")
	}
	return nil
}

func (r *RedisTokenRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func safeTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		// без TTL ключ жил бы вечно
		return time.Hour
	}
	return ttl
}
