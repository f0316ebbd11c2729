package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/redis/go-redis/v9"

	"content_hub/internal/domain/models"
	redisapp "content_hub/internal/storage/redis"
)

type TokenRepo struct {
	base
}

func NewTokenRepository(db connProvider) *TokenRepo {
	return &TokenRepo{base: newBase(db, nil)}
}

func (r *TokenRepo) SaveUserToken(ctx context.Context, token models.UserToken) error {
	const op = "repository.token_repository.SaveUserToken"

	_, err := exec(ctx, r.db.Conn(ctx), r.sb.Insert("user_tokens").
		Columns("token", "user_id", "expires_at").
		Values(token.Token, token.UserID, token.ExpiresAt))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *TokenRepo) BlockToken(ctx context.Context, token models.UserBlockedToken) error {
	const op = "repository.token_repository.BlockToken"

	_, err := exec(ctx, r.db.Conn(ctx), r.sb.Insert("user_blocked_tokens").
		Columns("token", "expires_at").
		Values(token.Token, token.ExpiresAt).
		Suffix("ON CONFLICT (token) DO NOTHING"))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeleteExpired removes issued and blocked tokens that expired before now and
// returns how many rows went away.
func (r *TokenRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	const op = "repository.token_repository.DeleteExpired"

	q := r.db.Conn(ctx)

	var total int64
	for _, name := range []string{"user_tokens", "user_blocked_tokens"} {
		n, err := exec(ctx, q, r.sb.Delete(name).Where(sq.Lt{"expires_at": now}))
		if err != nil {
			return total, fmt.Errorf("%s: %s: %w", op, name, err)
		}
		total += n
	}

	return total, nil
}

// RedisTokenRepo keeps the hot path state of auth in redis: revoked token ids
// and login attempt counters.
type RedisTokenRepo struct {
	Client *redisapp.Client
}

func NewRedisTokenRepo(client *redisapp.Client) *RedisTokenRepo {
	return &RedisTokenRepo{Client: client}
}

func (r *RedisTokenRepo) Block(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.Client.Set(ctx, blockedTokenKey(tokenID), "1", ttl).Err()
}

func (r *RedisTokenRepo) IsBlocked(ctx context.Context, tokenID string) (bool, error) {
	val, err := r.Client.Get(ctx, blockedTokenKey(tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val == "1", nil
}

// Hit counts one attempt for key. The window starts with the first attempt.
func (r *RedisTokenRepo) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := loginAttemptsKey(key)

	n, err := r.Client.Incr(ctx, k).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := r.Client.Expire(ctx, k, window).Err(); err != nil {
			return n, err
		}
	}

	return n, nil
}

func (r *RedisTokenRepo) Reset(ctx context.Context, key string) error {
	return r.Client.Del(ctx, loginAttemptsKey(key)).Err()
}

func blockedTokenKey(tokenID string) string {
	return "blocked:" + tokenID
}

func loginAttemptsKey(key string) string {
	return "login:" + key
}
