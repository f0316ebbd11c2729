package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content_hub/internal/repository"
	redisapp "content_hub/internal/storage/redis"
)

func newRedisRepo(t *testing.T) (*repository.RedisTokenRepo, redismock.ClientMock) {
	t.Helper()

	db, mock := redismock.NewClientMock()
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	return repository.NewRedisTokenRepo(redisapp.Wrap(db)), mock
}

func TestRedisTokenRepo_Block(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRedisRepo(t)

	mock.ExpectSet("blocked:jti-1", "1", time.Minute).SetVal("OK")

	require.NoError(t, repo.Block(ctx, "jti-1", time.Minute))
}

func TestRedisTokenRepo_BlockExpiredIsNoop(t *testing.T) {
	repo, _ := newRedisRepo(t)

	require.NoError(t, repo.Block(context.Background(), "jti-1", 0))
}

func TestRedisTokenRepo_IsBlocked(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRedisRepo(t)

	mock.ExpectGet("blocked:gone").RedisNil()
	mock.ExpectGet("blocked:revoked").SetVal("1")

	blocked, err := repo.IsBlocked(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, blocked)

	blocked, err = repo.IsBlocked(ctx, "revoked")
	require.NoError(t, err)
	assert.True(t, blocked)
}

func TestRedisTokenRepo_HitStartsWindowOnce(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRedisRepo(t)

	mock.ExpectIncr("login:a@b.c").SetVal(1)
	mock.ExpectExpire("login:a@b.c", 15*time.Minute).SetVal(true)
	mock.ExpectIncr("login:a@b.c").SetVal(2)

	n, err := repo.Hit(ctx, "a@b.c", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.Hit(ctx, "a@b.c", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRedisTokenRepo_Reset(t *testing.T) {
	repo, mock := newRedisRepo(t)

	mock.ExpectDel("login:a@b.c").SetVal(1)

	require.NoError(t, repo.Reset(context.Background(), "a@b.c"))
}
