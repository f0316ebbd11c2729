package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"content_hub/internal/domain/models"
	"content_hub/internal/repository"
	"content_hub/internal/storage"
	"content_hub/internal/storage/postgresql"
)

var testCtx = context.Background()

func setupTestDB(t *testing.T) *postgresql.Storage {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(time.Minute),
	}

	pgContainer, err := testcontainers.GenericContainer(testCtx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := pgContainer.Host(testCtx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(testCtx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	require.NoError(t, postgresql.RunMigrations(dsn))

	db, err := postgresql.New(testCtx, dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Stop()
		_ = pgContainer.Terminate(testCtx)
	})

	return db
}

func newUser(t *testing.T, repo *repository.UserRepo) *models.User {
	t.Helper()

	u := &models.User{
		Firstname: gofakeit.FirstName(),
		Email:     gofakeit.Email(),
		Password:  []byte("hash"),
		Status:    models.UserActive,
		Role:      models.RoleEditor,
	}
	require.NoError(t, repo.Create(testCtx, u))

	return u
}

func TestRepositories_Integration(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db, nil, time.Minute)

	author := newUser(t, repo.Users)

	parent := &models.Category{Name: "News", Slug: "news"}
	require.NoError(t, repo.Categories.Create(testCtx, parent))
	child := &models.Category{Name: "World", Slug: "world", ParentID: &parent.ID}
	require.NoError(t, repo.Categories.Create(testCtx, child))

	t.Run("insert returns defaults", func(t *testing.T) {
		topic := &models.Topic{Title: "Test Topic", Slug: "test-topic", Status: models.TopicActive, Content: models.TopicContentPosts}
		require.NoError(t, repo.Topics.Create(testCtx, topic))

		assert.NotEqual(t, uuid.Nil, topic.ID)
		assert.False(t, topic.CreatedAt.IsZero())
	})

	t.Run("unique slug maps to conflict", func(t *testing.T) {
		dup := &models.Topic{Title: "Another", Slug: "test-topic", Status: models.TopicActive, Content: models.TopicContentPosts}

		err := repo.Topics.Create(testCtx, dup)

		var uv *storage.UniqueViolationError
		require.ErrorAs(t, err, &uv)
		assert.Equal(t, "slug", uv.Field)
		assert.Equal(t, "test-topic", uv.Value)
	})

	t.Run("children of a category", func(t *testing.T) {
		children, err := repo.Categories.FindChildren(testCtx, parent.ID)
		require.NoError(t, err)
		require.Len(t, children, 1)
		assert.Equal(t, child.ID, children[0].ID)
	})

	t.Run("post links load as includes", func(t *testing.T) {
		topic := &models.Topic{Title: "Linked", Slug: "linked", Status: models.TopicActive, Content: models.TopicContentPosts}
		require.NoError(t, repo.Topics.Create(testCtx, topic))

		post := &models.Post{Title: "Hello", Excerpt: "hi", Slug: "hello", Status: models.StatusDraft, UserID: author.ID}
		require.NoError(t, repo.Posts.Create(testCtx, post))
		require.NoError(t, repo.Posts.AddTopics(testCtx, post.ID, []uuid.UUID{topic.ID}))
		require.NoError(t, repo.Posts.AddCategories(testCtx, post.ID, []uuid.UUID{parent.ID, child.ID}))

		got, err := repo.Posts.FindByID(testCtx, post.ID, models.RelationTopics, models.RelationCategories)
		require.NoError(t, err)
		require.Len(t, got.Topics, 1)
		assert.Equal(t, topic.ID, got.Topics[0].ID)
		assert.Len(t, got.Categories, 2)

		require.NoError(t, repo.Posts.SetCategories(testCtx, post.ID, nil))

		got, err = repo.Posts.FindByID(testCtx, post.ID, models.RelationCategories)
		require.NoError(t, err)
		assert.Empty(t, got.Categories)
	})

	t.Run("transaction rolls back on error", func(t *testing.T) {
		errBoom := errors.New("boom")

		err := repo.Tx.WithinTransaction(testCtx, func(ctx context.Context) error {
			c := &models.Category{Name: "Ghost", Slug: "ghost"}
			if err := repo.Categories.Create(ctx, c); err != nil {
				return err
			}
			return errBoom
		})
		require.ErrorIs(t, err, errBoom)

		total, _, err := repo.Categories.FindAndCountAll(testCtx, repository.ListQuery{})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("failed post update keeps old categories", func(t *testing.T) {
		taken := &models.Post{Title: "Taken", Slug: "taken", Status: models.StatusDraft, UserID: author.ID}
		require.NoError(t, repo.Posts.Create(testCtx, taken))

		post := &models.Post{Title: "Atomic", Slug: "atomic", Status: models.StatusDraft, UserID: author.ID}
		require.NoError(t, repo.Posts.Create(testCtx, post))
		require.NoError(t, repo.Posts.AddCategories(testCtx, post.ID, []uuid.UUID{parent.ID}))

		err := repo.Tx.WithinTransaction(testCtx, func(ctx context.Context) error {
			if err := repo.Posts.SetCategories(ctx, post.ID, []uuid.UUID{child.ID}); err != nil {
				return err
			}

			changed := *post
			changed.Title = "Renamed"
			changed.Slug = "taken"
			_, err := repo.Posts.Update(ctx, &changed)
			return err
		})

		var uv *storage.UniqueViolationError
		require.ErrorAs(t, err, &uv)

		got, err := repo.Posts.FindByID(testCtx, post.ID, models.RelationCategories)
		require.NoError(t, err)
		assert.Equal(t, "Atomic", got.Title)
		require.Len(t, got.Categories, 1)
		assert.Equal(t, parent.ID, got.Categories[0].ID)
	})

	t.Run("deleted users are hidden", func(t *testing.T) {
		u := newUser(t, repo.Users)

		n, err := repo.Users.Destroy(testCtx, []uuid.UUID{u.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		_, err = repo.Users.FindByID(testCtx, u.ID)
		require.ErrorIs(t, err, storage.ErrNotFound)

		n, err = repo.Users.Destroy(testCtx, []uuid.UUID{u.ID})
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("describe lists live columns", func(t *testing.T) {
		cols, err := repo.Users.Describe(testCtx)
		require.NoError(t, err)

		assert.Contains(t, cols, "email")
		assert.NotContains(t, cols, "password")
		assert.NotContains(t, cols, "deleted_at")
	})

	t.Run("options upsert", func(t *testing.T) {
		opt := &models.Option{Name: "site_title", Value: []byte(`"Hub"`)}
		require.NoError(t, repo.Options.Upsert(testCtx, opt))

		opt.Value = []byte(`"Content Hub"`)
		require.NoError(t, repo.Options.Upsert(testCtx, opt))

		got, err := repo.Options.FindByName(testCtx, "site_title")
		require.NoError(t, err)
		assert.JSONEq(t, `"Content Hub"`, string(got.Value))
	})

	t.Run("expired tokens are pruned", func(t *testing.T) {
		now := time.Now()
		require.NoError(t, repo.Tokens.SaveUserToken(testCtx, models.UserToken{Token: "old", UserID: author.ID, ExpiresAt: now.Add(-time.Hour)}))
		require.NoError(t, repo.Tokens.SaveUserToken(testCtx, models.UserToken{Token: "new", UserID: author.ID, ExpiresAt: now.Add(time.Hour)}))
		require.NoError(t, repo.Tokens.BlockToken(testCtx, models.UserBlockedToken{Token: "old", ExpiresAt: now.Add(-time.Hour)}))

		n, err := repo.Tokens.DeleteExpired(testCtx, now)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})
}
