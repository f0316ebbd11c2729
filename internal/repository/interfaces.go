package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"content_hub/internal/domain/models"
)

// Transactor scopes a set of repository calls into one transaction. Calls made
// with the ctx passed to fn join it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Finder looks up a batch of records by primary key in one query. Missing ids
// are skipped.
type Finder[T any] interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]T, error)
}

type TopicRepository interface {
	Finder[models.Topic]
	Describe(ctx context.Context) (map[string]struct{}, error)
	FindAndCountAll(ctx context.Context, lq ListQuery) (int, []models.Topic, error)
	FindByID(ctx context.Context, id uuid.UUID, include ...string) (*models.Topic, error)
	Create(ctx context.Context, topic *models.Topic) error
	Update(ctx context.Context, topic *models.Topic) (int64, error)
	UpdateImage(ctx context.Context, id uuid.UUID, image string) (int64, error)
	Destroy(ctx context.Context, ids []uuid.UUID) (int64, error)
	AddUsers(ctx context.Context, topicID uuid.UUID, userIDs []uuid.UUID) error
	SetUsers(ctx context.Context, topicID uuid.UUID, userIDs []uuid.UUID) error
	AddCategories(ctx context.Context, topicID uuid.UUID, categoryIDs []uuid.UUID) error
	SetCategories(ctx context.Context, topicID uuid.UUID, categoryIDs []uuid.UUID) error
}

type PostRepository interface {
	Finder[models.Post]
	Describe(ctx context.Context) (map[string]struct{}, error)
	FindAndCountAll(ctx context.Context, lq ListQuery) (int, []models.Post, error)
	FindByID(ctx context.Context, id uuid.UUID, include ...string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) (int64, error)
	Destroy(ctx context.Context, ids []uuid.UUID) (int64, error)
	AddTopics(ctx context.Context, postID uuid.UUID, topicIDs []uuid.UUID) error
	SetTopics(ctx context.Context, postID uuid.UUID, topicIDs []uuid.UUID) error
	AddCategories(ctx context.Context, postID uuid.UUID, categoryIDs []uuid.UUID) error
	SetCategories(ctx context.Context, postID uuid.UUID, categoryIDs []uuid.UUID) error
}

type CategoryRepository interface {
	Finder[models.Category]
	Describe(ctx context.Context) (map[string]struct{}, error)
	FindAndCountAll(ctx context.Context, lq ListQuery) (int, []models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID, include ...string) (*models.Category, error)
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) (int64, error)
	Destroy(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type PageRepository interface {
	Finder[models.Page]
	Describe(ctx context.Context) (map[string]struct{}, error)
	FindAndCountAll(ctx context.Context, lq ListQuery) (int, []models.Page, error)
	FindByID(ctx context.Context, id uuid.UUID, include ...string) (*models.Page, error)
	Create(ctx context.Context, page *models.Page) error
	Update(ctx context.Context, page *models.Page) (int64, error)
	Destroy(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type UserRepository interface {
	Finder[models.User]
	Describe(ctx context.Context) (map[string]struct{}, error)
	FindAndCountAll(ctx context.Context, lq ListQuery) (int, []models.User, error)
	FindByID(ctx context.Context, id uuid.UUID, include ...string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) (int64, error)
	Destroy(ctx context.Context, ids []uuid.UUID) (int64, error)
	AddTopics(ctx context.Context, userID uuid.UUID, topicIDs []uuid.UUID) error
	SetTopics(ctx context.Context, userID uuid.UUID, topicIDs []uuid.UUID) error
}

type OptionRepository interface {
	FindAll(ctx context.Context) ([]models.Option, error)
	FindByName(ctx context.Context, name string) (*models.Option, error)
	FindByNames(ctx context.Context, names []string) ([]models.Option, error)
	Upsert(ctx context.Context, option *models.Option) error
	Destroy(ctx context.Context, names []string) (int64, error)
}

// TokenRepository persists issued and revoked access tokens.
type TokenRepository interface {
	SaveUserToken(ctx context.Context, token models.UserToken) error
	BlockToken(ctx context.Context, token models.UserBlockedToken) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// TokenBlacklist answers revocation checks on the request path.
type TokenBlacklist interface {
	Block(ctx context.Context, tokenID string, ttl time.Duration) error
	IsBlocked(ctx context.Context, tokenID string) (bool, error)
}

// LoginLimiter counts login attempts per key inside a window.
type LoginLimiter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}
