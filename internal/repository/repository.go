package repository

import (
	"time"

	"content_hub/internal/storage/postgresql"
	redisapp "content_hub/internal/storage/redis"
)

// Repository groups every store the services talk to.
type Repository struct {
	Tx         Transactor
	Topics     *TopicRepo
	Posts      *PostRepo
	Categories *CategoryRepo
	Pages      *PageRepo
	Users      *UserRepo
	Options    *OptionRepo
	Tokens     *TokenRepo
	Redis      *RedisTokenRepo
}

func NewRepository(db *postgresql.Storage, rdb *redisapp.Client, schemaTTL time.Duration) *Repository {
	schema := NewSchemaCache(schemaTTL)

	return &Repository{
		Tx:         db,
		Topics:     NewTopicRepository(db, schema),
		Posts:      NewPostRepository(db, schema),
		Categories: NewCategoryRepository(db, schema),
		Pages:      NewPageRepository(db, schema),
		Users:      NewUserRepository(db, schema),
		Options:    NewOptionRepository(db),
		Tokens:     NewTokenRepository(db),
		Redis:      NewRedisTokenRepo(rdb),
	}
}
