package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	httpapp "content_hub/internal/app/http"
	"content_hub/internal/config"
	"content_hub/internal/lib/logger/sl"
	"content_hub/internal/repository"
	"content_hub/internal/services/auth"
	categories "content_hub/internal/services/category_service"
	options "content_hub/internal/services/option_service"
	pages "content_hub/internal/services/page_service"
	posts "content_hub/internal/services/post_service"
	tokens "content_hub/internal/services/token_service"
	topics "content_hub/internal/services/topic_service"
	users "content_hub/internal/services/user_service"
	filestorage "content_hub/internal/storage/filestorage"
	"content_hub/internal/storage/postgresql"
	redisapp "content_hub/internal/storage/redis"
	httprouters "content_hub/internal/transport/http"
)

type App struct {
	HTTPServer   *httpapp.Server
	TokenCleaner *tokens.TokenService

	log     *slog.Logger
	storage *postgresql.Storage
	redis   *redisapp.Client
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	const op = "app.New"

	if cfg.MigrateOnStart {
		if err := postgresql.RunMigrations(cfg.DSN); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("migrations applied")
	}

	storage, err := postgresql.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb, err := redisapp.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		storage.Stop()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	files, err := filestorage.NewLocalFileStorage(cfg.FileStorage.BaseDir, cfg.FileStorage.BaseURL, cfg.FileStorage.MaxSize)
	if err != nil {
		storage.Stop()
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	repo := repository.NewRepository(storage, rdb, cfg.SchemaCacheTTL)
	size := cfg.Pagination.DefaultSize

	authService := auth.New(log, repo.Users, repo.Tokens, repo.Redis, repo.Redis, auth.Config{
		Secret:        cfg.Auth.Secret,
		TokenTTL:      cfg.Auth.AccessTTL,
		LoginAttempts: cfg.Auth.LoginAttempts,
		LoginWindow:   cfg.Auth.LoginWindow,
	})

	routers := httprouters.NewRouter(log, cfg.Pagination.MaxSize, httprouters.Services{
		Auth:       authService,
		Topics:     topics.NewTopicService(log, repo.Tx, repo.Topics, repo.Users, repo.Categories, files, size),
		Posts:      posts.NewPostService(log, repo.Tx, repo.Posts, repo.Topics, repo.Categories, size),
		Categories: categories.NewCategoryService(log, repo.Categories, size),
		Pages:      pages.NewPageService(log, repo.Pages, repo.Topics, size),
		Users:      users.NewUserService(log, repo.Tx, repo.Users, repo.Topics, size),
		Options:    options.NewOptionService(log, repo.Options),
	}, storage.Ping, rdb.HealthCheck)

	server := httpapp.New(log, httpapp.Options{
		Host:       cfg.HTTP.Host,
		Port:       cfg.HTTP.Port,
		Timeout:    cfg.HTTP.Timeout,
		UploadsDir: files.BaseDir(),
	}, routers, authService)

	return &App{
		HTTPServer:   server,
		TokenCleaner: tokens.NewTokenService(log, repo.Tokens, cfg.CleanupInterval),
		log:          log,
		storage:      storage,
		redis:        rdb,
	}, nil
}

// Stop shuts the server down, then closes the stores.
func (a *App) Stop(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.HTTPServer.Stop(ctx); err != nil {
		a.log.Error("http server stop failed", sl.Err(err))
	}

	if err := a.redis.Close(); err != nil {
		a.log.Error("redis close failed", sl.Err(err))
	}

	a.storage.Stop()
}
