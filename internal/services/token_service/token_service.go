package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"content_hub/internal/lib/logger/sl"
	"content_hub/internal/metrics"
	"content_hub/internal/repository"
)

// TokenService prunes expired issued and blocked tokens.
type TokenService struct {
	log      *slog.Logger
	repo     repository.TokenRepository
	interval time.Duration
	now      func() time.Time
}

func NewTokenService(log *slog.Logger, repo repository.TokenRepository, interval time.Duration) *TokenService {
	return &TokenService{log: log, repo: repo, interval: interval, now: time.Now}
}

func (s *TokenService) DeleteExpired(ctx context.Context) (int64, error) {
	const op = "token_service.DeleteExpired"

	n, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	metrics.ExpiredTokensDeleted.Add(float64(n))

	return n, nil
}

// Run calls DeleteExpired every interval until ctx is done.
func (s *TokenService) Run(ctx context.Context) {
	const op = "token_service.Run"
	log := s.log.With(slog.String("op", op))

	if s.interval <= 0 {
		log.Info("token cleanup disabled")
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("token cleanup stopped")
			return
		case <-ticker.C:
			n, err := s.DeleteExpired(ctx)
			if err != nil {
				log.Error("token cleanup failed", sl.Err(err))
				continue
			}
			log.Debug("expired tokens deleted", slog.Int64("deleted", n))
		}
	}
}
