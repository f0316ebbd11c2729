package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"content_hub/internal/domain/models"
	"content_hub/internal/lib/jwt"
	"content_hub/internal/lib/logger/sl"
	"content_hub/internal/metrics"
	"content_hub/internal/repository"
	"content_hub/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrUserBlocked        = errors.New("user is blocked")
	ErrTokenRevoked       = errors.New("token revoked")
)

type UserProvider interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type Config struct {
	Secret        string
	TokenTTL      time.Duration
	LoginAttempts int
	LoginWindow   time.Duration
}

type Auth struct {
	log       *slog.Logger
	users     UserProvider
	tokens    repository.TokenRepository
	blacklist repository.TokenBlacklist
	limiter   repository.LoginLimiter
	cfg       Config
}

func New(
	log *slog.Logger,
	users UserProvider,
	tokens repository.TokenRepository,
	blacklist repository.TokenBlacklist,
	limiter repository.LoginLimiter,
	cfg Config,
) *Auth {
	return &Auth{
		log:       log,
		users:     users,
		tokens:    tokens,
		blacklist: blacklist,
		limiter:   limiter,
		cfg:       cfg,
	}
}

func (a *Auth) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	const op = "auth.Login"

	email = strings.ToLower(strings.TrimSpace(email))
	log := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("attempting to login user")

	attempts, err := a.limiter.Hit(ctx, email, a.cfg.LoginWindow)
	if err != nil {
		log.Error("failed to count login attempt", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if a.cfg.LoginAttempts > 0 && attempts > int64(a.cfg.LoginAttempts) {
		log.Warn("login rate limited", slog.Int64("attempts", attempts))
		metrics.LoginAttemptsTotal.WithLabelValues("limited").Inc()

		return nil, fmt.Errorf("%s: %w", op, ErrTooManyAttempts)
	}

	user, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Warn("user not found", sl.Err(err))
			metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()

			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to get user", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))
		metrics.LoginAttemptsTotal.WithLabelValues("failed").Inc()

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if user.Status == models.UserBlocked {
		log.Warn("blocked user tried to log in")
		metrics.LoginAttemptsTotal.WithLabelValues("blocked").Inc()

		return nil, fmt.Errorf("%s: %w", op, ErrUserBlocked)
	}

	token, claims, err := jwt.NewToken(*user, a.cfg.Secret, a.cfg.TokenTTL)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := a.tokens.SaveUserToken(ctx, models.UserToken{
		Token:     claims.TokenID,
		UserID:    user.ID,
		ExpiresAt: claims.ExpiresAt,
	}); err != nil {
		log.Error("failed to save token", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := a.limiter.Reset(ctx, email); err != nil {
		log.Warn("failed to reset login attempts", sl.Err(err))
	}

	metrics.LoginAttemptsTotal.WithLabelValues("ok").Inc()
	log.Info("user logged in successfully", slog.String("user_id", user.ID.String()))

	return &models.TokenPair{
		UserID:      user.ID,
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt,
	}, nil
}

// Authenticate verifies token and rejects revoked ones.
func (a *Auth) Authenticate(ctx context.Context, token string) (models.TokenClaims, error) {
	const op = "auth.Authenticate"

	claims, err := jwt.Parse(token, a.cfg.Secret)
	if err != nil {
		return models.TokenClaims{}, fmt.Errorf("%s: %w", op, err)
	}

	blocked, err := a.blacklist.IsBlocked(ctx, claims.TokenID)
	if err != nil {
		a.log.Error("failed to check token blacklist", slog.String("op", op), sl.Err(err))

		return models.TokenClaims{}, fmt.Errorf("%s: %w", op, err)
	}
	if blocked {
		return models.TokenClaims{}, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	return claims, nil
}

// Logout revokes the token described by claims until it would have expired.
func (a *Auth) Logout(ctx context.Context, claims models.TokenClaims) error {
	const op = "auth.Logout"

	log := a.log.With(
		slog.String("op", op),
		slog.String("user_id", claims.UserID.String()),
	)

	if err := a.blacklist.Block(ctx, claims.TokenID, time.Until(claims.ExpiresAt)); err != nil {
		log.Error("failed to blacklist token", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := a.tokens.BlockToken(ctx, models.UserBlockedToken{
		Token:     claims.TokenID,
		ExpiresAt: claims.ExpiresAt,
	}); err != nil {
		log.Error("failed to record blocked token", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged out")

	return nil
}
