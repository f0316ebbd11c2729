package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"content_hub/internal/lib/logger/sl"
	"content_hub/internal/middleware"
	"content_hub/internal/services/auth"
	"content_hub/internal/transport/http/dto/request"
	"content_hub/internal/transport/http/dto/response"
)

func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	var req request.LoginRequest
	if err := r.bind(c, &req); err != nil {
		return r.badRequest(c, op, err)
	}

	pair, err := r.AuthService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTooManyAttempts):
			return c.JSON(http.StatusTooManyRequests, response.TooManyAttempts())
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, response.AuthenticationFailed("invalid email or password"))
		case errors.Is(err, auth.ErrUserBlocked):
			return c.JSON(http.StatusForbidden, response.Forbidden("user is blocked"))
		}

		r.log.Error("login failed", slog.String("op", op), sl.Err(err))

		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "login failed"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(pair))
}

func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"

	claims, ok := middleware.Claims(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, response.Unauthorized("authentication required"))
	}

	if err := r.AuthService.Logout(c.Request().Context(), claims); err != nil {
		r.log.Error("logout failed", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "logout failed"))
	}

	return c.NoContent(http.StatusNoContent)
}
