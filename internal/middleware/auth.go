package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"content_hub/internal/domain/models"
	"content_hub/internal/transport/http/dto/response"
)

const claimsKey = "auth.claims"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.TokenClaims, error)
}

// Auth requires a valid, unrevoked bearer token and stores its claims on the
// context.
func Auth(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return c.JSON(http.StatusUnauthorized, response.Unauthorized("bearer token required"))
			}

			claims, err := a.Authenticate(c.Request().Context(), token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, response.Unauthorized("invalid or revoked token"))
			}

			c.Set(claimsKey, claims)

			return next(c)
		}
	}
}

// AdminOnly must run after Auth.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := Claims(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, response.Unauthorized("authentication required"))
		}
		if claims.Role != models.RoleAdmin {
			return c.JSON(http.StatusForbidden, response.Forbidden("admin access required"))
		}

		return next(c)
	}
}

// Claims returns the claims stored by Auth.
func Claims(c echo.Context) (models.TokenClaims, bool) {
	claims, ok := c.Get(claimsKey).(models.TokenClaims)
	return claims, ok
}
