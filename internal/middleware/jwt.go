package middleware

import (
	"context"
	"net/http"
	"strings"

	"accountd/internal/common"
	"accountd/internal/services"

	"github.com/labstack/echo/v4"
)

// JWTMiddleware validates the bearer token and places the user ID and
// the raw token into the request context. Requests without a valid
// session are rejected with 403, matching the permission-denied
// semantics of the settings and delete endpoints.
func JWTMiddleware(tokens services.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusForbidden, "Authentication credentials were not provided")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusForbidden, "Invalid authorization header format")
			}

			userID, err := tokens.Validate(c.Request().Context(), tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "Invalid or expired session")
			}

			ctx := context.WithValue(c.Request().Context(), common.UserIDKey, userID)
			ctx = context.WithValue(ctx, common.SessionTokenKey, tokenString)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
