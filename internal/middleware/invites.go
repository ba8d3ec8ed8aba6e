package middleware

import (
	"net/http"

	"accountd/internal/config"

	"github.com/labstack/echo/v4"
)

// RequireUserInitiatedInvites gates invite creation behind the site
// policy flag. The caller must already be authenticated.
func RequireUserInitiatedInvites(policy config.AccountPolicy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !policy.AllowUserInitiatedInvites {
				return echo.NewHTTPError(http.StatusForbidden, "User initiated invitations are not allowed")
			}
			return next(c)
		}
	}
}
