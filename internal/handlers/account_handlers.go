package handlers

import (
	"net/http"

	"accountd/internal/common"
	"accountd/internal/config"
	"accountd/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// AccountHandlers handles account deletion.
type AccountHandlers struct {
	deletionSvc services.DeletionService
	tokens      services.TokenService
	policy      config.AccountPolicy
}

func NewAccountHandlers(deletionSvc services.DeletionService, tokens services.TokenService, policy config.AccountPolicy) *AccountHandlers {
	return &AccountHandlers{
		deletionSvc: deletionSvc,
		tokens:      tokens,
		policy:      policy,
	}
}

// DeleteResponse reports when the marked account will be expunged.
type DeleteResponse struct {
	ExpungeHours int `json:"expunge_hours"`
}

// Delete marks the caller's account for expunging and terminates the
// session it was called with.
func (h *AccountHandlers) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "Authentication credentials were not provided")
	}

	if _, err := h.deletionSvc.Mark(ctx, userID); err != nil {
		logrus.Errorf("account deletion failed for %s: %v", userID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete account")
	}

	if token, ok := common.GetSessionTokenFromContext(ctx); ok {
		if err := h.tokens.Revoke(ctx, token); err != nil {
			logrus.Warnf("failed to revoke session for %s: %v", userID, err)
		}
	}

	return c.JSON(http.StatusAccepted, DeleteResponse{
		ExpungeHours: h.policy.DeletionExpungeHours,
	})
}
