package handlers

import (
	"errors"
	"net/http"

	"accountd/internal/common"
	"accountd/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// SettingsHandlers handles the authenticated settings endpoints.
type SettingsHandlers struct {
	settingsSvc services.SettingsService
	validate    *validator.Validate
}

func NewSettingsHandlers(settingsSvc services.SettingsService) *SettingsHandlers {
	return &SettingsHandlers{
		settingsSvc: settingsSvc,
		validate:    NewValidator(),
	}
}

// SettingsRequest represents the settings update payload. Omitted
// fields keep their current values.
type SettingsRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Timezone *string `json:"timezone"`
	Language *string `json:"language"`
}

// Get returns the caller's current settings.
func (h *SettingsHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "Authentication credentials were not provided")
	}

	view, err := h.settingsSvc.SettingsFor(ctx, userID)
	if err != nil {
		logrus.Errorf("settings lookup failed for %s: %v", userID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load settings")
	}
	return c.JSON(http.StatusOK, view)
}

// Put updates the caller's settings.
func (h *SettingsHandlers) Put(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "Authentication credentials were not provided")
	}

	var req SettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	fieldErrs := services.FieldErrors{}
	if collectValidationErrors(h.validate.Struct(&req), fieldErrs) {
		return c.JSON(http.StatusBadRequest, fieldErrs)
	}

	view, err := h.settingsSvc.Update(ctx, userID, services.SettingsUpdate{
		Email:    req.Email,
		Timezone: req.Timezone,
		Language: req.Language,
	})
	if err != nil {
		var validationErrs services.FieldErrors
		switch {
		case errors.As(err, &validationErrs):
			return c.JSON(http.StatusBadRequest, validationErrs)
		case errors.Is(err, services.ErrEmailTaken):
			return c.JSON(http.StatusBadRequest, services.FieldErrors{
				"email": {"A user is registered with this email address."},
			})
		}
		logrus.Errorf("settings update failed for %s: %v", userID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update settings")
	}

	return c.JSON(http.StatusOK, view)
}
