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

// InviteHandlers handles user-initiated invitation codes.
type InviteHandlers struct {
	codeSvc  services.SignupCodeService
	validate *validator.Validate
}

func NewInviteHandlers(codeSvc services.SignupCodeService) *InviteHandlers {
	return &InviteHandlers{
		codeSvc:  codeSvc,
		validate: NewValidator(),
	}
}

// InviteRequest represents the invite creation payload.
type InviteRequest struct {
	Email       string `json:"email" validate:"omitempty,email"`
	Code        string `json:"code" validate:"omitempty,max=64"`
	CheckExists bool   `json:"check_exists"`
	Expiry      int    `json:"expiry" validate:"omitempty,min=1"`
	MaxUses     int    `json:"max_uses" validate:"omitempty,min=1"`
	Notes       string `json:"notes" validate:"omitempty,max=500"`
	Send        bool   `json:"send"`
	SignupURL   string `json:"signup_url" validate:"omitempty,url"`
}

// Create handles invite code creation for an authenticated inviter.
func (h *InviteHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()

	inviterID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "Authentication credentials were not provided")
	}

	var req InviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	fieldErrs := services.FieldErrors{}
	if collectValidationErrors(h.validate.Struct(&req), fieldErrs) {
		return c.JSON(http.StatusBadRequest, fieldErrs)
	}

	code, err := h.codeSvc.Create(ctx, services.SignupCodeParams{
		Email:       req.Email,
		Code:        req.Code,
		CheckExists: req.CheckExists,
		ExpiryHours: req.Expiry,
		MaxUses:     req.MaxUses,
		Notes:       req.Notes,
		InviterID:   &inviterID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSignupCodeExists):
			return c.JSON(http.StatusBadRequest, map[string]string{
				"msg": "Invite Code already exists for email address",
			})
		case errors.Is(err, services.ErrEmailTaken):
			return c.JSON(http.StatusBadRequest, services.FieldErrors{
				"email": {"A user is registered with this email address."},
			})
		}
		logrus.Errorf("invite creation failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create invite code")
	}

	if req.Send && code.Email != nil {
		if err := h.codeSvc.Send(ctx, code, req.SignupURL); err != nil {
			logrus.Warnf("failed to send invite to %s: %v", *code.Email, err)
		}
	}

	return c.JSON(http.StatusCreated, code)
}
