package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"accountd/internal/caching"
	"accountd/internal/config"
	"accountd/internal/models"
	"accountd/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	signupRateLimit  = 20
	signupRateWindow = time.Minute
)

// SignupHandlers handles account creation and email confirmation.
type SignupHandlers struct {
	signupSvc  services.SignupService
	codeSvc    services.SignupCodeService
	confirmSvc services.ConfirmationService
	signupVal  *services.SignupValidator
	validate   *validator.Validate
	cache      caching.CacheService
	policy     config.AccountPolicy
}

func NewSignupHandlers(signupSvc services.SignupService, codeSvc services.SignupCodeService,
	confirmSvc services.ConfirmationService, signupVal *services.SignupValidator,
	cache caching.CacheService, policy config.AccountPolicy) *SignupHandlers {
	return &SignupHandlers{
		signupSvc:  signupSvc,
		codeSvc:    codeSvc,
		confirmSvc: confirmSvc,
		signupVal:  signupVal,
		validate:   NewValidator(),
		cache:      cache,
		policy:     policy,
	}
}

// SignupRequest represents the signup request payload.
type SignupRequest struct {
	Username        string `json:"username" validate:"required,max=30"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Code            string `json:"code" validate:"omitempty,max=64"`
}

// SignupResponse represents the signup response.
type SignupResponse struct {
	ConfirmationEmailSent     bool `json:"confirmation_email_sent"`
	EmailConfirmationRequired bool `json:"email_confirmation_required"`
}

// Signup handles account registration.
func (h *SignupHandlers) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	limited, err := h.cache.IsRateLimited(ctx, "signup:"+c.RealIP(), signupRateLimit, signupRateWindow)
	if err != nil {
		logrus.Warnf("signup rate limit check failed: %v", err)
	} else if limited {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many signup attempts")
	}

	fieldErrs := services.FieldErrors{}
	collectValidationErrors(h.validate.Struct(&req), fieldErrs)

	if len(fieldErrs["username"]) == 0 {
		msg, err := h.signupVal.CleanUsername(ctx, req.Username)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to validate username")
		}
		if msg != "" {
			fieldErrs.Add("username", msg)
		}
	}
	if len(fieldErrs["email"]) == 0 {
		msg, err := h.signupVal.CleanEmail(ctx, req.Email)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to validate email")
		}
		if msg != "" {
			fieldErrs.Add("email", msg)
		}
	}
	if msg := h.signupVal.ComparePasswords(req.Password, req.PasswordConfirm); msg != "" {
		fieldErrs.Add(services.NonFieldErrors, msg)
	}

	var code *models.SignupCode
	if req.Code != "" {
		code, err = h.codeSvc.CheckCode(ctx, req.Code)
		if err != nil {
			if errors.Is(err, services.ErrInvalidSignupCode) {
				fieldErrs.Add("code", fmt.Sprintf("The code %s is invalid.", req.Code))
			} else {
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check signup code")
			}
		}
	}

	if !h.policy.OpenSignup && code == nil && len(fieldErrs["code"]) == 0 {
		fieldErrs.Add(services.NonFieldErrors, "Signup is currently closed.")
	}

	if len(fieldErrs) > 0 {
		return c.JSON(http.StatusBadRequest, fieldErrs)
	}

	_, addr, err := h.signupSvc.Signup(ctx, req.Username, req.Email, req.Password, code)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSignupCode):
			return c.JSON(http.StatusBadRequest, services.FieldErrors{
				"code": {fmt.Sprintf("The code %s is invalid.", req.Code)},
			})
		case errors.Is(err, services.ErrUserExists):
			return c.JSON(http.StatusBadRequest, services.FieldErrors{
				"username": {"This username is already taken. Please choose another."},
			})
		case errors.Is(err, services.ErrEmailTaken):
			return c.JSON(http.StatusBadRequest, services.FieldErrors{
				"email": {"A user is registered with this email address."},
			})
		}
		logrus.Errorf("signup failed for %s: %v", req.Username, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create account")
	}

	resp := SignupResponse{}
	if h.policy.EmailConfirmationEmail && !addr.Verified {
		if err := h.confirmSvc.Start(ctx, addr); err != nil {
			logrus.Warnf("failed to send confirmation email to %s: %v", addr.Email, err)
		} else {
			resp.ConfirmationEmailSent = true
		}
	}
	if h.policy.EmailConfirmationRequired && !addr.Verified {
		resp.EmailConfirmationRequired = true
	}

	return c.JSON(http.StatusCreated, resp)
}

// ConfirmRequest represents the email confirmation payload.
type ConfirmRequest struct {
	Token string `json:"token" validate:"required"`
}

// Confirm consumes an email confirmation token.
func (h *SignupHandlers) Confirm(c echo.Context) error {
	ctx := c.Request().Context()

	var req ConfirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	fieldErrs := services.FieldErrors{}
	if collectValidationErrors(h.validate.Struct(&req), fieldErrs) {
		return c.JSON(http.StatusBadRequest, fieldErrs)
	}

	addr, err := h.confirmSvc.Confirm(ctx, req.Token)
	if err != nil {
		if errors.Is(err, services.ErrInvalidConfirmationToken) {
			return c.JSON(http.StatusBadRequest, services.FieldErrors{
				"token": {"The confirmation token is invalid or has expired."},
			})
		}
		logrus.Errorf("email confirmation failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to confirm email address")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"email":    addr.Email,
		"verified": addr.Verified,
	})
}
