package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/haiminh-dev/projecthub/internal/middleware"
	"github.com/haiminh-dev/projecthub/internal/services"
)

// RefreshCookieName is the http-only cookie carrying the refresh token.
const RefreshCookieName = "refresh_token"

const refreshCookiePath = "/api/v1/auth"

// forgotPasswordReply is returned for every forgot-password request so the
// response does not reveal whether the email exists.
const forgotPasswordReply = "if that account exists, a reset link has been sent"

type AuthHandler struct {
	svc        *services.AuthService
	refreshTTL time.Duration
	log        *zap.Logger
}

func NewAuthHandler(svc *services.AuthService, refreshTTL time.Duration, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, refreshTTL: refreshTTL, log: log}
}

type registerReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Age      int    `json:"age" validate:"omitempty,gte=0"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerReq
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}

	user, pair, err := h.svc.Register(c.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": services.ErrEmailTaken.Error()})
		}
		return h.internal(c, "register failed", err)
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":         user,
		"access_token": pair.AccessToken,
	})
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginReq
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}

	user, pair, err := h.svc.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": services.ErrInvalidCredentials.Error()})
		}
		return h.internal(c, "login failed", err)
	}

	h.setRefreshCookie(c, pair.RefreshToken)
	return c.JSON(fiber.Map{
		"user":         user,
		"access_token": pair.AccessToken,
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	access, err := h.svc.Refresh(c.Context(), c.Cookies(RefreshCookieName))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingToken),
			errors.Is(err, services.ErrTokenInvalid),
			errors.Is(err, services.ErrTokenMismatch):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}
		return h.internal(c, "refresh failed", err)
	}
	return c.JSON(fiber.Map{"access_token": access})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.svc.Logout(c.Context(), user.ID.Hex()); err != nil {
		return h.internal(c, "logout failed", err)
	}
	h.clearRefreshCookie(c)
	return c.JSON(fiber.Map{"message": "logged out"})
}

type forgotPasswordReq struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordReq
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}

	err := h.svc.ForgotPassword(c.Context(), req.Email)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrEmailDelivery):
		// Same reply either way; the details stay in the logs.
		h.log.Info("forgot-password not completed", zap.Error(err))
	default:
		return h.internal(c, "forgot-password failed", err)
	}
	return c.JSON(fiber.Map{"message": forgotPasswordReply})
}

type resetPasswordReq struct {
	Password string `json:"password" validate:"required,min=6"`
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordReq
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}

	if err := h.svc.ResetPassword(c.Context(), c.Params("token"), req.Password); err != nil {
		if errors.Is(err, services.ErrTokenInvalid) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": services.ErrTokenInvalid.Error()})
		}
		return h.internal(c, "reset-password failed", err)
	}
	return c.JSON(fiber.Map{"message": "password updated"})
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"user": middleware.CurrentUser(c)})
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		Expires:  time.Now().Add(h.refreshTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (h *AuthHandler) internal(c *fiber.Ctx, msg string, err error) error {
	h.log.Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
