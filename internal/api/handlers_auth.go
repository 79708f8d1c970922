package api

import (
	"errors"
	"time"

	"github.com/YahyaMS/sukari/internal/models"
	"github.com/YahyaMS/sukari/internal/services"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const (
	loginAttemptsLimit     = 10
	loginAttemptsWindow    = 15 * time.Minute
	recoveryAttemptsLimit  = 8
	recoveryAttemptsWindow = 15 * time.Minute
)

func (handler *Handler) Register(c *fiber.Ctx) error {
	input := credentialsInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	email, password, err := services.NormalizeCredentialsInput(input.Email, input.Password)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := services.ValidatePasswordStrength(password); err != nil {
		return apiError(c, fiber.StatusBadRequest, "weak password")
	}

	exists, err := handler.authService.RegistrationEmailExists(email)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create account")
	}
	if exists {
		return apiError(c, fiber.StatusConflict, "email already exists")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to secure password")
	}

	recoveryCode, recoveryHash, err := services.GenerateRecoveryCodeHash()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create recovery code")
	}

	user := models.User{
		Email:            email,
		PasswordHash:     string(passwordHash),
		RecoveryCodeHash: recoveryHash,
		DisplayName:      input.DisplayName,
		CreatedAt:        time.Now().In(handler.location),
	}
	if err := handler.authService.CreateUser(&user); err != nil {
		return apiError(c, fiber.StatusConflict, "email already exists")
	}

	if err := handler.setAuthCookie(c, user.ID, true); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	// The recovery code is shown exactly once; only its hash is stored.
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ok":            true,
		"recovery_code": recoveryCode,
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	now := time.Now().In(handler.location)
	key := clientKey(c)
	if handler.loginThrottle.blocked(key, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	input := credentialsInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	email, password, err := services.NormalizeCredentialsInput(input.Email, input.Password)
	if err != nil {
		handler.loginThrottle.recordFailure(key, now)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	user, err := handler.authService.FindByNormalizedEmail(email)
	if err != nil {
		handler.loginThrottle.recordFailure(key, now)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		handler.loginThrottle.recordFailure(key, now)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	handler.loginThrottle.clear(key)
	if err := handler.setAuthCookie(c, user.ID, input.RememberMe); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) ForgotPassword(c *fiber.Ctx) error {
	now := time.Now().In(handler.location)
	key := clientKey(c)
	if handler.recoveryThrottle.blocked(key, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many recovery attempts")
	}

	input := forgotPasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		handler.recoveryThrottle.recordFailure(key, now)
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	code := services.NormalizeRecoveryCode(input.RecoveryCode)
	if err := services.ValidateRecoveryCodeFormat(code); err != nil {
		handler.recoveryThrottle.recordFailure(key, now)
		return apiError(c, fiber.StatusBadRequest, "invalid recovery code")
	}

	user, err := handler.authService.FindUserByRecoveryCode(code)
	if err != nil {
		handler.recoveryThrottle.recordFailure(key, now)
		if errors.Is(err, services.ErrRecoveryCodeNotFound) {
			return apiError(c, fiber.StatusUnauthorized, "invalid recovery code")
		}
		return apiError(c, fiber.StatusInternalServerError, "failed to verify recovery code")
	}

	token, err := services.BuildPasswordResetToken(handler.secretKey, user.ID, user.PasswordHash, 30*time.Minute, now)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create reset token")
	}

	handler.recoveryThrottle.clear(key)
	return c.JSON(fiber.Map{"reset_token": token})
}

func (handler *Handler) ResetPassword(c *fiber.Ctx) error {
	input := resetPasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := services.ValidatePasswordStrength(input.Password); err != nil {
		return apiError(c, fiber.StatusBadRequest, "weak password")
	}

	user, err := handler.authService.ResolveUserByResetToken(handler.secretKey, input.Token, time.Now())
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "invalid or expired reset token")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to secure password")
	}
	if err := handler.authService.UpdatePassword(user.ID, string(passwordHash)); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to update password")
	}

	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(fiber.Map{
		"id":           user.ID,
		"email":        user.Email,
		"display_name": user.DisplayName,
	})
}
