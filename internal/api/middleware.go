package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/YahyaMS/sukari/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	authCookieName = "sukari_auth"
	contextUserKey = "current_user"
)

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	c.Locals(contextUserKey, user)
	return c.Next()
}

// authenticateRequest resolves the auth cookie to a user. The token carries
// the user id in the standard subject claim; signature, method, and expiry
// checks are delegated to the jwt parser.
func (handler *Handler) authenticateRequest(c *fiber.Ctx) (*models.User, error) {
	rawToken := strings.TrimSpace(c.Cookies(authCookieName))
	if rawToken == "" {
		return nil, errors.New("missing auth cookie")
	}

	claims := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(rawToken, claims,
		func(*jwt.Token) (interface{}, error) { return handler.secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	); err != nil {
		return nil, err
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || userID == 0 {
		return nil, errors.New("invalid token subject")
	}

	user, err := handler.authService.FindByID(uint(userID))
	if err != nil {
		return nil, err
	}
	return &user, nil
}
