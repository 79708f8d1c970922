package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func (handler *Handler) setAuthCookie(c *fiber.Ctx, userID uint, rememberMe bool) error {
	ttl := defaultAuthTokenTTL
	if rememberMe {
		ttl = rememberAuthTokenTTL
	}

	token, err := handler.signAuthToken(userID, ttl)
	if err != nil {
		return err
	}

	// Session cookie unless the user opted into being remembered.
	var expires time.Time
	if rememberMe {
		expires = time.Now().Add(ttl)
	}
	handler.writeAuthCookie(c, token, expires)
	return nil
}

func (handler *Handler) clearAuthCookie(c *fiber.Ctx) {
	handler.writeAuthCookie(c, "", time.Now().Add(-time.Hour))
}

func (handler *Handler) writeAuthCookie(c *fiber.Ctx, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
	})
}

func (handler *Handler) signAuthToken(userID uint, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(handler.secretKey)
}
