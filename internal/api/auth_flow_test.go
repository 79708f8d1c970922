package api

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestRegisterLoginLogoutFlow(t *testing.T) {
	app, _ := newTestApp(t)

	authCookie, _ := registerTestUser(t, app, "user@example.com", "StrongPass1")

	response := jsonRequest(t, app, authCookie, http.MethodGet, "/api/auth/me", nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected me status 200, got %d", response.StatusCode)
	}
	body := decodeJSONBody(t, response)
	if body["email"] != "user@example.com" {
		t.Fatalf("expected own email in me response, got %v", body["email"])
	}

	response = jsonRequest(t, app, "", http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    " USER@EXAMPLE.COM ",
		"password": "StrongPass1",
	})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected login status 200, got %d", response.StatusCode)
	}
	response.Body.Close()

	response = jsonRequest(t, app, authCookie, http.MethodPost, "/api/auth/logout", nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected logout status 200, got %d", response.StatusCode)
	}
	response.Body.Close()

	response = jsonRequest(t, app, "", http.MethodGet, "/api/auth/me", nil)
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected me without cookie to be 401, got %d", response.StatusCode)
	}
	response.Body.Close()
}

func TestRegisterValidation(t *testing.T) {
	app, _ := newTestApp(t)

	response := jsonRequest(t, app, "", http.MethodPost, "/api/auth/register", fiber.Map{
		"email":    "user@example.com",
		"password": "weak",
	})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected weak password to be 400, got %d", response.StatusCode)
	}
	response.Body.Close()

	response = jsonRequest(t, app, "", http.MethodPost, "/api/auth/register", fiber.Map{
		"email":    "not-an-email",
		"password": "StrongPass1",
	})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected invalid email to be 400, got %d", response.StatusCode)
	}
	response.Body.Close()

	registerTestUser(t, app, "taken@example.com", "StrongPass1")
	response = jsonRequest(t, app, "", http.MethodPost, "/api/auth/register", fiber.Map{
		"email":    "taken@example.com",
		"password": "StrongPass1",
	})
	if response.StatusCode != http.StatusConflict {
		t.Fatalf("expected duplicate email to be 409, got %d", response.StatusCode)
	}
	response.Body.Close()
}

func TestLoginInvalidCredentials(t *testing.T) {
	app, _ := newTestApp(t)
	registerTestUser(t, app, "user@example.com", "StrongPass1")

	response := jsonRequest(t, app, "", http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    "user@example.com",
		"password": "WrongPass1",
	})
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected wrong password to be 401, got %d", response.StatusCode)
	}
	response.Body.Close()

	response = jsonRequest(t, app, "", http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    "nobody@example.com",
		"password": "StrongPass1",
	})
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unknown user to be 401, got %d", response.StatusCode)
	}
	response.Body.Close()
}

func TestPasswordRecoveryFlow(t *testing.T) {
	app, _ := newTestApp(t)
	_, recoveryCode := registerTestUser(t, app, "user@example.com", "StrongPass1")

	response := jsonRequest(t, app, "", http.MethodPost, "/api/auth/forgot-password", fiber.Map{
		"recovery_code": recoveryCode,
	})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected forgot-password status 200, got %d", response.StatusCode)
	}
	body := decodeJSONBody(t, response)
	resetToken, _ := body["reset_token"].(string)
	if resetToken == "" {
		t.Fatal("reset token missing in forgot-password response")
	}

	response = jsonRequest(t, app, "", http.MethodPost, "/api/auth/reset-password", fiber.Map{
		"token":    resetToken,
		"password": "NewStrongPass2",
	})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected reset-password status 200, got %d", response.StatusCode)
	}
	response.Body.Close()

	// The old password no longer works; the new one does.
	response = jsonRequest(t, app, "", http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    "user@example.com",
		"password": "StrongPass1",
	})
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected old password to be rejected, got %d", response.StatusCode)
	}
	response.Body.Close()

	response = jsonRequest(t, app, "", http.MethodPost, "/api/auth/login", fiber.Map{
		"email":    "user@example.com",
		"password": "NewStrongPass2",
	})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected new password to log in, got %d", response.StatusCode)
	}
	response.Body.Close()

	// A used token points at a stale password state and cannot be replayed.
	response = jsonRequest(t, app, "", http.MethodPost, "/api/auth/reset-password", fiber.Map{
		"token":    resetToken,
		"password": "AnotherPass3",
	})
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected replayed reset token to be 401, got %d", response.StatusCode)
	}
	response.Body.Close()
}

func TestForgotPasswordRejectsBadCode(t *testing.T) {
	app, _ := newTestApp(t)
	registerTestUser(t, app, "user@example.com", "StrongPass1")

	response := jsonRequest(t, app, "", http.MethodPost, "/api/auth/forgot-password", fiber.Map{
		"recovery_code": "SUKARI-AAAA-BBBB-CCCC",
	})
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unknown recovery code to be 401, got %d", response.StatusCode)
	}
	response.Body.Close()

	response = jsonRequest(t, app, "", http.MethodPost, "/api/auth/forgot-password", fiber.Map{
		"recovery_code": "bogus",
	})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected malformed recovery code to be 400, got %d", response.StatusCode)
	}
	response.Body.Close()
}
