package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/YahyaMS/sukari/internal/db"
	"github.com/YahyaMS/sukari/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	databasePath := filepath.Join(t.TempDir(), "sukari-test.db")
	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	handler := NewHandler(database, []byte("0123456789abcdef0123456789abcdef"), time.UTC, false, collector)

	app := fiber.New()
	RegisterRoutes(app, handler, registry)
	return app, database
}

func jsonRequest(t *testing.T, app *fiber.App, authCookie string, method string, path string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if authCookie != "" {
		request.Header.Set("Cookie", authCookie)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

func decodeJSONBody(t *testing.T, response *http.Response) map[string]any {
	t.Helper()
	defer response.Body.Close()

	decoded := map[string]any{}
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return decoded
}

func registerTestUser(t *testing.T, app *fiber.App, email string, password string) (authCookie string, recoveryCode string) {
	t.Helper()

	response := jsonRequest(t, app, "", http.MethodPost, "/api/auth/register", fiber.Map{
		"email":    email,
		"password": password,
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected register status 201, got %d", response.StatusCode)
	}

	for _, cookie := range response.Cookies() {
		if cookie.Name == authCookieName && cookie.Value != "" {
			authCookie = cookie.Name + "=" + cookie.Value
		}
	}
	if authCookie == "" {
		t.Fatal("auth cookie missing in register response")
	}

	body := decodeJSONBody(t, response)
	recoveryCode, _ = body["recovery_code"].(string)
	if recoveryCode == "" {
		t.Fatal("recovery code missing in register response")
	}
	return authCookie, recoveryCode
}

func startTestSession(t *testing.T, app *fiber.App, authCookie string, planType string) string {
	t.Helper()

	response := jsonRequest(t, app, authCookie, http.MethodPost, "/api/fasting/sessions", fiber.Map{
		"plan_type":       planType,
		"readiness_score": 85,
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("expected session start status 201, got %d", response.StatusCode)
	}

	body := decodeJSONBody(t, response)
	session, _ := body["session"].(map[string]any)
	sessionID, _ := session["id"].(string)
	if sessionID == "" {
		t.Fatal("session id missing in start response")
	}
	return sessionID
}
