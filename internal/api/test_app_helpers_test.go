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

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/flowbit/internal/db"
	"github.com/terraincognita07/flowbit/internal/i18n"
	"github.com/terraincognita07/flowbit/internal/logging"
	"github.com/terraincognita07/flowbit/internal/security"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testClock struct {
	now time.Time
}

func (clock *testClock) Now() time.Time {
	return clock.now
}

func (clock *testClock) Advance(duration time.Duration) {
	clock.now = clock.now.Add(duration)
}

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *testClock) {
	t.Helper()

	logger := logging.Discard()
	databasePath := filepath.Join(t.TempDir(), "flowbit-api-test.db")
	database, err := db.OpenSQLite(databasePath, logger)
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

	i18nManager, err := i18n.NewManager(i18n.LangEN, i18n.EmbeddedLocales())
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}
	hasher, err := security.NewPasswordHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("init hasher: %v", err)
	}

	handler, err := NewHandler(database, hasher, i18nManager, logger)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}
	clock := &testClock{now: time.Date(2025, time.October, 1, 9, 0, 0, 0, time.UTC)}
	handler.WithClock(clock.Now)

	app := fiber.New()
	app.Use(handler.LanguageMiddleware)
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app, database, clock
}

func doJSON(t *testing.T, app *fiber.App, method string, path string, payload any) (int, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		body = bytes.NewReader(encoded)
	}
	request := httptest.NewRequest(method, path, body)
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept-Language", "en")

	return sendRequest(t, app, request)
}

func sendRequest(t *testing.T, app *fiber.App, request *http.Request) (int, map[string]any) {
	t.Helper()

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", request.Method, request.URL.Path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	decoded := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode response body %q: %v", raw, err)
		}
	}
	return response.StatusCode, decoded
}

func registerPayload() map[string]string {
	return map[string]string{
		"email":         "a@x.com",
		"handle":        "alice",
		"password":      "secret1",
		"first_name":    "Alice",
		"last_name":     "Liddell",
		"secret_answer": "blue",
	}
}

func mustRegister(t *testing.T, app *fiber.App) {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/register", registerPayload())
	if status != http.StatusCreated {
		t.Fatalf("expected register status 201, got %d: %v", status, body)
	}
}

func login(t *testing.T, app *fiber.App, password string) (int, map[string]any) {
	t.Helper()
	return doJSON(t, app, http.MethodPost, "/api/login", map[string]string{
		"identifier": "alice",
		"password":   password,
	})
}
