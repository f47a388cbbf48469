package integration__test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/geocoder89/sportsbuddy/internal/app"
	"github.com/geocoder89/sportsbuddy/internal/cache"
	"github.com/geocoder89/sportsbuddy/internal/db"
	apphttp "github.com/geocoder89/sportsbuddy/internal/http"
	"github.com/geocoder89/sportsbuddy/internal/observer"
	"github.com/geocoder89/sportsbuddy/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-password"
	signupCode    = "let-me-in"
)

type apiErrorResponse struct {
	Error struct {
		Code      string          `json:"code"`
		Message   string          `json:"message"`
		RequestID string          `json:"requestId"`
		Details   json.RawMessage `json:"details"`
	} `json:"error"`
}

type testApp struct {
	router *gin.Engine
	ring   *observer.Ring
}

// ringObserver records synchronously so assertions see entries at once.
type ringObserver struct{ ring *observer.Ring }

func (o ringObserver) Record(ctx context.Context, level observer.Level, message, action string, details map[string]any) {
	_ = o.ring.Write(ctx, observer.Entry{Level: level, Message: message, Action: action, Details: details, Timestamp: time.Now().UTC()})
}

// storesUnderTest runs against PostgreSQL when TEST_DB_DSN is set and on the
// in-memory adapter otherwise.
func storesUnderTest(t *testing.T) app.Stores {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		return app.MemoryStores()
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to create pgx pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	_, err = pool.Exec(ctx, `TRUNCATE events, team_registrations, users, sports_categories, cities, areas, activity_log RESTART IDENTITY`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}

	return app.PostgresStores(pool, nil)
}

func setupTestApp(t *testing.T) testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if err := validation.RegisterGin(); err != nil {
		t.Fatalf("register validators: %v", err)
	}

	stores := storesUnderTest(t)
	ring := observer.NewRing(200)
	obs := ringObserver{ring: ring}
	shared := cache.NewMemory(time.Minute)

	svc := app.NewServices(stores, app.Options{
		JWTSecret:       "test-secret-key",
		AccessTTL:       time.Hour,
		AdminSignupCode: signupCode,
		Cache:           shared,
		Observer:        obs,
	})

	if _, err := svc.Seed(context.Background(), adminEmail, adminPassword, "Test Admin", ""); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Basic logger that discards outputs during tests
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	router := apphttp.NewRouter(apphttp.Deps{
		Log:           logger,
		Catalog:       svc.Catalog,
		Registrations: svc.Registrations,
		Reference:     svc.Reference,
		Provider:      svc.Provider,
		Tokens:        svc.Tokens,
		Revocations:   svc.Revocations,
		Users:         stores.Users,
		ListCache:     shared,
		ListCacheTTL:  time.Minute,
		Observer:      obs,
		Activity:      ring,
		AuthRateLimit: 1000,
	})

	return testApp{router: router, ring: ring}
}

func (a testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a testApp) expect(t *testing.T, w *httptest.ResponseRecorder, status int, out any) {
	t.Helper()

	if w.Code != status {
		t.Fatalf("expected %d, got %d body=%s", status, w.Code, w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("decode: %v body=%s", err, w.Body.String())
		}
	}
}

func (a testApp) login(t *testing.T, path, email, password string) string {
	t.Helper()

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	a.expect(t, a.do(t, http.MethodPost, path, "", map[string]string{"email": email, "password": password}), http.StatusOK, &resp)
	return resp.AccessToken
}

func (a testApp) signUp(t *testing.T, body map[string]any) string {
	t.Helper()

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	a.expect(t, a.do(t, http.MethodPost, "/auth/signup", "", body), http.StatusCreated, &resp)
	return resp.AccessToken
}
