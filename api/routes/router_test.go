package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adiwijaya-dev/shopdash-backend/api/routes"
	"github.com/adiwijaya-dev/shopdash-backend/internal/appstate"
	"github.com/adiwijaya-dev/shopdash-backend/internal/backup"
	"github.com/adiwijaya-dev/shopdash-backend/internal/competitors"
	"github.com/adiwijaya-dev/shopdash-backend/internal/goals"
	"github.com/adiwijaya-dev/shopdash-backend/internal/pricing"
	"github.com/adiwijaya-dev/shopdash-backend/internal/products"
	"github.com/adiwijaya-dev/shopdash-backend/internal/sales"
	"github.com/adiwijaya-dev/shopdash-backend/internal/tasks"
	"github.com/adiwijaya-dev/shopdash-backend/internal/videolog"
	"github.com/adiwijaya-dev/shopdash-backend/internal/worklogs"
	pkgauth "github.com/adiwijaya-dev/shopdash-backend/pkg/auth"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/config"
	pkgerrors "github.com/adiwijaya-dev/shopdash-backend/pkg/errors"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/slotstore"
)

const testToken = "valid-session-token"

var testUserID = uuid.MustParse("7d9f2e61-6a0f-4a27-9a7c-3f4b8c1d2e5a")

type fakeKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.data[key]
	if !ok {
		return "", redis.Nil
	}
	return raw, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeKV) SlotKey(slot string) string { return "sd:slot:" + slot }

type stubVerifier struct{}

func (stubVerifier) Authenticate(_ context.Context, token string) (pkgauth.Identity, error) {
	if token != testToken {
		return pkgauth.Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	return pkgauth.Identity{ID: testUserID, Email: "adi@example.com"}, nil
}

type stubAuthService struct{}

func (stubAuthService) Register(_ context.Context, email, _ string) (pkgauth.Identity, string, error) {
	return pkgauth.Identity{ID: testUserID, Email: email}, testToken, nil
}

func (stubAuthService) Login(_ context.Context, email, password string) (pkgauth.Identity, string, error) {
	if password != "correct-horse" {
		return pkgauth.Identity{}, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	return pkgauth.Identity{ID: testUserID, Email: email}, testToken, nil
}

func (stubAuthService) Logout(context.Context, uuid.UUID) error { return nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "router-test"})
	slots := slotstore.New(newFakeKV(), logg)
	st := appstate.New(context.Background(), slots, logg, nil, config.PersistenceConfig{
		SlotPrefix:   "shopdash",
		SaveDebounce: time.Millisecond,
	}, nil)
	t.Cleanup(st.Close)

	pricingSvc := pricing.NewService(st.Pricing, logg)
	tasksSvc := tasks.NewService(st.Tasks, st.TaskCompletions, logg)

	cfg := &config.Config{}
	cfg.App.Env = "test"

	return routes.NewRouter(cfg, logg, nil, nil, nil, routes.Services{
		Auth:        stubAuthService{},
		Verifier:    stubVerifier{},
		Sales:       sales.NewService(st.Sales, nil, logg),
		Tasks:       tasksSvc,
		WorkLogs:    worklogs.NewService(st.WorkLogs, logg),
		Products:    products.NewService(st.Products, pricingSvc, logg),
		Pricing:     pricingSvc,
		Competitors: competitors.NewService(st.Competitors, logg),
		VideoLogs:   videolog.NewService(st.VideoLogs, tasksSvc, logg),
		Goals:       goals.NewService(st.Goals, logg),
		Backup:      backup.NewService(st, logg),
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-ShopDash-Env"))
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/v1/sales", "/api/v1/tasks", "/api/v1/goals"} {
		rec := doJSON(t, router, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/v1/sales", "wrong-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginIssuesToken(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "adi@example.com",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var session struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeData(t, rec, &session)
	assert.Equal(t, testToken, session.Token)
	assert.Equal(t, "adi@example.com", session.User.Email)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "adi@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, "short password fails validation before the service")
}

func TestSalesRoundTripOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/sales", testToken, map[string]any{
		"id":        "",
		"date":      "2026-08-20",
		"shopId":    "shop-1",
		"penjualan": 1500.0,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/v1/sales", testToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var records []map[string]any
	decodeData(t, rec, &records)
	require.Len(t, records, 1)
	assert.Equal(t, "2026-08-20", records[0]["date"])
}

func TestTaskValidationErrorsSurfaceAsBadRequest(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/tasks", testToken, map[string]any{
		"text": "",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestBackupExportImportOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/goals", testToken, map[string]any{
		"id":    "",
		"title": "omzet 10jt",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/v1/backup/export", testToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc json.RawMessage
	decodeData(t, rec, &doc)

	// Importing without confirmation is refused.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/backup/import", testToken, map[string]any{
		"confirm":  false,
		"document": doc,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/backup/import", testToken, map[string]any{
		"confirm":  true,
		"document": doc,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/v1/goals", testToken, nil)
	var restored []map[string]any
	decodeData(t, rec, &restored)
	require.Len(t, restored, 1)
	assert.Equal(t, "omzet 10jt", restored[0]["title"])
}

func TestVideoLogMarksPostVideoTask(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/videologs", testToken, map[string]any{
		"id":        "",
		"shopId":    "shop-1",
		"date":      "2026-08-20",
		"videoCode": "VID-001",
		"concept":   "unboxing produk baru",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/v1/tasks/completions", testToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var completions []map[string]any
	decodeData(t, rec, &completions)
	require.Len(t, completions, 1)
	assert.Equal(t, true, completions[0]["completed"])
}
