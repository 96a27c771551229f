package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/storeapi-go/auth"
	"github.com/user/storeapi-go/catalog"
	"github.com/user/storeapi-go/config"
	"github.com/user/storeapi-go/metrics"
	"github.com/user/storeapi-go/tasks"
	"github.com/user/storeapi-go/users"
)

func newTestRouter(t *testing.T, health map[string]HealthCheck) http.Handler {
	t.Helper()
	log, _ := test.NewNullLogger()
	raw, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	sqlDB := sqlx.NewDb(raw, "sqlmock")

	tokens := auth.NewTokenManager(&config.AuthConfig{
		JWTSecret:            "test-secret",
		AccessTokenDuration:  time.Minute,
		RefreshTokenDuration: time.Hour,
		AdminUserIDs:         []int64{1},
	})
	blocklist := auth.NewMemoryBlocklist()
	userRepo := auth.NewSQLUserRepository(sqlDB)
	authService := auth.NewAuthService(userRepo, tokens, blocklist, tasks.NewMemoryQueue(1), log)

	return newRouter(routerDeps{
		log:       log,
		metrics:   metrics.New(),
		tokens:    tokens,
		blocklist: blocklist,
		auth:      auth.NewHandlers(authService, tokens, blocklist, nil),
		users:     users.NewUserHandlers(users.NewUserService(userRepo, log)),
		catalog:   catalog.NewHandlers(catalog.NewService(catalog.NewSQLRepository(sqlDB), log)),
		health:    health,
	})
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	healthy := newTestRouter(t, map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
	})
	rec := get(healthy, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"database":"ok"}}`, rec.Body.String())

	broken := newTestRouter(t, map[string]HealthCheck{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	})
	rec = get(broken, "/healthz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","checks":{"database":"ok","redis":"unavailable"}}`, rec.Body.String())
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	r := newTestRouter(t, nil)
	rec := get(r, "/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "The requested URL was not found on the server.", body["message"])
}

func TestProtectedRouteNeedsToken(t *testing.T) {
	r := newTestRouter(t, nil)
	rec := get(r, "/item")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t,
		`{"message":"Request does not contain an access token.","error":"authorization_required"}`,
		rec.Body.String())
}

func TestMetricsEndpointCountsRequests(t *testing.T) {
	r := newTestRouter(t, nil)
	get(r, "/item")

	rec := get(r, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Regexp(t, `storeapi_http_requests_total\{method="GET",route="/item/?",status="401"\} 1`, rec.Body.String())
}

func TestSwaggerDocIsServed(t *testing.T) {
	r := newTestRouter(t, nil)
	rec := get(r, "/swagger/doc.json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/item/{item_id}/tag/{tag_id}"`)
}

func TestRecoverJSON(t *testing.T) {
	log, _ := test.NewNullLogger()
	h := recoverJSON(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}
