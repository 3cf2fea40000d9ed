package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio/api/analytics"
	"portfolio/api/config"
	"portfolio/api/handlers"
	"portfolio/api/middleware"
	"portfolio/api/utils"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.RegisterValidators()

	cfg := &config.Config{Server: config.ServerConfig{AllowedOrigins: "http://localhost:3000"}}
	secret := []byte("0123456789abcdef0123456789abcdef")
	authenticator := middleware.NewAuthenticator(secret, "")
	limiter := middleware.NewIPRateLimiter(0.001, 1)
	t.Cleanup(limiter.Stop)

	// Repositories are nil: these tests only reach paths that stop before the service.
	service := analytics.NewService(nil, nil, nil, config.EventsBackendPostgres)

	r, err := newRouter(routerDeps{
		cfg:           cfg,
		analytics:     handlers.NewAnalyticsHandlers(service),
		projects:      handlers.NewProjectHandlers(service),
		auth:          handlers.NewAuthHandlers(nil, authenticator, secret, time.Hour, false),
		health:        handlers.NewHealthHandlers(map[string]handlers.Pinger{}),
		authenticator: authenticator,
		limiter:       limiter,
	})
	if err != nil {
		t.Fatalf("newRouter() error = %v", err)
	}
	return r
}

func TestDashboardRoutesRequireAuth(t *testing.T) {
	r := testRouter(t)

	for _, path := range []string{"dashboard", "projects", "trends", "top-pages", "events", "event-counts"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/analytics/"+path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("GET /api/analytics/%s status = %d, want 401", path, w.Code)
		}
	}
}

func TestTrackingRoutesAreRateLimited(t *testing.T) {
	r := testRouter(t)

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/analytics/event", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if got := send(); got != http.StatusBadRequest {
		t.Fatalf("first request status = %d, want 400", got)
	}
	if got := send(); got != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", got)
	}
}

func TestHealthAndMetricsAreOpen(t *testing.T) {
	r := testRouter(t)

	for _, path := range []string{"/health", "/metrics"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, w.Code)
		}
	}
}
