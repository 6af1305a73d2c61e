package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotebox/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotebox/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotebox/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotebox/internal/adapters/storage/memory"
	"github.com/jsamuelsen/quotebox/internal/app"
	"github.com/jsamuelsen/quotebox/internal/mocks"
	"github.com/jsamuelsen/quotebox/internal/platform/config"
	"github.com/jsamuelsen/quotebox/internal/platform/metrics"
	"github.com/jsamuelsen/quotebox/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testServerConfig(maxRequestSize int64) *config.ServerConfig {
	return &config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		MaxRequestSize:  maxRequestSize,
	}
}

// setupTestRouter wires the full middleware chain over a memory store.
func setupTestRouter(t *testing.T, auth *config.AuthConfig, maxRequestSize int64) *gin.Engine {
	t.Helper()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	registry := mocks.NewMockHealthRegistry(t)
	registry.EXPECT().CheckAll(mock.Anything).
		Return(&ports.HealthResult{Status: ports.HealthStatusHealthy, Checks: map[string]*ports.CheckResult{}}).Maybe()

	quotes := app.NewQuoteService(app.QuoteServiceConfig{
		Store:   memory.New(),
		Metrics: m,
		Logger:  discardLogger(),
		Rand:    func(int) int { return 0 },
	})

	remote := mocks.NewMockRemoteQuoteSource(t)
	syncs := app.NewSyncService(app.SyncServiceConfig{Quotes: quotes, Remote: remote, Logger: discardLogger()})

	srv := New(testServerConfig(maxRequestSize), discardLogger())
	SetupRouter(srv.Engine(), RouterConfig{
		Logger:        discardLogger(),
		AuthConfig:    auth,
		AppConfig:     &config.AppConfig{Name: "quotebox", Version: "test", Environment: "test"},
		HealthHandler: handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "abc", "now"), reg),
		QuoteHandler:  handlers.NewQuoteHandler(quotes),
		SyncHandler:   handlers.NewSyncHandler(syncs),
		Timeout:       DefaultRequestTimeout,
	})

	return srv.Engine()
}

func TestSetupRouter_Routes(t *testing.T) {
	engine := setupTestRouter(t, &config.AuthConfig{}, 1<<20)

	got := map[string]bool{}
	for _, r := range engine.Routes() {
		got[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /-/live",
		"GET /-/ready",
		"GET /-/build",
		"GET /-/metrics",
		"GET /api/v1/quotes",
		"POST /api/v1/quotes",
		"GET /api/v1/quotes/random",
		"GET /api/v1/quotes/export",
		"POST /api/v1/quotes/import",
		"GET /api/v1/categories",
		"PUT /api/v1/categories/selected",
		"GET /api/v1/session/last-quote",
		"POST /api/v1/sync",
		"GET /api/v1/sync/status",
	} {
		assert.True(t, got[want], "missing route %s", want)
	}
}

func TestSetupRouter_EchoesIDs(t *testing.T) {
	engine := setupTestRouter(t, &config.AuthConfig{}, 1<<20)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quotes/random", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderCorrelationID))
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderSessionID))

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/live", nil))

	assert.Empty(t, w.Header().Get(middleware.HeaderSessionID), "sessions are an API concern")
}

func TestSetupRouter_SessionsAreSeparate(t *testing.T) {
	engine := setupTestRouter(t, &config.AuthConfig{}, 1<<20)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/quotes/random", nil)
	req.Header.Set(middleware.HeaderSessionID, "alice")
	engine.ServeHTTP(httptest.NewRecorder(), req)

	for session, want := range map[string]int{"alice": http.StatusOK, "bob": http.StatusNotFound} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/session/last-quote", nil)
		req.Header.Set(middleware.HeaderSessionID, session)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, want, w.Code, session)
	}
}

func TestSetupRouter_AuthGuardsWrites(t *testing.T) {
	engine := setupTestRouter(t, &config.AuthConfig{
		Enabled:       true,
		WriteRole:     "editor",
		RolesHeader:   "X-User-Roles",
		SubjectHeader: "X-User-ID",
	}, 1<<20)

	add := func(roles string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes",
			strings.NewReader(`{"text":"Stay hungry.","category":"Motivation"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", "u1")
		req.Header.Set("X-User-Roles", roles)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		return w.Code
	}

	assert.Equal(t, http.StatusForbidden, add("viewer"))
	assert.Equal(t, http.StatusCreated, add("editor"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	assert.Equal(t, http.StatusOK, w.Code, "reads stay open")

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSetupRouter_MetricsAfterAdd(t *testing.T) {
	engine := setupTestRouter(t, &config.AuthConfig{}, 1<<20)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes",
		strings.NewReader(`{"text":"Stay hungry.","category":"Motivation"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/-/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "quotebox_quotes_added_total 1")
}

func TestServer_ImportBodyLimit(t *testing.T) {
	engine := setupTestRouter(t, &config.AuthConfig{}, 64)

	body := `[{"text":"` + strings.Repeat("x", 200) + `","category":"Long"}]`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/import", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeTooLarge, resp.Error.Code)
}

func TestServer_Addr(t *testing.T) {
	cfg := testServerConfig(1 << 20)
	cfg.Host, cfg.Port = "0.0.0.0", 3000

	assert.Equal(t, "0.0.0.0:3000", New(cfg, discardLogger()).Addr())

	cfg.Host = "::1"
	assert.Equal(t, "[::1]:3000", New(cfg, discardLogger()).Addr())
}

func TestServer_ServeUntilCanceled(t *testing.T) {
	srv := New(testServerConfig(1<<20), discardLogger())
	srv.Engine().GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	_, err = net.Dial("tcp", ln.Addr().String())
	assert.Error(t, err)
}

func TestServer_RunListenFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := testServerConfig(1 << 20)
	cfg.Port = ln.Addr().(*net.TCPAddr).Port

	err = New(cfg, discardLogger()).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on")
}
