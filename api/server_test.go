package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/recipe-api/api/types"
	"github.com/killallgit/recipe-api/internal/metrics"
)

func newTestServer(t *testing.T, routes RouteOptions, deps *types.Dependencies) *Server {
	gin.SetMode(gin.TestMode)
	server := NewServer(Options{Address: "127.0.0.1:0", Routes: routes}, deps)
	require.NoError(t, server.Initialize())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	})
	return server
}

func serve(server *Server, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	server.Engine().ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestServerRoutes(t *testing.T) {
	server := newTestServer(t, RouteOptions{}, &types.Dependencies{})

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"version", http.MethodGet, "/version", http.StatusOK},
		{"root", http.MethodGet, "/", http.StatusOK},
		{"docs redirect", http.MethodGet, "/docs", http.StatusMovedPermanently},
		{"shares without capture", http.MethodPost, "/api/v1/shares", http.StatusServiceUnavailable},
		{"extraction without session", http.MethodGet, "/api/v1/extraction", http.StatusServiceUnavailable},
		{"recipes without storage", http.MethodGet, "/api/v1/recipes", http.StatusServiceUnavailable},
		{"unknown path", http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
		{"metrics disabled", http.MethodGet, "/metrics", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(server, tt.method, tt.path)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestNotFoundHandler(t *testing.T) {
	server := newTestServer(t, RouteOptions{}, &types.Dependencies{})

	w := serve(server, http.MethodGet, "/nope")
	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "/nope", body["path"])
}

func TestMetricsEndpoint(t *testing.T) {
	collector := metrics.New()
	collector.HandoffEvent("saved")

	server := newTestServer(t,
		RouteOptions{MetricsEnabled: true, MetricsPath: "/internal/metrics"},
		&types.Dependencies{Metrics: collector})

	w := serve(server, http.MethodGet, "/internal/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "recipe_handoff_events_total"))
}

func TestRegisterRoutesRequiresDependencies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	err := RegisterRoutes(gin.New(), nil, RouteOptions{}, nil, nil, nil)
	assert.Error(t, err)
}

func TestShutdownIsIdempotent(t *testing.T) {
	server := NewServer(Options{Address: "127.0.0.1:0"}, nil)
	require.NoError(t, server.Initialize())

	ctx := context.Background()
	assert.NoError(t, server.Shutdown(ctx))
	assert.NoError(t, server.Shutdown(ctx))
}
