package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GriffinCanCode/webdesk/internal/api/middleware"
	"github.com/GriffinCanCode/webdesk/internal/infrastructure/config"
	"github.com/GriffinCanCode/webdesk/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Logging.Level = "error"
	cfg.RateLimit.Enabled = false
	cfg.Storage.Path = filepath.Join(t.TempDir(), "fs.json")
	return cfg
}

func newServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	s, err := NewServer(cfg)
	require.NoError(t, err)
	return s
}

func serve(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestServerRoutes(t *testing.T) {
	s := newServer(t, testConfig(t))
	defer s.Close(context.Background())

	w := serve(s, "GET", "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = serve(s, "GET", "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, map[string]any{"circuit": "closed"}, health["assistant"])

	w = serve(s, "POST", "/windows", `{"app_id":"terminal"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(s, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "webdesk_http_requests_total")
	assert.Contains(t, w.Body.String(), "webdesk_windows_open 1")
}

func TestServerPersistsFileSystem(t *testing.T) {
	cfg := testConfig(t)

	first := newServer(t, cfg)
	w := serve(first, "POST", "/fs/nodes", `{"name":"notes.md","type":"file","parentId":"docs","content":"# hi"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NoError(t, first.Close(context.Background()))

	second := newServer(t, cfg)
	defer second.Close(context.Background())

	w = serve(second, "GET", "/fs/resolve?path=/home/ubuntu/Documents/notes.md", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var node types.Node
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &node))
	assert.Equal(t, "# hi", node.ContentString())
}

func TestServerRejectsBadCatalog(t *testing.T) {
	cfg := testConfig(t)
	cfg.Desktop.CatalogPath = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := NewServer(cfg)
	assert.Error(t, err)
}

func TestServerMemoryOnly(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Path = ""

	s := newServer(t, cfg)
	defer s.Close(context.Background())

	w := serve(s, "GET", "/fs/nodes/welcome", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
