package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typesanitizer/internal/api/handler"
	"typesanitizer/pkg/config"
	"typesanitizer/pkg/logger"
	"typesanitizer/pkg/model"
	"typesanitizer/pkg/sanitizer"
)

func newTestApplication(t *testing.T, maxSize int) *Application {
	t.Helper()

	cfg := config.FromEnv("test")
	cfg.Log = logger.Discard()
	cfg.MaxRequestSize = maxSize

	registry := sanitizer.NewRegistry()
	require.NoError(t, model.Register(registry))
	s := sanitizer.New(sanitizer.WithRegistry(registry))

	a := NewApplication(cfg)
	a.SetApp(handler.NewHealthHandler(registry, cfg.Log), handler.NewSanitizeHandler(s, cfg.Log))
	return a
}

func TestApplication_Routes(t *testing.T) {
	h := newTestApplication(t, 1024).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sanitize", strings.NewReader(`{"data":{"n":"1"},"fields":{"n":"int"}}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"n":1}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/types", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Body.String(), "METHOD_NOT_ALLOWED")
}

func TestApplication_Middleware(t *testing.T) {
	h := newTestApplication(t, 16).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sanitize", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/sanitize", strings.NewReader(`{"data":{"n":"1"},"fields":{"n":"int"}}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
