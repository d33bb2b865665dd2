package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typesanitizer/internal/api/handler"
	"typesanitizer/pkg/app"
	"typesanitizer/pkg/config"
	apperrors "typesanitizer/pkg/errors"
	"typesanitizer/pkg/logger"
	"typesanitizer/pkg/model"
	"typesanitizer/pkg/sanitizer"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.FromEnv("test")
	cfg.Log = logger.Discard()

	registry := sanitizer.NewRegistry()
	require.NoError(t, model.Register(registry))
	s := sanitizer.New(sanitizer.WithRegistry(registry), sanitizer.WithStructValidation())

	a := app.NewApplication(cfg)
	a.SetApp(handler.NewHealthHandler(registry, cfg.Log), handler.NewSanitizeHandler(s, cfg.Log))

	server := httptest.NewServer(a.Handler())
	t.Cleanup(server.Close)
	return server
}

func TestClient_Sanitize(t *testing.T) {
	c := NewClient(newTestServer(t).URL)
	ctx := context.Background()

	data, err := c.Sanitize(ctx, SanitizeRequest{
		Data:   map[string]any{"n": "12", "tags": []any{"1", "x"}},
		Fields: sanitizer.FieldMap{"n": "int", "tags": "int[]"},
		Policy: sanitizer.NullOnFailure.String(),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":12,"tags":[1,null]}`, string(data))

	data, err = c.Sanitize(ctx, SanitizeRequest{
		Data:   []any{map[string]any{"ok": "yes"}},
		Fields: sanitizer.Fields{{Name: "ok", Type: sanitizer.TokenBool}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"ok":true}]`, string(data))
}

func TestClient_SanitizeInto(t *testing.T) {
	c := NewClient(newTestServer(t).URL)

	var contact model.Contact
	err := c.SanitizeInto(context.Background(), SanitizeRequest{
		Data: map[string]any{
			"id":         "3",
			"name":       "Ann",
			"phone":      "8 (900) 123-45-67",
			"email":      "ann@example.com",
			"age":        "31",
			"rating":     "4.5",
			"subscribed": "on",
			"group_ids":  []any{1, "2"},
		},
		Type: model.ContactType,
	}, &contact)
	require.NoError(t, err)

	assert.Equal(t, 3, contact.ID)
	assert.Equal(t, sanitizer.PhoneNumber("+79001234567"), contact.Phone)
	require.NotNil(t, contact.Age)
	assert.Equal(t, 31, *contact.Age)
	assert.Equal(t, []int{1, 2}, contact.GroupIDs)
}

func TestClient_Errors(t *testing.T) {
	c := NewClient(newTestServer(t).URL)
	ctx := context.Background()

	tests := []struct {
		name       string
		req        SanitizeRequest
		wantCode   string
		wantStatus int
	}{
		{"unknown type", SanitizeRequest{Data: map[string]any{}, Type: "Nope"}, apperrors.CodeUnknownType, http.StatusBadRequest},
		{"invalid field", SanitizeRequest{Data: map[string]any{"n": "x"}, Fields: sanitizer.FieldMap{"n": "int"}}, apperrors.CodeInvalidField, http.StatusUnprocessableEntity},
		{"no spec", SanitizeRequest{Data: map[string]any{}}, apperrors.CodeInvalidInput, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Sanitize(ctx, tt.req)
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantCode, appErr.Code)
			assert.Equal(t, tt.wantStatus, appErr.StatusCode())
		})
	}
}

func TestClient_TypesAndHealth(t *testing.T) {
	server := newTestServer(t)
	c := NewClient(server.URL)
	ctx := context.Background()

	types, err := c.Types(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []TypeInfo{{Name: model.ContactType}, {Name: model.FormType}}, types)

	types, err = c.Types(ctx, true)
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Len(t, types[1].Fields, 4)

	health, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, &HealthStatus{Status: "ok", Types: 2}, health)

	require.NoError(t, NewHttpClient(server.URL).WaitForHealthy(ctx, time.Second))
}

func TestHttpClient_RequestID(t *testing.T) {
	resp, err := NewHttpClient(newTestServer(t).URL).GET(context.Background(), "/api/v1/types")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.RequestID())
}

func TestHttpClient_WaitForHealthyTimesOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := NewHttpClient(server.URL).WaitForHealthy(context.Background(), 50*time.Millisecond)
	assert.Error(t, err)
}
