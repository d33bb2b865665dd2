package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "typesanitizer/pkg/errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"app error", apperrors.InvalidField("age", 2, nil), http.StatusUnprocessableEntity, apperrors.CodeInvalidField},
		{"wrapped app error", errors.Join(errors.New("ctx"), apperrors.Parse(nil)), http.StatusBadRequest, apperrors.CodeParse},
		{"plain error", errors.New("disk on fire"), http.StatusInternalServerError, apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			require.NoError(t, WriteError(rec, tt.err))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body apperrors.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotContains(t, body.Message, "disk on fire")
		})
	}
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteSuccess(rec, map[string]any{"n": 1}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"n":1}}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		limit    int64
		wantCode string
	}{
		{"valid", `{"n":1}`, 0, ""},
		{"empty", `  `, 0, apperrors.CodeInvalidInput},
		{"malformed", `{"n":`, 0, apperrors.CodeParse},
		{"trailing", `{} []`, 0, apperrors.CodeParse},
		{"too large", `{"n":"0123456789"}`, 4, apperrors.CodeTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.limit > 0 {
				req.Body = http.MaxBytesReader(httptest.NewRecorder(), req.Body, tt.limit)
			}

			var v map[string]any
			err := DecodeJSON(req, &v)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, json.Number("1"), v["n"])
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.AsAppError(err).Code)
		})
	}
}

func TestQueryFlag(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?fields=true&other=0", nil)
	assert.True(t, QueryFlag(req, "fields"))
	assert.False(t, QueryFlag(req, "other"))
	assert.False(t, QueryFlag(req, "missing"))
}
