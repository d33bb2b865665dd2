package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("decoder exploded")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, wrapped.Code)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeInvalidField,
				Message: "invalid field age",
			},
			expected: "INVALID_FIELD: invalid field age",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeParse,
				Message: "input is not valid JSON",
				Err:     errors.New("unexpected end of JSON input"),
			},
			expected: "PARSE_ERROR: input is not valid JSON (caused by: unexpected end of JSON input)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	sentinel := errors.New("sentinel")
	appErr := Parse(sentinel)

	if !errors.Is(appErr, sentinel) {
		t.Errorf("errors.Is should see through AppError")
	}
	if errors.Unwrap(appErr) != sentinel {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestConstructors(t *testing.T) {
	cause := errors.New("cause")

	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"parse", Parse(cause), CodeParse, http.StatusBadRequest},
		{"unknown type", UnknownType("Contact", cause), CodeUnknownType, http.StatusBadRequest},
		{"invalid field", InvalidField("age", -1, cause), CodeInvalidField, http.StatusUnprocessableEntity},
		{"construction", Construction("model.Contact", cause), CodeConstruction, http.StatusInternalServerError},
		{"validation", Validation("validation failed", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad"), CodeInvalidInput, http.StatusBadRequest},
		{"internal", Internal("boom", cause), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusServiceUnavailable},
		{"too large", TooLarge(10), CodeTooLarge, http.StatusRequestEntityTooLarge},
		{"unsupported", Unsupported("json only"), CodeUnsupported, http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.StatusCode())
			}
		})
	}
}

func TestInvalidField_Details(t *testing.T) {
	single := InvalidField("age", -1, nil)
	if single.Details["field"] != "age" {
		t.Errorf("expected field 'age', got %v", single.Details["field"])
	}
	if _, ok := single.Details["index"]; ok {
		t.Errorf("single record failures should not carry an index")
	}

	listed := InvalidField("age", 2, nil)
	if listed.Details["index"] != 2 {
		t.Errorf("expected index 2, got %v", listed.Details["index"])
	}
}

func TestUnknownType_Details(t *testing.T) {
	err := UnknownType("Ghost", nil)
	if err.Details["type"] != "Ghost" {
		t.Errorf("expected type 'Ghost', got %v", err.Details["type"])
	}
	if err.Message != `unknown type "Ghost"` {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestAsAppError(t *testing.T) {
	appErr := InvalidInput("bad")
	regularErr := errors.New("regular error")

	if result := AsAppError(appErr); result != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	result := AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}

func TestIsAppError(t *testing.T) {
	if !IsAppError(InvalidInput("bad")) {
		t.Errorf("IsAppError() should return true for AppError")
	}
	if IsAppError(errors.New("regular error")) {
		t.Errorf("IsAppError() should return false for regular error")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	err := InvalidField("phone", 0, nil)
	json := string(err.ToJSON())

	if !contains(json, "INVALID_FIELD") {
		t.Errorf("ToJSON() should contain error code, got %s", json)
	}
	if !contains(json, `"field":"phone"`) {
		t.Errorf("ToJSON() should contain details, got %s", json)
	}
}

func contains(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
