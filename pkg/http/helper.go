package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "typesanitizer/pkg/errors"
)

// DecodeJSON reads a single JSON document from the request body into v.
// Numbers are kept as json.Number when v holds interface values.
func DecodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperrors.TooLarge(maxErr.Limit)
		}
		return apperrors.InvalidInput("could not read request body")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return apperrors.InvalidInput("request body is empty")
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return apperrors.Parse(err)
	}
	if dec.More() {
		return apperrors.Parse(fmt.Errorf("trailing data after JSON body"))
	}
	return nil
}

// QueryFlag reports whether a boolean query parameter is set to a true value.
func QueryFlag(r *http.Request, name string) bool {
	switch r.URL.Query().Get(name) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
