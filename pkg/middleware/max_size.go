package middleware

import (
	"net/http"

	apperrors "typesanitizer/pkg/errors"
	httputil "typesanitizer/pkg/http"
)

// MaxRequestSize caps request bodies at limit bytes. Requests that declare a
// larger Content-Length are rejected up front; others fail when the handler
// reads past the limit.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				_ = httputil.WriteError(w, apperrors.TooLarge(limit))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
