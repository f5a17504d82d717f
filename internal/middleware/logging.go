// Package middleware contains HTTP middleware shared across routes.
//
// WHAT IS MIDDLEWARE?
// Middleware is a function that wraps an HTTP handler to add cross-cutting
// behaviour (logging, auth, request IDs, ...) without touching the handler
// itself:
//
//	func MyMiddleware(next http.Handler) http.Handler {
//	    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	        // before the handler
//	        next.ServeHTTP(w, r)
//	        // after the handler
//	    })
//	}
//
// Most of this app's middleware comes from chi (RequestID, RealIP,
// Recoverer) and internal/auth (RequireAuth); this package holds the
// pieces we write ourselves.
package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// responseWriter wraps http.ResponseWriter to capture the status code and
// bytes written.
//
// WHY WRAP THE RESPONSE WRITER?
// http.ResponseWriter is write-only: once a handler calls WriteHeader and
// Write there is no way to ask it what happened. Embedding the real writer
// and overriding those two methods lets the logger see the outcome. This
// is a standard Go pattern — every HTTP logging library does a version of
// it.
type responseWriter struct {
	http.ResponseWriter // embedding: all other methods pass straight through
	statusCode          int
	written             int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Logger returns middleware that logs each completed request with slog.
//
// slog is structured logging: every value is a named field rather than a
// formatted string, so the output can be filtered and searched ("show me
// all status=500 lines") instead of grepped. One line per request, written
// after the handler finishes so duration and status are known.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK, // default if WriteHeader is never called
			}

			next.ServeHTTP(wrapped, r)

			logger.Info("request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrapped.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.Int64("bytes", wrapped.written),
			)
		})
	}
}
