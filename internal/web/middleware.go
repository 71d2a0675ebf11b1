package web

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/rshade/grantdesk/internal/logging"
)

// TraceContext puts a trace ID and a request-scoped logger on the context.
// An inbound X-Request-ID is reused; otherwise a new ULID is generated.
func TraceContext(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(chimw.RequestIDHeader)
			if traceID == "" {
				traceID = logging.GenerateTraceID()
			}
			w.Header().Set(chimw.RequestIDHeader, traceID)

			ctx := l.WithContext(r.Context())
			ctx = logging.ContextWithTraceID(ctx, traceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestLogger logs one line per request after it completes.
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logging.FromContext(r.Context()).Info().
				Str("component", "web").
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

// Recoverer turns a handler panic into a 500 and logs it.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logging.FromContext(r.Context()).Error().
						Str("component", "web").
						Interface("panic", rec).
						Str("path", r.URL.Path).
						Msg("panic")
					http.Error(w, "internal error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
