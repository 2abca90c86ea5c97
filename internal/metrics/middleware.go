package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Middleware records every request as "<METHOD> <route pattern>" so ids in
// the path do not explode the operation cardinality.
func Middleware(store *Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			pattern := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				pattern = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m := OperationMetric{
				Operation:  r.Method + " " + pattern,
				StatusCode: status,
				LatencyMS:  time.Since(start).Milliseconds(),
				Timestamp:  start.UTC(),
			}
			// The request context may already be cancelled.
			if err := store.Record(context.WithoutCancel(r.Context()), m); err != nil {
				slog.ErrorContext(r.Context(), "failed to record request metric", "operation", m.Operation, "error", err)
			}
		})
	}
}
