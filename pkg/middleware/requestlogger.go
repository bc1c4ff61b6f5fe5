package middleware

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/wishlist/pkg/logger"
)

// RequestLogger stores a request-scoped logger in the context, enriched with
// whatever correlation id, owner and span the earlier middleware attached.
// Mount it after RequestLogging, Tracing and Auth.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
