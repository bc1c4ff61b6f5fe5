package middleware

import "net/http"

// CacheControl sets the Cache-Control header on GET responses. Item reads are
// owner-scoped and change on every mutation, so the API mounts it with
// "private, no-cache".
func CacheControl(value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				w.Header().Set("Cache-Control", value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
