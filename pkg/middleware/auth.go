package middleware

import (
	"net/http"
	"strings"

	apperrors "github.com/utafrali/wishlist/pkg/errors"
	"github.com/utafrali/wishlist/pkg/httputil"
	"github.com/utafrali/wishlist/pkg/logger"
)

// TokenValidator validates a bearer token and returns the owner it was issued to.
type TokenValidator func(token string) (owner string, err error)

// Auth rejects requests without a valid bearer token and stores the token's
// owner in the request context (see logger.OwnerFromContext).
func Auth(validate TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeAuthError(w, r, "missing or malformed authorization header")
				return
			}

			owner, err := validate(token)
			if err != nil || owner == "" {
				writeAuthError(w, r, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(logger.WithOwner(r.Context(), owner)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeAuthError(w http.ResponseWriter, r *http.Request, message string) {
	httputil.WriteError(w, r, apperrors.Unauthorized(message), nil)
}
