package middleware

import (
	"net/http"

	"github.com/phrazzld/oneline-api/internal/api/shared"
)

// OwnerMiddleware places ownerID in every request context. The journal has
// a single configured owner; there is no authentication.
func OwnerMiddleware(ownerID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(shared.WithOwnerID(r.Context(), ownerID)))
		})
	}
}
