package middleware

import (
	"context"
	"net/http"

	"github.com/autobay/shop-scheduling-service/internal/api/handlers"
)

type contextKey string

// CallerIDKey carries the authenticated caller id through the request
// context.
const CallerIDKey contextKey = "callerID"

const callerHeader = "X-Caller-ID"

// Auth requires the caller identification header set by the API gateway.
// Requests without it never reach a handler.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		callerID := r.Header.Get(callerHeader)
		if callerID == "" {
			handlers.RespondError(w, http.StatusUnauthorized, "missing "+callerHeader+" header")
			return
		}
		ctx := context.WithValue(r.Context(), CallerIDKey, callerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CallerID extracts the caller id stored by Auth, empty when unauthenticated.
func CallerID(ctx context.Context) string {
	id, _ := ctx.Value(CallerIDKey).(string)
	return id
}
