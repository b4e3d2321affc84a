package auth

import (
	"context"
	"fmt"
	"net/http"

	"ms-booths/internal/logger"
	"ms-booths/internal/utils"
)

type contextKey string

const principalKey contextKey = "principal"

// Middleware classifies the caller's admin key once per request and stores the
// resulting principal in the request context. Requests without a valid key are
// rejected with 401 before reaching the handler.
func Middleware(gate *Gate, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := gate.Identify(ExtractCredential(r))
			if err != nil {
				if log != nil {
					log.LogSecurity("AUTH_REJECTED", fmt.Sprintf("%s %s from %s", r.Method, r.URL.Path, r.RemoteAddr))
				}
				_ = utils.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the principal stored by Middleware. A request that never
// passed through Middleware yields the unauthenticated principal.
func FromContext(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalKey).(Principal); ok {
		return p
	}
	return Principal{}
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
