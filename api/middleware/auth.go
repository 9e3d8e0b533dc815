package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/adiwijaya-dev/shopdash-backend/api/responses"
	pkgauth "github.com/adiwijaya-dev/shopdash-backend/pkg/auth"
	pkgerrors "github.com/adiwijaya-dev/shopdash-backend/pkg/errors"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
)

// Authenticator resolves a bearer token to the identity behind it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (pkgauth.Identity, error)
}

// Auth validates a bearer token and seeds the request context with the
// authenticated identity.
func Auth(verifier Authenticator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			ident, err := verifier.Authenticate(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := pkgauth.WithIdentity(r.Context(), ident)
			if logg != nil {
				ctx = logg.WithUserID(ctx, ident.ID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
