package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/bodegonapp/storefront-backend/api/responses"
	pkgauth "github.com/bodegonapp/storefront-backend/pkg/auth"
	"github.com/bodegonapp/storefront-backend/pkg/config"
	pkgerrors "github.com/bodegonapp/storefront-backend/pkg/errors"
	"github.com/bodegonapp/storefront-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.UserID <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid subject"))
				return
			}

			next.ServeHTTP(w, r.WithContext(seedClaims(r.Context(), logg, claims)))
		})
	}
}

// OptionalAuth seeds the context when a valid bearer token is present and
// lets anonymous requests through untouched. Cart routes use it so guests can
// fill carts before logging in.
func OptionalAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil || claims.UserID <= 0 {
				// A presented but invalid token is rejected rather than
				// silently downgraded to guest.
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(seedClaims(r.Context(), logg, claims)))
		})
	}
}

func seedClaims(ctx context.Context, logg *logger.Logger, claims *pkgauth.AccessTokenClaims) context.Context {
	ctx = WithUserID(ctx, claims.UserID)
	ctx = withUsername(ctx, claims.Username)
	ctx = WithRole(ctx, claims.Role)
	if logg != nil {
		ctx = logg.WithFields(ctx, map[string]any{
			"user_id": claims.UserID,
			"role":    string(claims.Role),
		})
	}
	return ctx
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
