package routing

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/zeptools/jewel-docs/responses"
	"github.com/zeptools/jewel-docs/sec"
)

type ctxKey int

const claimsKey ctxKey = iota

// TokenVerifier checks a bearer token
type TokenVerifier interface {
	Verify(signedToken string) (*sec.Claims, error)
}

// AuthWrapper lets through requests with a valid bearer token and stores its claims in the context
type AuthWrapper struct {
	Verifier TokenVerifier
}

func (a *AuthWrapper) Wrap(inner http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sec.ExtractBearerToken(r.Header.Get("Authorization"))
		if token == "" {
			w.Header().Set("WWW-Authenticate", `Bearer`)
			responses.WriteErrorJSON(w, http.StatusUnauthorized, responses.CodeUnauthorized, "missing bearer token")
			return
		}
		claims, err := a.Verifier.Verify(token)
		if err != nil {
			zap.L().Debug("token rejected", zap.String("component", "routing"), zap.Error(err))
			w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
			responses.WriteErrorJSON(w, http.StatusUnauthorized, responses.CodeUnauthorized, "invalid token")
			return
		}
		inner.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// ClaimsFrom returns the claims stored by AuthWrapper
func ClaimsFrom(ctx context.Context) (*sec.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*sec.Claims)
	return claims, ok
}
