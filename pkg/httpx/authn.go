package httpx

import (
	"net/http"
	"strings"

	"github.com/zaobank/mobile-auth/pkg/jwtx"
	"github.com/zaobank/mobile-auth/pkg/slogx"
)

// queryTokenParam is the fallback query parameter older mobile
// clients use when they cannot set an Authorization header.
const queryTokenParam = "jwt_token"

// Authenticator resolves and verifies the access token carried by a
// request. The Authorization header wins over the query fallback,
// and the fallback is only consulted when enabled.
type Authenticator struct {
	Verifier jwtx.Verifier

	// AllowQueryToken enables reading the token from the
	// jwt_token query parameter.
	AllowQueryToken bool
}

// ExtractToken returns the raw token from the request, or "" when
// the request carries none.
func (a *Authenticator) ExtractToken(r *http.Request) string {
	if authz := r.Header.Get("Authorization"); authz != "" {
		// RFC 6750 scheme names are case-insensitive.
		scheme, rest, ok := strings.Cut(authz, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(rest)
		}
		return ""
	}
	if a.AllowQueryToken {
		return r.URL.Query().Get(queryTokenParam)
	}
	return ""
}

// OptionalAuthn verifies the request's token when one is present and
// injects the identity into the context. Requests without a token,
// or with an invalid one, continue unauthenticated; handlers that
// need an identity gate on RequireAuthn.
func (a *Authenticator) OptionalAuthn() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw := a.ExtractToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := a.Verifier.Verify(raw)
			if err != nil {
				slogx.FromContext(ctx).Warn("access token rejected", "err", err)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithAuth(ctx, claims)))
		})
	}
}

// RequireAuthn rejects requests that did not authenticate. It must
// run after OptionalAuthn in the chain.
func RequireAuthn() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserIDFromContext(r.Context()) == "" {
				writeBearerError(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750 bearer challenge. The body mirrors the service's error
// shape so clients can handle every failure uniformly.
func writeBearerError(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"code":    "invalid_token",
		"message": "A valid access token is required.",
	})
}
