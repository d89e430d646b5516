package auth_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/zaobank/mobile-auth/pkg/authsdk"
)

// TestForgedTokensRejected covers the classic JWT forgery attempts
// against a live server: alg none, downgraded HMAC variants and
// tokens signed with the wrong secret.
func TestForgedTokensRejected(t *testing.T) {
	env := setupService(t, lenientStrictLimit())
	ctx := context.Background()

	user := registerUser(t, env.client, "alice")

	claims := jwt.MapClaims{
		"iss": testIssuer,
		"sub": user.User.ID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}

	t.Run("alg none", func(t *testing.T) {
		forged, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = env.client.Me(ctx, forged)
		assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken)
	})

	t.Run("hs512 with the right secret", func(t *testing.T) {
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).
			SignedString(env.secret)
		require.NoError(t, err)

		_, err = env.client.Me(ctx, forged)
		assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken)
	})

	t.Run("hs256 with the wrong secret", func(t *testing.T) {
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte("attacker-controlled-secret-value"))
		require.NoError(t, err)

		_, err = env.client.Me(ctx, forged)
		assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken)
	})

	t.Run("expired but correctly signed", func(t *testing.T) {
		expired := jwt.MapClaims{
			"iss": testIssuer,
			"sub": user.User.ID,
			"iat": time.Now().Add(-2 * time.Hour).Unix(),
			"exp": time.Now().Add(-time.Hour).Unix(),
		}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expired).
			SignedString(env.secret)
		require.NoError(t, err)

		_, err = env.client.Me(ctx, forged)
		assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := jwt.MapClaims{
			"iss": "some-other-service",
			"sub": user.User.ID,
			"iat": time.Now().Unix(),
			"exp": time.Now().Add(time.Hour).Unix(),
		}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, other).
			SignedString(env.secret)
		require.NoError(t, err)

		_, err = env.client.Me(ctx, forged)
		assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken)
	})
}

// TestRefreshTokenIsUnusableAsBearer checks the two credential
// types are not interchangeable.
func TestRefreshTokenIsUnusableAsBearer(t *testing.T) {
	env := setupService(t, lenientStrictLimit())
	ctx := context.Background()

	user := registerUser(t, env.client, "alice")

	_, err := env.client.Me(ctx, user.RefreshToken)
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidToken)

	_, err = env.client.Refresh(ctx, user.Token)
	assertAPIError(t, err, http.StatusUnauthorized, authsdk.ErrorCodeInvalidRefreshToken)
}

// TestQueryTokenFallbackDisabledByDefault verifies the jwt_token
// query parameter does nothing unless explicitly enabled.
func TestQueryTokenFallbackDisabledByDefault(t *testing.T) {
	env := setupService(t, lenientStrictLimit())

	user := registerUser(t, env.client, "alice")

	resp, err := http.Get(env.srv.URL + "/v1/auth/me?jwt_token=" + user.Token)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
