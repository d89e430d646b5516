package auth_test

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zaobank/mobile-auth/internal/auth/app"
	httpapi "github.com/zaobank/mobile-auth/internal/auth/http"
	"github.com/zaobank/mobile-auth/internal/auth/service"
	"github.com/zaobank/mobile-auth/internal/auth/store/drivers/sqlite"
	"github.com/zaobank/mobile-auth/pkg/authsdk"
	"github.com/zaobank/mobile-auth/pkg/httpx"
	"github.com/zaobank/mobile-auth/pkg/jwtx"
)

/*
 * End-to-end tests running the full stack in-process: real sqlite
 * store with migrations, real secret bootstrap, real router and
 * middleware, driven through the SDK client over HTTP.
 */

const (
	testIssuer   = "mobile-auth-e2e"
	testPassword = "CorrectHorse9!"
)

type testEnv struct {
	srv    *httptest.Server
	client *authsdk.Client
	secret []byte
}

// setupService wires the service like app.New does, but on an
// in-memory store and an httptest listener so no ports or files
// leak between tests.
func setupService(t *testing.T, strictLimit httpx.RateLimitConfig) *testEnv {
	t.Helper()

	httpx.StrictLimit = strictLimit

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	secret, err := app.LoadOrCreateSecret(filepath.Join(t.TempDir(), "jwt-secret"))
	require.NoError(t, err)

	signer, err := jwtx.NewSignerHS256(secret)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256(secret, testIssuer)
	require.NoError(t, err)

	tokens := &service.TokenService{
		Signer:           signer,
		Verifier:         verifier,
		Store:            st,
		Issuer:           testIssuer,
		AccessTTL:        time.Hour,
		RefreshTTL:       24 * time.Hour,
		MaxTokensPerUser: 10,
	}
	users := &service.UserService{Store: st, RegistrationOpen: true}

	router := httpapi.NewRouter(
		&httpx.Authenticator{Verifier: verifier},
		"e2e",
		st,
		slog.Default(),
	)
	router.TokenService = tokens
	router.UserService = users
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testEnv{
		srv:    srv,
		client: authsdk.NewClient(srv.URL),
		secret: secret,
	}
}

func lenientStrictLimit() httpx.RateLimitConfig {
	return httpx.RateLimitConfig{
		RequestsPerWindow: 1000,
		Window:            time.Minute,
		Burst:             1000,
	}
}

func registerUser(t *testing.T, client *authsdk.Client, username string) *authsdk.TokenResponse {
	t.Helper()

	resp, err := client.Register(context.Background(), authsdk.RegisterRequest{
		Username:   username,
		Email:      username + "@example.com",
		Password:   testPassword,
		DeviceInfo: "e2e",
	})
	require.NoError(t, err)
	return resp
}

func assertAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
}
