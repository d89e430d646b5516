package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zaobank/mobile-auth/internal/auth/store"
	"github.com/zaobank/mobile-auth/pkg/authsdk"
)

func TestWriteServiceError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)

	t.Run("store connectivity failure becomes 503", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeServiceError(rec, req, fmt.Errorf("listing tokens: %w", store.ErrUnavailable))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Contains(t, rec.Body.String(), authsdk.ErrorCodeStoreUnavailable)
	})

	t.Run("unknown failure stays 500", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeServiceError(rec, req, errors.New("boom"))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, rec.Body.String(), authsdk.ErrorCodeServerError)
	})
}

func TestLoginAgainstClosedStore(t *testing.T) {
	_, client, st := newTestStack(t, true)
	registerAlice(t, client)

	require.NoError(t, st.Close())

	_, err := client.Login(context.Background(), authsdk.LoginRequest{
		Username: "alice", Password: "s3cret-enough",
	})
	requireAPIError(t, err, http.StatusServiceUnavailable, authsdk.ErrorCodeStoreUnavailable)
}
