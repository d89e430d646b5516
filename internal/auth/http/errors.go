package http

import (
	"errors"
	"net/http"

	"github.com/zaobank/mobile-auth/internal/auth/service"
	"github.com/zaobank/mobile-auth/internal/auth/store"
	"github.com/zaobank/mobile-auth/pkg/authsdk"
	"github.com/zaobank/mobile-auth/pkg/slogx"
)

// writeServiceError maps service layer sentinels to the stable API
// error values. Store connectivity failures become a 503, anything
// else unmapped becomes a 500, never a 401; auth failures are always
// explicit.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrRegistrationDisabled):
		authsdk.ErrRegistrationDisabled.WriteError(w)
	case errors.Is(err, service.ErrUsernameTaken):
		authsdk.ErrUsernameExists.WriteError(w)
	case errors.Is(err, service.ErrEmailTaken):
		authsdk.ErrEmailExists.WriteError(w)
	case errors.Is(err, service.ErrWeakPassword):
		authsdk.ErrInvalidRequest.WriteError(w)
	case errors.Is(err, service.ErrInvalidRefresh):
		authsdk.ErrInvalidRefreshToken.WriteError(w)
	case errors.Is(err, service.ErrUserNotFound):
		authsdk.ErrUserNotFound.WriteError(w)
	case errors.Is(err, store.ErrUnavailable):
		slogx.FromContext(r.Context()).Error("store unavailable", "err", err)
		authsdk.ErrStoreUnavailable.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}
