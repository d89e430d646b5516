package http

import (
	"errors"
	"net/http"

	"github.com/zaobank/mobile-auth/internal/auth/service"
	"github.com/zaobank/mobile-auth/internal/auth/store"
	"github.com/zaobank/mobile-auth/pkg/authsdk"
	"github.com/zaobank/mobile-auth/pkg/httpx"
	"github.com/zaobank/mobile-auth/pkg/slogx"
)

type MeHandler struct {
	UserService *service.UserService
}

// ServeHTTP handles GET /v1/auth/me. Runs behind RequireAuthn, so
// an identity is always present; the account can still have been
// deleted after the token was minted.
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	user, err := h.UserService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			authsdk.ErrUserNotFound.WriteError(w)
			return
		}
		slogx.FromContext(ctx).Warn("failed to load user", "user_id", userID, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userPayload(user))
}
