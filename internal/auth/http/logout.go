package http

import (
	"net/http"

	"github.com/zaobank/mobile-auth/internal/auth/service"
	"github.com/zaobank/mobile-auth/pkg/authsdk"
	"github.com/zaobank/mobile-auth/pkg/httpx"
	"github.com/zaobank/mobile-auth/pkg/slogx"
)

type LogoutHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP handles POST /v1/auth/logout. With all_devices it
// revokes every live refresh token of the bearer-authenticated
// user; otherwise it revokes the presented refresh token. Revoking
// something already dead still returns 200, logout is idempotent.
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.LogoutRequest
	if err := decodeJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if req.AllDevices {
		userID := httpx.UserIDFromContext(ctx)
		if userID == "" {
			authsdk.ErrInvalidToken.WriteError(w)
			return
		}

		n, err := h.TokenService.RevokeAllUserTokens(ctx, userID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		log.Info("logout all devices", "user_id", userID, "revoked", n)
		httpx.WriteJSON(w, http.StatusOK, authsdk.LogoutResponse{
			Message: "logged out everywhere",
			Revoked: n,
		})
		return
	}

	if req.RefreshToken == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	revoked, err := h.TokenService.RevokeRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	n := 0
	if revoked {
		n = 1
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.LogoutResponse{
		Message: "logged out",
		Revoked: n,
	})
}
