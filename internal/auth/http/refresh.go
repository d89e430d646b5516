package http

import (
	"net/http"

	"github.com/zaobank/mobile-auth/internal/auth/service"
	"github.com/zaobank/mobile-auth/pkg/authsdk"
	"github.com/zaobank/mobile-auth/pkg/httpx"
)

type RefreshHandler struct {
	TokenService *service.TokenService
}

// ServeHTTP handles POST /v1/auth/refresh. It mints a new access
// token against a valid refresh token; the refresh token itself is
// not rotated and is absent from the response.
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authsdk.RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.RefreshToken == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	token, expiresAt, user, err := h.TokenService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.RefreshResponse{
		Token:          token,
		TokenExpiresAt: expiresAt,
		TokenType:      "Bearer",
		User:           userPayload(user),
	})
}
