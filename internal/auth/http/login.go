package http

import (
	"net/http"

	"github.com/zaobank/mobile-auth/internal/auth/service"
	"github.com/zaobank/mobile-auth/pkg/authsdk"
	"github.com/zaobank/mobile-auth/pkg/httpx"
	"github.com/zaobank/mobile-auth/pkg/slogx"
)

type LoginHandler struct {
	UserService  *service.UserService
	TokenService *service.TokenService
}

// ServeHTTP handles POST /v1/auth/login. It accepts the account
// username or email plus the password and returns the full
// credential pair with a profile snapshot.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.Username == "" || req.Password == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		log.Info("login rejected", "username", req.Username)
		writeServiceError(w, r, err)
		return
	}

	pair, err := h.TokenService.IssuePair(ctx, user, req.DeviceInfo, nil)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("login succeeded", "user_id", user.ID)
	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		Token:            pair.AccessToken,
		TokenExpiresAt:   pair.AccessExpiresAt,
		RefreshToken:     pair.RefreshToken,
		RefreshExpiresAt: pair.RefreshExpiresAt,
		TokenType:        pair.TokenType,
		User:             userPayload(user),
	})
}
