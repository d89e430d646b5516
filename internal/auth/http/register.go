package http

import (
	"net/http"
	"strings"

	"github.com/zaobank/mobile-auth/internal/auth/service"
	"github.com/zaobank/mobile-auth/pkg/authsdk"
	"github.com/zaobank/mobile-auth/pkg/httpx"
	"github.com/zaobank/mobile-auth/pkg/slogx"
)

type RegisterHandler struct {
	UserService  *service.UserService
	TokenService *service.TokenService
}

// ServeHTTP handles POST /v1/auth/register. New accounts are logged
// in immediately, so the response mirrors login with a 201.
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.Username == "" || req.Password == "" || !strings.Contains(req.Email, "@") {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.Register(ctx, service.RegisterParams{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	pair, err := h.TokenService.IssuePair(ctx, user, req.DeviceInfo, nil)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("account registered", "user_id", user.ID)
	httpx.WriteJSON(w, http.StatusCreated, authsdk.TokenResponse{
		Token:            pair.AccessToken,
		TokenExpiresAt:   pair.AccessExpiresAt,
		RefreshToken:     pair.RefreshToken,
		RefreshExpiresAt: pair.RefreshExpiresAt,
		TokenType:        pair.TokenType,
		User:             userPayload(user),
	})
}
