package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/zaobank/mobile-auth/internal/auth/domain"
	"github.com/zaobank/mobile-auth/pkg/authsdk"
)

// maxBodyBytes bounds request bodies; every payload this API
// accepts is tiny.
const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into v. An empty body leaves v
// at its zero value, which suits endpoints with optional bodies.
func decodeJSON(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	err := json.NewDecoder(body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func userPayload(u domain.User) authsdk.User {
	return authsdk.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		RegisteredAt: u.CreatedAt,
	}
}
