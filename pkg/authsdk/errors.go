package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/zaobank/mobile-auth/pkg/httpx"
)

// Stable API error codes. Mobile clients switch on these, so they
// never change even when the messages do.
const (
	ErrorCodeInvalidRequest       = "invalid_request"
	ErrorCodeInvalidCredentials   = "invalid_credentials"
	ErrorCodeRegistrationDisabled = "registration_disabled"
	ErrorCodeUsernameExists       = "username_exists"
	ErrorCodeEmailExists          = "email_exists"
	ErrorCodeInvalidRefreshToken  = "invalid_refresh_token"
	ErrorCodeUserNotFound         = "user_not_found"
	ErrorCodeInvalidToken         = "invalid_token"
	ErrorCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrorCodeServerError          = "server_error"
	ErrorCodeStoreUnavailable     = "store_unavailable"
)

// APIError is the error envelope every endpoint uses. It implements
// the error interface so the SDK client can return it directly, and
// the server uses WriteError to produce the HTTP response.
type APIError struct {
	// StatusCode is the HTTP status for this error.
	StatusCode int `json:"-"`

	// Code is the stable machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable description.
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WriteError writes the error to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, map[string]string{
		"code":    e.Code,
		"message": e.Message,
	})
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeInvalidRequest,
		Message:    "the request is malformed or missing required parameters",
	}

	// ErrInvalidCredentials covers both unknown accounts and wrong
	// passwords; the two cases are deliberately indistinguishable.
	ErrInvalidCredentials = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeInvalidCredentials,
		Message:    "invalid username or password",
	}

	ErrRegistrationDisabled = &APIError{
		StatusCode: http.StatusForbidden,
		Code:       ErrorCodeRegistrationDisabled,
		Message:    "registration is currently disabled",
	}

	ErrUsernameExists = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeUsernameExists,
		Message:    "this username is already taken",
	}

	ErrEmailExists = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeEmailExists,
		Message:    "an account with this email already exists",
	}

	ErrInvalidRefreshToken = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeInvalidRefreshToken,
		Message:    "the refresh token is invalid, expired or revoked",
	}

	ErrUserNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Code:       ErrorCodeUserNotFound,
		Message:    "the account no longer exists",
	}

	ErrInvalidToken = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeInvalidToken,
		Message:    "a valid access token is required",
	}

	ErrServerError = &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrorCodeServerError,
		Message:    "internal server error",
	}

	ErrStoreUnavailable = &APIError{
		StatusCode: http.StatusServiceUnavailable,
		Code:       ErrorCodeStoreUnavailable,
		Message:    "the service is temporarily unavailable",
	}
)

// NewAPIError builds a custom error while keeping the standard
// envelope.
func NewAPIError(statusCode int, code, message string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Message: message}
}

// parseErrorResponse turns a non-2xx HTTP response into an
// *APIError. Returns nil on success responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Code != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       errResp.Code,
			Message:    errResp.Message,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       ErrorCodeServerError,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
