package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a typed client for the mobile-auth service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with a sane default timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login exchanges a username (or email) and password for a
// credential pair.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	var out TokenResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auth/login", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns the credential pair for
// the new user.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	var out TokenResponse
	if err := c.do(ctx, http.MethodPost, "/v1/auth/register", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh redeems a refresh token for a new access token. The
// refresh token itself stays valid.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	var out RefreshResponse
	req := RefreshRequest{RefreshToken: refreshToken}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/refresh", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the presented refresh token.
func (c *Client) Logout(ctx context.Context, refreshToken string) (*LogoutResponse, error) {
	var out LogoutResponse
	req := LogoutRequest{RefreshToken: refreshToken}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/logout", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LogoutAll revokes every live refresh token of the authenticated
// user. accessToken must be a valid bearer token.
func (c *Client) LogoutAll(ctx context.Context, accessToken string) (*LogoutResponse, error) {
	var out LogoutResponse
	req := LogoutRequest{AllDevices: true}
	if err := c.do(ctx, http.MethodPost, "/v1/auth/logout", accessToken, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me resolves the profile behind an access token.
func (c *Client) Me(ctx context.Context, accessToken string) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/v1/auth/me", accessToken, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("authsdk: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("authsdk: read response: %w", err)
	}

	if err := parseErrorResponse(resp, respBody); err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("authsdk: decode response: %w", err)
		}
	}
	return nil
}
