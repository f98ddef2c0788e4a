package backend

import (
	"context"
	"net/http"
	"strings"

	"github.com/pickupclub/storefront/internal/session"
)

// LoginRequest carries the credentials for an authentication attempt.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the outcome of a successful login: the resolved user plus
// a fresh credential pair.
type LoginResult struct {
	User         session.User
	AccessToken  string
	RefreshToken string
}

type loginPayload struct {
	session.User
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Login authenticates against the backend. The access token may arrive in
// the Authorization response header rather than the body, so the raw
// response is inspected directly instead of going through call.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	resp, raw, err := c.send(ctx, http.MethodPost, "/auth/login", nil, req)
	if err != nil {
		return nil, err
	}

	var payload loginPayload
	if err := decodeEnvelope(resp.StatusCode, raw, &payload); err != nil {
		return nil, err
	}

	access := payload.AccessToken
	if header := resp.Header.Get("Authorization"); header != "" {
		access = strings.TrimPrefix(header, "Bearer ")
	}

	return &LoginResult{
		User:         payload.User,
		AccessToken:  access,
		RefreshToken: payload.RefreshToken,
	}, nil
}

// JoinRequest carries a new account registration.
type JoinRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	Nickname      string `json:"nickname"`
	Email         string `json:"email"`
	RoadAddress   string `json:"roadAddress"`
	AddressDetail string `json:"addressDetail"`
	Age           int    `json:"age"`
	Male          bool   `json:"male"`
	Role          string `json:"role"`
}

func (c *Client) Join(ctx context.Context, req JoinRequest) error {
	return c.call(ctx, http.MethodPost, "/auth/join", nil, req, nil)
}

// ExchangeRefreshToken trades a refresh token for a new credential pair.
// It also satisfies session.Exchanger.
func (c *Client) ExchangeRefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	body := map[string]string{"refreshToken": refreshToken}
	resp, raw, err := c.send(ctx, http.MethodPost, "/auth/refresh", nil, body)
	if err != nil {
		return "", "", err
	}

	var payload loginPayload
	if err := decodeEnvelope(resp.StatusCode, raw, &payload); err != nil {
		return "", "", err
	}

	access := payload.AccessToken
	if header := resp.Header.Get("Authorization"); header != "" {
		access = strings.TrimPrefix(header, "Bearer ")
	}

	refresh := payload.RefreshToken
	if refresh == "" {
		refresh = refreshToken
	}
	return access, refresh, nil
}

// Me resolves the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*session.User, error) {
	var user session.User
	if err := c.call(ctx, http.MethodGet, "/users/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout invalidates the credential pair server-side. Local state is the
// caller's responsibility.
func (c *Client) Logout(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}
