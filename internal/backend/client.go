package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// ErrSessionExpired is returned when the access token is rejected and the
// refresh attempt also fails. Callers should treat it as a forced logout.
var ErrSessionExpired = errors.New("session expired")

// TokenSource provides the credential pair attached to outgoing requests.
// It is implemented by session.Vault.
type TokenSource interface {
	AccessToken() string
	RefreshToken() string
	SetTokens(access, refresh string)
	Clear()
}

// APIError carries a structured failure from the backend envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend error %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Message)
}

// Message extracts the backend-provided message from err, falling back to
// the given default for transport-level failures.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Client talks to the backend REST API. All responses arrive in a common
// envelope; on 401 it transparently refreshes the credential pair and
// retries once, except for public catalog reads where anonymous access is
// expected.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     apt.Logger
}

func NewClient(baseURL string, tokens TokenSource, logger apt.Logger) *Client {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		tokens: tokens,
		logger: logger,
	}
}

// publicPrefixes lists paths that are readable without a credential. A 401
// on these is not treated as a session problem.
var publicPrefixes = []string{"/stores", "/categories", "/menus"}

func isPublicPath(path string) bool {
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// call performs a request and decodes the envelope result into out (which
// may be nil for operations with no result payload). The query may be nil.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out any) error {
	resp, raw, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && !isPublicPath(path) {
		if err := c.refreshTokens(ctx); err != nil {
			c.tokens.Clear()
			return ErrSessionExpired
		}
		resp, raw, err = c.send(ctx, method, path, query, body)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			c.tokens.Clear()
			return ErrSessionExpired
		}
	}

	return decodeEnvelope(resp.StatusCode, raw, out)
}

// send issues a single HTTP request and returns the response with its fully
// read body. Reading the body eagerly keeps the retry path simple.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, []byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("encode request failed: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response failed: %w", err)
	}
	return resp, raw, nil
}

// refreshTokens exchanges the stored refresh token for a new pair.
func (c *Client) refreshTokens(ctx context.Context) error {
	refresh := c.tokens.RefreshToken()
	if refresh == "" {
		return errors.New("no refresh token")
	}
	access, newRefresh, err := c.ExchangeRefreshToken(ctx, refresh)
	if err != nil {
		return err
	}
	c.tokens.SetTokens(access, newRefresh)
	c.logger.Debug("access token refreshed after 401")
	return nil
}
