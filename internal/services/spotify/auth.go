package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	apperrors "github.com/killallgit/podcast-runtime/pkg/errors"
)

const (
	// expiryMargin renews a token slightly before the platform expires it
	expiryMargin = 30 * time.Second
	// defaultLifetime applies when the token response has no usable expires_in
	defaultLifetime = time.Hour
)

// TokenSource supplies bearer tokens for API requests
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ClientCredentials obtains app tokens with the client-credentials grant.
// That grant is enough for the public catalogue; no user is involved.
type ClientCredentials struct {
	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	now          func() time.Time

	mu        sync.Mutex
	token     string
	refreshAt time.Time
}

// tokenResponse is the accounts service reply
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// NewClientCredentials creates a token source for the given app credentials
func NewClientCredentials(tokenURL, clientID, clientSecret string, timeout time.Duration) *ClientCredentials {
	return &ClientCredentials{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: timeout},
		now:          time.Now,
	}
}

// Token returns a cached token, requesting a new one when it is close to expiry
func (c *ClientCredentials) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.refreshAt) {
		return c.token, nil
	}

	if c.clientID == "" || c.clientSecret == "" {
		return "", apperrors.Unauthorized("spotify client credentials are not configured", nil)
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.clientID, c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Unauthorized("requesting access token", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperrors.Unauthorized("requesting access token",
			NewAPIError(c.tokenURL, resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", apperrors.Unauthorized("decoding access token", err)
	}
	if tok.AccessToken == "" {
		return "", apperrors.Unauthorized("token response has no access_token", nil)
	}

	c.token = tok.AccessToken
	c.refreshAt = c.now().Add(refreshAfter(time.Duration(tok.ExpiresIn) * time.Second))

	return c.token, nil
}

// refreshAfter is how long a token with the given lifetime is reused. The
// margin never exceeds half the lifetime, so short-lived tokens are still
// cached.
func refreshAfter(lifetime time.Duration) time.Duration {
	if lifetime <= 0 {
		lifetime = defaultLifetime
	}
	return lifetime - min(expiryMargin, lifetime/2)
}
