// Package spotify is a minimal Spotify Web API client covering shows and
// their episode listing.
package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/killallgit/podcast-runtime/internal/models"
	apperrors "github.com/killallgit/podcast-runtime/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Client handles communication with the Spotify Web API
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	tokens     TokenSource
	baseURL    string
	market     string
	userAgent  string
}

// Config holds configuration for the Spotify client
type Config struct {
	BaseURL   string
	Market    string
	UserAgent string
	Timeout   time.Duration
	// RateLimit caps requests per second; zero means unpaced
	RateLimit float64
	Tokens    TokenSource
}

// NewClient creates a new Spotify API client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.spotify.com/v1"
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = "podcast-runtime/1.0"
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:   limiter,
		tokens:    cfg.Tokens,
		baseURL:   cfg.BaseURL,
		market:    cfg.Market,
		userAgent: cfg.UserAgent,
	}
}

// GetShow fetches a show's metadata
func (c *Client) GetShow(ctx context.Context, showID string) (*models.Show, error) {
	params := url.Values{}
	if c.market != "" {
		params.Set("market", c.market)
	}

	endpoint := fmt.Sprintf("shows/%s", url.PathEscape(showID))

	var show ShowObject
	if err := c.makeAPIRequest(ctx, endpoint, params, &show); err != nil {
		if apperrors.Is(err, apperrors.ErrCodeUnauthorized) {
			return nil, err
		}
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeFetch, "fetching show %s failed", showID).
			WithDetail("show_id", showID)
	}
	if err := show.validate(); err != nil {
		return nil, apperrors.Wrapf(fmt.Errorf("%w: %v", ErrMalformedResponse, err), apperrors.ErrCodeFetch,
			"fetching show %s failed", showID).WithDetail("show_id", showID)
	}

	return show.toModel(), nil
}

// GetEpisodes fetches one page of a show's episodes starting at offset
func (c *Client) GetEpisodes(ctx context.Context, showID string, offset, limit int) (*models.Page, error) {
	params := url.Values{}
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))
	if c.market != "" {
		params.Set("market", c.market)
	}

	endpoint := fmt.Sprintf("shows/%s/episodes", url.PathEscape(showID))

	var episodesResp EpisodesResponse
	if err := c.makeAPIRequest(ctx, endpoint, params, &episodesResp); err != nil {
		return nil, wrapFetch(offset, err)
	}
	if err := episodesResp.validate(); err != nil {
		return nil, apperrors.FetchError(offset, fmt.Errorf("%w: %v", ErrMalformedResponse, err))
	}

	return episodesResp.toPage(offset), nil
}

// wrapFetch keeps credential failures distinct from page failures
func wrapFetch(offset int, err error) error {
	if apperrors.Is(err, apperrors.ErrCodeUnauthorized) {
		return err
	}
	return apperrors.FetchError(offset, err)
}

// makeAPIRequest issues one paced, authorized GET and decodes the JSON body
func (c *Client) makeAPIRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	fullURL := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	logrus.WithField("url", fullURL).Debug("calling Spotify API")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return NewAPIError(fullURL, resp.StatusCode, readErrorMessage(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrMalformedResponse, err)
	}

	return nil
}

// readErrorMessage extracts the message of a regular error object, falling
// back to the raw body
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var errResp errorResponse
	if err := json.Unmarshal(raw, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return string(raw)
}

// IsMalformed reports whether err came from an undecodable or incomplete body
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}
