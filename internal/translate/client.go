// Package translate fills in missing catalog strings through a machine
// translation endpoint.
//
// The endpoint speaks the LibreTranslate wire format:
//
//	POST {endpoint}
//	{"q": "...", "source": "id", "target": "en", "format": "text"}
//	-> {"translatedText": "..."}
//
// Translation is best effort. Every failure is logged and reported as an
// empty result so the caller keeps the untranslated text.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/roach88/kain/internal/shop"
)

// DefaultTimeout bounds a single translation request.
const DefaultTimeout = 5 * time.Second

// maxErrorBody caps how much of an error response is read into a log line.
const maxErrorBody = 512

// Client calls a translation endpoint.
//
// Thread-safety: Client is safe for concurrent use.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (used by tests to point
// at an httptest.Server transport).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithTimeout sets the per-request timeout. Default: DefaultTimeout.
// A client passed through WithHTTPClient is copied, never modified.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		hc := *cl.httpClient
		hc.Timeout = d
		cl.httpClient = &hc
	}
}

// WithAPIKey sends key as "api_key" in each request body.
func WithAPIKey(key string) Option {
	return func(cl *Client) {
		cl.apiKey = key
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = l
	}
}

// New creates a Client for endpoint.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type response struct {
	TranslatedText string `json:"translatedText"`
}

// Translate returns text translated from source to target, or "" when the
// input is blank or the request fails for any reason.
func (c *Client) Translate(ctx context.Context, text string, source, target shop.Locale) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	out, err := c.translate(ctx, text, source, target)
	if err != nil {
		c.logger.Warn("translation failed", "source", source, "target", target, "error", err)
		return ""
	}
	return out
}

func (c *Client) translate(ctx context.Context, text string, source, target shop.Locale) (string, error) {
	body, err := json.Marshal(request{
		Q:      text,
		Source: string(source),
		Target: string(target),
		Format: "text",
		APIKey: c.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var result response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return strings.TrimSpace(result.TranslatedText), nil
}
