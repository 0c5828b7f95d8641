// Package appleapi is the host API client contract used by the album fetcher
// and an HTTP implementation that talks to the Apple Music API directly.
package appleapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	applemusic "github.com/minchao/go-apple-music"
	"go.uber.org/zap"

	"karolbroda.com/adaptiveaccents/internal/config"
)

var ErrMalformedResponse = errors.New("malformed api response")

// Query holds the query parameters of a single request.
type Query map[string]string

// Encode renders the query with sorted keys so requests are reproducible.
func (q Query) Encode() string {
	if len(q) == 0 {
		return ""
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := url.Values{}
	for _, k := range keys {
		values.Set(k, q[k])
	}
	return values.Encode()
}

// Document is the JSON:API body returned by every endpoint.
type Document struct {
	Data   []json.RawMessage `json:"data"`
	Errors []APIError        `json:"errors,omitempty"`
}

type APIError struct {
	ID     string `json:"id,omitempty"`
	Title  string `json:"title,omitempty"`
	Detail string `json:"detail,omitempty"`
	Status string `json:"status,omitempty"`
	Code   string `json:"code,omitempty"`
}

// Response mirrors the host client's envelope: records live at Data.Data.
type Response struct {
	StatusCode int
	Data       Document
}

// StatusError is returned for any non-200 answer.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Endpoint, e.StatusCode)
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Requester is the versioned request method the host exposes.
type Requester interface {
	V3(ctx context.Context, endpoint string, query Query) (*Response, error)
}

// Decode unmarshals one record into v.
func Decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: empty record", ErrMalformedResponse)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type ClientOptions struct {
	BaseURL        string
	DeveloperToken string
	UserToken      string
	Logger         *zap.Logger
}

// NewClient builds a client whose requests carry the developer and music user
// tokens.
func NewClient(opts ClientOptions) *Client {
	tp := applemusic.Transport{Token: opts.DeveloperToken, MusicUserToken: opts.UserToken}
	httpClient := tp.Client()
	httpClient.Timeout = time.Duration(config.HTTPTimeoutSeconds) * time.Second

	return newClient(opts.BaseURL, httpClient, opts.Logger)
}

func newClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = config.DefaultAPIBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) V3(ctx context.Context, endpoint string, query Query) (*Response, error) {
	if !strings.HasPrefix(endpoint, "/") {
		return nil, fmt.Errorf("endpoint must be absolute: %q", endpoint)
	}

	target := c.baseURL + endpoint
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("[appleapi][V3] request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("[appleapi][V3] response",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	out := &Response{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(&out.Data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedResponse, endpoint, err)
	}

	return out, nil
}
