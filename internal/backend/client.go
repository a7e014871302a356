package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/five82/arbor/internal/stage"
)

// Fetcher is the read-only surface of the backend. *Client implements it;
// tests substitute fakes.
type Fetcher interface {
	FetchConfig(ctx context.Context) (stage.Snapshot, error)
	FetchData(ctx context.Context) (Data, error)
	FetchStats(ctx context.Context) (*StatsResponse, error)
}

var _ Fetcher = (*Client)(nil)

// Client talks to a growth tree backend.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	// DefaultTimeout bounds every request.
	DefaultTimeout = 10 * time.Second
	defaultVersion = "dev"
)

// ErrNoURL is returned when the client is built without an endpoint.
var ErrNoURL = errors.New("backend url is empty")

// NewClient builds a Client for apiURL. A non-positive timeout uses
// DefaultTimeout. version feeds the User-Agent header.
func NewClient(apiURL string, timeout time.Duration, version string) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if strings.TrimSpace(version) == "" {
		version = defaultVersion
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		userAgent: "arbor/" + version,
	}, nil
}

// HTTPClient exposes the underlying client so image downloads share its
// timeout and connection pool.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// FetchConfig retrieves and validates the remote configuration.
func (c *Client) FetchConfig(ctx context.Context) (stage.Snapshot, error) {
	if c == nil {
		return stage.Snapshot{}, fmt.Errorf("client is nil")
	}
	var payload ConfigResponse
	if err := c.do(ctx, "getConfig", &payload); err != nil {
		return stage.Snapshot{}, err
	}
	if payload.Error != "" {
		return stage.Snapshot{}, serverError("getConfig", payload.Error)
	}
	if err := payload.validate(); err != nil {
		return stage.Snapshot{}, err
	}
	return payload.Snapshot(), nil
}

// FetchData retrieves the current counter value.
func (c *Client) FetchData(ctx context.Context) (Data, error) {
	if c == nil {
		return Data{}, fmt.Errorf("client is nil")
	}
	var payload DataResponse
	if err := c.do(ctx, "getData", &payload); err != nil {
		return Data{}, err
	}
	if payload.Error != "" {
		return Data{}, serverError("getData", payload.Error)
	}
	return payload.Data()
}

// FetchStats retrieves usage statistics.
func (c *Client) FetchStats(ctx context.Context) (*StatsResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload StatsResponse
	if err := c.do(ctx, "getStats", &payload); err != nil {
		return nil, err
	}
	if payload.Error != "" {
		return nil, serverError("getStats", payload.Error)
	}
	return &payload, nil
}

// ServerError is an error body the backend returned for an action.
type ServerError struct {
	Action  string
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("api %s: server error: %s", e.Action, e.Message)
}

func serverError(action, msg string) error {
	return &ServerError{Action: action, Message: msg}
}

func (c *Client) do(ctx context.Context, action string, dest any) error {
	reqURL := *c.baseURL
	values := reqURL.Query()
	values.Set("action", action)
	reqURL.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", action, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", ErrMalformed, action, err)
	}
	return nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		return nil, ErrNoURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	q := u.Query()
	q.Del("action")
	u.RawQuery = q.Encode()
	u.Fragment = ""
	return u, nil
}
