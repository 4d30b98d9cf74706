package admin

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Updater triggers and checks the remote data refresh. It is implemented by
// *Client and can be replaced in tests.
type Updater interface {
	Ping(ctx context.Context) (Diagnostics, error)
	Refresh(ctx context.Context, password string) (RefreshResponse, error)
	Endpoint() string
}

// Ensure Client implements Updater at compile time.
var _ Updater = (*Client)(nil)

var (
	// ErrNotConfigured is returned when no admin endpoint is set.
	ErrNotConfigured = errors.New("admin endpoint not configured")
	// ErrWrongPassword is returned when the password does not match the
	// configured one. The check is client-side only.
	ErrWrongPassword = errors.New("incorrect password")
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "spoolfinder/0.1"
	maxResponseBytes = 1 << 20
	statusSuccess    = "success"
)

// RemoteError reports a refresh the endpoint answered but did not accept.
type RemoteError struct {
	Status  string
	Message string
}

func (e *RemoteError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = "no message"
	}
	return fmt.Sprintf("remote refresh %s: %s", e.Status, msg)
}

// HTTPError reports a non-2xx response from the endpoint.
type HTTPError struct {
	Code int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("admin endpoint returned status %d", e.Code)
}

// RefreshRequest is the POST body sent to trigger a refresh.
type RefreshRequest struct {
	Action    string `json:"action"`
	Password  string `json:"password"`
	Timestamp int64  `json:"timestamp"`
}

// RefreshResponse mirrors the endpoint's reply.
type RefreshResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	RecordCount int    `json:"recordCount"`
}

type pingResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Options configure a Client.
type Options struct {
	Endpoint   string
	Password   string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *zap.Logger
	Now        func() time.Time
}

// Client talks to the remote update endpoint.
type Client struct {
	endpoint  *url.URL
	password  string
	http      *http.Client
	timeout   time.Duration
	userAgent string
	logger    *zap.Logger
	now       func() time.Time
}

// NewClient builds a Client. An empty endpoint is allowed; every call then
// fails with ErrNotConfigured.
func NewClient(opts Options) (*Client, error) {
	c := &Client{
		password:  opts.Password,
		http:      opts.HTTPClient,
		timeout:   opts.Timeout,
		userAgent: defaultUserAgent,
		logger:    opts.Logger,
		now:       opts.Now,
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.now == nil {
		c.now = time.Now
	}

	if trimmed := strings.TrimSpace(opts.Endpoint); trimmed != "" {
		u, err := url.Parse(trimmed)
		if err != nil {
			return nil, fmt.Errorf("parse admin url %q: %w", opts.Endpoint, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("admin url %q must be http or https", opts.Endpoint)
		}
		c.endpoint = u
	}
	return c, nil
}

// Endpoint returns the configured endpoint, or "" when unset.
func (c *Client) Endpoint() string {
	if c == nil || c.endpoint == nil {
		return ""
	}
	return c.endpoint.String()
}

// Ping checks connectivity with GET ?action=ping. The returned Diagnostics
// are filled in even when err is non-nil.
func (c *Client) Ping(ctx context.Context) (Diagnostics, error) {
	if c == nil || c.endpoint == nil {
		return Diagnostics{Err: ErrNotConfigured}, ErrNotConfigured
	}

	diag := Diagnostics{Endpoint: c.endpoint.String(), CheckedAt: c.now()}

	target := *c.endpoint
	q := target.Query()
	q.Set("action", "ping")
	target.RawQuery = q.Encode()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		diag.Err = fmt.Errorf("create request: %w", err)
		return diag, diag.Err
	}
	c.decorate(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	diag.Latency = time.Since(start)
	if err != nil {
		diag.Err = fmt.Errorf("execute request: %w", err)
		c.logger.Warn("admin ping failed", zap.String("endpoint", diag.Endpoint), zap.Error(err))
		return diag, diag.Err
	}
	defer func() { _ = resp.Body.Close() }()

	diag.Reachable = true
	diag.StatusCode = resp.StatusCode
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		diag.Err = fmt.Errorf("read response: %w", err)
		c.logger.Warn("admin ping read failed", zap.String("endpoint", diag.Endpoint), zap.Error(err))
		return diag, diag.Err
	}

	var payload pingResponse
	if err := json.Unmarshal(body, &payload); err == nil {
		diag.Status = payload.Status
		diag.Message = payload.Message
	} else {
		diag.Message = "response is not JSON"
	}

	if resp.StatusCode >= 400 {
		diag.Err = &HTTPError{Code: resp.StatusCode}
		return diag, diag.Err
	}
	c.logger.Info("admin ping",
		zap.String("endpoint", diag.Endpoint),
		zap.Int("status_code", diag.StatusCode),
		zap.Duration("latency", diag.Latency))
	return diag, nil
}

// Refresh verifies password against the configured one and asks the
// endpoint to rebuild the published dataset.
func (c *Client) Refresh(ctx context.Context, password string) (RefreshResponse, error) {
	if c == nil || c.endpoint == nil {
		return RefreshResponse{}, ErrNotConfigured
	}
	if !c.checkPassword(password) {
		c.logger.Warn("admin refresh rejected: wrong password")
		return RefreshResponse{}, ErrWrongPassword
	}

	body, err := json.Marshal(RefreshRequest{
		Action:    "refresh",
		Password:  password,
		Timestamp: c.now().UnixMilli(),
	})
	if err != nil {
		return RefreshResponse{}, fmt.Errorf("encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return RefreshResponse{}, fmt.Errorf("create request: %w", err)
	}
	c.decorate(req)
	req.Header.Set("Content-Type", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	log := c.logger.With(zap.String("request_id", requestID))

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("admin refresh failed", zap.Error(err))
		return RefreshResponse{}, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return RefreshResponse{}, &HTTPError{Code: resp.StatusCode}
	}

	var out RefreshResponse
	decoder := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	if err := decoder.Decode(&out); err != nil {
		return RefreshResponse{}, fmt.Errorf("decode response: %w", err)
	}
	if out.Status != statusSuccess {
		log.Warn("admin refresh refused", zap.String("status", out.Status), zap.String("message", out.Message))
		return out, &RemoteError{Status: out.Status, Message: out.Message}
	}
	log.Info("admin refresh succeeded", zap.Int("records", out.RecordCount))
	return out, nil
}

func (c *Client) checkPassword(given string) bool {
	if c.password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(c.password)) == 1
}

func (c *Client) decorate(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
}
