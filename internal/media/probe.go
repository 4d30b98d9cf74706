package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultProbeTimeout = 8 * time.Second
	defaultUserAgent    = "spoolfinder/0.1"
)

// ErrBlankURL is returned when probing an empty reference.
var ErrBlankURL = errors.New("media url is blank")

// Prober checks whether a media URL is reachable so the view can swap in a
// placeholder instead of a dead link.
type Prober struct {
	http      *http.Client
	timeout   time.Duration
	userAgent string
}

// NewProber builds a Prober. A nil client uses a default one; a non-positive
// timeout uses the package default.
func NewProber(client *http.Client, timeout time.Duration) *Prober {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &Prober{http: client, timeout: timeout, userAgent: defaultUserAgent}
}

// Probe issues a HEAD request, retrying once with GET when the server does
// not support HEAD. Any non-2xx/3xx response is reported as an error.
func (p *Prober) Probe(ctx context.Context, rawURL string) error {
	if p == nil {
		return fmt.Errorf("prober is nil")
	}
	target := strings.TrimSpace(rawURL)
	if target == "" {
		return ErrBlankURL
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	status, err := p.request(ctx, http.MethodHead, target)
	if err != nil {
		return err
	}
	if status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented {
		status, err = p.request(ctx, http.MethodGet, target)
		if err != nil {
			return err
		}
	}
	if status >= 400 {
		return fmt.Errorf("media %s returned status %d", target, status)
	}
	return nil
}

func (p *Prober) request(ctx context.Context, method, target string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	if method == http.MethodGet {
		req.Header.Set("Range", "bytes=0-0")
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return resp.StatusCode, nil
}
