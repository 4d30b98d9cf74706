package loader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/five82/spoolfinder/internal/fallback"
	"github.com/five82/spoolfinder/internal/spool"
)

// Fetcher loads the spool collection. It is implemented by *Loader and can be
// replaced in tests.
type Fetcher interface {
	Load(ctx context.Context) (Result, error)
}

// Ensure Loader implements Fetcher at compile time.
var _ Fetcher = (*Loader)(nil)

const (
	defaultTimeout   = 12 * time.Second
	defaultUserAgent = "spoolfinder/0.1"
	cacheBustParam   = "t"
	directSourceName = "direct"
)

// Options configure a Loader.
type Options struct {
	SourceURL  string
	Proxies    []string // URL prefixes; the encoded target is appended
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
	Now        func() time.Time
}

// Source is one entry of the fallback chain.
type Source struct {
	Name     string
	Template string
	Direct   bool
}

// Result is a successful load.
type Result struct {
	Records  spool.Collection
	Source   string
	Failures []fallback.Failure
	Duration time.Duration
}

// Loader fetches the dataset directly and then through each proxy.
type Loader struct {
	source    *url.URL
	chain     []Source
	http      *http.Client
	timeout   time.Duration
	userAgent string
	logger    *zap.Logger
	now       func() time.Time
}

// New validates opts and builds a Loader.
func New(opts Options) (*Loader, error) {
	source, err := parseSourceURL(opts.SourceURL)
	if err != nil {
		return nil, err
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	chain := []Source{{Name: directSourceName, Template: source.String(), Direct: true}}
	seen := map[string]int{directSourceName: 1}
	for _, prefix := range opts.Proxies {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" {
			continue
		}
		name := proxyName(prefix)
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s#%d", name, n)
		}
		chain = append(chain, Source{Name: name, Template: prefix})
	}

	return &Loader{
		source:    source,
		chain:     chain,
		http:      client,
		timeout:   timeout,
		userAgent: defaultUserAgent,
		logger:    logger,
		now:       now,
	}, nil
}

// Sources returns the configured fallback chain in the order it is tried.
func (l *Loader) Sources() []Source {
	dup := make([]Source, len(l.chain))
	copy(dup, l.chain)
	return dup
}

// Load tries the direct source and then every proxy, returning the first
// non-empty record array. When all fail the error is a *Failure.
func (l *Loader) Load(ctx context.Context) (Result, error) {
	if l == nil {
		return Result{}, fmt.Errorf("loader is nil")
	}
	started := l.now()
	target := l.cacheBusted(started)
	log := l.logger.With(zap.String("load_id", uuid.NewString()))

	attempts := make([]fallback.Attempt[[]spool.Record], 0, len(l.chain))
	for _, src := range l.chain {
		reqURL := target
		if !src.Direct {
			reqURL = src.Template + url.QueryEscape(target)
		}
		attempts = append(attempts, l.attempt(log, src.Name, reqURL))
	}

	records, outcome, err := fallback.First(ctx, attempts...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, fmt.Errorf("load cancelled: %w", err)
		}
		var exhausted *fallback.ExhaustedError
		if errors.As(err, &exhausted) {
			failure := &Failure{Attempts: exhausted.Failures}
			log.Error("all sources failed", zap.Strings("sources", failure.Sources()), zap.Error(failure.Last()))
			return Result{}, failure
		}
		return Result{}, err
	}

	res := Result{
		Records:  spool.NewCollection(records),
		Source:   outcome.Winner,
		Failures: outcome.Failures,
		Duration: l.now().Sub(started),
	}
	log.Info("spools loaded",
		zap.String("source", res.Source),
		zap.Int("records", res.Records.Len()),
		zap.Int("failed_sources", len(res.Failures)),
		zap.Duration("duration", res.Duration))
	return res, nil
}

func (l *Loader) attempt(log *zap.Logger, name, reqURL string) fallback.Attempt[[]spool.Record] {
	return fallback.Attempt[[]spool.Record]{
		Name: name,
		Do: func(ctx context.Context) ([]spool.Record, error) {
			ctx, cancel := context.WithTimeout(ctx, l.timeout)
			defer cancel()

			start := time.Now()
			log.Debug("trying source", zap.String("source", name), zap.String("url", reqURL))
			records, err := l.fetch(ctx, reqURL)
			if err != nil {
				log.Warn("source failed",
					zap.String("source", name),
					zap.Duration("elapsed", time.Since(start)),
					zap.Error(err))
				return nil, err
			}
			return records, nil
		},
	}
}

func (l *Loader) fetch(ctx context.Context, reqURL string) ([]spool.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := readBody(resp.Body)
	if err != nil {
		return nil, err
	}
	return decodeRecords(body)
}

func (l *Loader) cacheBusted(at time.Time) string {
	dup := *l.source
	param := cacheBustParam + "=" + strconv.FormatInt(at.UnixMilli(), 10)
	if dup.RawQuery == "" {
		dup.RawQuery = param
	} else {
		dup.RawQuery += "&" + param
	}
	return dup.String()
}

func parseSourceURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("source url is empty")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse source url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("source url %q must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("source url %q has no host", raw)
	}
	u.Fragment = ""
	return u, nil
}

func proxyName(prefix string) string {
	u, err := url.Parse(prefix)
	if err != nil || u.Host == "" {
		return prefix
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
}
