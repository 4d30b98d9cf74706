package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/sethvargo/go-envconfig"
)

// Config holds everything spoolfinder needs to load and search the dataset.
type Config struct {
	SourceURL       string
	Proxies         []string
	RequestTimeout  time.Duration
	ProbeTimeout    time.Duration
	SuggestionLimit int
	Debounce        time.Duration
	LogPath         string
	Admin           Admin
}

// Admin configures the remote update endpoint.
type Admin struct {
	URL      string
	Password string
}

const (
	defaultConfigPath      = "~/.config/spoolfinder/config.toml"
	defaultLogPath         = "~/.local/state/spoolfinder/spoolfinder.log"
	defaultSourceURL       = "https://drive.google.com/uc?export=download&id=1HXkXhHbPj7RtPs-yv2Vnvr1rju54Imb0"
	defaultRequestTimeout  = 12 * time.Second
	defaultProbeTimeout    = 5 * time.Second
	defaultSuggestionLimit = 8
	defaultDebounce        = 300 * time.Millisecond
)

// DefaultProxies is the fallback chain used when the config names none.
func DefaultProxies() []string {
	return []string{
		"https://api.allorigins.win/raw?url=",
		"https://corsproxy.io/?",
		"https://api.codetabs.com/v1/proxy?quest=",
	}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SourceURL:       defaultSourceURL,
		Proxies:         DefaultProxies(),
		RequestTimeout:  defaultRequestTimeout,
		ProbeTimeout:    defaultProbeTimeout,
		SuggestionLimit: defaultSuggestionLimit,
		Debounce:        defaultDebounce,
		LogPath:         mustExpand(defaultLogPath),
	}
}

type fileConfig struct {
	SourceURL       string   `toml:"source_url"`
	Proxies         []string `toml:"proxies"`
	RequestTimeout  string   `toml:"request_timeout"`
	ProbeTimeout    string   `toml:"probe_timeout"`
	SuggestionLimit int      `toml:"suggestion_limit"`
	Debounce        string   `toml:"debounce"`
	LogPath         string   `toml:"log_path"`
	Admin           struct {
		URL      string `toml:"url"`
		Password string `toml:"password"`
	} `toml:"admin"`
}

// envOverrides are applied after the file. Unset variables leave the file
// value alone.
type envOverrides struct {
	SourceURL      string        `env:"SPOOLFINDER_SOURCE_URL"`
	Proxies        []string      `env:"SPOOLFINDER_PROXIES"`
	RequestTimeout time.Duration `env:"SPOOLFINDER_REQUEST_TIMEOUT"`
	AdminURL       string        `env:"SPOOLFINDER_ADMIN_URL"`
	AdminPassword  string        `env:"SPOOLFINDER_ADMIN_PASSWORD"`
	LogPath        string        `env:"SPOOLFINDER_LOG_PATH"`
}

// Load reads the config file at path (or the default location), falling back
// to defaults when it is missing, then applies environment overrides.
func Load(ctx context.Context, path string) (Config, error) {
	return load(ctx, path, envconfig.OsLookuper())
}

func load(ctx context.Context, path string, lookuper envconfig.Lookuper) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := cfg.applyFile(resolved); err != nil {
		return Config{}, err
	}

	var env envOverrides
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &env, Lookuper: lookuper}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	cfg.applyEnv(env)

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.SourceURL); v != "" {
		c.SourceURL = v
	}
	if proxies := trimAll(raw.Proxies); len(proxies) > 0 {
		c.Proxies = proxies
	}
	if c.RequestTimeout, err = durationOr(raw.RequestTimeout, c.RequestTimeout); err != nil {
		return fmt.Errorf("parse config: request_timeout: %w", err)
	}
	if c.ProbeTimeout, err = durationOr(raw.ProbeTimeout, c.ProbeTimeout); err != nil {
		return fmt.Errorf("parse config: probe_timeout: %w", err)
	}
	if c.Debounce, err = durationOr(raw.Debounce, c.Debounce); err != nil {
		return fmt.Errorf("parse config: debounce: %w", err)
	}
	if raw.SuggestionLimit > 0 {
		c.SuggestionLimit = raw.SuggestionLimit
	}
	if v := strings.TrimSpace(raw.LogPath); v != "" {
		c.LogPath = mustExpand(v)
	}
	c.Admin.URL = strings.TrimSpace(raw.Admin.URL)
	c.Admin.Password = raw.Admin.Password
	return nil
}

func (c *Config) applyEnv(env envOverrides) {
	if v := strings.TrimSpace(env.SourceURL); v != "" {
		c.SourceURL = v
	}
	if proxies := trimAll(env.Proxies); len(proxies) > 0 {
		c.Proxies = proxies
	}
	if env.RequestTimeout > 0 {
		c.RequestTimeout = env.RequestTimeout
	}
	if v := strings.TrimSpace(env.AdminURL); v != "" {
		c.Admin.URL = v
	}
	if env.AdminPassword != "" {
		c.Admin.Password = env.AdminPassword
	}
	if v := strings.TrimSpace(env.LogPath); v != "" {
		c.LogPath = mustExpand(v)
	}
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func durationOr(raw string, fallback time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", raw)
	}
	return d, nil
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
