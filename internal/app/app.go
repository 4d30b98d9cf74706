package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/five82/spoolfinder/internal/admin"
	"github.com/five82/spoolfinder/internal/config"
	"github.com/five82/spoolfinder/internal/loader"
	"github.com/five82/spoolfinder/internal/logging"
	"github.com/five82/spoolfinder/internal/media"
	"github.com/five82/spoolfinder/internal/prefs"
	"github.com/five82/spoolfinder/internal/state"
	"github.com/five82/spoolfinder/internal/ui"
)

// Options configure spoolfinder.
type Options struct {
	ConfigPath string // empty uses ~/.config/spoolfinder/config.toml
	PrefsPath  string // empty uses ~/.config/spoolfinder/prefs.toml
	Verbose    bool
}

// Env holds the wired services shared by the TUI and the subcommands.
type Env struct {
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	Logger    *zap.Logger
	Loader    *loader.Loader
	Prober    *media.Prober
	Admin     *admin.Client
}

// Bootstrap loads configuration and preferences, opens the log file and
// builds the loader, media prober and admin client.
func Bootstrap(ctx context.Context, opts Options) (*Env, error) {
	cfg, err := config.Load(ctx, opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	logger, err := logging.New(logging.Options{Path: cfg.LogPath, Verbose: opts.Verbose})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	l, err := loader.New(loader.Options{
		SourceURL: cfg.SourceURL,
		Proxies:   cfg.Proxies,
		Timeout:   cfg.RequestTimeout,
		Logger:    logger.Named("loader"),
	})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("init loader: %w", err)
	}

	adminClient, err := admin.NewClient(admin.Options{
		Endpoint: cfg.Admin.URL,
		Password: cfg.Admin.Password,
		Logger:   logger.Named("admin"),
	})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("init admin client: %w", err)
	}

	logger.Debug("bootstrap complete",
		zap.String("source_url", cfg.SourceURL),
		zap.Int("proxies", len(cfg.Proxies)),
		zap.Bool("admin_configured", adminClient.Endpoint() != ""))

	return &Env{
		Config:    cfg,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Logger:    logger,
		Loader:    l,
		Prober:    media.NewProber(nil, cfg.ProbeTimeout),
		Admin:     adminClient,
	}, nil
}

// Now returns the current time.
func (e *Env) Now() time.Time {
	return time.Now()
}

// Close flushes the logger.
func (e *Env) Close() {
	if e == nil || e.Logger == nil {
		return
	}
	_ = e.Logger.Sync()
}

// RunUI starts the TUI and blocks until the user quits or ctx is cancelled.
func (e *Env) RunUI(ctx context.Context) error {
	if e == nil {
		return errors.New("app is not bootstrapped")
	}
	e.Logger.Info("starting tui", zap.String("theme", e.Prefs.Theme), zap.String("search_mode", e.Prefs.SearchMode))
	return ui.Run(ui.Options{
		Context: ctx,
		Loader:  e.Loader,
		Prober:  e.Prober,
		Admin:   e.Admin,
		Session: state.Config{
			SuggestionLimit: e.Config.SuggestionLimit,
			Debounce:        e.Config.Debounce,
		},
		ThemeName:  e.Prefs.Theme,
		SearchMode: state.ParseMode(e.Prefs.SearchMode),
		PrefsPath:  e.PrefsPath,
		LogPath:    e.Config.LogPath,
		Logger:     e.Logger,
	})
}

// Run boots spoolfinder and runs the TUI.
func Run(ctx context.Context, opts Options) error {
	env, err := Bootstrap(ctx, opts)
	if err != nil {
		return err
	}
	defer env.Close()
	return env.RunUI(ctx)
}
