// Package app is the composition root for spoolfinder.
//
// # Overview
//
// Bootstrap wires configuration, preferences, logging, the dataset loader,
// the media prober and the admin client into an Env. The TUI and every
// subcommand share the same Env.
//
//	┌──────────────┐
//	│ Bootstrap()  │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()      TOML file, then SPOOLFINDER_* env
//	       ├─────> prefs.Load()       theme and search mode
//	       ├─────> logging.New()      zap JSON log file
//	       ├─────> loader.New()       direct source plus proxy chain
//	       ├─────> admin.NewClient()  ping and refresh endpoint
//	       └─────> media.NewProber()  HEAD/GET link checks
//
// # Components
//
//   - app.go: Options, Env, Bootstrap and the TUI entry point
//   - commands.go: lookup, search, sources and admin commands that print to
//     an io.Writer
//
// # Error Handling
//
// Bootstrap fails on an invalid config file, a malformed source or admin URL
// and an unwritable log path. A missing preferences file is not an error.
// Load failures are never fatal: the TUI shows them with a retry hint and
// the subcommands return them wrapped with "load spools".
//
// Lookup returns ErrNotFound when nothing matches so callers can exit
// non-zero without printing the error twice.
//
// # Usage Example
//
//	env, err := app.Bootstrap(ctx, app.Options{Verbose: true})
//	if err != nil {
//		return err
//	}
//	defer env.Close()
//	return app.Lookup(ctx, env.Loader, os.Stdout, "S-100", app.LookupOptions{})
package app
