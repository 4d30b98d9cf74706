// Package config loads spoolfinder's settings.
//
// # Resolution Order
//
//  1. Built-in defaults (Default)
//  2. The TOML file at the given path, or ~/.config/spoolfinder/config.toml
//  3. SPOOLFINDER_* environment variables
//
// A missing file is not an error. Blank or zero values in the file keep the
// default, and unset environment variables keep the file value.
//
// # File Format
//
//	source_url       = "https://drive.google.com/uc?export=download&id=..."
//	proxies          = ["https://api.allorigins.win/raw?url=", "https://corsproxy.io/?"]
//	request_timeout  = "12s"
//	probe_timeout    = "5s"
//	suggestion_limit = 8
//	debounce         = "300ms"
//	log_path         = "~/.local/state/spoolfinder/spoolfinder.log"
//
//	[admin]
//	url      = "https://script.google.com/macros/s/.../exec"
//	password = "..."
//
// Durations use time.ParseDuration syntax. Paths starting with ~ are expanded
// against the user's home directory.
//
// # Environment
//
//	SPOOLFINDER_SOURCE_URL, SPOOLFINDER_PROXIES (comma separated),
//	SPOOLFINDER_REQUEST_TIMEOUT, SPOOLFINDER_ADMIN_URL,
//	SPOOLFINDER_ADMIN_PASSWORD, SPOOLFINDER_LOG_PATH
//
// The admin password is only a client-side gate before the refresh request
// is sent. Leaving it unset disables refresh entirely.
package config
