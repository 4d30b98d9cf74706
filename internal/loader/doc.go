// Package loader fetches the spool dataset, falling back through public proxy
// endpoints when the source cannot be reached directly.
//
// # Fallback Chain
//
// A Loader is configured with one source URL and an ordered list of proxy
// prefixes. Each Load builds the chain fresh:
//
//  1. direct: the source URL with a cache-busting t=<unix millis> parameter
//  2. one entry per proxy: prefix + url.QueryEscape(cache-busted source)
//
// Entries run strictly in order through package fallback. Each entry gets its
// own timeout (12s by default) and is tried exactly once. The first entry
// that answers 2xx with a non-empty JSON array wins, and later entries are
// never contacted.
//
// # Failure Semantics
//
// Network errors, non-2xx responses (*StatusError), invalid JSON
// (ErrInvalidJSON), non-array payloads (ErrNotSequence) and empty arrays
// (ErrEmptyPayload) all mean "try the next source". Only when the chain is
// exhausted does Load return a *Failure listing every attempted source and
// the last error, for display in the error panel.
//
// Some proxies wrap the proxied body as {"contents": "<text>"}; the envelope
// is unwrapped before decoding.
//
// # Logging
//
// Every load carries a load_id field. Failed sources are logged at warn level
// and the winning source at info level.
package loader
