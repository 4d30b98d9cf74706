// Package logtail reads the tail of spoolfinder's own log file for the admin
// diagnostics panel.
//
// Read returns the last N raw lines using a ring buffer, so memory stays
// O(N) regardless of file size. Entries decodes those lines as zap JSON
// records (ts, level, msg plus structured fields). Lines that are not JSON are
// kept as plain messages rather than dropped.
//
// A missing log file is not an error: the panel simply shows no entries.
package logtail
