// Package admin talks to the remote update endpoint that rebuilds the
// published spool dataset.
//
// Ping performs GET <endpoint>?action=ping and reports Diagnostics. Refresh
// checks the password against the configured one before POSTing
// {"action":"refresh","password":...,"timestamp":...}. The password check is
// a client-side gate only; it is not access control.
package admin
