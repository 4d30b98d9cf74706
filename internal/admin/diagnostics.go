package admin

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Diagnostics describe the outcome of a connectivity check.
type Diagnostics struct {
	Endpoint   string
	Reachable  bool
	StatusCode int
	Latency    time.Duration
	Status     string
	Message    string
	CheckedAt  time.Time
	Err        error
}

// Lines renders the diagnostics as label/value rows relative to now.
func (d Diagnostics) Lines(now time.Time) [][2]string {
	endpoint := d.Endpoint
	if endpoint == "" {
		endpoint = "not configured"
	}
	rows := [][2]string{{"Endpoint", endpoint}}

	reach := "unreachable"
	if d.Reachable {
		reach = "reachable"
	}
	rows = append(rows, [2]string{"Connection", reach})

	if d.StatusCode > 0 {
		rows = append(rows, [2]string{"HTTP status", fmt.Sprintf("%d", d.StatusCode)})
	}
	if d.Latency > 0 {
		rows = append(rows, [2]string{"Latency", d.Latency.Round(time.Millisecond).String()})
	}
	if d.Status != "" {
		rows = append(rows, [2]string{"Remote status", d.Status})
	}
	if msg := strings.TrimSpace(d.Message); msg != "" {
		rows = append(rows, [2]string{"Message", msg})
	}
	if d.Err != nil {
		rows = append(rows, [2]string{"Error", d.Err.Error()})
	}
	if !d.CheckedAt.IsZero() {
		rows = append(rows, [2]string{"Checked", humanize.RelTime(d.CheckedAt, now, "ago", "from now")})
	}
	return rows
}

// Summary is a one-line description of a refresh result.
func (r RefreshResponse) Summary() string {
	msg := strings.TrimSpace(r.Message)
	count := humanize.Comma(int64(r.RecordCount)) + " records"
	if msg == "" {
		return "Data refreshed: " + count
	}
	return fmt.Sprintf("Data refreshed: %s (%s)", count, msg)
}
