package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/five82/spoolfinder/internal/admin"
	"github.com/five82/spoolfinder/internal/card"
	"github.com/five82/spoolfinder/internal/loader"
	"github.com/five82/spoolfinder/internal/spool"
	"github.com/five82/spoolfinder/internal/ui"
)

// ErrNotFound is returned by Lookup when no record matches.
var ErrNotFound = errors.New("not found")

// Prober checks whether a media URL is reachable.
type Prober interface {
	Probe(ctx context.Context, rawURL string) error
}

// LookupOptions configure Lookup.
type LookupOptions struct {
	ByName bool
	// Prober, when set, checks every media link before printing so dead
	// links show as placeholders.
	Prober Prober
}

// Lookup loads the dataset and prints the card for query, or "not found".
func Lookup(ctx context.Context, f loader.Fetcher, w io.Writer, query string, opts LookupOptions) error {
	res, err := f.Load(ctx)
	if err != nil {
		return fmt.Errorf("load spools: %w", err)
	}

	find := res.Records.Lookup
	if opts.ByName {
		find = res.Records.LookupName
	}
	rec, ok := find(query)
	if !ok {
		_, _ = fmt.Fprintln(w, "not found")
		return fmt.Errorf("%q: %w", strings.TrimSpace(query), ErrNotFound)
	}

	c := card.Build(rec)
	if opts.Prober != nil {
		for _, m := range c.Media {
			availability := card.Available
			if err := opts.Prober.Probe(ctx, m.Link.View); err != nil {
				availability = card.Broken
			}
			c = c.WithAvailability(m.Slot, availability)
		}
	}
	_, err = io.WriteString(w, c.Text())
	return err
}

// Search loads the dataset and prints up to limit records whose field
// contains query.
func Search(ctx context.Context, f loader.Fetcher, w io.Writer, query string, field spool.Field, limit int) error {
	res, err := f.Load(ctx)
	if err != nil {
		return fmt.Errorf("load spools: %w", err)
	}
	if limit <= 0 {
		limit = spool.DefaultSuggestionLimit
	}

	matches := res.Records.Filter(field, query, limit)
	if len(matches) == 0 {
		_, _ = fmt.Fprintln(w, "no matches")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tSPOOL\tSTATUS\tLOCATION")
	for _, r := range matches {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, orDash(r.Name), orDash(r.Status), orDash(r.Location))
	}
	return tw.Flush()
}

// PrintSources prints the fallback chain in the order it is tried.
func PrintSources(w io.Writer, sources []loader.Source) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tNAME\tKIND\tURL")
	for i, s := range sources {
		kind := "proxy"
		if s.Direct {
			kind = "direct"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, s.Name, kind, s.Template)
	}
	return tw.Flush()
}

// AdminContext bounds one admin call made from the command line.
func AdminContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, ui.AdminRequestTimeout)
}

// Ping checks the admin endpoint and prints the diagnostics.
func Ping(ctx context.Context, u admin.Updater, w io.Writer, now time.Time) error {
	diag, err := u.Ping(ctx)
	if printErr := printRows(w, diag.Lines(now)); printErr != nil {
		return printErr
	}
	return err
}

// Refresh asks the admin endpoint to rebuild the dataset.
func Refresh(ctx context.Context, u admin.Updater, w io.Writer, password string) error {
	resp, err := u.Refresh(ctx, password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, resp.Summary())
	return err
}

func printRows(w io.Writer, rows [][2]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return card.Placeholder
	}
	return s
}
