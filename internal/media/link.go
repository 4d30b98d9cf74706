package media

import (
	"net/url"
	"regexp"
	"strings"
)

// Provider identifies the cloud-storage service a share link belongs to.
type Provider int

const (
	ProviderNone Provider = iota
	ProviderDrive
	ProviderDropbox
)

// String returns the provider label.
func (p Provider) String() string {
	switch p {
	case ProviderDrive:
		return "google-drive"
	case ProviderDropbox:
		return "dropbox"
	default:
		return "direct"
	}
}

// Link holds the URL variants derived from one media reference. For links
// that match no known share shape every variant equals Original.
type Link struct {
	Original string
	View     string
	Download string
	Preview  string
	FileID   string
	Provider Provider
}

// Empty reports whether the reference was blank.
func (l Link) Empty() bool {
	return strings.TrimSpace(l.Original) == ""
}

const (
	driveViewPrefix     = "https://drive.google.com/uc?export=view&id="
	driveDownloadPrefix = "https://drive.google.com/uc?export=download&id="
)

var (
	drivePathID = regexp.MustCompile(`/(?:file|document|spreadsheets|presentation)/d/([A-Za-z0-9_-]+)`)
	driveHosts  = map[string]struct{}{
		"drive.google.com": {},
		"docs.google.com":  {},
	}
	dropboxHosts = map[string]struct{}{
		"www.dropbox.com": {},
		"dropbox.com":     {},
	}
)

// Normalize derives direct-view and direct-download URLs from a share link.
// Unknown or malformed input falls back to the original URL.
func Normalize(raw string) Link {
	trimmed := strings.TrimSpace(raw)
	fallback := Link{Original: raw, View: trimmed, Download: trimmed, Preview: trimmed}
	if trimmed == "" {
		return Link{Original: raw}
	}

	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return fallback
	}
	host := strings.ToLower(u.Host)

	if _, ok := driveHosts[host]; ok {
		if id := driveFileID(u); id != "" {
			return Link{
				Original: raw,
				View:     driveViewPrefix + id,
				Download: driveDownloadPrefix + id,
				Preview:  "https://drive.google.com/file/d/" + id + "/preview",
				FileID:   id,
				Provider: ProviderDrive,
			}
		}
		return fallback
	}

	if _, ok := dropboxHosts[host]; ok {
		return Link{
			Original: raw,
			View:     withQuery(u, "raw", "1", "dl"),
			Download: withQuery(u, "dl", "1", "raw"),
			Preview:  withQuery(u, "raw", "1", "dl"),
			Provider: ProviderDropbox,
		}
	}

	return fallback
}

func driveFileID(u *url.URL) string {
	if m := drivePathID.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	if id := strings.TrimSpace(u.Query().Get("id")); id != "" {
		return id
	}
	return ""
}

func withQuery(u *url.URL, key, value, drop string) string {
	dup := *u
	q := dup.Query()
	q.Del(drop)
	q.Set(key, value)
	dup.RawQuery = q.Encode()
	return dup.String()
}

// Kind distinguishes how a plan reference should be displayed.
type Kind int

const (
	KindNone Kind = iota
	KindImage
	KindPDF
)

// String returns the kind label.
func (k Kind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindImage:
		return "image"
	default:
		return "none"
	}
}

// SniffKind guesses the media kind from the URL text alone.
func SniffKind(raw string) Kind {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return KindNone
	}
	if strings.Contains(strings.ToLower(trimmed), ".pdf") {
		return KindPDF
	}
	return KindImage
}
