package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_DriveShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		id   string
	}{
		{"file view", "https://drive.google.com/file/d/XYZ/view", "XYZ"},
		{"file view sharing", "https://drive.google.com/file/d/1AbC-d_E/view?usp=sharing", "1AbC-d_E"},
		{"open", "https://drive.google.com/open?id=abc123", "abc123"},
		{"uc download", "https://drive.google.com/uc?export=download&id=1HXk", "1HXk"},
		{"docs uc", "https://docs.google.com/uc?id=QQQ&export=download", "QQQ"},
		{"thumbnail", "https://drive.google.com/thumbnail?id=T1&sz=w400", "T1"},
		{"docs document", "https://docs.google.com/document/d/DOC9/edit", "DOC9"},
		{"surrounding space", "  https://drive.google.com/file/d/SP/view  ", "SP"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Normalize(tt.in)
			assert.Equal(t, ProviderDrive, l.Provider)
			assert.Equal(t, tt.id, l.FileID)
			assert.Equal(t, "https://drive.google.com/uc?export=view&id="+tt.id, l.View)
			assert.Equal(t, "https://drive.google.com/uc?export=download&id="+tt.id, l.Download)
			assert.Equal(t, "https://drive.google.com/file/d/"+tt.id+"/preview", l.Preview)
			assert.Equal(t, tt.in, l.Original)
		})
	}
}

func TestNormalize_Dropbox(t *testing.T) {
	l := Normalize("https://www.dropbox.com/s/abc/plan.pdf?dl=0")
	assert.Equal(t, ProviderDropbox, l.Provider)
	assert.Equal(t, "https://www.dropbox.com/s/abc/plan.pdf?raw=1", l.View)
	assert.Equal(t, "https://www.dropbox.com/s/abc/plan.pdf?dl=1", l.Download)
	assert.Empty(t, l.FileID)
}

func TestNormalize_FallsBackToOriginal(t *testing.T) {
	for _, in := range []string{
		"https://example.com/photos/1.jpg",
		"https://drive.google.com/drive/folders",
		"not a url",
		"::bad",
	} {
		l := Normalize(in)
		assert.Equal(t, ProviderNone, l.Provider, in)
		assert.Equal(t, in, l.View, in)
		assert.Equal(t, in, l.Download, in)
	}

	blank := Normalize("   ")
	assert.True(t, blank.Empty())
	assert.Empty(t, blank.View)
}

func TestSniffKind(t *testing.T) {
	assert.Equal(t, KindPDF, SniffKind("https://example.com/ISO-1.PDF"))
	assert.Equal(t, KindPDF, SniffKind("https://example.com/plan.pdf?x=1"))
	assert.Equal(t, KindImage, SniffKind("https://example.com/plan.png"))
	assert.Equal(t, KindNone, SniffKind(" "))
	assert.Equal(t, "pdf", KindPDF.String())
}

func TestProber_Probe(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.jpg":
			w.WriteHeader(http.StatusOK)
		case "/nohead.jpg":
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			assert.Equal(t, "bytes=0-0", r.Header.Get("Range"))
			w.WriteHeader(http.StatusPartialContent)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	p := NewProber(server.Client(), time.Second)
	ctx := context.Background()

	require.NoError(t, p.Probe(ctx, server.URL+"/ok.jpg"))
	require.NoError(t, p.Probe(ctx, server.URL+"/nohead.jpg"))

	err := p.Probe(ctx, server.URL+"/missing.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned status 404")

	assert.ErrorIs(t, p.Probe(ctx, " "), ErrBlankURL)
}
