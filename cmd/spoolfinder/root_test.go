package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/spoolfinder/internal/spool"
)

func testArgs(t *testing.T, args ...string) []string {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("source_url = %q\nproxies = [%q]\nlog_path = %q\n",
		"https://data.example.com/spools.json", "https://proxy-a.example/raw?url=",
		filepath.Join(dir, "spoolfinder.log"))
	require.NoError(t, os.WriteFile(cfg, []byte(body), 0o644))
	return append([]string{"--config", cfg, "--prefs", filepath.Join(dir, "prefs.toml")}, args...)
}

func TestExecuteClosesEnvWhenCommandFails(t *testing.T) {
	st := &cliState{}
	var out, errOut bytes.Buffer

	err := execute(context.Background(), st, testArgs(t, "search", "x", "--by", "colour"), &out, &errOut)
	require.ErrorContains(t, err, "unknown search field")
	require.NotNil(t, st.env)
	assert.True(t, st.closed)
}

func TestExecuteSources(t *testing.T) {
	st := &cliState{}
	var out bytes.Buffer

	err := execute(context.Background(), st, testArgs(t, "sources"), &out, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "direct")
	assert.Contains(t, out.String(), "proxy-a.example")
	assert.True(t, st.closed)
}

func TestParseField(t *testing.T) {
	tests := []struct {
		in   string
		want spool.Field
		ok   bool
	}{
		{"", spool.FieldID, true},
		{"id", spool.FieldID, true},
		{" Name ", spool.FieldName, true},
		{"spool", spool.FieldName, true},
		{"colour", spool.FieldID, false},
	}
	for _, tt := range tests {
		got, err := parseField(tt.in)
		if tt.ok {
			require.NoError(t, err, tt.in)
		} else {
			require.Error(t, err, tt.in)
		}
		assert.Equal(t, tt.want, got, tt.in)
	}
}
