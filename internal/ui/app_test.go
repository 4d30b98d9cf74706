package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/spoolfinder/internal/admin"
	"github.com/five82/spoolfinder/internal/card"
	"github.com/five82/spoolfinder/internal/fallback"
	"github.com/five82/spoolfinder/internal/loader"
	"github.com/five82/spoolfinder/internal/prefs"
	"github.com/five82/spoolfinder/internal/spool"
	"github.com/five82/spoolfinder/internal/state"
)

type fakeFetcher struct {
	mu     sync.Mutex
	calls  int
	result loader.Result
	errs   []error // consumed per call; nil entries succeed
}

func (f *fakeFetcher) Load(context.Context) (loader.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return loader.Result{}, err
		}
	}
	return f.result, nil
}

type fakeProber struct {
	mu   sync.Mutex
	urls []string
	err  error
}

func (p *fakeProber) Probe(_ context.Context, rawURL string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.urls = append(p.urls, rawURL)
	return p.err
}

type fakeAdmin struct {
	mu         sync.Mutex
	passwords  []string
	pings      int
	refreshErr error
}

func (a *fakeAdmin) Endpoint() string { return "https://script.example.com/exec" }

func (a *fakeAdmin) Ping(context.Context) (admin.Diagnostics, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pings++
	return admin.Diagnostics{
		Endpoint:   a.Endpoint(),
		Reachable:  true,
		StatusCode: 200,
		Status:     "ok",
		CheckedAt:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (a *fakeAdmin) Refresh(_ context.Context, password string) (admin.RefreshResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.passwords = append(a.passwords, password)
	if a.refreshErr != nil {
		return admin.RefreshResponse{}, a.refreshErr
	}
	return admin.RefreshResponse{Status: "success", RecordCount: 1234}, nil
}

func sampleResult() loader.Result {
	return loader.Result{
		Records: spool.NewCollection([]spool.Record{
			{ID: "S-100", Name: "Spool100", Status: "Instalado", Location: "Zona A",
				PhotoURL: "https://drive.google.com/file/d/XYZ/view"},
			{ID: "A1", Name: "Alpha"},
			{ID: "a2", Name: "alpine"},
			{ID: "B1", Name: "Bravo"},
		}),
		Source:   "direct",
		Duration: 420 * time.Millisecond,
	}
}

type harness struct {
	fetcher *fakeFetcher
	prober  *fakeProber
	admin   *fakeAdmin
	prefs   string
	logPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	return &harness{
		fetcher: &fakeFetcher{result: sampleResult()},
		prober:  &fakeProber{},
		admin:   &fakeAdmin{},
		prefs:   filepath.Join(dir, "prefs.toml"),
		logPath: filepath.Join(dir, "spoolfinder.log"),
	}
}

// start builds a sized model and runs the initial load.
func (h *harness) start(t *testing.T, mode state.Mode) Model {
	t.Helper()
	m := New(Options{
		Loader:     h.fetcher,
		Prober:     h.prober,
		Admin:      h.admin,
		Session:    state.Config{Debounce: time.Millisecond},
		SearchMode: mode,
		PrefsPath:  h.prefs,
		LogPath:    h.logPath,
		Now:        func() time.Time { return time.Date(2025, 3, 1, 12, 0, 5, 0, time.UTC) },
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return run(t, next.(Model), m.Init())
}

// run executes cmd and feeds every message it produces back into the model,
// following batches until no command is left.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 200, "command loop did not settle")
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if _, ok := msg.(tea.QuitMsg); ok {
			continue
		}
		next, more := m.Update(msg)
		m = next.(Model)
		queue = append(queue, more)
	}
	return m
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, cmd := m.Update(msg)
		m = run(t, next.(Model), cmd)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyCtrlT = tea.KeyMsg{Type: tea.KeyCtrlT}
	keyBack  = tea.KeyMsg{Type: tea.KeyBackspace}
)

func TestInitLoadsData(t *testing.T) {
	h := newHarness(t)
	m := h.start(t, state.ModeTypeahead)

	assert.Equal(t, 1, h.fetcher.calls)
	assert.Equal(t, state.PhasePopulated, m.Session().Phase)
	assert.Equal(t, 4, m.Session().Collection.Len())

	view := m.View()
	assert.Contains(t, view, "READY")
	assert.Contains(t, view, "direct")
	assert.Contains(t, view, "Type an ID or spool name")
}

func TestLoadFailureShowsSourcesAndRetries(t *testing.T) {
	h := newHarness(t)
	h.fetcher.errs = []error{&loader.Failure{Attempts: []fallback.Failure{
		{Name: "direct", Err: errors.New("status 403")},
		{Name: "corsproxy.io", Err: errors.New("empty dataset")},
	}}}

	m := h.start(t, state.ModeTypeahead)
	require.Equal(t, state.PhaseLoadFailed, m.Session().Phase)

	view := m.View()
	assert.Contains(t, view, "LOAD FAILED")
	assert.Contains(t, view, "corsproxy.io")
	assert.Contains(t, view, "empty dataset")
	assert.Contains(t, view, "Press r to retry")

	// Leave the input so "r" is a shortcut rather than text.
	m = press(t, m, keyEsc, runes("r"))
	assert.Equal(t, 2, h.fetcher.calls)
	assert.Equal(t, state.PhasePopulated, m.Session().Phase)
}

func TestStaleLoadResultIsIgnored(t *testing.T) {
	h := newHarness(t)
	m := h.start(t, state.ModeTypeahead)

	next, _ := m.Update(loadDoneMsg{generation: 0, err: errors.New("late failure")})
	m = next.(Model)
	assert.Equal(t, state.PhasePopulated, m.Session().Phase)
	assert.NoError(t, m.Session().LoadErr)
}

func TestTypeaheadSuggestAndSubmit(t *testing.T) {
	h := newHarness(t)
	m := h.start(t, state.ModeTypeahead)
	require.True(t, m.typing, "typeahead starts with the ID input focused")

	m = press(t, m, runes("a"))
	require.Len(t, m.Session().Suggestions, 2)
	assert.Contains(t, m.View(), "alpine")

	m = press(t, m, keyDown, keyEnter)
	res := m.Session().Result
	require.Equal(t, state.ResultFound, res.Kind)
	assert.Equal(t, "alpine", res.Record.Name)
	assert.Equal(t, "a2", m.inputs[spool.FieldID].Value())
	assert.Empty(t, m.Session().Suggestions)
}

func TestTypeaheadNameFieldProbesMedia(t *testing.T) {
	h := newHarness(t)
	m := h.start(t, state.ModeTypeahead)

	m = press(t, m, keyTab, runes("spool"), keyEnter)
	res := m.Session().Result
	require.Equal(t, state.ResultFound, res.Kind)
	assert.Equal(t, "Spool100", m.inputs[spool.FieldName].Value())

	require.Equal(t, []string{"https://drive.google.com/uc?export=view&id=XYZ"}, h.prober.urls)
	photo, ok := res.Card.MediaFor(card.SlotPhoto)
	require.True(t, ok)
	assert.Equal(t, card.Available, photo.State)

	view := m.View()
	assert.Contains(t, view, "Instalado")
	assert.Contains(t, view, "Zona A")
}

func TestBrokenMediaShowsPlaceholder(t *testing.T) {
	h := newHarness(t)
	h.prober.err = errors.New("status 404")
	m := h.start(t, state.ModeTypeahead)

	m = press(t, m, runes("S-100"), keyEnter)
	require.Equal(t, state.ResultFound, m.Session().Result.Kind)
	assert.Contains(t, m.View(), card.PlaceholderText(card.SlotPhoto))
}

func TestNotFoundIsShown(t *testing.T) {
	h := newHarness(t)
	m := h.start(t, state.ModeTypeahead)

	m = press(t, m, runes("ZZZ"), keyEnter)
	assert.Equal(t, state.ResultNotFound, m.Session().Result.Kind)
	assert.Contains(t, m.View(), `No spool matches "ZZZ"`)
	assert.Equal(t, 4, m.Session().Collection.Len())
}

func TestEscapeDismissesThenLeavesInput(t *testing.T) {
	h := newHarness(t)
	m := h.start(t, state.ModeTypeahead)

	m = press(t, m, runes("a"))
	require.NotEmpty(t, m.Session().Suggestions)

	m = press(t, m, keyEsc)
	assert.Empty(t, m.Session().Suggestions)
	assert.True(t, m.typing)

	m = press(t, m, keyEsc)
	assert.False(t, m.typing)

	m = press(t, m, runes("?"))
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m = press(t, m, runes("x"))
	assert.False(t, m.showHelp)
}

func TestSelectorModePersistsAndSelects(t *testing.T) {
	h := newHarness(t)
	m := h.start(t, state.ModeTypeahead)

	m = press(t, m, keyCtrlT)
	require.Equal(t, state.ModeSelector, m.Session().Mode)
	assert.False(t, m.typing)

	saved, err := prefs.Load(h.prefs)
	require.NoError(t, err)
	assert.Equal(t, "selector", saved.SearchMode)

	m = press(t, m, keyDown, keyEnter)
	res := m.Session().Result
	require.Equal(t, state.ResultFound, res.Kind)
	assert.Equal(t, "Alpha", res.Record.Name)
	assert.Equal(t, "A1", m.Session().Selection.ID)

	m = press(t, m, keyTab, keyDown, keyDown, keyEnter)
	assert.Equal(t, "a2", m.Session().Selection.Name)
	assert.Empty(t, m.Session().Selection.ID, "picking a name clears the id selector")

	m = press(t, m, keyBack)
	assert.Equal(t, state.ResultNone, m.Session().Result.Kind)
}

func TestCycleThemePersists(t *testing.T) {
	h := newHarness(t)
	m := h.start(t, state.ModeSelector)

	assert.Equal(t, GetTheme("Nightfox").Styles().Input.GetBackground(), m.inputs[spool.FieldID].TextStyle.GetBackground())

	m = press(t, m, runes("T"))
	assert.Equal(t, "Kanagawa", m.theme.Name)

	input := GetTheme("Kanagawa").Styles().Input
	for _, f := range []spool.Field{spool.FieldID, spool.FieldName} {
		assert.Equal(t, input.GetForeground(), m.inputs[f].TextStyle.GetForeground())
		assert.Equal(t, input.GetBackground(), m.inputs[f].TextStyle.GetBackground())
	}
	assert.Equal(t, input.GetBackground(), m.adminState.password.TextStyle.GetBackground())

	saved, err := prefs.Load(h.prefs)
	require.NoError(t, err)
	assert.Equal(t, "Kanagawa", saved.Theme)
	assert.Equal(t, "selector", saved.SearchMode)
}

func TestAdminScreenRefresh(t *testing.T) {
	h := newHarness(t)
	line := `{"level":"info","ts":"2025-03-01T12:00:00.000Z","logger":"loader","msg":"spools loaded","records":4}`
	require.NoError(t, os.WriteFile(h.logPath, []byte(line+"\n"), 0o644))

	m := h.start(t, state.ModeSelector)
	m = press(t, m, runes("a"))
	require.Equal(t, ScreenAdmin, m.screen)
	assert.Equal(t, 1, h.admin.pings)
	assert.True(t, m.adminState.pinged)
	require.Len(t, m.adminState.logs, 1)

	view := m.View()
	assert.Contains(t, view, "script.example.com")
	assert.Contains(t, view, "spools loaded")

	m = press(t, m, runes("secret"), keyEnter)
	assert.Equal(t, []string{"secret"}, h.admin.passwords)
	assert.Empty(t, m.adminState.password.Value(), "password is cleared after submit")
	assert.Contains(t, m.adminState.outcome, "1,234 records")
	assert.Equal(t, 2, h.fetcher.calls, "a successful refresh reloads the data")

	m = press(t, m, keyEsc)
	assert.Equal(t, ScreenSearch, m.screen)
}

func TestAdminScreenWrongPassword(t *testing.T) {
	h := newHarness(t)
	h.admin.refreshErr = admin.ErrWrongPassword
	m := h.start(t, state.ModeSelector)

	m = press(t, m, runes("a"), runes("nope"), keyEnter)
	assert.Equal(t, "Wrong password", m.adminState.outcome)
	assert.Equal(t, 1, h.fetcher.calls)
}

func TestRefreshErrorText(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{admin.ErrNotConfigured, "No admin endpoint configured"},
		{&admin.RemoteError{Status: "error", Message: "locked"}, "Refresh refused: locked"},
		{&admin.HTTPError{Code: 502}, "admin endpoint returned status 502"},
		{context.DeadlineExceeded, "Refresh timed out"},
	}
	for _, tc := range cases {
		if got := refreshErrorText(tc.err); got != tc.want {
			t.Fatalf("refreshErrorText(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestWindow(t *testing.T) {
	cases := []struct {
		cursor, n, rows int
		start, end      int
	}{
		{0, 5, 10, 0, 5},
		{0, 20, 6, 0, 6},
		{10, 20, 6, 7, 13},
		{19, 20, 6, 14, 20},
	}
	for _, tc := range cases {
		start, end := window(tc.cursor, tc.n, tc.rows)
		if start != tc.start || end != tc.end {
			t.Fatalf("window(%d, %d, %d) = [%d, %d), want [%d, %d)",
				tc.cursor, tc.n, tc.rows, start, end, tc.start, tc.end)
		}
	}
}
