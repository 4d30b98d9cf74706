package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/spoolfinder/internal/admin"
	"github.com/five82/spoolfinder/internal/loader"
	"github.com/five82/spoolfinder/internal/logging"
	"github.com/five82/spoolfinder/internal/prefs"
	"github.com/five82/spoolfinder/internal/spool"
	"github.com/five82/spoolfinder/internal/state"
)

// Screen is the active top-level screen.
type Screen int

const (
	ScreenSearch Screen = iota
	ScreenAdmin
)

var errNoLoader = errors.New("no data loader configured")

// Prober checks whether a media URL is reachable.
type Prober interface {
	Probe(ctx context.Context, rawURL string) error
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Loader     loader.Fetcher
	Prober     Prober
	Admin      admin.Updater
	Session    state.Config
	ThemeName  string
	SearchMode state.Mode
	PrefsPath  string
	LogPath    string
	Logger     *zap.Logger
	Now        func() time.Time
}

// loadInfo describes the most recent successful load for the header.
type loadInfo struct {
	at       time.Time
	duration time.Duration
	failed   int
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	loader    loader.Fetcher
	prober    Prober
	admin     admin.Updater
	prefsPath string
	logPath   string
	logger    *zap.Logger
	now       func() time.Time
	keys      keyMap

	// UI state
	theme    Theme
	screen   Screen
	width    int
	height   int
	ready    bool
	showHelp bool

	// Search state
	session  state.Session
	lastLoad loadInfo
	inputs   [2]textinput.Model // indexed by spool.Field
	typing   bool
	cursor   [2]int // selector cursor per column

	// Detail card
	detail viewport.Model

	// Admin screen
	adminState adminState
}

// New creates the root model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = themeOrder[0]
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:        ctx,
		loader:     opts.Loader,
		prober:     opts.Prober,
		admin:      opts.Admin,
		prefsPath:  prefsPath,
		logPath:    opts.LogPath,
		logger:     logging.OrNop(opts.Logger).Named("ui"),
		now:        now,
		keys:       DefaultKeyMap(),
		theme:      GetTheme(themeName),
		session:    state.New(opts.Session, opts.SearchMode),
		detail:     viewport.New(0, 0),
		adminState: newAdminState(),
	}
	m.inputs[spool.FieldID] = newSearchInput("ID", "e.g. 1042")
	m.inputs[spool.FieldName] = newSearchInput("Spool", "e.g. SP-0301")
	m.typing = m.session.Mode == state.ModeTypeahead
	m.applyInputStyles()
	m.syncInputs()
	return m
}

// applyInputStyles paints the text inputs with the current theme.
func (m *Model) applyInputStyles() {
	styles := m.theme.Styles()
	paint := func(ti *textinput.Model) {
		ti.PromptStyle = styles.AccentText
		ti.TextStyle = styles.Input
		ti.PlaceholderStyle = styles.FaintText
		ti.Cursor.Style = styles.Input
	}
	for i := range m.inputs {
		paint(&m.inputs[i])
	}
	paint(&m.adminState.password)
}

func newSearchInput(prompt, placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt + ": "
	ti.Placeholder = placeholder
	ti.CharLimit = 64
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return state.LoadRequested{} }
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layoutDetail()
		m.refreshDetail()
		return m, nil

	case loadDoneMsg:
		return m.handleLoadDone(msg)

	case state.Event:
		return m.dispatch(msg)

	case pingMsg:
		m.adminState.applyPing(msg)
		return m, nil

	case refreshMsg:
		return m.handleRefreshDone(msg)

	case logTailMsg:
		m.adminState.applyLogTail(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderHeader() + "\n" + m.renderCommandBar() + "\n" + m.renderContent()
}

// Session returns the current search session.
func (m Model) Session() state.Session {
	return m.session
}

// dispatch runs ev through the reducer, then brings the widgets in line with
// the new session and turns the effects into commands.
func (m Model) dispatch(ev state.Event) (Model, tea.Cmd) {
	next, effects := state.Reduce(m.session, ev)
	m.session = next
	m.syncInputs()
	m.clampCursors()
	m.refreshDetail()
	return m, m.runEffects(effects)
}

func (m Model) runEffects(effects []state.Effect) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(effects))
	for _, eff := range effects {
		switch eff := eff.(type) {
		case state.StartLoad:
			cmds = append(cmds, m.loadCmd(eff.Generation))
		case state.ScheduleFilter:
			cmds = append(cmds, filterCmd(eff))
		case state.ProbeMedia:
			cmds = append(cmds, m.probeCmd(eff))
		}
	}
	return tea.Batch(cmds...)
}

// syncInputs copies the session's field values into the text inputs and
// focuses the input of the active field while typing.
func (m *Model) syncInputs() {
	for _, f := range []spool.Field{spool.FieldID, spool.FieldName} {
		want := m.session.Inputs.Get(f)
		if m.inputs[f].Value() != want {
			m.inputs[f].SetValue(want)
			m.inputs[f].CursorEnd()
		}
		if m.typing && m.screen == ScreenSearch && f == m.session.Focus {
			m.inputs[f].Focus()
		} else {
			m.inputs[f].Blur()
		}
	}
}

func (m *Model) clampCursors() {
	for _, f := range []spool.Field{spool.FieldID, spool.FieldName} {
		n := m.session.Collection.Len()
		switch {
		case n == 0:
			m.cursor[f] = 0
		case m.cursor[f] >= n:
			m.cursor[f] = n - 1
		case m.cursor[f] < 0:
			m.cursor[f] = 0
		}
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.screen == ScreenAdmin {
		return m.handleAdminKey(msg)
	}
	if m.typing {
		return m.handleTypingKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyInputStyles()
		m.refreshDetail()
		m.savePrefs()
		return m, nil
	case key.Matches(msg, m.keys.Reload):
		return m.dispatch(state.LoadRequested{})
	case key.Matches(msg, m.keys.Admin):
		return m.enterAdmin()
	case key.Matches(msg, m.keys.ToggleMode):
		return m.toggleMode()
	case key.Matches(msg, m.keys.PageUp):
		m.detail.HalfPageUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.detail.HalfPageDown()
		return m, nil
	}

	if m.session.Mode == state.ModeSelector {
		return m.handleSelectorKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Focus), key.Matches(msg, m.keys.Confirm):
		m.typing = true
		m.syncInputs()
	case key.Matches(msg, m.keys.Tab):
		m.typing = true
		return m.dispatch(state.Focused{Field: m.session.Focus.Other()})
	case key.Matches(msg, m.keys.Escape):
		return m.dispatch(state.Dismissed{})
	}
	return m, nil
}

// handleTypingKey handles keys while a search input has focus. Printable
// keys go to the input, so only non-rune bindings act as shortcuts.
func (m Model) handleTypingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type != tea.KeyRunes {
		switch {
		case key.Matches(msg, m.keys.Escape):
			if len(m.session.Suggestions) > 0 {
				return m.dispatch(state.Dismissed{})
			}
			m.typing = false
			m.syncInputs()
			return m, nil
		case key.Matches(msg, m.keys.Up):
			return m.dispatch(state.SuggestionMoved{Delta: -1})
		case key.Matches(msg, m.keys.Down):
			return m.dispatch(state.SuggestionMoved{Delta: 1})
		case key.Matches(msg, m.keys.Confirm):
			return m.dispatch(state.Submitted{Field: m.session.Focus})
		case key.Matches(msg, m.keys.Tab):
			return m.dispatch(state.Focused{Field: m.session.Focus.Other()})
		case key.Matches(msg, m.keys.ToggleMode):
			return m.toggleMode()
		case key.Matches(msg, m.keys.Reload):
			return m.dispatch(state.LoadRequested{})
		case key.Matches(msg, m.keys.PageUp):
			m.detail.HalfPageUp()
			return m, nil
		case key.Matches(msg, m.keys.PageDown):
			m.detail.HalfPageDown()
			return m, nil
		}
	}

	field := m.session.Focus
	var cmd tea.Cmd
	m.inputs[field], cmd = m.inputs[field].Update(msg)
	text := m.inputs[field].Value()
	if text == m.session.Inputs.Get(field) {
		return m, cmd
	}
	next, effectCmd := m.dispatch(state.QueryChanged{Field: field, Text: text})
	return next, tea.Batch(cmd, effectCmd)
}

// handleSelectorKey drives the two exhaustive option lists.
func (m Model) handleSelectorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := m.session.Focus
	options := m.session.Collection.Options(field)

	switch {
	case key.Matches(msg, m.keys.Tab):
		return m.dispatch(state.Focused{Field: field.Other()})
	case key.Matches(msg, m.keys.Up):
		if m.cursor[field] > 0 {
			m.cursor[field]--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor[field] < len(options)-1 {
			m.cursor[field]++
		}
	case key.Matches(msg, m.keys.Confirm):
		if len(options) == 0 {
			return m, nil
		}
		return m.dispatch(state.Selected{Field: field, ID: options[m.cursor[field]].Value})
	case key.Matches(msg, m.keys.Clear):
		return m.dispatch(state.Selected{Field: field, ID: ""})
	case key.Matches(msg, m.keys.Escape):
		return m.dispatch(state.Dismissed{})
	}
	return m, nil
}

func (m Model) toggleMode() (Model, tea.Cmd) {
	m.typing = m.session.Mode.Toggle() == state.ModeTypeahead
	next, cmd := m.dispatch(state.ModeToggled{})
	next.savePrefs()
	return next, cmd
}

func (m Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, SearchMode: m.session.Mode.String()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save prefs failed", zap.String("path", m.prefsPath), zap.Error(err))
	}
}

// Messages

type loadDoneMsg struct {
	generation uint64
	result     loader.Result
	err        error
}

func (m Model) handleLoadDone(msg loadDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m.dispatch(state.LoadFailed{Generation: msg.generation, Err: msg.err})
	}
	if msg.generation == m.session.Generation {
		m.lastLoad = loadInfo{
			at:       m.now(),
			duration: msg.result.Duration,
			failed:   len(msg.result.Failures),
		}
	}
	return m.dispatch(state.LoadSucceeded{
		Generation: msg.generation,
		Records:    msg.result.Records,
		Source:     msg.result.Source,
	})
}

// Commands

func (m Model) loadCmd(generation uint64) tea.Cmd {
	ctx, fetcher := m.ctx, m.loader
	return func() tea.Msg {
		if fetcher == nil {
			return loadDoneMsg{generation: generation, err: errNoLoader}
		}
		res, err := fetcher.Load(ctx)
		return loadDoneMsg{generation: generation, result: res, err: err}
	}
}

func filterCmd(eff state.ScheduleFilter) tea.Cmd {
	return tea.Tick(eff.Delay, func(time.Time) tea.Msg {
		return state.FilterDue{Field: eff.Field, Seq: eff.Seq}
	})
}

func (m Model) probeCmd(eff state.ProbeMedia) tea.Cmd {
	if m.prober == nil {
		return nil
	}
	ctx, prober := m.ctx, m.prober
	return func() tea.Msg {
		return state.MediaProbed{ID: eff.ID, Slot: eff.Slot, Err: prober.Probe(ctx, eff.URL)}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	_, err := tea.NewProgram(m, programOpts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
