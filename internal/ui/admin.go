package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/spoolfinder/internal/admin"
	"github.com/five82/spoolfinder/internal/logtail"
	"github.com/five82/spoolfinder/internal/state"
)

// adminState holds the admin screen: the password prompt, the last ping,
// the last refresh outcome and the tail of spoolfinder's own log.
type adminState struct {
	password   textinput.Model
	diag       admin.Diagnostics
	pinged     bool
	pinging    bool
	refreshing bool
	outcome    string
	outcomeErr error
	logs       []logtail.Entry
	logErr     error
}

func newAdminState() adminState {
	ti := textinput.New()
	ti.Prompt = "Password: "
	ti.Placeholder = "admin password"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 128
	ti.Cursor.SetMode(cursor.CursorStatic)
	return adminState{password: ti}
}

type pingMsg struct {
	diag admin.Diagnostics
	err  error
}

type refreshMsg struct {
	resp admin.RefreshResponse
	err  error
}

type logTailMsg struct {
	entries []logtail.Entry
	err     error
}

func (a *adminState) applyPing(msg pingMsg) {
	a.pinging = false
	a.pinged = true
	a.diag = msg.diag
	if msg.err != nil && a.diag.Err == nil {
		a.diag.Err = msg.err
	}
}

func (a *adminState) applyLogTail(msg logTailMsg) {
	a.logs = msg.entries
	a.logErr = msg.err
}

// enterAdmin switches to the admin screen and kicks off a ping and a log
// read.
func (m Model) enterAdmin() (Model, tea.Cmd) {
	m.screen = ScreenAdmin
	m.syncInputs()
	m.adminState.password.Focus()
	m.adminState.pinging = m.admin != nil
	return m, tea.Batch(m.pingCmd(), m.logTailCmd())
}

func (m Model) leaveAdmin() (Model, tea.Cmd) {
	m.screen = ScreenSearch
	m.adminState.password.Blur()
	m.adminState.password.SetValue("")
	m.syncInputs()
	return m, nil
}

func (m Model) handleAdminKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		return m.leaveAdmin()
	case key.Matches(msg, m.keys.Refresh):
		if m.adminState.refreshing {
			return m, nil
		}
		m.adminState.refreshing = true
		m.adminState.outcome = ""
		m.adminState.outcomeErr = nil
		password := m.adminState.password.Value()
		m.adminState.password.SetValue("")
		return m, m.refreshCmd(password)
	case key.Matches(msg, m.keys.Ping):
		m.adminState.pinging = m.admin != nil
		return m, m.pingCmd()
	case key.Matches(msg, m.keys.LogTail):
		return m, m.logTailCmd()
	}

	var cmd tea.Cmd
	m.adminState.password, cmd = m.adminState.password.Update(msg)
	return m, cmd
}

// handleRefreshDone records the refresh outcome. A successful refresh
// reloads the dataset so the new data shows up immediately.
func (m Model) handleRefreshDone(msg refreshMsg) (tea.Model, tea.Cmd) {
	a := &m.adminState
	a.refreshing = false
	if msg.err != nil {
		a.outcomeErr = msg.err
		a.outcome = refreshErrorText(msg.err)
		return m, m.logTailCmd()
	}
	a.outcome = msg.resp.Summary()
	m.logger.Info("dataset refreshed from admin screen", zap.Int("records", msg.resp.RecordCount))
	next, cmd := m.dispatch(state.LoadRequested{})
	return next, tea.Batch(cmd, next.logTailCmd())
}

func refreshErrorText(err error) string {
	var remote *admin.RemoteError
	var status *admin.HTTPError
	switch {
	case errors.Is(err, admin.ErrWrongPassword):
		return "Wrong password"
	case errors.Is(err, admin.ErrNotConfigured):
		return "No admin endpoint configured"
	case errors.As(err, &remote):
		return "Refresh refused: " + remote.Message
	case errors.As(err, &status):
		return status.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "Refresh timed out"
	default:
		return "Refresh failed: " + err.Error()
	}
}

// Commands

func (m Model) pingCmd() tea.Cmd {
	client, ctx := m.admin, m.ctx
	if client == nil {
		return func() tea.Msg {
			return pingMsg{diag: admin.Diagnostics{Err: admin.ErrNotConfigured}, err: admin.ErrNotConfigured}
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, AdminRequestTimeout)
		defer cancel()
		diag, err := client.Ping(ctx)
		return pingMsg{diag: diag, err: err}
	}
}

func (m Model) refreshCmd(password string) tea.Cmd {
	client, ctx := m.admin, m.ctx
	return func() tea.Msg {
		if client == nil {
			return refreshMsg{err: admin.ErrNotConfigured}
		}
		ctx, cancel := context.WithTimeout(ctx, AdminRequestTimeout)
		defer cancel()
		resp, err := client.Refresh(ctx, password)
		return refreshMsg{resp: resp, err: err}
	}
}

func (m Model) logTailCmd() tea.Cmd {
	path := m.logPath
	return func() tea.Msg {
		if strings.TrimSpace(path) == "" {
			return logTailMsg{}
		}
		entries, err := logtail.Entries(path, AdminLogLines)
		return logTailMsg{entries: entries, err: err}
	}
}

// View

func (m Model) renderAdmin(height int) string {
	if m.width < LayoutCompactWidth {
		top := height / 2
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderTitledBox("Admin", m.renderAdminPanel(m.width-4), m.width, top, true),
			m.renderTitledBox("Log", m.renderLogTail(m.width-4, height-top-2), m.width, height-top, false),
		)
	}
	left := m.width / 2
	right := m.width - left
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderTitledBox("Admin", m.renderAdminPanel(left-4), left, height, true),
		m.renderTitledBox("Log", m.renderLogTail(right-4, height-2), right, height, false),
	)
}

func (m Model) renderAdminPanel(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	a := m.adminState
	var lines []string

	lines = append(lines, styles.AccentText.Bold(true).Render("Endpoint"))
	switch {
	case a.pinging:
		lines = append(lines, styles.WarningText.Render("Pinging..."))
	case a.pinged:
		for _, row := range a.diag.Lines(m.now()) {
			label := styles.MutedText.Render(padRight(row[0], 14))
			value := styles.Text
			if row[0] == "Error" {
				value = styles.DangerText
			}
			lines = append(lines, label+value.Render(truncateMiddle(row[1], width-14)))
		}
	default:
		lines = append(lines, styles.FaintText.Render("Press ctrl+p to ping"))
	}

	lines = append(lines, "", styles.AccentText.Bold(true).Render("Force data refresh"))
	lines = append(lines, a.password.View())
	switch {
	case a.refreshing:
		lines = append(lines, styles.WarningText.Render("Refreshing..."))
	case a.outcomeErr != nil:
		lines = append(lines, styles.DangerText.Render(truncate(a.outcome, width)))
	case a.outcome != "":
		lines = append(lines, styles.SuccessText.Render(truncate(a.outcome, width)))
	default:
		lines = append(lines, styles.FaintText.Render("Enter the password and press enter"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderLogTail(width, height int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	a := m.adminState
	if a.logErr != nil {
		return styles.DangerText.Render(truncate("Cannot read log: "+a.logErr.Error(), width))
	}
	if len(a.logs) == 0 {
		if m.logPath == "" {
			return styles.FaintText.Render("Logging to file is disabled")
		}
		return styles.FaintText.Render("No log entries yet")
	}

	entries := a.logs
	if height > 0 && len(entries) > height {
		entries = entries[len(entries)-height:]
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		style := styles.Text
		switch strings.ToLower(e.Level) {
		case "warn":
			style = styles.WarningText
		case "error", "dpanic", "panic", "fatal":
			style = styles.DangerText
		case "debug":
			style = styles.FaintText
		}
		lines = append(lines, style.Render(truncate(e.String(), width)))
	}
	return strings.Join(lines, "\n")
}
