package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/stockboard/internal/locale"
	"github.com/five82/stockboard/internal/logtail"
	"github.com/five82/stockboard/internal/prefs"
	"github.com/five82/stockboard/internal/state"
)

// Refresher issues an out-of-schedule fetch.
type Refresher interface {
	Refresh() bool
}

// VisibilitySink receives whether the dashboard is on screen.
type VisibilitySink interface {
	Set(visible bool)
}

// overlay is what is drawn over the main grid, if anything.
type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlayProducts
	overlayLogs
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Store      *state.Store
	Refresher  Refresher
	Visibility VisibilitySink
	Prefs      prefs.Prefs
	PrefsPath  string
	LogPath    string
	SourceURL  string
	Interval   time.Duration
	Logger     *zap.Logger
	// Now is the wall clock; tests pin it.
	Now func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	refresher Refresher
	vis       VisibilitySink
	prefsPath string
	logPath   string
	sourceURL string
	interval  time.Duration
	logger    *zap.Logger
	now       func() time.Time

	// UI state
	prefs   prefs.Prefs
	theme   Theme
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	width   int
	height  int
	ready   bool
	overlay overlay
	clock   time.Time

	// Data state
	state state.SyncState

	// Grid state
	grid viewport.Model

	// Product selector state
	selector selectorState

	// Log state
	logView    viewport.Model
	logEntries []logtail.Entry
	logErr     error

	// Transient status line message
	flash      string
	flashUntil time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	theme := GetTheme(opts.Prefs.Theme)
	m := Model{
		ctx:       ctx,
		store:     store,
		refresher: opts.Refresher,
		vis:       opts.Visibility,
		prefsPath: prefsPath,
		logPath:   opts.LogPath,
		sourceURL: opts.SourceURL,
		interval:  opts.Interval,
		logger:    logger,
		now:       now,
		prefs:     opts.Prefs,
		theme:     theme,
		keys:      DefaultKeyMap().withThemeLabel(theme.Name),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		clock:     now(),
		state:     store.State(),
	}
	m.applyTheme()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle(locale.Text(locale.PageTitle)),
		m.spinner.Tick,
		clockCmd(),
		waitForState(m.ctx, m.store),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		bodyHeight := max(m.height-chromeHeight, 1)
		if !m.ready {
			m.grid = viewport.New(m.width, bodyHeight)
			m.logView = viewport.New(m.width, bodyHeight)
		} else {
			m.grid.Width, m.grid.Height = m.width, bodyHeight
			m.logView.Width, m.logView.Height = m.width, bodyHeight
		}
		m.ready = true
		m.updateGrid()
		m.updateLogView()
		return m, nil

	case stateMsg:
		m.state = state.SyncState(msg)
		m.updateGrid()
		return m, waitForState(m.ctx, m.store)

	case clockMsg:
		m.clock = time.Time(msg)
		if !m.flashUntil.IsZero() && m.clock.After(m.flashUntil) {
			m.flash = ""
			m.flashUntil = time.Time{}
		}
		cmds := []tea.Cmd{clockCmd()}
		if m.overlay == overlayLogs {
			cmds = append(cmds, readLogsCmd(m.logPath))
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.FocusMsg:
		m.setVisible(true)
		return m, nil

	case tea.BlurMsg:
		m.setVisible(false)
		return m, nil

	case tea.ResumeMsg:
		m.setVisible(true)
		return m, nil

	case refreshMsg:
		if !msg.ok {
			m.setFlash(locale.Text(locale.RefreshSkipped))
		}
		return m, nil

	case logsMsg:
		m.logEntries = msg.entries
		m.logErr = msg.err
		m.updateLogView()
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return locale.Text(locale.Loading) + "..."
	}

	switch m.overlay {
	case overlayHelp:
		return m.renderHelp()
	case overlayProducts:
		return m.renderSelector()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes help
	if m.overlay == overlayHelp {
		m.overlay = overlayNone
		return m, nil
	}

	if m.overlay == overlayProducts {
		return m.handleSelectorKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		m.overlay = overlayNone
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.overlay = overlayHelp
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.refresher == nil {
			return m, nil
		}
		return m, refreshCmd(m.refresher)

	case key.Matches(msg, m.keys.ToggleTheme):
		m.toggleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Products):
		if m.state.Snapshot == nil {
			return m, nil
		}
		m.openSelector()
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		if m.overlay == overlayLogs {
			m.overlay = overlayNone
			return m, nil
		}
		m.overlay = overlayLogs
		return m, readLogsCmd(m.logPath)

	case key.Matches(msg, m.keys.Suspend):
		m.setVisible(false)
		return m, tea.Suspend
	}

	// Remaining keys scroll whichever pane is showing.
	var cmd tea.Cmd
	if m.overlay == overlayLogs {
		m.logView, cmd = m.logView.Update(msg)
	} else {
		m.grid, cmd = m.grid.Update(msg)
	}
	return m, cmd
}

func (m *Model) setVisible(visible bool) {
	if m.vis != nil {
		m.vis.Set(visible)
	}
}

func (m *Model) setFlash(text string) {
	m.flash = text
	m.flashUntil = m.now().Add(3 * time.Second)
}

// toggleTheme switches light/dark and persists the choice.
func (m *Model) toggleTheme() {
	m.prefs.Theme = NextTheme(m.theme.Name)
	m.theme = GetTheme(m.prefs.Theme)
	m.keys = m.keys.withThemeLabel(m.theme.Name)
	m.applyTheme()
	m.updateGrid()
	m.updateLogView()
	m.savePrefs()
}

func (m *Model) savePrefs() {
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs failed", zap.String("path", m.prefsPath), zap.Error(err))
		m.setFlash(locale.Text(locale.PrefsSaveError))
	}
}

// applyTheme restyles the bubbles components for the current theme.
func (m *Model) applyTheme() {
	styles := m.theme.Styles()
	m.spinner.Style = styles.AccentText
	m.help.Styles.ShortKey = styles.AccentText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText
	m.help.Styles.FullKey = styles.AccentText
	m.help.Styles.FullDesc = styles.Text
	m.help.Styles.FullSeparator = styles.FaintText
}

// Messages

type stateMsg state.SyncState

type clockMsg time.Time

type refreshMsg struct {
	ok bool
}

type logsMsg struct {
	entries []logtail.Entry
	err     error
}

// Commands

func clockCmd() tea.Cmd {
	return tea.Tick(ClockInterval, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

// waitForState blocks until the store changes, then delivers the new state.
// Update re-arms it after every delivery.
func waitForState(ctx context.Context, store *state.Store) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-store.Changes():
			return stateMsg(store.State())
		}
	}
}

func refreshCmd(r Refresher) tea.Cmd {
	return func() tea.Msg {
		return refreshMsg{ok: r.Refresh()}
	}
}

func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logsMsg{}
		}
		entries, err := logtail.ReadEntries(path, LogTailLines)
		return logsMsg{entries: entries, err: err}
	}
}
