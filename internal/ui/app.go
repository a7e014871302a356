// Package ui provides the Bubble Tea viewer for arbor.
package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/arbor/internal/backend"
	"github.com/five82/arbor/internal/i18n"
	"github.com/five82/arbor/internal/logtail"
	"github.com/five82/arbor/internal/prefs"
	"github.com/five82/arbor/internal/state"
)

// Controller sends user actions to the host loop.
type Controller interface {
	Retry()
	SetLanguage(lang string)
	DismissMilestone()
	StartPolling()
	StopPolling()
}

// StatsFetcher loads usage statistics for the stats panel.
type StatsFetcher interface {
	FetchStats(ctx context.Context) (*backend.StatsResponse, error)
}

// Panel is the panel covering the main view.
type Panel int

const (
	PanelNone Panel = iota
	PanelStats
	PanelDebug
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Store        *state.Store
	Controller   Controller
	Stats        StatsFetcher
	ThemeName    string
	Prefs        prefs.Prefs
	PrefsPath    string
	LogPath      string
	Version      string
	RefreshEvery time.Duration
}

// statsState is the lazily loaded statistics.
type statsState struct {
	loading bool
	loaded  bool
	err     error
	data    *backend.StatsResponse
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	ctrl      Controller
	stats     StatsFetcher
	prefs     prefs.Prefs
	prefsPath string
	logPath   string
	version   string
	refresh   time.Duration

	// UI state
	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool

	// Data state
	snapshot    state.Snapshot
	lastTotal   int64
	noticeUntil time.Time
	now         time.Time

	// Widgets
	progress progress.Model
	spinner  spinner.Model
	help     help.Model

	// Panels
	panel         Panel
	panelViewport viewport.Model
	statsState    statsState
	debugLines    []string
	debugErr      error

	// Overlays
	showHelp  bool
	milestone Modal
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	refresh := opts.RefreshEvery
	if refresh <= 0 {
		refresh = DefaultUIInterval
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = opts.Prefs.Theme
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}

	m := Model{
		ctx:       ctx,
		store:     store,
		ctrl:      opts.Controller,
		stats:     opts.Stats,
		prefs:     opts.Prefs,
		prefsPath: prefsPath,
		logPath:   opts.LogPath,
		version:   opts.Version,
		refresh:   refresh,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		now:       time.Now(),
	}
	m.applyTheme(GetTheme(themeName))
	return m
}

func (m *Model) applyTheme(t Theme) {
	m.theme = t
	m.progress = progress.New(
		progress.WithGradient(t.ProgressFrom, t.ProgressTo),
		progress.WithoutPercentage(),
	)
	m.progress.Width = m.progressWidth()
	m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent))
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.refresh),
		fetchSnapshotCmd(m.store),
		m.spinner.Tick,
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
		m.ready = true
		m.help.Width = msg.Width
		m.progress.Width = m.progressWidth()
		m.resizePanel()
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		cmds := []tea.Cmd{fetchSnapshotCmd(m.store), tickCmd(m.refresh)}
		if m.panel == PanelDebug {
			cmds = append(cmds, readLogCmd(m.logPath))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case statsMsg:
		m.statsState = statsState{loaded: msg.err == nil, err: msg.err, data: msg.stats}
		m.refreshPanel()
		return m, nil

	case logLinesMsg:
		m.debugLines, m.debugErr = msg.lines, msg.err
		m.refreshPanel()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return m.printer().Text(i18n.KeyLoading)
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.milestone != nil {
		return m.milestone.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	if snap.Version == m.snapshot.Version && snap.Version != 0 {
		return
	}
	v := snap.View
	if v.Loaded && v.RecentDelta > 0 && v.Total != m.lastTotal {
		m.noticeUntil = m.now.Add(RealtimeNoticeFor)
	}
	m.lastTotal = v.Total
	m.snapshot = snap

	switch {
	case v.Milestone == nil:
		m.milestone = nil
	case m.milestone == nil || m.milestone.(milestoneModal).event != *v.Milestone:
		m.milestone = milestoneModal{event: *v.Milestone, closeLabel: m.printer().Text(i18n.KeyClose)}
	}
	if m.panel == PanelStats {
		m.refreshPanel()
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Any key closes help.
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.milestone != nil {
		next, cmd, closed := m.milestone.Update(msg, m.keys)
		if closed {
			m.milestone = nil
			m.snapshot.View.Milestone = nil
			if m.ctrl != nil {
				m.ctrl.DismissMilestone()
			}
			return m, cmd
		}
		m.milestone = next
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.applyTheme(GetTheme(NextTheme(m.theme.Name)))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Language):
		next := i18n.Next(m.language())
		m.snapshot.View.Language = next
		m.prefs.Language = next
		m.savePrefs()
		if m.ctrl != nil {
			m.ctrl.SetLanguage(next)
		}
		m.refreshPanel()
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		if m.ctrl != nil {
			m.ctrl.Retry()
		}
		if m.panel == PanelStats && m.statsState.err != nil {
			return m, m.loadStats()
		}
		return m, nil

	case key.Matches(msg, m.keys.TogglePaused):
		if m.ctrl == nil {
			return m, nil
		}
		if m.snapshot.View.PollingActive {
			m.ctrl.StopPolling()
		} else {
			m.ctrl.StartPolling()
		}
		return m, nil

	case key.Matches(msg, m.keys.Stats):
		return m.togglePanel(PanelStats)

	case key.Matches(msg, m.keys.Debug):
		if !m.snapshot.View.DebugMode {
			return m, nil
		}
		return m.togglePanel(PanelDebug)

	case key.Matches(msg, m.keys.Close):
		m.panel = PanelNone
		return m, nil
	}

	if m.panel != PanelNone {
		var cmd tea.Cmd
		m.panelViewport, cmd = m.panelViewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) togglePanel(p Panel) (tea.Model, tea.Cmd) {
	if m.panel == p {
		m.panel = PanelNone
		return m, nil
	}
	m.panel = p
	m.resizePanel()
	m.refreshPanel()
	switch p {
	case PanelStats:
		// Statistics are fetched the first time the panel opens.
		if !m.statsState.loaded && !m.statsState.loading {
			return m, m.loadStats()
		}
	case PanelDebug:
		return m, readLogCmd(m.logPath)
	}
	return m, nil
}

func (m *Model) loadStats() tea.Cmd {
	if m.stats == nil {
		return nil
	}
	m.statsState = statsState{loading: true}
	m.refreshPanel()
	return fetchStatsCmd(m.ctx, m.stats)
}

func (m *Model) savePrefs() {
	if m.prefsPath != "" {
		_ = prefs.Save(m.prefsPath, m.prefs)
	}
}

func (m Model) language() string {
	if lang := m.snapshot.View.Language; lang != "" {
		return lang
	}
	if m.prefs.Language != "" {
		return m.prefs.Language
	}
	return i18n.Baseline.String()
}

func (m Model) printer() *i18n.Printer {
	return i18n.NewPrinter(m.language())
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type statsMsg struct {
	stats *backend.StatsResponse
	err   error
}

type logLinesMsg struct {
	lines []string
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func fetchStatsCmd(ctx context.Context, fetcher StatsFetcher) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, StatsFetchTimeout)
		defer cancel()
		stats, err := fetcher.FetchStats(ctx)
		return statsMsg{stats: stats, err: err}
	}
}

func readLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, DebugLogLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, programOpts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
