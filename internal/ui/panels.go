package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/five82/arbor/internal/i18n"
	"github.com/five82/arbor/internal/logtail"
)

// renderPanel renders the stats or debug panel in place of the tree.
func (m Model) renderPanel() string {
	styles := m.theme.Styles()
	p := m.printer()
	title := p.Text(i18n.KeyStatsTitle)
	if m.panel == PanelDebug {
		title = "Debug"
	}
	header := styles.AccentText.Bold(true).Render(title) + "  " +
		styles.FaintText.Render(fmt.Sprintf("%3.f%%", m.panelViewport.ScrollPercent()*100))
	return styles.Panel.Render(header + "\n" + m.panelViewport.View())
}

// resizePanel fits the panel viewport between the header and footer.
func (m *Model) resizePanel() {
	w := max(m.width-4, 20)
	h := max(m.height-8, 5)
	if m.panelViewport.Width == 0 {
		m.panelViewport = viewport.New(w, h)
		return
	}
	m.panelViewport.Width = w
	m.panelViewport.Height = h
}

// refreshPanel rebuilds the content of the open panel.
func (m *Model) refreshPanel() {
	switch m.panel {
	case PanelStats:
		m.panelViewport.SetContent(statsContent(m.printer(), m.statsState))
	case PanelDebug:
		atBottom := m.panelViewport.AtBottom()
		m.panelViewport.SetContent(m.debugContent())
		if atBottom {
			m.panelViewport.GotoBottom()
		}
	}
}

// statsContent renders usage statistics in the active language.
func statsContent(p *i18n.Printer, st statsState) string {
	switch {
	case st.loading:
		return p.Text(i18n.KeyStatsLoading)
	case st.err != nil:
		return p.Text(i18n.KeyStatsFailed) + "\n" + st.err.Error() + "\n\n[r] " + p.Text(i18n.KeyRetry)
	case !st.loaded || st.data == nil:
		return p.Text(i18n.KeyStatsLoading)
	}

	var b strings.Builder
	b.WriteString(p.Text(i18n.KeyStatsHourly))
	b.WriteString("\n")
	hours := st.data.Hours()
	if len(hours) == 0 {
		b.WriteString("  " + p.Text(i18n.KeyStatsEmpty) + "\n")
	}
	for _, h := range hours {
		b.WriteString("  " + p.Text(i18n.KeyStatsHourLine, h.Hour, (h.Hour+1)%24, h.Count) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(p.Text(i18n.KeyStatsHistory))
	b.WriteString("\n")
	if len(st.data.StageHistory) == 0 {
		b.WriteString("  " + p.Text(i18n.KeyStatsEmpty) + "\n")
	}
	for _, ev := range st.data.StageHistory {
		when := ev.Timestamp
		if ts := ev.ParsedTimestamp(); !ts.IsZero() {
			when = ts.Local().Format("2006-01-02 15:04")
		}
		b.WriteString("  " + p.Text(i18n.KeyStatsStageLine, when, ev.Stage) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// debugContent renders session internals followed by the tail of the log.
func (m Model) debugContent() string {
	styles := m.theme.Styles()
	v := m.snapshot.View

	var b strings.Builder
	rows := [][2]string{
		{"config", fmt.Sprintf("loaded=%v stages=%d images=%d", v.ConfigLoaded, len(v.Snapshot.Stages), len(v.Snapshot.Images))},
		{"polling", fmt.Sprintf("active=%v in_flight=%v every=%v failures=%d", v.PollingActive, v.Polling, v.Interval, v.Failures)},
		{"counter", fmt.Sprintf("total=%d previous=%d stage=%d/%d", v.Total, v.PreviousTotal, v.Stage, v.MaxStage)},
		{"frame", fmt.Sprintf("stage=%d placeholder=%v %s", v.Frame.Stage, v.Frame.Placeholder, truncate(v.Frame.URL, 60))},
		{"animating", fmt.Sprintf("%v target=%d", v.Animating, v.AnimationTarget)},
		{"retry", v.RetryTarget.String()},
	}
	for _, row := range rows {
		b.WriteString(styles.MutedText.Render(padRight(row[0], 10)))
		b.WriteString(row[1])
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.debugErr != nil {
		b.WriteString(styles.DangerText.Render(m.debugErr.Error()))
		return b.String()
	}
	if len(m.debugLines) == 0 {
		b.WriteString(styles.FaintText.Render("(log is empty)"))
		return b.String()
	}
	for _, line := range m.debugLines {
		b.WriteString(formatLogLine(styles, line))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatLogLine colors a slog text line by level.
func formatLogLine(styles Styles, line string) string {
	e := logtail.Parse(line)
	if e.Level == "" {
		return styles.MutedText.Render(e.Msg)
	}
	ts := e.Time
	if len(ts) >= 19 {
		ts = ts[11:19]
	}
	out := styles.FaintText.Render(ts) + " " +
		styles.LevelStyle(e.Level).Render(padRight(e.Level, 5)) + " " +
		styles.Text.Render(e.Msg)
	if e.Attrs != "" {
		out += " " + styles.MutedText.Render(e.Attrs)
	}
	return out
}
