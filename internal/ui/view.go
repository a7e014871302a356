package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/arbor/internal/engine"
	"github.com/five82/arbor/internal/i18n"
)

// renderMain renders the header, the active body and the footer.
func (m Model) renderMain() string {
	parts := []string{m.renderHeader()}
	if banner := m.renderBanner(); banner != "" {
		parts = append(parts, banner)
	}
	switch m.panel {
	case PanelStats, PanelDebug:
		parts = append(parts, m.renderPanel())
	default:
		parts = append(parts, m.renderTree())
	}
	parts = append(parts, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderHeader renders the title bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	p := m.printer()
	v := m.snapshot.View

	parts := []string{
		bg.Render("arbor", styles.Logo),
		bg.Render(p.Text(i18n.KeyTitle), styles.Text.Bold(true)),
	}

	switch {
	case !v.Loaded || v.Polling || v.Animating:
		status := p.Text(i18n.KeyLoading)
		if v.Animating {
			status = p.Text(i18n.KeyAnimating)
		}
		parts = append(parts, bg.Render(m.spinner.View()+" "+status, styles.AccentText))
	case !v.PollingActive:
		parts = append(parts, bg.Render(p.Text(i18n.KeyPollingStopped), styles.WarningText))
	case m.snapshot.IsOffline():
		parts = append(parts, bg.Render(p.Text(i18n.KeyErrNetwork), styles.DangerText))
	}

	if m.width >= LayoutCompactWidth {
		parts = append(parts, bg.Render(p.Text(i18n.KeyLanguage)+" "+m.language(), styles.MutedText))
		if !v.LastUpdate.IsZero() {
			parts = append(parts, bg.Render(v.LastUpdate.Local().Format("15:04:05"), styles.MutedText))
		}
		if !v.ConfigLoaded && v.Loaded {
			parts = append(parts, bg.Render(p.Text(i18n.KeyDefaultsInUse), styles.WarningText))
		}
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderTree renders the stage image beside the counter details.
func (m Model) renderTree() string {
	styles := m.theme.Styles()
	v := m.snapshot.View

	art := m.treeArt()
	details := m.renderDetails()
	if m.width >= LayoutSideBySideWidth {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			styles.Panel.Render(art),
			styles.Panel.Width(max(m.width-lipgloss.Width(art)-8, 20)).Render(details),
		)
	}
	if v.Loaded {
		return lipgloss.JoinVertical(lipgloss.Left, styles.Panel.Render(art), details)
	}
	return details
}

func (m Model) treeArt() string {
	v := m.snapshot.View
	p := m.printer()
	styles := m.theme.Styles()
	if !v.HasFrame {
		return styles.MutedText.Render(m.spinner.View() + " " + p.Text(i18n.KeyLoading))
	}
	art := v.Frame.Art
	if v.Frame.Placeholder {
		label := styles.FaintText.Render(p.Text(i18n.KeyPlaceholderFallback))
		if art == "" {
			return label
		}
		return art + "\n" + label
	}
	return art
}

// renderDetails renders the stage, counter and progress lines.
func (m Model) renderDetails() string {
	styles := m.theme.Styles()
	p := m.printer()
	v := m.snapshot.View

	if !v.Loaded {
		return styles.MutedText.Render(p.Text(i18n.KeyLoading))
	}

	var lines []string
	stageLine := fmt.Sprintf("%s %s", p.Text(i18n.KeyCurrentStage), styles.AccentText.Bold(true).Render(stageLabel(v)))
	lines = append(lines, stageLine)
	lines = append(lines, fmt.Sprintf("%s %s", p.Text(i18n.KeyTotal), styles.Text.Bold(true).Render(strconv.FormatInt(v.Total, 10))))
	lines = append(lines, "")
	lines = append(lines, m.progress.ViewAs(v.Progress.Percent/100))
	if v.Progress.AtMax {
		lines = append(lines, styles.SuccessText.Render(p.Text(i18n.KeyProgressMax)))
	} else {
		lines = append(lines, styles.MutedText.Render(p.Text(i18n.KeyProgressNext, v.Progress.Remaining)))
	}

	if v.RecentDelta > 0 {
		lines = append(lines, "")
		lines = append(lines, styles.InfoText.Render(p.Text(i18n.KeyRecentProgress, v.RecentDelta)))
		if m.now.Before(m.noticeUntil) {
			lines = append(lines, styles.SuccessText.Render(p.Text(i18n.KeyRealtimeNotice)))
		}
	}

	if v.Environment != "" {
		lines = append(lines, "")
		lines = append(lines, styles.MutedText.Render(p.Text(i18n.KeyEnvironment)+" "+truncate(v.Environment, 48)))
	}
	return strings.Join(lines, "\n")
}

func stageLabel(v engine.View) string {
	if v.Animating && v.Frame.Stage != v.Stage {
		return fmt.Sprintf("%d → %d / %d", v.Frame.Stage, v.AnimationTarget, v.MaxStage)
	}
	return fmt.Sprintf("%d / %d", v.Stage, v.MaxStage)
}

// renderBanner renders the current failure and any informational overlay.
func (m Model) renderBanner() string {
	v := m.snapshot.View
	styles := m.theme.Styles()
	p := m.printer()

	var lines []string
	if n := v.Notice; n != nil {
		line := styles.DangerText.Render("✖ " + n.Message)
		if n.Kind.Retryable() {
			line += "  " + styles.WarningText.Render(fmt.Sprintf("[r] %s (%s)", p.Text(i18n.KeyRetry), v.RetryTarget))
		}
		lines = append(lines, line, styles.MutedText.Render("  "+n.Hint))
	}
	if n := v.Overlay; n != nil {
		lines = append(lines, styles.WarningText.Render("! "+n.Message), styles.MutedText.Render("  "+n.Hint))
	}
	return strings.Join(lines, "\n")
}

// renderFooter renders the short key help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	text := m.help.View(m.keys)
	if m.version != "" {
		text += "  " + styles.FaintText.Render(m.version)
	}
	return styles.Footer.Width(m.width).Render(text)
}

func (m Model) progressWidth() int {
	if m.width <= 0 {
		return 40
	}
	w := m.width / 2
	if m.width < LayoutSideBySideWidth {
		w = m.width - 6
	}
	return max(min(w, 60), 10)
}
