package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/arbor/internal/milestone"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// milestoneModal congratulates the viewer on a reached stage.
type milestoneModal struct {
	event      milestone.Event
	closeLabel string
}

func (m milestoneModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, keys.Close) {
		return m, nil, true
	}
	return m, nil, false
}

func (m milestoneModal) View(theme Theme, width, height int) string {
	styles := theme.Styles().WithBackground(theme.SurfaceAlt)

	var b strings.Builder
	b.WriteString(styles.SuccessText.Render(m.event.Title))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(m.event.Message))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("[enter] %s", m.closeLabel)))

	return placeCenter(theme, width, height, styles.Modal.Width(ModalWidth).Render(b.String()))
}

// placeCenter centers content on the theme background.
func placeCenter(theme Theme, width, height int, content string) string {
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		content,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(lipgloss.Color(theme.Background)),
	)
}
