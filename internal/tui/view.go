package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/zpdzap/padre/internal/session"
)

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Header
	title := "padre " + m.title
	status := m.renderState()
	gap := max(1, m.width-lipgloss.Width(title)-lipgloss.Width(status)-4)
	b.WriteString(headerStyle.Width(m.width).Render(title + strings.Repeat(" ", gap) + status))
	b.WriteString("\n")
	b.WriteString(statsStyle.Render(m.renderTunnel()))
	b.WriteString("\n")

	// URL list
	if len(m.urls) == 0 {
		b.WriteString(emptyStyle.Render("Waiting for the notebook server..."))
		b.WriteString("\n")
	}
	for i, u := range m.urls {
		b.WriteString(m.renderURL(i, u))
		b.WriteString("\n")
	}

	b.WriteString(dividerStyle.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")
	b.WriteString(m.log.View())
	b.WriteString("\n")
	b.WriteString(dividerStyle.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")

	// Hotkeys
	if m.commanding {
		b.WriteString(hotkeysStyle.Render("[enter] execute  [esc] cancel"))
	} else {
		b.WriteString(hotkeysStyle.Render("[↑↓] select  [enter] open  [/] command  [?] help  [q] quit"))
	}
	b.WriteString("\n")

	m.renderStatusAndInput(&b)

	if m.showHelp {
		return m.renderHelpOverlay(b.String())
	}
	return b.String()
}

func (m model) renderState() string {
	switch m.state {
	case session.StateTunnelActive:
		return stateActive.Render(string(m.state))
	default:
		return stateWaiting.Render(string(m.state))
	}
}

func (m model) renderTunnel() string {
	if m.port == nil {
		return "no tunnel yet"
	}
	return fmt.Sprintf("%s → remote :%d, up since %s",
		portStyle.Render(fmt.Sprintf("localhost:%d", m.port.Local)),
		m.port.Remote,
		humanize.Time(m.port.OpenedAt))
}

func (m model) renderURL(index int, u notebookURL) string {
	cursor := "  "
	style := urlStyle
	if index == m.cursor {
		cursor = "▸ "
		style = selectedURLStyle
	}
	line := fmt.Sprintf("  %s%d. %s", cursor, index+1, style.Render(u.url))
	if u.opened {
		line += "  " + stateOpened.Render("opened")
	}
	return line
}

func (m model) renderStatusAndInput(b *strings.Builder) {
	if m.message != "" {
		if m.isError {
			b.WriteString(errorStyle.Render(m.message))
		} else {
			b.WriteString(messageStyle.Render(m.message))
		}
	}
	b.WriteString("\n")
	if m.commanding {
		b.WriteString("  ")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
}

func (m model) renderHelpOverlay(base string) string {
	help := strings.Join([]string{
		helpHeaderStyle.Render("Navigation"),
		helpKeyStyle.Render("  ↑/k  ↓/j") + helpDescStyle.Render("   Select URL"),
		helpKeyStyle.Render("  Enter/o") + helpDescStyle.Render("     Open in browser"),
		helpKeyStyle.Render("  PgUp/PgDn") + helpDescStyle.Render("   Scroll output"),
		"",
		helpHeaderStyle.Render("Commands"),
		helpKeyStyle.Render("  /") + helpDescStyle.Render("           Open command bar"),
		helpDescStyle.Render("  /open <n>"),
		helpDescStyle.Render("  /help"),
		helpDescStyle.Render("  /quit"),
		"",
		helpKeyStyle.Render("  q") + helpDescStyle.Render("  quit") + "     " + helpKeyStyle.Render("?") + helpDescStyle.Render("  close this help"),
	}, "\n")

	modal := helpStyle.Render(help)

	// Center the modal over the base view
	modalWidth := lipgloss.Width(modal)
	modalHeight := lipgloss.Height(modal)
	xOffset := max(0, (m.width-modalWidth)/2)
	yOffset := max(0, (m.height-modalHeight)/2)

	baseLines := strings.Split(base, "\n")
	padding := strings.Repeat(" ", xOffset)
	for i, mLine := range strings.Split(modal, "\n") {
		row := yOffset + i
		if row < len(baseLines) {
			baseLines[row] = padding + mLine + strings.Repeat(" ", max(0, m.width-xOffset-lipgloss.Width(mLine)))
		}
	}
	return strings.Join(baseLines, "\n")
}
