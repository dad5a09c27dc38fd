package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFD700")).
			Background(lipgloss.Color("#1a1a2e")).
			Padding(0, 2)

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 2)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#333333"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")).
			Padding(0, 2)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	selectedURLStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFD700")).
				Bold(true)

	portStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5599FF"))

	hotkeysStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")).
			Padding(0, 2)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Padding(0, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4444")).
			Padding(0, 2)

	// Echoed child output
	stdoutLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5599FF"))
	stderrLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAA00"))
	lineStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	infoStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true)

	// Session state labels
	stateActive  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	stateWaiting = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAA00"))
	stateOpened  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	// Help modal
	helpStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FFD700")).
			Padding(1, 2).
			Foreground(lipgloss.Color("#FFFFFF"))

	helpHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5599FF"))

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))
)

// labelStyle picks the colour for an echoed stream label.
func labelStyle(label string) lipgloss.Style {
	if strings.HasPrefix(label, "stderr") {
		return stderrLabelStyle
	}
	return stdoutLabelStyle
}
