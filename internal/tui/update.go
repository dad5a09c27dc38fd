package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zpdzap/padre/internal/session"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height), nil

	case tickMsg:
		if m.done {
			return m, nil
		}
		return m, tickCmd()

	case outputMsg:
		line := labelStyle(msg.label).Render("ssh "+msg.label+":") + " " + lineStyle.Render(msg.line)
		return m.appendLog(line), nil

	case infoMsg:
		m = m.appendLog(infoStyle.Render(string(msg)))
		m.message = string(msg)
		m.isError = false
		return m, nil

	case stateMsg:
		m.state = session.State(msg)
		return m, nil

	case tunnelMsg:
		p := session.DiscoveredPort(msg)
		m.port = &p
		return m, nil

	case urlMsg:
		m.urls = append(m.urls, notebookURL{url: msg.url, opened: msg.opened})
		return m.resize(m.width, m.height), nil

	case urlOpenedMsg:
		if msg.err != nil {
			m.message = fmt.Sprintf("Error: %v", msg.err)
			m.isError = true
			return m, nil
		}
		for i := range m.urls {
			if m.urls[i].url == msg.url {
				m.urls[i].opened = true
			}
		}
		m.message = "Opened " + msg.url
		m.isError = false
		return m, nil

	case sessionDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		if m.commanding {
			return m.handleCommandMode(msg)
		}
		return m.handleNormalMode(msg)
	}

	// Forward to input if in command mode
	if m.commanding {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleNormalMode handles keys when navigating the URL list.
func (m model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Dismiss help modal
	if m.showHelp {
		switch msg.String() {
		case "?", "esc":
			m.showHelp = false
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "/":
		m.commanding = true
		m.input.Focus()
		m.input.SetValue("")
		return m.resize(m.width, m.height), textinput.Blink

	case "?":
		m.showHelp = true
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		} else if len(m.urls) > 0 {
			m.cursor = len(m.urls) - 1
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.urls)-1 {
			m.cursor++
		} else {
			m.cursor = 0
		}
		return m, nil

	case "enter", "o":
		if m.cursor < len(m.urls) {
			return m, m.openCmd(m.urls[m.cursor].url)
		}
		return m, nil
	}

	// Everything else scrolls the log pane
	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

// handleCommandMode handles keys when the command input is active.
func (m model) handleCommandMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		m.commanding = false
		m.input.Blur()
		m.input.SetValue("")
		return m.resize(m.width, m.height), nil

	case "enter":
		m.commanding = false
		m.input.Blur()
		m = m.resize(m.width, m.height)
		return m.processInput()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) processInput() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	// Allow commands with or without the / prefix
	if input[0] != '/' {
		input = "/" + input
	}
	cmd := ParseCommand(input)

	switch cmd.Name {
	case "/open":
		if len(cmd.Args) != 1 {
			m.message = "Usage: /open <n>"
			m.isError = true
			return m, nil
		}
		i, err := URLIndex(cmd.Args[0], len(m.urls))
		if err != nil {
			m.message = err.Error()
			m.isError = true
			return m, nil
		}
		m.cursor = i
		return m, m.openCmd(m.urls[i].url)

	case "/help":
		m.showHelp = true
		return m, nil

	case "/quit":
		m.quitting = true
		return m, tea.Quit

	default:
		m.message = fmt.Sprintf("Unknown command: %s", cmd.Name)
		m.isError = true
		return m, nil
	}
}

func (m model) openCmd(url string) tea.Cmd {
	open := m.open
	return func() tea.Msg {
		return urlOpenedMsg{url: url, err: open(url)}
	}
}
