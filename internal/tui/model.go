package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zpdzap/padre/internal/session"
	"golang.org/x/term"
)

// maxLogLines bounds the echoed output kept in the log pane.
const maxLogLines = 2000

// notebookURL is one entry in the URL list.
type notebookURL struct {
	url    string
	opened bool
}

// model is the Bubble Tea model for the padre dashboard.
type model struct {
	title string
	open  func(url string) error

	state session.State
	port  *session.DiscoveredPort
	urls  []notebookURL

	log   viewport.Model
	lines []string

	input      textinput.Model
	cursor     int
	message    string
	isError    bool
	commanding bool // true when in command mode (/ pressed)
	showHelp   bool
	quitting   bool
	done       bool
	err        error
	width      int
	height     int
}

func newModel(title string, open func(url string) error) model {
	ti := textinput.New()
	ti.Placeholder = "open <n> | help | quit"
	ti.CharLimit = 256
	ti.Width = 80
	// Input starts unfocused, activated by pressing /
	ti.Blur()

	// Get initial terminal size so the first render isn't at width=0
	w, h, _ := term.GetSize(int(os.Stdout.Fd()))
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	m := model{
		title: title,
		open:  open,
		state: session.StateStarting,
		input: ti,
		log:   viewport.New(w, 1),
	}
	return m.resize(w, h)
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

// resize fits the log pane into whatever the header, URL list and footer leave.
func (m model) resize(w, h int) model {
	m.width = w
	m.height = h
	m.input.Width = max(10, w-6) // account for "  > /" prefix
	m.log.Width = w
	m.log.Height = max(3, h-m.chromeHeight())
	return m
}

// chromeHeight counts the lines View draws around the log pane.
func (m model) chromeHeight() int {
	lines := 1 + 1 + 1 + 1 + 1 + 1 // header, state, divider, divider, hotkeys, status
	lines += max(1, len(m.urls))
	if m.commanding {
		lines++
	}
	return lines
}

func (m model) appendLog(line string) model {
	atBottom := m.log.AtBottom()
	m.lines = append(m.lines, line)
	if len(m.lines) > maxLogLines {
		m.lines = m.lines[len(m.lines)-maxLogLines:]
	}
	m.log.SetContent(strings.Join(m.lines, "\n"))
	if atBottom {
		m.log.GotoBottom()
	}
	return m
}
