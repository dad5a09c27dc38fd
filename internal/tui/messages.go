package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zpdzap/padre/internal/session"
)

// outputMsg carries one echoed line of child output.
type outputMsg struct {
	label string
	line  string
}

// infoMsg carries a launcher status message.
type infoMsg string

type stateMsg session.State

type tunnelMsg session.DiscoveredPort

// urlMsg announces a notebook URL.
type urlMsg struct {
	url    string
	opened bool
}

// urlOpenedMsg reports the result of opening a URL from the dashboard.
type urlOpenedMsg struct {
	url string
	err error
}

// sessionDoneMsg is sent once the launcher's Run returns.
type sessionDoneMsg struct {
	err error
}

// tickMsg refreshes the tunnel uptime.
type tickMsg time.Time

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// programReporter forwards launcher callbacks into the running program.
type programReporter struct {
	send func(tea.Msg)
}

func (r programReporter) Output(label, line string)             { r.send(outputMsg{label, line}) }
func (r programReporter) Info(msg string)                       { r.send(infoMsg(msg)) }
func (r programReporter) StateChanged(s session.State)          { r.send(stateMsg(s)) }
func (r programReporter) TunnelOpened(p session.DiscoveredPort) { r.send(tunnelMsg(p)) }
func (r programReporter) URL(url string, opened bool)           { r.send(urlMsg{url, opened}) }
