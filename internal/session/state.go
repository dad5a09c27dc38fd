package session

import "time"

// State is the launcher's progress through a session.
type State string

const (
	StateStarting              State = "starting"
	StateAwaitingPrimaryOutput State = "awaiting-output"
	StateAwaitingPort          State = "awaiting-port"
	StateTunnelActive          State = "tunnel-active"
)

// DiscoveredPort pairs the remote notebook port with the local end of its tunnel.
type DiscoveredPort struct {
	Remote   int
	Local    int
	OpenedAt time.Time
}

// Reporter receives everything the launcher shows the operator.
// Calls arrive from the launcher's goroutine, one at a time.
type Reporter interface {
	// Output echoes one line of child output, labelled by its stream.
	Output(label, line string)
	// Info is a status message.
	Info(msg string)
	StateChanged(s State)
	TunnelOpened(p DiscoveredPort)
	// URL announces a notebook URL; opened is false when the browser was suppressed.
	URL(url string, opened bool)
}
