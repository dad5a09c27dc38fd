package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zpdzap/padre/internal/session"
)

// Session is the part of session.Launcher the dashboard drives.
type Session interface {
	Run(ctx context.Context) error
	OpenURL(url string) error
}

// Run shows the dashboard while the session built by newSession runs.
// Quitting the dashboard interrupts the session; the session ending closes
// the dashboard. The session's own error is returned.
func Run(ctx context.Context, title string, newSession func(session.Reporter) Session) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var p *tea.Program
	sess := newSession(programReporter{send: func(msg tea.Msg) { p.Send(msg) }})
	p = tea.NewProgram(newModel(title, sess.OpenURL), tea.WithAltScreen())

	errCh := make(chan error, 1)
	go func() {
		err := sess.Run(ctx)
		p.Send(sessionDoneMsg{err: err})
		errCh <- err
	}()

	result, err := p.Run()
	cancel()
	sessErr := <-errCh
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if final, ok := result.(model); ok && final.message != "" {
		fmt.Println(final.message)
	}
	return sessErr
}
