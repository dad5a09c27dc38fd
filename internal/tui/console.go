package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/zpdzap/padre/internal/session"
)

// Console prints launcher progress as plain scrolling lines.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole returns a console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Output echoes a child line as "ssh <label>: <line>".
func (c *Console) Output(label, line string) {
	c.println(labelStyle(label).Render("ssh "+label+":") + " " + line)
}

func (c *Console) Info(msg string) {
	c.println(infoStyle.Render(msg))
}

func (c *Console) StateChanged(session.State) {}

func (c *Console) TunnelOpened(session.DiscoveredPort) {}

// URL is a no-op: the launcher already announces every URL through Info.
func (c *Console) URL(string, bool) {}

func (c *Console) println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, s)
}
