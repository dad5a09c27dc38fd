package session

import (
	"bufio"
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Event is one line read from a registered stream, or that stream's hang-up.
type Event struct {
	Label   string // "stdout" or "stderr" plus the process label
	Line    string
	Primary bool
	Hangup  bool
	Err     error // read error behind a hang-up, nil on plain EOF
}

// Pair owns the primary and, once discovered, the secondary ssh process.
// Each registered stream gets a reader goroutine that performs blocking line
// reads and forwards them on one shared channel, which the launcher's loop
// drains. That channel is the only place the loop blocks.
type Pair struct {
	events chan Event
	done   chan struct{}
	once   sync.Once
	log    *logrus.Entry

	mu    sync.Mutex
	procs []managed
}

type managed struct {
	proc    Process
	label   string
	primary bool
}

type stream struct {
	label   string
	primary bool
	r       *bufio.Reader
}

// NewPair returns an empty Pair.
func NewPair(log *logrus.Entry) *Pair {
	return &Pair{
		events: make(chan Event),
		done:   make(chan struct{}),
		log:    log,
	}
}

// Events delivers lines and hang-ups from every registered stream.
func (p *Pair) Events() <-chan Event {
	return p.events
}

// Register adds both output streams of proc to the shared event channel.
func (p *Pair) Register(proc Process, label string, primary bool) {
	p.mu.Lock()
	p.procs = append(p.procs, managed{proc: proc, label: label, primary: primary})
	p.mu.Unlock()

	for _, s := range []*stream{
		{label: "stdout" + label, primary: primary, r: bufio.NewReader(proc.Stdout())},
		{label: "stderr" + label, primary: primary, r: bufio.NewReader(proc.Stderr())},
	} {
		go p.pump(s)
	}
}

func (p *Pair) pump(s *stream) {
	for {
		line, err := s.readLine()
		if err != nil {
			ev := Event{Label: s.label, Primary: s.primary, Hangup: true}
			if !errors.Is(err, io.EOF) {
				ev.Err = err
			}
			p.send(ev)
			return
		}
		if !p.send(Event{Label: s.label, Line: line, Primary: s.primary}) {
			return
		}
	}
}

func (p *Pair) send(ev Event) bool {
	select {
	case p.events <- ev:
		return true
	case <-p.done:
		return false
	}
}

// readLine blocks for one line. A final unterminated line is returned
// before the end-of-stream error.
func (s *stream) readLine() (string, error) {
	line, err := s.r.ReadString('\n')
	if err != nil && line != "" {
		return line, nil
	}
	return line, err
}

// TerminateAll kills every managed process without waiting for them and
// stops the stream readers. Safe to call more than once.
func (p *Pair) TerminateAll() {
	p.once.Do(func() { close(p.done) })

	p.mu.Lock()
	procs := p.procs
	p.procs = nil
	p.mu.Unlock()

	for _, m := range procs {
		if err := m.proc.Kill(); err != nil {
			p.log.WithError(err).WithFields(logrus.Fields{
				"label":   m.label,
				"primary": m.primary,
			}).Warn("failed to kill ssh process")
		}
	}
}
