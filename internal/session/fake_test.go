package session

import (
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type fakeProc struct {
	args   []string
	outR   *io.PipeReader
	outW   *io.PipeWriter
	errR   *io.PipeReader
	errW   *io.PipeWriter
	killed atomic.Bool
}

func newFakeProc(args []string) *fakeProc {
	p := &fakeProc{args: args}
	p.outR, p.outW = io.Pipe()
	p.errR, p.errW = io.Pipe()
	return p
}

func (p *fakeProc) Stdout() io.Reader { return p.outR }
func (p *fakeProc) Stderr() io.Reader { return p.errR }

func (p *fakeProc) Kill() error {
	p.killed.Store(true)
	p.outW.Close()
	p.errW.Close()
	return nil
}

// say writes one line to the fake's stdout; it returns once a reader took it.
func (p *fakeProc) say(t *testing.T, line string) {
	t.Helper()
	_, err := fmt.Fprint(p.outW, line+"\r\n")
	require.NoError(t, err)
}

// exit closes both streams as a dying process would.
func (p *fakeProc) exit() {
	p.outW.Close()
	p.errW.Close()
}

type fakeRunner struct {
	started  chan *fakeProc
	startErr error
	spawnErr error

	mu      sync.Mutex
	procs   []*fakeProc
	spawned [][]string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{started: make(chan *fakeProc, 8)}
}

func (r *fakeRunner) Start(name string, args ...string) (Process, error) {
	if r.startErr != nil {
		return nil, r.startErr
	}
	p := newFakeProc(append([]string{name}, args...))
	r.mu.Lock()
	r.procs = append(r.procs, p)
	r.mu.Unlock()
	r.started <- p
	return p, nil
}

func (r *fakeRunner) Spawn(name string, args ...string) error {
	if r.spawnErr != nil {
		return r.spawnErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spawned = append(r.spawned, append([]string{name}, args...))
	return nil
}

func (r *fakeRunner) next(t *testing.T) *fakeProc {
	t.Helper()
	select {
	case p := <-r.started:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a process to start")
		return nil
	}
}

func (r *fakeRunner) startCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.procs)
}

func (r *fakeRunner) spawns() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.spawned...)
}

type recorder struct {
	mu      sync.Mutex
	outputs []string
	infos   []string
	states  []State
	tunnels []DiscoveredPort
	urls    []string
}

func (r *recorder) Output(label, line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs = append(r.outputs, label+": "+line)
}

func (r *recorder) Info(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, msg)
}

func (r *recorder) StateChanged(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) TunnelOpened(p DiscoveredPort) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tunnels = append(r.tunnels, p)
}

func (r *recorder) URL(url string, opened bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.urls = append(r.urls, url)
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// freeBase returns a port that was free a moment ago.
func freeBase(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

var errBoom = errors.New("boom")
