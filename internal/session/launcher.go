package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/zpdzap/padre/internal/ports"
	"github.com/zpdzap/padre/internal/scrape"
)

const (
	launcherScript  = "run-radiopadre.sh"
	defaultLauncher = "~/radiopadre/" + launcherScript

	// tunnelCommand keeps the forwarding connection open without doing anything.
	tunnelCommand = "cat >/dev/null"

	primaryLabel = ""
	tunnelLabel  = "2"
)

// Options configure one launcher run.
type Options struct {
	Target Target
	// RemotePath is the remote directory holding run-radiopadre.sh. When
	// empty, ~/radiopadre and then $PATH are tried.
	RemotePath   string
	Browser      string
	NoBrowser    bool
	PortBase     int
	MaxPortTries int
}

// Launcher starts radiopadre on a remote host, forwards its notebook port and
// points a browser at it.
type Launcher struct {
	opts     Options
	runner   Runner
	reporter Reporter
	log      *logrus.Entry
	pair     *Pair

	state      State
	notebooks  []string
	port       *DiscoveredPort
	tunnelGone bool
}

// NewLauncher returns a launcher for opts. Zero PortBase means 10000 plus
// the local uid; zero MaxPortTries means ports.DefaultMaxTries.
func NewLauncher(opts Options, runner Runner, reporter Reporter, log *logrus.Entry) *Launcher {
	if opts.PortBase <= 0 {
		uid := os.Getuid()
		if uid < 0 {
			uid = 0
		}
		opts.PortBase = 10000 + uid
	}
	if opts.MaxPortTries <= 0 {
		opts.MaxPortTries = ports.DefaultMaxTries
	}
	log = log.WithFields(logrus.Fields{
		"run":  uuid.NewString()[:8],
		"host": opts.Target.Host,
	})
	return &Launcher{
		opts:     opts,
		runner:   runner,
		reporter: reporter,
		log:      log,
		pair:     NewPair(log),
		state:    StateStarting,
	}
}

// RemoteCommand is the shell command run on the remote host. Candidate
// launcher scripts are joined with || so the first that runs wins.
func RemoteCommand(t Target, remotePath string) string {
	execs := []string{defaultLauncher, launcherScript}
	if remotePath != "" {
		execs = []string{path.Join(remotePath, launcherScript)}
	}
	cmd := strings.Join(execs, " || ")
	if t.RemotePath != "" {
		return fmt.Sprintf("cd %s && ( %s )", t.RemotePath, cmd)
	}
	return cmd
}

// PrimaryArgs is the ssh invocation that starts radiopadre. -tt forces a
// remote terminal so the server flushes its log lines as it writes them.
func PrimaryArgs(t Target, remotePath string) []string {
	return []string{"ssh", "-tt", t.Host, RemoteCommand(t, remotePath)}
}

// TunnelArgs is the ssh invocation forwarding local to remote on the target host.
func TunnelArgs(t Target, local, remote int) []string {
	return []string{"ssh", "-tt", "-L", fmt.Sprintf("%d:localhost:%d", local, remote), t.Host, tunnelCommand}
}

// Run drives the session until the primary ssh process goes away or ctx is
// cancelled, killing both ssh processes before returning. A vanished primary
// is reported as success whatever its cause.
func (l *Launcher) Run(ctx context.Context) error {
	defer l.pair.TerminateAll()

	t := l.opts.Target
	l.reporter.Info(fmt.Sprintf("Running remote radiopadre %s, path %s, notebook(s) %s",
		t.Host, t.DisplayPath(), t.DisplayNotebook()))

	args := PrimaryArgs(t, l.opts.RemotePath)
	l.log.WithField("command", args[len(args)-1]).Debug("starting remote radiopadre")
	proc, err := l.runner.Start(args[0], args[1:]...)
	if err != nil {
		return fmt.Errorf("starting remote radiopadre: %w", err)
	}
	l.pair.Register(proc, primaryLabel, true)
	l.setState(StateAwaitingPrimaryOutput)

	for {
		select {
		case <-ctx.Done():
			l.reporter.Info("Interrupted, stopping ssh sessions")
			l.log.Info("interrupted")
			return nil
		case ev := <-l.pair.Events():
			done, err := l.handle(ev)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

// handle processes one event and reports whether the session is over.
func (l *Launcher) handle(ev Event) (bool, error) {
	if ev.Hangup {
		return l.handleHangup(ev), nil
	}

	l.reporter.Output(ev.Label, strings.TrimSpace(ev.Line))
	if ev.Primary && l.state == StateAwaitingPrimaryOutput {
		l.setState(StateAwaitingPort)
	}
	if l.port != nil {
		return false, nil
	}

	if names, ok := scrape.Notebooks(ev.Line, l.opts.Target.Notebook); ok {
		l.notebooks = names
		l.log.WithField("notebooks", names).Debug("auto-notebooks selected")
	}
	if remote, ok := scrape.ServerPort(ev.Line); ok {
		return false, l.openTunnel(remote)
	}
	return false, nil
}

func (l *Launcher) handleHangup(ev Event) bool {
	entry := l.log.WithFields(logrus.Fields{"stream": ev.Label, "primary": ev.Primary})
	if ev.Err != nil {
		entry = entry.WithError(ev.Err)
	}

	if ev.Primary || l.state != StateTunnelActive {
		entry.Info("ssh process gone")
		l.reporter.Info("ssh process gone, exiting")
		return true
	}

	entry.Warn("tunnel stream closed")
	if !l.tunnelGone {
		l.tunnelGone = true
		l.reporter.Info("ssh tunnel closed; press Ctrl+C to stop the remote server")
	}
	return false
}

func (l *Launcher) openTunnel(remote int) error {
	local, ok := ports.FindFree(l.opts.PortBase, l.opts.MaxPortTries)
	if !ok {
		return fmt.Errorf("%w: tried %d ports from %d", ports.ErrNoFreePort, l.opts.MaxPortTries, l.opts.PortBase)
	}
	l.reporter.Info(fmt.Sprintf("Detected remote port %d, using local port %d", remote, local))

	args := TunnelArgs(l.opts.Target, local, remote)
	proc, err := l.runner.Start(args[0], args[1:]...)
	if err != nil {
		return fmt.Errorf("starting ssh tunnel: %w", err)
	}
	l.pair.Register(proc, tunnelLabel, false)

	l.port = &DiscoveredPort{Remote: remote, Local: local, OpenedAt: time.Now()}
	l.log.WithFields(logrus.Fields{"remote_port": remote, "local_port": local}).Info("tunnel opened")
	l.setState(StateTunnelActive)
	l.reporter.TunnelOpened(*l.port)

	if l.opts.NoBrowser {
		l.reporter.Info("-n/--no-browser given, not opening a browser for you")
	}
	for _, url := range l.URLs() {
		if err := l.present(url); err != nil {
			return err
		}
	}
	return nil
}

func (l *Launcher) present(url string) error {
	if l.opts.NoBrowser {
		l.reporter.Info("Please surf to " + url)
		l.reporter.URL(url, false)
		return nil
	}
	l.reporter.Info("Opening browser for " + url)
	if err := l.OpenURL(url); err != nil {
		return err
	}
	l.reporter.URL(url, true)
	return nil
}

// OpenURL starts the configured browser on url without waiting for it.
// The browser setting may carry arguments, e.g. "firefox --new-window".
func (l *Launcher) OpenURL(url string) error {
	fields := strings.Fields(l.opts.Browser)
	if len(fields) == 0 {
		return errors.New("no browser command configured")
	}
	args := append(fields[1:], url)
	if err := l.runner.Spawn(fields[0], args...); err != nil {
		return fmt.Errorf("opening browser: %w", err)
	}
	return nil
}

// URLs returns the server root followed by one URL per auto-notebook. It is
// empty until the tunnel is open.
func (l *Launcher) URLs() []string {
	if l.port == nil {
		return nil
	}
	base := fmt.Sprintf("http://localhost:%d", l.port.Local)
	urls := []string{base}
	for _, nb := range l.notebooks {
		urls = append(urls, base+"/notebooks/"+nb)
	}
	return urls
}

// State returns the current state. Not safe to call while Run is active.
func (l *Launcher) State() State {
	return l.state
}

// Port returns the discovered ports once the tunnel is open.
func (l *Launcher) Port() (DiscoveredPort, bool) {
	if l.port == nil {
		return DiscoveredPort{}, false
	}
	return *l.port, true
}

// Notebooks returns the auto-notebooks picked from the remote listing.
func (l *Launcher) Notebooks() []string {
	return l.notebooks
}

func (l *Launcher) setState(s State) {
	if l.state == s {
		return
	}
	l.log.WithField("state", s).Debug("state changed")
	l.state = s
	l.reporter.StateChanged(s)
}
