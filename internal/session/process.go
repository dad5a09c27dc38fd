package session

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Process is a started child whose output the Pair reads.
type Process interface {
	Stdout() io.Reader
	Stderr() io.Reader
	Kill() error
}

// Runner creates child processes. Tests substitute a fake to drive the
// launcher without ssh.
type Runner interface {
	// Start launches a managed child with piped stdin, stdout and stderr.
	Start(name string, args ...string) (Process, error)
	// Spawn launches a detached child that is never tracked or killed.
	Spawn(name string, args ...string) error
}

// ExecRunner is the Runner backed by os/exec.
type ExecRunner struct{}

// Start runs name with its standard streams piped. Stdin is held open so
// remote commands reading it (the tunnel's "cat") keep running.
func (ExecRunner) Start(name string, args ...string) (Process, error) {
	cmd := exec.Command(name, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe for %s: %w", name, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe for %s: %w", name, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe for %s: %w", name, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return &execProcess{cmd: cmd, stdin: stdin, stdout: stdout, stderr: stderr, reaped: make(chan struct{})}, nil
}

// Spawn starts name and returns without waiting for it. The child is reaped
// in the background so it does not linger as a zombie.
func (ExecRunner) Spawn(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	go cmd.Wait()
	return nil
}

type execProcess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.Reader
	stderr io.Reader
	reaped chan struct{}
}

func (p *execProcess) Stdout() io.Reader { return p.stdout }
func (p *execProcess) Stderr() io.Reader { return p.stderr }

// Kill sends SIGKILL and returns without waiting for the process to exit.
// The process is reaped in the background; Kill must be called at most once.
func (p *execProcess) Kill() error {
	_ = p.stdin.Close()
	err := p.cmd.Process.Kill()
	go func() {
		_ = p.cmd.Wait()
		close(p.reaped)
	}()
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
