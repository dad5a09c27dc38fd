package session

import (
	"errors"
	"fmt"
	"strings"
)

const notebookExt = ".ipynb"

// ErrBadTarget reports a target argument that cannot name a remote host.
var ErrBadTarget = errors.New("malformed target")

// Target is where the remote session runs: [user@]host[:directory[/notebook.ipynb]].
type Target struct {
	Host       string
	RemotePath string // empty when no directory was given
	Notebook   string // glob of notebooks to open; empty disables auto-open
}

// ParseTarget parses a target argument. autoPattern is used unless the
// argument names a notebook explicitly.
func ParseTarget(spec, autoPattern string) (Target, error) {
	if strings.TrimSpace(spec) == "" {
		return Target{}, fmt.Errorf("%w: empty target", ErrBadTarget)
	}
	if strings.ContainsAny(spec, " \t\n") {
		return Target{}, fmt.Errorf("%w: %q contains whitespace", ErrBadTarget, spec)
	}

	t := Target{Host: spec, Notebook: autoPattern}
	if host, dir, ok := strings.Cut(spec, ":"); ok {
		t.Host = host
		t.RemotePath = dir
		if strings.HasSuffix(dir, notebookExt) {
			t.RemotePath, t.Notebook = splitNotebook(dir)
		}
	}
	if t.Host == "" || strings.HasSuffix(t.Host, "@") {
		return Target{}, fmt.Errorf("%w: %q has no host", ErrBadTarget, spec)
	}
	return t, nil
}

// splitNotebook splits "dir/name.ipynb" into its directory and file name.
func splitNotebook(p string) (dir, name string) {
	i := strings.LastIndex(p, "/")
	switch {
	case i < 0:
		return "", p
	case i == 0:
		return "/", p[1:]
	default:
		return strings.TrimRight(p[:i], "/"), p[i+1:]
	}
}

// DisplayPath is the remote directory as shown to the operator.
func (t Target) DisplayPath() string {
	if t.RemotePath == "" {
		return "None"
	}
	return t.RemotePath
}

// DisplayNotebook is the notebook pattern as shown to the operator.
func (t Target) DisplayNotebook() string {
	if t.Notebook == "" {
		return "none"
	}
	return t.Notebook
}
