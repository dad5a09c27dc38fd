package session

import (
	"io"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerKillReaps(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	proc, err := ExecRunner{}.Start("sh", "-c", "echo ready; exec sleep 30")
	require.NoError(t, err)
	p := proc.(*execProcess)

	line := make([]byte, 6)
	_, err = io.ReadFull(p.Stdout(), line)
	require.NoError(t, err)
	assert.Equal(t, "ready\n", string(line))

	require.NoError(t, p.Kill())
	select {
	case <-p.reaped:
	case <-time.After(5 * time.Second):
		t.Fatal("killed process was not reaped")
	}
	require.NotNil(t, p.cmd.ProcessState)
	assert.False(t, p.cmd.ProcessState.Success())
}

func TestExecRunnerStartFailure(t *testing.T) {
	_, err := ExecRunner{}.Start("/nonexistent/padre-ssh")
	assert.Error(t, err)
}
