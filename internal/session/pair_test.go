package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextEvent(t *testing.T, p *Pair) Event {
	t.Helper()
	select {
	case ev := <-p.Events():
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for an event")
		return Event{}
	}
}

func TestPairLabelsStreams(t *testing.T) {
	pair := NewPair(testLogger())
	t.Cleanup(pair.TerminateAll)
	proc := newFakeProc(nil)
	pair.Register(proc, "2", false)

	go fmt.Fprint(proc.errW, "Warning: Permanently added host\n")
	ev := nextEvent(t, pair)
	assert.Equal(t, Event{Label: "stderr2", Line: "Warning: Permanently added host\n"}, ev)

	go fmt.Fprint(proc.outW, "hello\r\n")
	ev = nextEvent(t, pair)
	assert.Equal(t, "stdout2", ev.Label)
	assert.Equal(t, "hello\r\n", ev.Line)
	assert.False(t, ev.Primary)
}

func TestPairDeliversTrailingLineThenHangup(t *testing.T) {
	pair := NewPair(testLogger())
	t.Cleanup(pair.TerminateAll)
	proc := newFakeProc(nil)
	pair.Register(proc, "", true)

	go func() {
		fmt.Fprint(proc.outW, "first\nlast without newline")
		proc.outW.Close()
	}()

	assert.Equal(t, "first\n", nextEvent(t, pair).Line)
	assert.Equal(t, "last without newline", nextEvent(t, pair).Line)

	ev := nextEvent(t, pair)
	assert.True(t, ev.Hangup)
	assert.True(t, ev.Primary)
	assert.Equal(t, "stdout", ev.Label)
	assert.NoError(t, ev.Err)
}

func TestPairReportsReadErrors(t *testing.T) {
	pair := NewPair(testLogger())
	t.Cleanup(pair.TerminateAll)
	proc := newFakeProc(nil)
	pair.Register(proc, "", true)

	proc.errW.CloseWithError(errBoom)
	ev := nextEvent(t, pair)
	require.True(t, ev.Hangup)
	assert.ErrorIs(t, ev.Err, errBoom)
}

func TestPairTerminateAll(t *testing.T) {
	pair := NewPair(testLogger())
	primary := newFakeProc(nil)
	tunnel := newFakeProc(nil)
	pair.Register(primary, "", true)
	pair.Register(tunnel, "2", false)

	pair.TerminateAll()
	pair.TerminateAll()

	assert.True(t, primary.killed.Load())
	assert.True(t, tunnel.killed.Load())

	// readers stop instead of blocking on a channel nobody drains
	select {
	case <-pair.done:
	default:
		t.Fatal("done channel not closed")
	}
}
