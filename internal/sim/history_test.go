package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_CreatedEventStaysOpen(t *testing.T) {
	h := NewHistory()
	ev := h.Record(ActionCreated, 1001, 1, StateRunning, 1)

	assert.Nil(t, ev.EndSeq)
	assert.Equal(t, 1, h.OpenCount())
}

func TestHistory_WaitClosesOpenEvent(t *testing.T) {
	h := NewHistory()
	h.Record(ActionCreated, 1001, 1, StateRunning, 1)
	h.Record(ActionWait, 1001, 1, StateWaiting, 5)

	events := h.Events()
	require.Len(t, events, 2)

	require.NotNil(t, events[0].EndSeq, "created interval closed by wait")
	assert.Equal(t, int64(5), *events[0].EndSeq)
	assert.Nil(t, events[1].EndSeq, "the wait interval itself is open")
	assert.Equal(t, 1, h.OpenCount())
}

func TestHistory_ExitClosesBothIntervals(t *testing.T) {
	h := NewHistory()
	h.Record(ActionCreated, 1001, 1, StateRunning, 1)
	h.Record(ActionExit, 1001, 1, StateTerminated, 7)

	events := h.Events()
	require.Len(t, events, 2)
	require.NotNil(t, events[0].EndSeq)
	assert.Equal(t, int64(7), *events[0].EndSeq)
	require.NotNil(t, events[1].EndSeq, "exit intervals are recorded closed")
	assert.Equal(t, int64(7), *events[1].EndSeq)
	assert.Equal(t, 0, h.OpenCount())
}

func TestHistory_ClosesOnlyMatchingPid(t *testing.T) {
	h := NewHistory()
	h.Record(ActionCreated, 1001, 1, StateRunning, 1)
	h.Record(ActionCreated, 1002, 1001, StateRunning, 1)
	h.Record(ActionExit, 1002, 1001, StateZombie, 3)

	events := h.Events()
	assert.Nil(t, events[0].EndSeq, "pid 1001 interval untouched")
	require.NotNil(t, events[1].EndSeq)
	assert.Equal(t, int64(3), *events[1].EndSeq)
}

func TestHistory_IDsIncrease(t *testing.T) {
	h := NewHistory()
	a := h.Record(ActionCreated, 1, 0, StateRunning, 1)
	b := h.Record(ActionFork, 1, 0, StateRunning, 2)
	assert.Equal(t, a.ID+1, b.ID)

	h.Reset()
	c := h.Record(ActionCreated, 1, 0, StateRunning, 1)
	assert.Equal(t, 1, c.ID, "reset restarts ids")
}
