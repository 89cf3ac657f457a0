package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateRunning, "running"},
		{StateWaiting, "waiting"},
		{StateZombie, "zombie"},
		{StateOrphan, "orphan"},
		{StateTerminated, "terminated"},
		{State(99), "State(99)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}

func TestState_Active(t *testing.T) {
	assert.True(t, StateRunning.Active())
	assert.True(t, StateOrphan.Active())
	assert.False(t, StateWaiting.Active())
	assert.False(t, StateZombie.Active())
	assert.False(t, StateTerminated.Active())
}

func TestState_Terminal(t *testing.T) {
	assert.True(t, StateZombie.Terminal())
	assert.True(t, StateTerminated.Terminal())
	assert.False(t, StateRunning.Terminal())
	assert.False(t, StateWaiting.Terminal())
	assert.False(t, StateOrphan.Terminal())
}

func TestParseState_RoundTrip(t *testing.T) {
	for _, s := range []State{StateRunning, StateWaiting, StateZombie, StateOrphan, StateTerminated} {
		parsed, err := ParseState(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
}

func TestParseState_Unknown(t *testing.T) {
	_, err := ParseState("sleeping")
	assert.Error(t, err)
}
