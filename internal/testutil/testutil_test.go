package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedPidGenerator_ReturnsSequence(t *testing.T) {
	gen := NewFixedPidGenerator(1001, 1002, 1003)

	assert.Equal(t, 1001, gen.NextPid())
	assert.Equal(t, 1002, gen.NextPid())
	assert.Equal(t, 1003, gen.NextPid())
}

func TestFixedPidGenerator_PanicsWhenExhausted(t *testing.T) {
	gen := NewFixedPidGenerator(1001)
	gen.NextPid()

	assert.Panics(t, func() { gen.NextPid() })
}

func TestFixedPidGenerator_SeedRewinds(t *testing.T) {
	gen := NewFixedPidGenerator(1001, 1002)
	gen.NextPid()
	gen.NextPid()

	gen.Seed(9999) // seed value is ignored
	assert.Equal(t, 1001, gen.NextPid())
}

func TestFixedNow_IsConstant(t *testing.T) {
	assert.Equal(t, FixedTime, FixedNow())
	assert.Equal(t, FixedNow(), FixedNow())
}

func TestSteppingNow_AdvancesByStep(t *testing.T) {
	now := SteppingNow(time.Second)

	assert.Equal(t, FixedTime, now())
	assert.Equal(t, FixedTime.Add(time.Second), now())
	assert.Equal(t, FixedTime.Add(2*time.Second), now())
}
