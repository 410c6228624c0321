package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceConvertsRealTime(t *testing.T) {
	// 60 in-game minutes per real second.
	c := New(60)

	tick := c.Advance(time.Second)
	assert.InDelta(t, 1.0, tick.DeltaHours, 1e-9, "one real second should be one in-game hour")
	assert.Equal(t, 1, tick.Day)
}

func TestDayRollsOverAfterTwentyFourHours(t *testing.T) {
	c := New(60)

	for i := 0; i < 23; i++ {
		c.Advance(time.Second)
	}
	assert.Equal(t, 1, c.Day())

	tick := c.Advance(time.Second)
	assert.Equal(t, 2, tick.Day, "24 in-game hours should start day 2")
}

func TestPhaseWrapsWithinDay(t *testing.T) {
	c := New(60)

	c.Advance(6 * time.Second)
	assert.InDelta(t, 0.25, c.Phase(), 1e-9)

	c.Advance(24 * time.Second)
	assert.InDelta(t, 0.25, c.Phase(), 1e-9, "phase should wrap at day boundaries")
}

func TestNegativeSpeedClampsToStopped(t *testing.T) {
	c := New(-10)

	tick := c.Advance(time.Minute)
	assert.Zero(t, tick.DeltaHours)
	assert.Equal(t, 1, tick.Day)
}
