package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockClock(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMockClock(start)
	assert.Equal(t, start, c.Now())

	c.Advance(1500 * time.Millisecond)
	assert.Equal(t, 1500*time.Millisecond, c.Since(start))

	c.Set(start)
	assert.Zero(t, c.Since(start))
}

func TestRealClockMovesForward(t *testing.T) {
	var c Clock = RealClock{}
	t0 := c.Now()
	assert.GreaterOrEqual(t, c.Since(t0), time.Duration(0))
}
