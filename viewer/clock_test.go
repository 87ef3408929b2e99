package viewer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameClock(t *testing.T) {
	start := time.Unix(1000, 0)
	c := NewFrameClock(start)

	for i := 1; i <= 10; i++ {
		_, ok := c.Tick(start.Add(time.Duration(i) * 100 * time.Millisecond))
		assert.False(t, ok, "frame %v", i)
	}
	assert.Equal(t, 10, c.Frames())

	fps, ok := c.Tick(start.Add(1001 * time.Millisecond))
	assert.True(t, ok)
	assert.Equal(t, 11, fps)
	assert.Equal(t, 0, c.Frames())

	// the window restarted at 1001ms
	_, ok = c.Tick(start.Add(1500 * time.Millisecond))
	assert.False(t, ok)
	_, ok = c.Tick(start.Add(2001 * time.Millisecond))
	assert.False(t, ok)

	fps, ok = c.Tick(start.Add(2002 * time.Millisecond))
	assert.True(t, ok)
	assert.Equal(t, 3, fps)
}

func TestFrameClockReportsOncePerWindow(t *testing.T) {
	start := time.Unix(0, 0)
	c := NewFrameClock(start)

	reports := 0
	for ms := 1; ms <= 5000; ms++ {
		if _, ok := c.Tick(start.Add(time.Duration(ms) * time.Millisecond)); ok {
			reports++
		}
	}

	assert.Equal(t, 4, reports)
}
