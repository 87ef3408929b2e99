package viewer

import "time"

// ReportInterval is how long frames are counted before a rate is reported.
const ReportInterval = time.Second

// FrameClock counts frames over a window of wall time.
type FrameClock struct {
	frames int
	start  time.Time
}

func NewFrameClock(now time.Time) *FrameClock {
	return &FrameClock{start: now}
}

// Tick records a frame. Once more than ReportInterval has passed since
// the window started it returns the frame count with reported set, and
// starts a new window at now.
func (c *FrameClock) Tick(now time.Time) (fps int, reported bool) {
	c.frames++

	if now.Sub(c.start) <= ReportInterval {
		return 0, false
	}

	fps = c.frames
	c.frames = 0
	c.start = now
	return fps, true
}

// Frames is the number of frames counted in the current window.
func (c *FrameClock) Frames() int {
	return c.frames
}
