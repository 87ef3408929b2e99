package viewer

// Control is a user command bound to a key.
type Control int

const (
	IncreaseIterations Control = iota
	DecreaseIterations
	Reset
	Exit
	Snapshot
)

func (c Control) String() string {
	switch c {
	case IncreaseIterations:
		return "increase-iterations"
	case DecreaseIterations:
		return "decrease-iterations"
	case Reset:
		return "reset"
	case Exit:
		return "exit"
	case Snapshot:
		return "snapshot"
	}
	return "unknown"
}

// Window is everything the loop needs from the windowing layer.
type Window interface {
	// Size is the current size of the drawable area in pixels.
	Size() (width, height int)
	// CursorPos is the absolute cursor position in window pixels.
	CursorPos() (x, y float64)
	// ScrollOffset is the cumulative vertical scroll since the window opened.
	ScrollOffset() float64
	// Dragging reports whether the primary mouse button is held.
	Dragging() bool
	Pressed(Control) bool
	ShouldClose() bool

	// Present swaps buffers and processes pending window events.
	Present()
}

// InputSnapshot holds last frame's input so the next frame can
// compute deltas from it.
type InputSnapshot struct {
	CursorX, CursorY float64
	Scroll           float64
	snapshotHeld     bool
}

// Frame is the input observed in one iteration.
type Frame struct {
	DX, DY      float64
	ScrollDelta float64
	Dragging    bool

	Increase, Decrease, Reset, Exit bool

	// Snapshot is set only on the frame the key goes down.
	Snapshot bool
}

func NewInputSnapshot(w Window) InputSnapshot {
	x, y := w.CursorPos()
	return InputSnapshot{
		CursorX: x,
		CursorY: y,
		Scroll:  w.ScrollOffset(),
	}
}

// Capture reads w, returns the frame's deltas and replaces the baseline
// with the current values, whatever the button state.
func (s *InputSnapshot) Capture(w Window) Frame {
	x, y := w.CursorPos()
	scroll := w.ScrollOffset()
	snapshotHeld := w.Pressed(Snapshot)

	f := Frame{
		DX:          x - s.CursorX,
		DY:          y - s.CursorY,
		ScrollDelta: scroll - s.Scroll,
		Dragging:    w.Dragging(),
		Increase:    w.Pressed(IncreaseIterations),
		Decrease:    w.Pressed(DecreaseIterations),
		Reset:       w.Pressed(Reset),
		Exit:        w.Pressed(Exit),
		Snapshot:    snapshotHeld && !s.snapshotHeld,
	}

	s.CursorX, s.CursorY = x, y
	s.Scroll = scroll
	s.snapshotHeld = snapshotHeld
	return f
}
