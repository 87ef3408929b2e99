package viewer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	width, height int
	x, y          float64
	scroll        float64
	dragging      bool
	pressed       map[Control]bool
	closed        bool

	calls *[]string
}

func newFakeWindow(calls *[]string) *fakeWindow {
	return &fakeWindow{
		width:   1280,
		height:  720,
		x:       100,
		y:       100,
		pressed: make(map[Control]bool),
		calls:   calls,
	}
}

func (w *fakeWindow) Size() (int, int) { return w.width, w.height }

func (w *fakeWindow) CursorPos() (float64, float64) { return w.x, w.y }

func (w *fakeWindow) ScrollOffset() float64 { return w.scroll }

func (w *fakeWindow) Dragging() bool { return w.dragging }

func (w *fakeWindow) Pressed(c Control) bool { return w.pressed[c] }

func (w *fakeWindow) ShouldClose() bool { return w.closed }

func (w *fakeWindow) Present() { *w.calls = append(*w.calls, "present") }

type fakeRenderer struct {
	calls    *[]string
	uniforms []Uniforms
}

func (r *fakeRenderer) Clear() { *r.calls = append(*r.calls, "clear") }

func (r *fakeRenderer) DrawQuad() { *r.calls = append(*r.calls, "draw") }

func (r *fakeRenderer) UseProgram() { *r.calls = append(*r.calls, "use") }

func (r *fakeRenderer) SetUniforms(u Uniforms) {
	*r.calls = append(*r.calls, "uniforms")
	r.uniforms = append(r.uniforms, u)
}

type fixture struct {
	window   *fakeWindow
	renderer *fakeRenderer
	viewer   *Viewer
	fps      *bytes.Buffer
	now      time.Time
	calls    []string
}

func newFixture(t *testing.T, snapshot SnapshotFunc) *fixture {
	t.Helper()
	f := &fixture{
		fps: &bytes.Buffer{},
		now: time.Unix(0, 0),
	}
	f.window = newFakeWindow(&f.calls)
	f.renderer = &fakeRenderer{calls: &f.calls}
	f.viewer = New(f.window, f.renderer, Options{
		FPS:      f.fps,
		Now:      func() time.Time { return f.now },
		Snapshot: snapshot,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return f
}

func TestStepOrder(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, Running, f.viewer.Step())
	assert.Equal(t, []string{"clear", "draw", "use", "uniforms", "present"}, f.calls)

	require.Len(t, f.renderer.uniforms, 1)
	assert.Equal(t, DefaultView().Uniforms(1280, 720), f.renderer.uniforms[0])
}

func TestResolutionFollowsResize(t *testing.T) {
	f := newFixture(t, nil)
	f.viewer.Step()

	f.window.width, f.window.height = 640, 480
	f.viewer.Step()

	require.Len(t, f.renderer.uniforms, 2)
	assert.Equal(t, float32(640), f.renderer.uniforms[1].Resolution.X())
	assert.Equal(t, float32(480), f.renderer.uniforms[1].Resolution.Y())
}

func TestScrollZoom(t *testing.T) {
	f := newFixture(t, nil)

	f.window.scroll = 3
	f.viewer.Step()
	assert.InDelta(t, 0.23, f.viewer.View().Zoom, 1e-12)

	// cumulative offset unchanged, so no further zoom
	f.viewer.Step()
	assert.InDelta(t, 0.23, f.viewer.View().Zoom, 1e-12)
}

func TestDragPan(t *testing.T) {
	f := newFixture(t, nil)

	f.window.dragging = true
	f.window.x, f.window.y = 110, 95
	f.viewer.Step()

	view := f.viewer.View()
	assert.InDelta(t, -0.55, view.CentreReal, 1e-12)
	assert.InDelta(t, -0.025, view.CentreImag, 1e-12)
}

func TestMoveWithoutButtonUpdatesBaseline(t *testing.T) {
	f := newFixture(t, nil)

	f.window.x, f.window.y = 300, 300
	f.viewer.Step()
	assert.Equal(t, DefaultView(), f.viewer.View())

	// pressing the button now must not pan by the earlier movement
	f.window.dragging = true
	f.viewer.Step()
	assert.Equal(t, DefaultView(), f.viewer.View())
}

func TestIterationKeys(t *testing.T) {
	f := newFixture(t, nil)

	f.window.pressed[IncreaseIterations] = true
	f.viewer.Step()
	f.viewer.Step()
	assert.Equal(t, 102, f.viewer.View().Iterations)

	f.window.pressed[IncreaseIterations] = false
	f.window.pressed[DecreaseIterations] = true
	for i := 0; i < 200; i++ {
		f.viewer.Step()
	}
	assert.Equal(t, MinIterations, f.viewer.View().Iterations)

	f.window.pressed[DecreaseIterations] = false
	f.window.pressed[Reset] = true
	f.viewer.Step()
	assert.Equal(t, DefaultView(), f.viewer.View())
}

func TestExitConditions(t *testing.T) {
	t.Run("exit key", func(t *testing.T) {
		f := newFixture(t, nil)
		f.window.pressed[Exit] = true
		assert.Equal(t, Exiting, f.viewer.Step())
	})

	t.Run("window closed", func(t *testing.T) {
		f := newFixture(t, nil)
		f.window.closed = true
		assert.Equal(t, Exiting, f.viewer.Step())
	})

	t.Run("exiting does not render", func(t *testing.T) {
		f := newFixture(t, nil)
		f.window.closed = true
		f.viewer.Step()
		f.calls = nil

		assert.Equal(t, Exiting, f.viewer.Step())
		assert.Empty(t, f.calls)
	})
}

type rendererFunc func()

func (f rendererFunc) Clear() { f() }

func (rendererFunc) DrawQuad() {}

func (rendererFunc) UseProgram() {}

func (rendererFunc) SetUniforms(Uniforms) {}

func TestRun(t *testing.T) {
	t.Run("window closed", func(t *testing.T) {
		f := newFixture(t, nil)

		frames := 0
		f.viewer.renderer = rendererFunc(func() {
			frames++
			if frames == 3 {
				f.window.closed = true
			}
		})

		require.NoError(t, f.viewer.Run(context.Background()))
		assert.Equal(t, 3, frames)
		assert.Equal(t, Exiting, f.viewer.State())
	})

	t.Run("cancelled", func(t *testing.T) {
		f := newFixture(t, nil)
		stop := errors.New("stop")
		ctx, cancel := context.WithCancelCause(context.Background())
		cancel(stop)

		err := f.viewer.Run(ctx)
		assert.ErrorIs(t, err, stop)
		assert.Equal(t, []string{"clear", "draw", "use", "uniforms", "present"}, f.calls)
	})
}

func TestFPSReport(t *testing.T) {
	f := newFixture(t, nil)

	for i := 0; i < 30; i++ {
		f.now = f.now.Add(40 * time.Millisecond)
		f.viewer.Step()
	}

	assert.Equal(t, "FPS: 26\n", f.fps.String())
}

func TestSnapshotEdgeTriggered(t *testing.T) {
	var got []ViewState
	f := newFixture(t, func(view ViewState, width, height int) error {
		assert.Equal(t, 1280, width)
		assert.Equal(t, 720, height)
		got = append(got, view)
		return errors.New("disk full")
	})

	f.window.pressed[Snapshot] = true
	f.viewer.Step()
	f.viewer.Step()
	f.viewer.Step()
	assert.Len(t, got, 1)

	f.window.pressed[Snapshot] = false
	f.viewer.Step()
	f.window.pressed[Snapshot] = true
	f.viewer.Step()
	assert.Len(t, got, 2)

	// a failed snapshot doesn't stop the loop
	assert.Equal(t, Running, f.viewer.State())
}
