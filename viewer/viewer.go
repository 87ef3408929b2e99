// Package viewer holds the render loop of the fractal viewer and the view
// state it mutates. It knows nothing about GLFW or OpenGL; those are
// reached through the Window and Renderer interfaces.
package viewer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// State is the state of the render loop.
type State int

const (
	Running State = iota
	Exiting
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "exiting"
}

// Renderer draws one frame of the fractal.
type Renderer interface {
	Clear()
	DrawQuad()
	UseProgram()
	SetUniforms(Uniforms)
}

// SnapshotFunc saves the given view at the given size.
type SnapshotFunc func(view ViewState, width, height int) error

type Options struct {
	// FPS receives "FPS: <n>" lines. Defaults to os.Stdout.
	FPS io.Writer
	// Now defaults to time.Now.
	Now func() time.Time
	// Snapshot is called when the snapshot key goes down. May be nil.
	Snapshot SnapshotFunc

	Logger *slog.Logger
}

// Viewer runs the per-frame loop.
type Viewer struct {
	window   Window
	renderer Renderer

	view  ViewState
	input InputSnapshot
	clock *FrameClock
	state State

	fps      io.Writer
	now      func() time.Time
	snapshot SnapshotFunc
	log      *slog.Logger
}

func New(window Window, renderer Renderer, opts Options) *Viewer {
	if opts.FPS == nil {
		opts.FPS = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Viewer{
		window:   window,
		renderer: renderer,
		view:     DefaultView(),
		input:    NewInputSnapshot(window),
		clock:    NewFrameClock(opts.Now()),
		state:    Running,
		fps:      opts.FPS,
		now:      opts.Now,
		snapshot: opts.Snapshot,
		log:      opts.Logger,
	}
}

func (v *Viewer) View() ViewState {
	return v.view
}

func (v *Viewer) State() State {
	return v.state
}

// Run steps the loop until it exits or ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	v.log.Debug("render loop started", "view", v.view)
	for v.state == Running {
		v.Step()
		if ctx.Err() != nil {
			v.state = Exiting
		}
	}
	v.log.Debug("render loop stopped", "view", v.view)
	return context.Cause(ctx)
}

// Step runs one iteration of the loop and returns the resulting state.
// Stepping an exiting viewer does nothing.
func (v *Viewer) Step() State {
	if v.state != Running {
		return v.state
	}

	v.renderer.Clear()
	v.renderer.DrawQuad()
	v.renderer.UseProgram()
	v.renderer.SetUniforms(v.view.Uniforms(v.window.Size()))
	v.window.Present()

	if fps, ok := v.clock.Tick(v.now()); ok {
		fmt.Fprintf(v.fps, "FPS: %v\n", fps)
	}

	in := v.input.Capture(v.window)

	v.view.ApplyScroll(in.ScrollDelta)

	if in.Dragging {
		v.view.Pan(in.DX, in.DY)
	}

	if in.Increase {
		v.view.IncreaseIterations()
	}
	if in.Decrease {
		v.view.DecreaseIterations()
	}
	if in.Reset {
		v.view.Reset()
	}

	if in.Snapshot && v.snapshot != nil {
		width, height := v.window.Size()
		if err := v.snapshot(v.view, width, height); err != nil {
			v.log.Error("snapshot failed", "err", err)
		}
	}

	if in.Exit || v.window.ShouldClose() {
		v.state = Exiting
	}

	return v.state
}
