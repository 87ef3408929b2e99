package main

import (
	"log/slog"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stewi1014/fractalview/viewer"
)

const windowTitle = "GLSL Fractal Renderer"

// keymap binds each control to the keys that trigger it.
var keymap = map[viewer.Control][]glfw.Key{
	viewer.IncreaseIterations: {glfw.KeyKPAdd, glfw.KeyEqual},
	viewer.DecreaseIterations: {glfw.KeyKPSubtract, glfw.KeyMinus},
	viewer.Reset:              {glfw.KeySpace},
	viewer.Exit:               {glfw.KeyEscape},
	viewer.Snapshot:           {glfw.KeyP},
}

// NewRenderWindow initialises GLFW, opens a window with a current GL
// context and loads the GL functions. Whatever was set up is torn down
// again if a later step fails.
func NewRenderWindow(width, height int, debug bool) (w *RenderWindow, err error) {
	if err := glfw.Init(); err != nil {
		return nil, &viewer.InitError{Stage: "glfw", Err: err}
	}
	defer func() {
		if err != nil {
			glfw.Terminate()
		}
	}()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if debug {
		glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)
	}

	window, err := glfw.CreateWindow(width, height, windowTitle, nil, nil)
	if err != nil {
		return nil, &viewer.InitError{Stage: "window", Err: err}
	}
	defer func() {
		if err != nil {
			window.Destroy()
		}
	}()

	w = &RenderWindow{
		Window: window,
	}

	w.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		return nil, &viewer.InitError{Stage: "gl", Err: err}
	}

	// render as fast as possible, the frame rate is reported every second
	glfw.SwapInterval(0)
	w.SetTitle(windowTitle)

	w.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		w.scroll += yoff
	})

	slog.Debug("opened window",
		"width", width,
		"height", height,
		"gl", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
	)

	return w, nil
}

// RenderWindow adapts a GLFW window to viewer.Window.
type RenderWindow struct {
	*glfw.Window

	// scroll accumulates vertical scroll offsets from the scroll callback
	scroll float64
}

var _ viewer.Window = (*RenderWindow)(nil)

// Size is the framebuffer size, which is what gl_FragCoord is measured in.
func (w *RenderWindow) Size() (width, height int) {
	return w.GetFramebufferSize()
}

// CursorPos is in framebuffer pixels, so pan deltas match Size on HiDPI
// displays where GLFW reports the cursor in screen coordinates.
func (w *RenderWindow) CursorPos() (x, y float64) {
	x, y = w.GetCursorPos()
	fw, fh := w.GetFramebufferSize()
	ww, wh := w.GetSize()
	return x * framebufferScale(fw, ww), y * framebufferScale(fh, wh)
}

// framebufferScale is framebuffer pixels per screen coordinate.
func framebufferScale(framebuffer, window int) float64 {
	if framebuffer <= 0 || window <= 0 {
		return 1
	}
	return float64(framebuffer) / float64(window)
}

func (w *RenderWindow) ScrollOffset() float64 {
	return w.scroll
}

func (w *RenderWindow) Dragging() bool {
	return w.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press
}

func (w *RenderWindow) Pressed(c viewer.Control) bool {
	for _, key := range keymap[c] {
		if w.GetKey(key) == glfw.Press {
			return true
		}
	}
	return false
}

func (w *RenderWindow) Present() {
	w.SwapBuffers()
	glfw.PollEvents()
}

// Destroy closes the window and terminates GLFW.
func (w *RenderWindow) Destroy() {
	w.Window.Destroy()
	glfw.Terminate()
}
