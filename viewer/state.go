package viewer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// MinIterations is the lowest iteration count the view can be lowered to.
	MinIterations = 8

	// PanScale is the distance in the complex plane covered by one pixel at zoom 1.
	PanScale = 0.001

	// ZoomStep is the fractional zoom change for one unit of scroll.
	ZoomStep = 0.05

	// minZoomFactor keeps a large negative scroll from flipping the sign of zoom.
	minZoomFactor = 0.05

	// MinZoom and MaxZoom bound zoom so that it, and PanScale/zoom, stay
	// finite and non-zero once narrowed to the shader's float32.
	MinZoom = 1e-6
	MaxZoom = 1e30

	// maxCentre bounds each centre coordinate to what a float32 uniform holds.
	maxCentre = math.MaxFloat32
)

// ViewState is the part of the view the user controls.
type ViewState struct {
	CentreReal float64
	CentreImag float64
	Zoom       float64
	Iterations int
}

func DefaultView() ViewState {
	return ViewState{
		CentreReal: -0.5,
		CentreImag: 0,
		Zoom:       0.2,
		Iterations: 100,
	}
}

func (v *ViewState) Reset() {
	*v = DefaultView()
}

// ApplyScroll scales zoom by 1 + ZoomStep*delta, within [MinZoom, MaxZoom].
func (v *ViewState) ApplyScroll(delta float64) {
	if delta == 0 {
		return
	}

	factor := 1 + ZoomStep*delta
	if factor < minZoomFactor {
		factor = minZoomFactor
	}

	v.Zoom = clamp(v.Zoom*factor, MinZoom, MaxZoom)
}

// Pan moves the centre by a cursor delta in pixels.
// Content follows the cursor; y grows downwards on screen and upwards in the plane.
func (v *ViewState) Pan(dx, dy float64) {
	v.CentreReal = clamp(v.CentreReal-dx*PanScale/v.Zoom, -maxCentre, maxCentre)
	v.CentreImag = clamp(v.CentreImag+dy*PanScale/v.Zoom, -maxCentre, maxCentre)
}

func clamp(x, lo, hi float64) float64 {
	return math.Min(math.Max(x, lo), hi)
}

func (v *ViewState) IncreaseIterations() {
	if v.Iterations < math.MaxInt32 {
		v.Iterations++
	}
}

func (v *ViewState) DecreaseIterations() {
	v.Iterations--
	if v.Iterations < MinIterations {
		v.Iterations = MinIterations
	}
}

// Uniforms returns the shader parameters for a framebuffer of the given size.
func (v ViewState) Uniforms(width, height int) Uniforms {
	return Uniforms{
		Iterations: int32(v.Iterations),
		Zoom:       float32(v.Zoom),
		Centre:     mgl32.Vec2{float32(v.CentreReal), float32(v.CentreImag)},
		Resolution: mgl32.Vec2{float32(width), float32(height)},
	}
}

// Uniforms mirrors the uniform block of the fragment shader.
// Each field's tag is the GLSL name it is uploaded to.
type Uniforms struct {
	Iterations int32      `uniform:"iterations"`
	Zoom       float32    `uniform:"zoom"`
	Centre     mgl32.Vec2 `uniform:"centre"`
	Resolution mgl32.Vec2 `uniform:"resolution"`
}
