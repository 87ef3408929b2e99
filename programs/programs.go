package programs

import (
	_ "embed"
	"errors"
	"fmt"
	"image"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stewi1014/fractalview/viewer"
)

var ErrNoCPUImplementation = errors.New("fractal does not have a CPU implementation")

var ErrUnknownProgram = errors.New("unknown program")

var (
	NullColour = mgl32.Vec3{0, 0, 0}
)

// colourPeriod is how many iterations one cycle of the palette spans.
const colourPeriod = 32

//go:embed shaders/default.vert
var defaultVertexShader string

func NumPrograms() int {
	return len(programs)
}

// GetProgram returns the registered program with the given name.
func GetProgram(name string) (Program, error) {
	for _, p := range programs {
		if p.Name == name {
			return p, nil
		}
	}
	return Program{}, fmt.Errorf("%w %q", ErrUnknownProgram, name)
}

func Names() []string {
	names := make([]string, len(programs))
	for i, p := range programs {
		names[i] = p.Name
	}
	return names
}

func NewProgram(p Program) error {
	if _, err := GetProgram(p.Name); err == nil {
		return fmt.Errorf("program %q already registered", p.Name)
	}
	programs = append(programs, p)
	return nil
}

// MustNewProgram is like NewProgram but panics if p cannot be registered.
// It is meant for registration from init.
func MustNewProgram(p Program) {
	if err := NewProgram(p); err != nil {
		panic(err)
	}
}

var programs []Program

// Load reads a fragment shader from path.
func Load(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", &viewer.ShaderLoadError{Path: path, Err: err}
	}
	return string(src), nil
}

// PixelFunc colours the fragment at pos, in framebuffer pixels with the
// origin at the bottom left, as the fragment shader would.
type PixelFunc func(uniforms viewer.Uniforms, pos mgl32.Vec2) mgl32.Vec3

type Program struct {
	Name           string
	VertexShader   string
	FragmentShader string
	GetPixel       PixelFunc
}

// WithFragmentShader returns a copy of p drawing with src. The copy has no
// CPU implementation since nothing is known about what src draws.
func (p Program) WithFragmentShader(src string) Program {
	p.FragmentShader = src
	p.GetPixel = nil
	return p
}

func (p *Program) GetImage(uniforms viewer.Uniforms, width, height int) (Image, error) {
	if p.GetPixel == nil {
		return nil, ErrNoCPUImplementation
	}

	uniforms.Resolution = mgl32.Vec2{float32(width), float32(height)}

	return &programImage{
		uniforms:  uniforms,
		bounds:    image.Rect(0, 0, width, height),
		pixelFunc: p.GetPixel,
	}, nil
}

type Image interface {
	GetPixel(mgl32.Vec2) mgl32.Vec3
	Bounds() image.Rectangle
}

type programImage struct {
	uniforms  viewer.Uniforms
	bounds    image.Rectangle
	pixelFunc PixelFunc
}

func (i *programImage) GetPixel(pos mgl32.Vec2) mgl32.Vec3 {
	return i.pixelFunc(i.uniforms, pos)
}

func (i *programImage) Bounds() image.Rectangle {
	return i.bounds
}

// PlanePoint maps a fragment position to the complex plane.
func PlanePoint(uniforms viewer.Uniforms, pos mgl32.Vec2) complex128 {
	scale := viewer.PanScale / float64(uniforms.Zoom)
	return complex(
		float64(uniforms.Centre[0])+(float64(pos[0])-float64(uniforms.Resolution[0])/2)*scale,
		float64(uniforms.Centre[1])+(float64(pos[1])-float64(uniforms.Resolution[1])/2)*scale,
	)
}

// escape iterates step from z until it leaves the radius 2 disc,
// returning the number of steps taken.
func escape(z, c complex128, iterations int, step func(z, c complex128) complex128) int {
	n := 0
	for ; n < iterations; n++ {
		if real(z)*real(z)+imag(z)*imag(z) > 4 {
			break
		}
		z = step(z, c)
	}
	return n
}

func colour(n, iterations int) mgl32.Vec3 {
	if n == iterations {
		return NullColour
	}

	t := float64(n) / colourPeriod
	return mgl32.Vec3{
		float32(0.5 + 0.5*math.Cos(2*math.Pi*t)),
		float32(0.5 + 0.5*math.Cos(2*math.Pi*(t+0.33))),
		float32(0.5 + 0.5*math.Cos(2*math.Pi*(t+0.67))),
	}
}
