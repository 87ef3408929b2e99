package programs

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stewi1014/fractalview/viewer"
)

//go:embed shaders/mandelbrot.frag
var mandelbrotFragment string

func init() {
	MustNewProgram(Program{
		Name:           "mandelbrot",
		VertexShader:   defaultVertexShader,
		FragmentShader: mandelbrotFragment,
		GetPixel: func(uniforms viewer.Uniforms, pos mgl32.Vec2) mgl32.Vec3 {
			c := PlanePoint(uniforms, pos)
			n := escape(c, c, int(uniforms.Iterations), func(z, c complex128) complex128 {
				return z*z + c
			})
			return colour(n, int(uniforms.Iterations))
		},
	})
}
