package programs

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stewi1014/fractalview/viewer"
)

//go:embed shaders/julia.frag
var juliaFragment string

func init() {
	MustNewProgram(Program{
		Name:           "julia",
		VertexShader:   defaultVertexShader,
		FragmentShader: juliaFragment,
		GetPixel: func(uniforms viewer.Uniforms, pos mgl32.Vec2) mgl32.Vec3 {
			n := escape(PlanePoint(uniforms, pos), complex(-0.835, 0.2321), int(uniforms.Iterations), func(z, c complex128) complex128 {
				return z*z + c
			})
			return colour(n, int(uniforms.Iterations))
		},
	})
}
