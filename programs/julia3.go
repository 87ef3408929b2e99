package programs

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stewi1014/fractalview/viewer"
)

//go:embed shaders/julia3.frag
var julia3Fragment string

func init() {
	MustNewProgram(Program{
		Name:           "julia3",
		VertexShader:   defaultVertexShader,
		FragmentShader: julia3Fragment,
		GetPixel: func(uniforms viewer.Uniforms, pos mgl32.Vec2) mgl32.Vec3 {
			n := escape(PlanePoint(uniforms, pos), complex(0.08394, 0.77007), int(uniforms.Iterations), func(z, c complex128) complex128 {
				return z*z*z + c
			})
			return colour(n, int(uniforms.Iterations))
		},
	})
}
