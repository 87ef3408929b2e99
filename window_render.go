package main

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stewi1014/fractalview/programs"
	"github.com/stewi1014/fractalview/viewer"
)

// background is the clear colour, only visible if the quad isn't drawn.
var background = mgl32.Vec4{1, 0, 0, 1}

// quad covers normalised device coordinates, drawn as a triangle fan.
var quad = []float32{
	-1, -1,
	1, -1,
	1, 1,
	-1, 1,
}

// Renderer draws a program over a full-screen quad.
type Renderer struct {
	program        uint32
	vertexShader   uint32
	fragmentShader uint32

	vao          uint32
	vbo          uint32
	vertexAttrib uint32

	uniformLocations map[string]int32
}

var _ viewer.Renderer = (*Renderer)(nil)

// NewRenderer builds program on the current context. The context must
// stay current for the life of the Renderer.
func NewRenderer(program programs.Program, width, height int, debug bool) (*Renderer, error) {
	r := &Renderer{}

	if debug {
		gl.DebugMessageCallback(glDebugMessage, nil)
		gl.Enable(gl.DEBUG_OUTPUT)
	}

	if err := r.loadProgram(program); err != nil {
		r.Delete()
		return nil, err
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, gl.Ptr(quad), gl.STATIC_DRAW)

	r.vertexAttrib = uint32(gl.GetAttribLocation(r.program, gl.Str("vert\x00")))
	gl.EnableVertexAttribArray(r.vertexAttrib)
	gl.VertexAttribPointerWithOffset(r.vertexAttrib, 2, gl.FLOAT, false, 2*4, 0)

	// the loop draws before it binds, so bind now for the first frame
	gl.UseProgram(r.program)
	r.SetUniforms(viewer.DefaultView().Uniforms(width, height))

	slog.Debug("loaded program", "name", program.Name, "uniforms", len(r.uniformLocations))
	return r, nil
}

func (r *Renderer) Clear() {
	gl.ClearColor(background[0], background[1], background[2], background[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (r *Renderer) DrawQuad() {
	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLE_FAN, 0, int32(len(quad)/2))
}

func (r *Renderer) UseProgram() {
	gl.UseProgram(r.program)
}

// SetUniforms uploads every field of u to the uniform named by its tag,
// and sizes the viewport to the resolution.
func (r *Renderer) SetUniforms(u viewer.Uniforms) {
	if u.Resolution.X() > 0 && u.Resolution.Y() > 0 {
		gl.Viewport(0, 0, int32(u.Resolution.X()), int32(u.Resolution.Y()))
	}

	v := reflect.ValueOf(&u).Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)

		ptr := f.Addr().UnsafePointer()
		loc, ok := r.uniformLocations[v.Type().Field(i).Tag.Get("uniform")]
		if !ok || loc < 0 {
			continue
		}

		switch f.Type() {
		case reflect.TypeOf(mgl32.Vec2{}):
			gl.Uniform2fv(loc, 1, (*float32)(ptr))
		case reflect.TypeOf(mgl32.Vec3{}):
			gl.Uniform3fv(loc, 1, (*float32)(ptr))
		case reflect.TypeOf(mgl32.Vec4{}):
			gl.Uniform4fv(loc, 1, (*float32)(ptr))
		case reflect.TypeOf(int32(0)):
			gl.Uniform1iv(loc, 1, (*int32)(ptr))
		case reflect.TypeOf(float32(0)):
			gl.Uniform1fv(loc, 1, (*float32)(ptr))
		default:
			slog.Warn("unsupported uniform type", "type", f.Type())
		}
	}
}

// Delete releases the program, its shaders and the quad. Safe to call
// more than once.
func (r *Renderer) Delete() {
	if r.program != 0 {
		for _, shader := range []uint32{r.vertexShader, r.fragmentShader} {
			if shader != 0 {
				gl.DetachShader(r.program, shader)
			}
		}
		gl.DeleteProgram(r.program)
		r.program = 0
	}

	for _, shader := range []*uint32{&r.vertexShader, &r.fragmentShader} {
		if *shader != 0 {
			gl.DeleteShader(*shader)
			*shader = 0
		}
	}

	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
}

func (r *Renderer) loadProgram(program programs.Program) (err error) {
	r.vertexShader, err = compileShader(program.VertexShader, gl.VERTEX_SHADER)
	if err != nil {
		return err
	}

	r.fragmentShader, err = compileShader(program.FragmentShader, gl.FRAGMENT_SHADER)
	if err != nil {
		return err
	}

	r.program = gl.CreateProgram()
	gl.AttachShader(r.program, r.vertexShader)
	gl.AttachShader(r.program, r.fragmentShader)
	gl.BindFragDataLocation(r.program, 0, gl.Str("outputColor\x00"))
	gl.LinkProgram(r.program)

	var status int32
	gl.GetProgramiv(r.program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var l int32
		gl.GetProgramiv(r.program, gl.INFO_LOG_LENGTH, &l)

		log := strings.Repeat("\x00", int(l+1))
		gl.GetProgramInfoLog(r.program, l, nil, gl.Str(log))
		return &viewer.ShaderCompileError{Stage: "link", Log: strings.TrimRight(log, "\x00")}
	}

	r.uniformLocations = make(map[string]int32)
	t := reflect.TypeOf(viewer.Uniforms{})
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Tag.Get("uniform")
		loc := gl.GetUniformLocation(r.program, gl.Str(name+"\x00"))
		if loc < 0 {
			slog.Warn("uniform not found in shader", "name", name)
		}
		r.uniformLocations[name] = loc
	}

	return nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	source += "\x00"
	defer runtime.KeepAlive(source)
	cstring, free := gl.Strs(source)
	defer free()

	shader := gl.CreateShader(shaderType)
	gl.ShaderSource(shader, 1, cstring, nil)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var l int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &l)

		log := strings.Repeat("\x00", int(l+1))
		gl.GetShaderInfoLog(shader, l, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, &viewer.ShaderCompileError{
			Stage: shaderStage(shaderType),
			Log:   strings.TrimRight(log, "\x00"),
		}
	}

	return shader, nil
}

func shaderStage(shaderType uint32) string {
	switch shaderType {
	case gl.VERTEX_SHADER:
		return "vertex"
	case gl.FRAGMENT_SHADER:
		return "fragment"
	}
	return fmt.Sprintf("shader type %#x", shaderType)
}

var (
	debugSources = map[uint32]string{
		gl.DEBUG_SOURCE_API:             "api",
		gl.DEBUG_SOURCE_APPLICATION:     "application",
		gl.DEBUG_SOURCE_OTHER:           "other",
		gl.DEBUG_SOURCE_SHADER_COMPILER: "shaderCompiler",
		gl.DEBUG_SOURCE_THIRD_PARTY:     "thirdParty",
		gl.DEBUG_SOURCE_WINDOW_SYSTEM:   "windowSystem",
	}

	debugTypes = map[uint32]string{
		gl.DEBUG_TYPE_ERROR:               "error",
		gl.DEBUG_TYPE_DEPRECATED_BEHAVIOR: "deprecatedBehavior",
		gl.DEBUG_TYPE_MARKER:              "marker",
		gl.DEBUG_TYPE_OTHER:               "other",
		gl.DEBUG_TYPE_PERFORMANCE:         "performance",
		gl.DEBUG_TYPE_POP_GROUP:           "popGroup",
		gl.DEBUG_TYPE_PORTABILITY:         "portability",
		gl.DEBUG_TYPE_PUSH_GROUP:          "pushGroup",
		gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR:  "undefinedBehavior",
	}

	// debugSeverities maps GL severities onto log levels. Low and
	// notification messages stay at debug.
	debugSeverities = map[uint32]slog.Level{
		gl.DEBUG_SEVERITY_HIGH:   slog.LevelError,
		gl.DEBUG_SEVERITY_MEDIUM: slog.LevelWarn,
	}
)

func debugName(names map[uint32]string, v uint32) string {
	if name, ok := names[v]; ok {
		return name
	}
	return fmt.Sprintf("%#x", v)
}

func glDebugMessage(
	source,
	gltype,
	id,
	severity uint32,
	length int32,
	message string,
	user unsafe.Pointer,
) {
	level, ok := debugSeverities[severity]
	if !ok {
		level = slog.LevelDebug
	}

	slog.Log(context.Background(), level, message,
		"source", debugName(debugSources, source),
		"type", debugName(debugTypes, gltype),
		"id", id,
	)
}
