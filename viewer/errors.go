package viewer

import "fmt"

// InitError is returned when the window, the GL context or the GL
// function loader could not be brought up.
type InitError struct {
	Stage string
	Err   error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("failed to initialise %s: %v", e.Stage, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// ShaderLoadError is returned when shader source can't be read.
type ShaderLoadError struct {
	Path string
	Err  error
}

func (e *ShaderLoadError) Error() string {
	return fmt.Sprintf("failed to open shader source %q: %v", e.Path, e.Err)
}

func (e *ShaderLoadError) Unwrap() error {
	return e.Err
}

// ShaderCompileError carries the driver's info log for a shader that
// failed to compile, or a program that failed to link.
type ShaderCompileError struct {
	Stage string
	Log   string
}

func (e *ShaderCompileError) Error() string {
	if e.Stage == "link" {
		return fmt.Sprintf("failed to link program: %v", e.Log)
	}
	return fmt.Sprintf("%v shader failed to compile: %v", e.Stage, e.Log)
}
