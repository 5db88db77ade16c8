package gfx

import "fmt"

// UnsupportedError reports that the GL context lacks a feature the core needs.
type UnsupportedError struct {
	Feature string
	Detail  string
}

func (e *UnsupportedError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("gfx: %s unsupported", e.Feature)
	}
	return fmt.Sprintf("gfx: %s unsupported: %s", e.Feature, e.Detail)
}

// Require returns an UnsupportedError when the capabilities lack GLSL or
// vertex buffer objects.
func (c Capabilities) Require() error {
	if !c.VertexBufferObjects {
		return &UnsupportedError{Feature: "vertex buffer objects", Detail: c.Version}
	}
	if !c.GLSL {
		return &UnsupportedError{Feature: "GLSL", Detail: c.ShadingLanguage}
	}
	return nil
}
