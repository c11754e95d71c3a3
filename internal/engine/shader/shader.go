// Package shader provides the GLSL sources for the globe and point programs.
//
// Sources carry no #version line; the host picks the directive that matches
// its context (VersionCore or VersionES) and it is prefixed at compile time.
package shader

import (
	_ "embed"
	"path/filepath"
)

// Version directives for the supported context kinds.
const (
	VersionCore = "#version 410"
	VersionES   = "#version 300 es"
)

// Program names, also used as file base names for on-disk sources.
const (
	GlobeName  = "globe"
	PointsName = "points"
)

// GlobeVertexShader is the vertex shader for the globe mesh.
//
//go:embed globe.vert
var GlobeVertexShader string

// GlobeFragmentShader is the fragment shader for the globe mesh.
//
//go:embed globe.frag
var GlobeFragmentShader string

// PointsVertexShader is the vertex shader for the point overlay.
//
//go:embed points.vert
var PointsVertexShader string

// PointsFragmentShader is the fragment shader for the point overlay.
//
//go:embed points.frag
var PointsFragmentShader string

// Source is the vertex and fragment text of one program.
type Source struct {
	Name     string
	Vertex   string
	Fragment string
}

// Globe returns the embedded globe program sources.
func Globe() Source {
	return Source{Name: GlobeName, Vertex: GlobeVertexShader, Fragment: GlobeFragmentShader}
}

// Points returns the embedded point overlay sources.
func Points() Source {
	return Source{Name: PointsName, Vertex: PointsVertexShader, Fragment: PointsFragmentShader}
}

// Files returns the paths of the vertex and fragment sources for name
// under dir, e.g. dir/globe.vert and dir/globe.frag.
func Files(dir, name string) (vertex, fragment string) {
	return filepath.Join(dir, name+".vert"), filepath.Join(dir, name+".frag")
}

// Files returns the on-disk paths of s under dir.
func (s Source) Files(dir string) (vertex, fragment string) {
	return Files(dir, s.Name)
}
