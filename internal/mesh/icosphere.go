// Package mesh generates the icosphere geometry drawn as the globe.
package mesh

import "github.com/chewxy/math32"

// Vec3 is a vertex position.
type Vec3 [3]float32

// Triangle holds three indices into a vertex list.
type Triangle [3]int

// Precalculated coordinates of a unit icosahedron.
const (
	A float32 = 0.5257311
	B float32 = 0.8506508
)

// BaseVertices are the 12 vertices of the unit icosahedron.
var BaseVertices = []Vec3{
	{-A, B, 0},
	{A, B, 0},
	{-A, -B, 0},
	{A, -B, 0},
	{0, -A, B},
	{0, A, B},
	{0, -A, -B},
	{0, A, -B},
	{B, 0, -A},
	{B, 0, A},
	{-B, 0, -A},
	{-B, 0, A},
}

// BaseTriangles are the 20 faces of the unit icosahedron.
var BaseTriangles = []Triangle{
	{0, 11, 5},
	{0, 5, 1},
	{0, 1, 7},
	{0, 7, 10},
	{0, 10, 11},
	{1, 5, 9},
	{5, 11, 4},
	{11, 10, 2},
	{10, 7, 6},
	{7, 1, 8},
	{3, 9, 4},
	{3, 4, 2},
	{3, 2, 6},
	{3, 6, 8},
	{3, 8, 9},
	{4, 9, 5},
	{2, 4, 11},
	{6, 2, 10},
	{8, 6, 7},
	{9, 8, 1},
}

// FloatsPerTriangle is the flattened size of one triangle.
const FloatsPerTriangle = 3 * 3

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func Normalize(v Vec3) Vec3 {
	l := Length(v)
	if l == 0 {
		return Vec3{}
	}
	inv := 1 / l
	return Vec3{v[0] * inv, v[1] * inv, v[2] * inv}
}

// Length returns the magnitude of v.
func Length(v Vec3) float32 {
	return math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Vec3) Vec3 {
	return Vec3{
		(a[0] + b[0]) * 0.5,
		(a[1] + b[1]) * 0.5,
		(a[2] + b[2]) * 0.5,
	}
}

// Subdivide splits every triangle into four, pushing the new edge midpoints
// onto the unit sphere. Triangles are handled independently, so shared edge
// midpoints are emitted once per triangle.
func Subdivide(vertices []Vec3, triangles []Triangle) ([]Vec3, []Triangle) {
	nextVerts := make([]Vec3, 0, len(triangles)*6)
	nextTris := make([]Triangle, 0, len(triangles)*4)

	for _, t := range triangles {
		base := len(nextVerts)
		v0, v1, v2 := vertices[t[0]], vertices[t[1]], vertices[t[2]]
		nextVerts = append(nextVerts,
			v0,
			v1,
			v2,
			Normalize(Midpoint(v0, v1)),
			Normalize(Midpoint(v1, v2)),
			Normalize(Midpoint(v2, v0)),
		)

		// 0,1,2 are the corners; 3,4,5 the midpoints of 01, 12, 20
		nextTris = append(nextTris,
			Triangle{base, base + 3, base + 5},
			Triangle{base + 3, base + 1, base + 4},
			Triangle{base + 4, base + 2, base + 5},
			Triangle{base + 3, base + 4, base + 5},
		)
	}

	return nextVerts, nextTris
}

// Flatten expands indexed triangles into a flat x,y,z buffer in triangle order.
func Flatten(vertices []Vec3, triangles []Triangle) []float32 {
	buf := make([]float32, 0, len(triangles)*FloatsPerTriangle)
	for _, t := range triangles {
		for _, idx := range t {
			v := vertices[idx]
			buf = append(buf, v[0], v[1], v[2])
		}
	}
	return buf
}

// Generate returns the flattened icosphere after the given number of
// subdivision passes. Negative values are treated as zero. Face count grows
// as 4^n, so callers pick a depth that keeps the buffer tractable.
func Generate(iterations int) []float32 {
	vertices := append([]Vec3(nil), BaseVertices...)
	triangles := append([]Triangle(nil), BaseTriangles...)

	for i := 0; i < iterations; i++ {
		vertices, triangles = Subdivide(vertices, triangles)
	}

	return Flatten(vertices, triangles)
}

// TriangleCount returns the number of faces produced by Generate(iterations).
func TriangleCount(iterations int) int {
	n := len(BaseTriangles)
	for i := 0; i < iterations; i++ {
		n *= 4
	}
	return n
}

// BufferLen returns the number of floats produced by Generate(iterations).
func BufferLen(iterations int) int {
	return TriangleCount(iterations) * FloatsPerTriangle
}

// Scale writes src multiplied by s into dst, growing dst as needed.
func Scale(dst, src []float32, s float32) []float32 {
	if cap(dst) < len(src) {
		dst = make([]float32, len(src))
	}
	dst = dst[:len(src)]
	for i, v := range src {
		dst[i] = v * s
	}
	return dst
}
