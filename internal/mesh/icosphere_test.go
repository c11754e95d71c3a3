package mesh

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	got := Normalize(Vec3{3, 0, 4})
	want := Vec3{0.6, 0, 0.8}
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-6)
	}
}

func TestNormalizeZero(t *testing.T) {
	assert.Equal(t, Vec3{}, Normalize(Vec3{}))
}

func TestMidpoint(t *testing.T) {
	assert.Equal(t, Vec3{2, 4, 6}, Midpoint(Vec3{1, 2, 3}, Vec3{3, 6, 9}))
}

func TestSubdivideSingleTriangle(t *testing.T) {
	verts := []Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	tris := []Triangle{{0, 1, 2}}

	nextVerts, nextTris := Subdivide(verts, tris)

	assert.Len(t, nextVerts, 6)
	assert.Len(t, nextTris, 4)
	// corners are carried over untouched
	assert.Equal(t, verts[0], nextVerts[0])
	assert.Equal(t, verts[1], nextVerts[1])
	assert.Equal(t, verts[2], nextVerts[2])
}

func TestSubdividePreservesWinding(t *testing.T) {
	verts := []Vec3{BaseVertices[0], BaseVertices[11], BaseVertices[5]}
	parent := cross(sub(verts[1], verts[0]), sub(verts[2], verts[0]))

	nextVerts, nextTris := Subdivide(verts, []Triangle{{0, 1, 2}})
	for i, tri := range nextTris {
		a, b, c := nextVerts[tri[0]], nextVerts[tri[1]], nextVerts[tri[2]]
		n := cross(sub(b, a), sub(c, a))
		assert.Greater(t, dot(parent, n), float32(0), "triangle %d flipped", i)
	}
}

func TestGenerateCounts(t *testing.T) {
	for n := 0; n <= 5; n++ {
		buf := Generate(n)
		assert.Equal(t, 3*3*20*pow4(n), len(buf), "iterations=%d", n)
		assert.Equal(t, BufferLen(n), len(buf))
		assert.Equal(t, 20*pow4(n), TriangleCount(n))
	}
}

func TestGenerateBaseMesh(t *testing.T) {
	buf := Generate(0)
	require.Len(t, buf, 180)
	assert.Equal(t, Flatten(BaseVertices, BaseTriangles), buf)
}

func TestGenerateNegativeIterations(t *testing.T) {
	assert.Equal(t, Generate(0), Generate(-3))
}

func TestGenerateDoesNotMutateBase(t *testing.T) {
	before := append([]Vec3(nil), BaseVertices...)
	_ = Generate(2)
	assert.Equal(t, before, BaseVertices)
}

func TestVerticesOnUnitSphere(t *testing.T) {
	for n := 0; n <= 4; n++ {
		buf := Generate(n)
		for i := 0; i < len(buf); i += 3 {
			l := Length(Vec3{buf[i], buf[i+1], buf[i+2]})
			if math32.Abs(l-1) > 1e-6 {
				t.Fatalf("iterations=%d vertex %d has length %v", n, i/3, l)
			}
		}
	}
}

func TestEdgeLengthVariation(t *testing.T) {
	buf := Generate(2)

	minAvg, maxAvg := float32(10), float32(0)
	for i := 0; i < len(buf); i += FloatsPerTriangle {
		a := Vec3{buf[i], buf[i+1], buf[i+2]}
		b := Vec3{buf[i+3], buf[i+4], buf[i+5]}
		c := Vec3{buf[i+6], buf[i+7], buf[i+8]}
		avg := (Length(sub(a, b)) + Length(sub(b, c)) + Length(sub(c, a))) / 3
		minAvg = math32.Min(minAvg, avg)
		maxAvg = math32.Max(maxAvg, avg)
	}

	assert.Less(t, maxAvg-minAvg, float32(0.05))
}

func TestScale(t *testing.T) {
	src := []float32{1, -2, 3}
	dst := Scale(nil, src, 0.5)
	assert.Equal(t, []float32{0.5, -1, 1.5}, dst)

	// reuses capacity
	again := Scale(dst, src, 2)
	assert.Equal(t, []float32{2, -4, 6}, again)
	assert.Same(t, &dst[0], &again[0])
	assert.Equal(t, []float32{1, -2, 3}, src)
}

func pow4(n int) int {
	r := 1
	for i := 0; i < n; i++ {
		r *= 4
	}
	return r
}

func sub(a, b Vec3) Vec3 { return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

func dot(a, b Vec3) float32 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func cross(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
