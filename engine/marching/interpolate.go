package marching

import (
	"github.com/spaghettifunk/cubemarch/engine/math"
)

// WeldKey identifies the lattice edge a vertex was born on. Two cubes
// sharing an edge produce the same key for the vertex on that edge, which
// is what makes welding work. The two flat lattice indices are packed in
// canonical (min, max) order.
type WeldKey uint64

func NewWeldKey(a, b int) WeldKey {
	if a > b {
		a, b = b, a
	}
	return WeldKey(uint64(uint32(a))<<32 | uint64(uint32(b)))
}

// CrossingT returns the interpolation parameter where the field crosses
// isoLevel between two corner densities. Degenerate edges (equal
// densities) return 0, placing the vertex on the first corner instead of
// dividing by zero. The result is expected in [0,1] for edges the edge
// table marked as crossed; tiny excursions from floating point error are
// tolerated and deliberately not clamped, since clamping would bias the
// surface placement.
func CrossingT(v1, v2, isoLevel float32) float32 {
	if v1 == v2 {
		return 0
	}
	return (isoLevel - v1) / (v2 - v1)
}

// InterpolateEdge returns the world position of the isosurface crossing
// on the segment p1-p2.
func InterpolateEdge(p1, p2 math.Vec3, v1, v2, isoLevel float32) math.Vec3 {
	if v1 == v2 {
		return p1
	}
	return p1.Lerp(p2, CrossingT(v1, v2, isoLevel))
}
