package marching

import (
	"sync/atomic"

	"github.com/spaghettifunk/cubemarch/engine/math"
)

// Triangle carries three freshly interpolated vertices and their weld
// keys, in winding order. Nothing is shared at this stage; sharing is the
// welder's job.
type Triangle struct {
	Vertices [3]math.Vertex3D
	Welds    [3]WeldKey
}

// TriangleArena is a fixed-capacity append-only triangle buffer. Slots
// are claimed with an atomic counter, so any number of lanes can append
// concurrently without locking and without reallocation. Capacity must be
// sized for the worst case (5 triangles per cube) before dispatch; the
// overflow flag exists to surface a broken sizing invariant, not as a
// recoverable condition.
type TriangleArena struct {
	triangles []Triangle
	length    atomic.Int64
	overflow  atomic.Bool
}

func NewTriangleArena(capacity int) *TriangleArena {
	if capacity < 0 {
		capacity = 0
	}
	return &TriangleArena{
		triangles: make([]Triangle, capacity),
	}
}

// Append claims the next slot and stores the triangle. Appends past
// capacity are dropped and flagged.
func (a *TriangleArena) Append(t Triangle) {
	idx := a.length.Add(1) - 1
	if idx >= int64(len(a.triangles)) {
		a.overflow.Store(true)
		return
	}
	a.triangles[idx] = t
}

// Len returns the number of stored triangles. Only meaningful once all
// appending lanes have finished.
func (a *TriangleArena) Len() int {
	n := a.length.Load()
	if n > int64(len(a.triangles)) {
		return len(a.triangles)
	}
	return int(n)
}

func (a *TriangleArena) Capacity() int {
	return len(a.triangles)
}

// Overflowed reports whether any append ran past capacity.
func (a *TriangleArena) Overflowed() bool {
	return a.overflow.Load()
}

// Triangles returns the used portion of the arena.
func (a *TriangleArena) Triangles() []Triangle {
	return a.triangles[:a.Len()]
}

// Reset rewinds the arena for reuse without releasing the backing array.
func (a *TriangleArena) Reset() {
	a.length.Store(0)
	a.overflow.Store(false)
}
