package marching

import (
	"sync"

	"github.com/spaghettifunk/cubemarch/engine/core"
	"github.com/spaghettifunk/cubemarch/engine/field"
	"github.com/spaghettifunk/cubemarch/engine/math"
)

// Region is one chunk's sub-volume in lattice space: the offset of its
// first lattice point plus the number of unit cubes per axis. A region of
// N cubes reads N+1 lattice points per axis, which is where the one-layer
// overlap between neighbouring chunks comes from.
type Region struct {
	OffsetX, OffsetY, OffsetZ int
	CubesX, CubesY, CubesZ    int
}

func (r Region) CubeCount() int {
	return r.CubesX * r.CubesY * r.CubesZ
}

// WorstCaseTriangles is the arena capacity needed for a region: no cube
// configuration produces more than 5 triangles.
func (r Region) WorstCaseTriangles() int {
	return r.CubeCount() * 5
}

// ChunkMesher runs classification, interpolation and triangulation over
// every cube of a region, streaming triangles into an arena.
type ChunkMesher struct {
	field    *field.ScalarField
	isoLevel float32
}

func NewChunkMesher(f *field.ScalarField, isoLevel float32) *ChunkMesher {
	return &ChunkMesher{
		field:    f,
		isoLevel: isoLevel,
	}
}

// MeshRegion sweeps the region sequentially. The arena must have at least
// WorstCaseTriangles capacity; anything less trips the overflow invariant.
func (m *ChunkMesher) MeshRegion(r Region, arena *TriangleArena) error {
	for z := 0; z < r.CubesZ; z++ {
		for y := 0; y < r.CubesY; y++ {
			for x := 0; x < r.CubesX; x++ {
				m.meshCube(r.OffsetX+x, r.OffsetY+y, r.OffsetZ+z, arena)
			}
		}
	}
	if arena.Overflowed() {
		return core.ErrArenaOverflow
	}
	return nil
}

// MeshRegionParallel distributes cube slabs (one Z layer of cubes each)
// across workers. Cubes are independent, so the only synchronization is
// the atomic append inside the arena and the final wait.
func (m *ChunkMesher) MeshRegionParallel(r Region, arena *TriangleArena, workers int) error {
	if workers <= 1 {
		return m.MeshRegion(r, arena)
	}

	var wg sync.WaitGroup
	slabs := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for z := range slabs {
				for y := 0; y < r.CubesY; y++ {
					for x := 0; x < r.CubesX; x++ {
						m.meshCube(r.OffsetX+x, r.OffsetY+y, r.OffsetZ+z, arena)
					}
				}
			}
		}()
	}
	for z := 0; z < r.CubesZ; z++ {
		slabs <- z
	}
	close(slabs)
	wg.Wait()

	if arena.Overflowed() {
		return core.ErrArenaOverflow
	}
	return nil
}

// meshCube processes one unit cube whose minimum lattice corner is
// (cx, cy, cz).
func (m *ChunkMesher) meshCube(cx, cy, cz int, arena *TriangleArena) {
	var densities [8]float32
	var corners [8][3]int
	for i := 0; i < 8; i++ {
		o := CornerOffsets[i]
		corners[i] = [3]int{cx + o[0], cy + o[1], cz + o[2]}
		densities[i] = m.field.Sample(corners[i][0], corners[i][1], corners[i][2])
	}

	config := Classify(densities, m.isoLevel)
	if !HasGeometry(config) {
		return
	}

	edges := CrossedEdges(config)
	var edgeVertex [12]vertexOnEdge
	for e := 0; e < 12; e++ {
		if edges&(1<<uint(e)) == 0 {
			continue
		}
		edgeVertex[e] = m.interpolateOnEdge(corners, densities, e)
	}

	row := TriangleTable[config]
	for i := 0; i+2 < len(row) && row[i] != -1; i += 3 {
		// The table winds faces toward the solid for this classification
		// direction; emit reversed so normals face outward.
		a := edgeVertex[row[i+2]]
		b := edgeVertex[row[i+1]]
		c := edgeVertex[row[i]]
		arena.Append(Triangle{
			Vertices: [3]math.Vertex3D{a.vertex, b.vertex, c.vertex},
			Welds:    [3]WeldKey{a.weld, b.weld, c.weld},
		})
	}
}

type vertexOnEdge struct {
	vertex math.Vertex3D
	weld   WeldKey
}

// interpolateOnEdge produces the vertex for a crossed cube edge: the
// position from linear interpolation, the normal from the negated field
// gradient (densities increase into the solid), and the weld key from the
// two lattice endpoints.
func (m *ChunkMesher) interpolateOnEdge(corners [8][3]int, densities [8]float32, edge int) vertexOnEdge {
	ca := EdgeCorners[edge][0]
	cb := EdgeCorners[edge][1]

	la := corners[ca]
	lb := corners[cb]
	va := densities[ca]
	vb := densities[cb]

	pa := m.field.WorldPosition(la[0], la[1], la[2])
	pb := m.field.WorldPosition(lb[0], lb[1], lb[2])

	t := CrossingT(va, vb, m.isoLevel)
	position := pa.Lerp(pb, t)

	ga := m.field.Gradient(la[0], la[1], la[2])
	gb := m.field.Gradient(lb[0], lb[1], lb[2])
	normal := ga.Lerp(gb, t).MulScalar(-1).Normalized()

	return vertexOnEdge{
		vertex: math.Vertex3D{Position: position, Normal: normal},
		weld: NewWeldKey(
			m.field.FlatIndex(la[0], la[1], la[2]),
			m.field.FlatIndex(lb[0], lb[1], lb[2]),
		),
	}
}
