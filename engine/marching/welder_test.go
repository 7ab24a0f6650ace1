package marching

import (
	"testing"

	"github.com/spaghettifunk/cubemarch/engine/field"
	"github.com/spaghettifunk/cubemarch/engine/math"
)

// slabTriangles meshes a 2x1x1-cube region of a field whose density
// depends only on y, so the surface is the horizontal plane y=0.5. Each
// cube contributes 2 triangles and the two cubes share one column of
// vertices.
func slabTriangles(t *testing.T) []Triangle {
	t.Helper()
	f, err := field.NewScalarField(3, 2, 2, math.NewVec3Zero(), math.NewVec3One())
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	for z := 0; z < 2; z++ {
		for y := 0; y < 2; y++ {
			for x := 0; x < 3; x++ {
				f.Set(x, y, z, 0.5-float32(y))
			}
		}
	}

	mesher := NewChunkMesher(f, 0)
	region := Region{CubesX: 2, CubesY: 1, CubesZ: 1}
	arena := NewTriangleArena(region.WorstCaseTriangles())
	if err := mesher.MeshRegion(region, arena); err != nil {
		t.Fatalf("mesh: %v", err)
	}
	if arena.Len() != 4 {
		t.Fatalf("slab produced %d triangles, want 4", arena.Len())
	}
	return arena.Triangles()
}

func TestWeldSmoothMergesSharedVertices(t *testing.T) {
	triangles := slabTriangles(t)
	buffers := NewVertexWelder(ShadingSmooth).Weld(triangles)

	// 3x2 grid of vertical lattice columns crossing the plane.
	if len(buffers.Vertices) != 6 {
		t.Fatalf("smooth weld kept %d vertices, want 6", len(buffers.Vertices))
	}
	if len(buffers.Indices) != 12 {
		t.Fatalf("smooth weld emitted %d indices, want 12", len(buffers.Indices))
	}
	for _, idx := range buffers.Indices {
		if int(idx) >= len(buffers.Vertices) {
			t.Fatalf("index %d out of range for %d vertices", idx, len(buffers.Vertices))
		}
	}
	for _, v := range buffers.Vertices {
		if v.Position.Y != 0.5 {
			t.Fatalf("welded vertex off the plane: %+v", v.Position)
		}
	}
}

func TestWeldSmoothIsDeterministic(t *testing.T) {
	triangles := slabTriangles(t)
	first := NewVertexWelder(ShadingSmooth).Weld(triangles)
	second := NewVertexWelder(ShadingSmooth).Weld(triangles)

	if len(first.Vertices) != len(second.Vertices) {
		t.Fatalf("vertex counts differ: %d vs %d", len(first.Vertices), len(second.Vertices))
	}
	for i := range first.Vertices {
		if first.Vertices[i] != second.Vertices[i] {
			t.Fatalf("vertex %d differs between runs", i)
		}
	}
	for i := range first.Indices {
		if first.Indices[i] != second.Indices[i] {
			t.Fatalf("index %d differs between runs", i)
		}
	}
}

func TestWeldFlatKeepsCornersDistinct(t *testing.T) {
	triangles := slabTriangles(t)
	buffers := NewVertexWelder(ShadingFlat).Weld(triangles)

	if len(buffers.Vertices) != 12 {
		t.Fatalf("flat weld kept %d vertices, want 12", len(buffers.Vertices))
	}
	if len(buffers.Indices) != 12 {
		t.Fatalf("flat weld emitted %d indices, want 12", len(buffers.Indices))
	}
	for i, idx := range buffers.Indices {
		if int(idx) != i {
			t.Fatalf("flat indices must be sequential, got %d at %d", idx, i)
		}
	}

	// Face normals on an upward-facing plane all point straight up.
	up := math.NewVec3(0, 1, 0)
	for i, v := range buffers.Vertices {
		if !v.Normal.Compare(up, 1e-5) {
			t.Fatalf("vertex %d face normal %+v, want %+v", i, v.Normal, up)
		}
	}
}

func TestWeldEmptyStream(t *testing.T) {
	for _, mode := range []ShadingMode{ShadingSmooth, ShadingFlat} {
		buffers := NewVertexWelder(mode).Weld(nil)
		if buffers.TriangleCount() != 0 || len(buffers.Vertices) != 0 {
			t.Fatalf("%s weld of empty stream produced geometry", mode)
		}
	}
}
