package marching

import (
	"github.com/spaghettifunk/cubemarch/engine/math"
)

// ShadingMode selects whether coincident vertices are merged. The two
// modes share everything except the weld-key lookup step.
type ShadingMode uint8

const (
	// ShadingSmooth welds vertices by weld key; normals come from the
	// field gradient, so shared vertices shade smoothly.
	ShadingSmooth ShadingMode = iota
	// ShadingFlat keeps every triangle corner distinct and assigns face
	// normals afterwards, producing faceted shading.
	ShadingFlat
)

func (s ShadingMode) String() string {
	if s == ShadingFlat {
		return "flat"
	}
	return "smooth"
}

// MeshBuffers is the compact welded output for one chunk: positions and
// normals packed per vertex, plus uint32 triangle indices (large chunks
// routinely exceed 65535 vertices). Triangle order and winding match the
// incoming stream.
type MeshBuffers struct {
	Vertices []math.Vertex3D
	Indices  []uint32
}

func (b MeshBuffers) TriangleCount() int {
	return len(b.Indices) / 3
}

// RegenerateNormals discards the stored normals and rebuilds them from
// triangle geometry. On a welded mesh the last face writing to a shared
// vertex wins, so this is mainly useful for flat meshes.
func (b MeshBuffers) RegenerateNormals() {
	math.GeometryGenerateNormals(b.Vertices, b.Indices)
}

// VertexWelder deduplicates a raw triangle stream into compact buffers.
type VertexWelder struct {
	mode ShadingMode
}

func NewVertexWelder(mode ShadingMode) *VertexWelder {
	return &VertexWelder{mode: mode}
}

// Weld consumes the triangles of one chunk. In smooth mode each distinct
// weld key is stored exactly once and every triangle referencing it
// indexes the same slot; in flat mode nothing is merged and weld keys are
// ignored.
func (w *VertexWelder) Weld(triangles []Triangle) MeshBuffers {
	if w.mode == ShadingFlat {
		return w.weldFlat(triangles)
	}
	return w.weldSmooth(triangles)
}

func (w *VertexWelder) weldFlat(triangles []Triangle) MeshBuffers {
	vertices := make([]math.Vertex3D, 0, len(triangles)*3)
	indices := make([]uint32, 0, len(triangles)*3)

	for _, tri := range triangles {
		base := uint32(len(vertices))
		vertices = append(vertices, tri.Vertices[0], tri.Vertices[1], tri.Vertices[2])
		indices = append(indices, base, base+1, base+2)
	}

	buffers := MeshBuffers{Vertices: vertices, Indices: indices}
	buffers.RegenerateNormals()
	return buffers
}

func (w *VertexWelder) weldSmooth(triangles []Triangle) MeshBuffers {
	vertices := make([]math.Vertex3D, 0, len(triangles)*2)
	indices := make([]uint32, 0, len(triangles)*3)
	slots := make(map[WeldKey]uint32, len(triangles)*2)

	for _, tri := range triangles {
		for corner := 0; corner < 3; corner++ {
			key := tri.Welds[corner]
			slot, exists := slots[key]
			if !exists {
				slot = uint32(len(vertices))
				vertices = append(vertices, tri.Vertices[corner])
				slots[key] = slot
			}
			indices = append(indices, slot)
		}
	}

	return MeshBuffers{Vertices: vertices, Indices: indices}
}
