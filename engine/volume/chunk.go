package volume

import (
	"fmt"

	"github.com/spaghettifunk/cubemarch/engine/core"
	"github.com/spaghettifunk/cubemarch/engine/marching"
	"github.com/spaghettifunk/cubemarch/engine/math"
)

// Chunk is one independently meshed sub-region of the grid. It owns its
// mesh buffers exclusively: generation replaces them wholesale, nothing
// ever patches them incrementally, and no other chunk touches them.
type Chunk struct {
	// Coord is the chunk's integer position in the grid.
	Coord [3]int
	// Center and Size place the chunk in world space.
	Center math.Vec3
	Size   float32
	// Region is the chunk's sub-volume of the shared scalar field,
	// including the one-layer sample overlap with its neighbours.
	Region marching.Region

	// Generation changes every time the buffers are rebuilt.
	Generation core.GenerationID
	Buffers    marching.MeshBuffers

	released bool
}

func (c *Chunk) Name() string {
	return fmt.Sprintf("chunk_%d_%d_%d", c.Coord[0], c.Coord[1], c.Coord[2])
}

// SetBuffers installs freshly generated mesh buffers and stamps a new
// generation ID.
func (c *Chunk) SetBuffers(b marching.MeshBuffers) {
	if c.released {
		core.LogWarn("%s received buffers after release, dropping", c.Name())
		return
	}
	c.Buffers = b
	c.Generation = core.NewGenerationID()
}

// Extents returns the world-space bounds of the chunk's current mesh.
func (c *Chunk) Extents() math.Extents3D {
	return math.GeometryExtents(c.Buffers.Vertices)
}

// Release drops the mesh buffers deterministically and retires the
// chunk: any buffers arriving later, say from an in-flight generation
// job, are dropped. Consumers holding its previous buffers should check
// the generation ID.
func (c *Chunk) Release() {
	c.Buffers = marching.MeshBuffers{}
	c.Generation = ""
	c.released = true
}
