package volume

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/cubemarch/engine/core"
	"github.com/spaghettifunk/cubemarch/engine/field"
	"github.com/spaghettifunk/cubemarch/engine/marching"
	"github.com/spaghettifunk/cubemarch/engine/math"
	"github.com/spaghettifunk/cubemarch/engine/systems"
)

// Params is everything the grid needs to place chunks and generate
// meshes. Validation happens up front, before any field or mesh work.
type Params struct {
	// ChunksPerAxis is N for an N x N x N chunk grid.
	ChunksPerAxis int
	// PointsPerAxis is the lattice resolution of one chunk; a chunk meshes
	// PointsPerAxis-1 cubes per axis.
	PointsPerAxis int
	// BoundsSize is the world-space edge length of the whole grid, which
	// is centred on the origin.
	BoundsSize float32
	// IsoLevel is the density threshold of the extracted surface.
	IsoLevel float32
	Shading  marching.ShadingMode
	// BorderWidth forces this many outer lattice layers to the empty
	// sentinel so geometry closes at the volume boundary.
	BorderWidth int
	// Workers > 1 enables the parallel generation path.
	Workers int
}

func (p Params) Validate() error {
	if p.ChunksPerAxis <= 0 {
		return fmt.Errorf("%w: got %d", core.ErrInvalidChunkCount, p.ChunksPerAxis)
	}
	if p.PointsPerAxis < 2 {
		return fmt.Errorf("%w: got %d", core.ErrInvalidResolution, p.PointsPerAxis)
	}
	if p.BoundsSize <= 0 {
		return fmt.Errorf("%w: got %f", core.ErrInvalidBounds, p.BoundsSize)
	}
	return nil
}

// ChunkGrid partitions the bounds into N^3 chunks over one shared scalar
// field and rebuilds every chunk's mesh on Generate. Neighbouring chunks
// overlap by one lattice layer, so the vertices they compute on a shared
// boundary are bit-identical and the surface shows no seam even though
// welding stays chunk-local.
type ChunkGrid struct {
	params  Params
	sampler field.Sampler

	field  *field.ScalarField
	mesher *marching.ChunkMesher
	welder *marching.VertexWelder
	chunks []*Chunk

	jobs *systems.JobSystem
}

func NewChunkGrid(p Params, sampler field.Sampler) (*ChunkGrid, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	cubesPerChunk := p.PointsPerAxis - 1
	totalPoints := p.ChunksPerAxis*cubesPerChunk + 1
	chunkSize := p.BoundsSize / float32(p.ChunksPerAxis)
	spacing := chunkSize / float32(cubesPerChunk)
	half := p.BoundsSize / 2

	f, err := field.NewScalarField(
		totalPoints, totalPoints, totalPoints,
		math.NewVec3(-half, -half, -half),
		math.NewVec3(spacing, spacing, spacing),
	)
	if err != nil {
		return nil, err
	}

	g := &ChunkGrid{
		params:  p,
		sampler: sampler,
		field:   f,
		mesher:  marching.NewChunkMesher(f, p.IsoLevel),
		welder:  marching.NewVertexWelder(p.Shading),
	}

	for z := 0; z < p.ChunksPerAxis; z++ {
		for y := 0; y < p.ChunksPerAxis; y++ {
			for x := 0; x < p.ChunksPerAxis; x++ {
				g.chunks = append(g.chunks, &Chunk{
					Coord: [3]int{x, y, z},
					Center: math.NewVec3(
						-half+(float32(x)+0.5)*chunkSize,
						-half+(float32(y)+0.5)*chunkSize,
						-half+(float32(z)+0.5)*chunkSize,
					),
					Size: chunkSize,
					Region: marching.Region{
						OffsetX: x * cubesPerChunk,
						OffsetY: y * cubesPerChunk,
						OffsetZ: z * cubesPerChunk,
						CubesX:  cubesPerChunk,
						CubesY:  cubesPerChunk,
						CubesZ:  cubesPerChunk,
					},
				})
			}
		}
	}

	if p.Workers > 1 {
		g.jobs, err = systems.NewJobSystem(p.Workers, len(g.chunks))
		if err != nil {
			return nil, err
		}
	}

	return g, nil
}

func (g *ChunkGrid) Chunks() []*Chunk {
	return g.chunks
}

func (g *ChunkGrid) Field() *field.ScalarField {
	return g.field
}

func (g *ChunkGrid) Params() Params {
	return g.params
}

// Generate recomputes the field and every chunk's mesh from scratch.
// There is no partial update path: a parameter change means a full rerun,
// and rerunning with unchanged parameters reproduces the buffers exactly.
func (g *ChunkGrid) Generate() error {
	clock := core.NewClock()

	// Field fill must fully finish before any cube is meshed; FillParallel
	// waits on its workers, which is that barrier.
	clock.Start()
	g.field.FillParallel(g.sampler, g.params.Workers)
	g.field.ApplyBorder(g.params.BorderWidth)
	clock.Update()
	core.MetricsPhase(core.PhaseFieldFill, clock.ElapsedMS())

	clock.Start()
	var err error
	if g.jobs != nil {
		err = g.generateParallel()
	} else {
		err = g.generateSequential()
	}
	clock.Update()
	core.MetricsPhase(core.PhaseMeshing, clock.ElapsedMS())
	if err != nil {
		return err
	}

	vertices, triangles := g.TotalCounts()
	core.LogInfo("generated %d chunks: %d vertices, %d triangles (%s shading)",
		len(g.chunks), vertices, triangles, g.params.Shading)

	ctx := core.EventContext{}
	ctx.Data.U64[0] = uint64(triangles)
	ctx.Data.U64[1] = uint64(vertices)
	core.EventFire(core.EVENT_CODE_GENERATION_COMPLETE, g, ctx)
	return nil
}

func (g *ChunkGrid) generateSequential() error {
	// One arena, reused: every chunk region has identical worst-case size.
	arena := marching.NewTriangleArena(g.chunks[0].Region.WorstCaseTriangles())
	for _, chunk := range g.chunks {
		arena.Reset()
		if err := g.generateChunk(chunk, arena); err != nil {
			return err
		}
	}
	return nil
}

func (g *ChunkGrid) generateParallel() error {
	var mu sync.Mutex
	var firstErr error
	tasks := make([]systems.JobTask, 0, len(g.chunks))
	for _, chunk := range g.chunks {
		chunk := chunk
		tasks = append(tasks, systems.JobTask{
			Name: chunk.Name(),
			OnStart: func() error {
				arena := marching.NewTriangleArena(chunk.Region.WorstCaseTriangles())
				return g.generateChunk(chunk, arena)
			},
			OnFailure: func(err error) {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			},
		})
	}
	g.jobs.RunBatch(tasks)
	return firstErr
}

func (g *ChunkGrid) generateChunk(chunk *Chunk, arena *marching.TriangleArena) error {
	if err := g.mesher.MeshRegion(chunk.Region, arena); err != nil {
		return fmt.Errorf("meshing %s: %w", chunk.Name(), err)
	}

	triangles := arena.Triangles()
	clock := core.NewClock()
	clock.Start()
	buffers := g.welder.Weld(triangles)
	clock.Update()
	core.MetricsPhase(core.PhaseWelding, clock.ElapsedMS())
	chunk.SetBuffers(buffers)

	core.MetricsCount(
		uint64(chunk.Region.CubeCount()),
		uint64(len(triangles)),
		uint64(3*len(triangles)-len(buffers.Vertices)),
	)
	return nil
}

// TotalCounts sums vertices and triangles across all chunks.
func (g *ChunkGrid) TotalCounts() (vertices, triangles int) {
	for _, c := range g.chunks {
		vertices += len(c.Buffers.Vertices)
		triangles += c.Buffers.TriangleCount()
	}
	return vertices, triangles
}

// Release tears the grid down: every chunk drops its buffers and the
// worker pool drains.
func (g *ChunkGrid) Release() {
	for _, c := range g.chunks {
		c.Release()
	}
	if g.jobs != nil {
		if err := g.jobs.Shutdown(); err != nil {
			core.LogError("job system shutdown: %s", err.Error())
		}
		g.jobs = nil
	}
}
