package volume

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/cubemarch/engine/core"
	"github.com/spaghettifunk/cubemarch/engine/field"
	"github.com/spaghettifunk/cubemarch/engine/marching"
	"github.com/spaghettifunk/cubemarch/engine/math"
)

func sphereParams() (Params, field.Sampler) {
	return Params{
		ChunksPerAxis: 2,
		PointsPerAxis: 9,
		BoundsSize:    20,
		IsoLevel:      0,
		Shading:       marching.ShadingSmooth,
		BorderWidth:   0,
		Workers:       1,
	}, field.SphereSampler{Radius: 6}
}

func TestParamsValidateFailsFast(t *testing.T) {
	base, _ := sphereParams()

	p := base
	p.ChunksPerAxis = 0
	if err := p.Validate(); !errors.Is(err, core.ErrInvalidChunkCount) {
		t.Fatalf("chunk count: got %v", err)
	}

	p = base
	p.PointsPerAxis = 1
	if err := p.Validate(); !errors.Is(err, core.ErrInvalidResolution) {
		t.Fatalf("resolution: got %v", err)
	}

	p = base
	p.BoundsSize = -1
	if err := p.Validate(); !errors.Is(err, core.ErrInvalidBounds) {
		t.Fatalf("bounds: got %v", err)
	}

	if _, err := NewChunkGrid(p, field.SphereSampler{Radius: 1}); err == nil {
		t.Fatalf("grid construction must reject invalid parameters before any work")
	}
}

func TestChunkPlacement(t *testing.T) {
	p, sampler := sphereParams()
	p.ChunksPerAxis = 4
	p.BoundsSize = 100
	grid, err := NewChunkGrid(p, sampler)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	defer grid.Release()

	chunks := grid.Chunks()
	if len(chunks) != 64 {
		t.Fatalf("got %d chunks, want 64", len(chunks))
	}

	for _, c := range chunks {
		if c.Size != 25 {
			t.Fatalf("%s has size %f, want 25", c.Name(), c.Size)
		}
	}

	// The grid is centred on the origin, so corner chunk centres are
	// symmetric about it.
	first := chunks[0]
	last := chunks[len(chunks)-1]
	if first.Coord != [3]int{0, 0, 0} || last.Coord != [3]int{3, 3, 3} {
		t.Fatalf("unexpected corner coords %v and %v", first.Coord, last.Coord)
	}
	if !first.Center.Compare(last.Center.MulScalar(-1), 1e-4) {
		t.Fatalf("corner centres not symmetric: %+v vs %+v", first.Center, last.Center)
	}
	want := math.NewVec3(-37.5, -37.5, -37.5)
	if !first.Center.Compare(want, 1e-4) {
		t.Fatalf("first chunk centre %+v, want %+v", first.Center, want)
	}
}

func TestSharedLatticeAvoidsSeams(t *testing.T) {
	p, _ := sphereParams()
	grid, err := NewChunkGrid(p, field.SphereSampler{Radius: 6})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	defer grid.Release()

	// 2 chunks of 8 cubes each share one lattice layer: 17 points per axis.
	f := grid.Field()
	if f.SizeX != 17 || f.SizeY != 17 || f.SizeZ != 17 {
		t.Fatalf("lattice is %dx%dx%d, want 17 per axis", f.SizeX, f.SizeY, f.SizeZ)
	}

	// Adjacent chunk regions meet on the same lattice plane.
	chunks := grid.Chunks()
	left := chunks[0]
	right := chunks[1]
	if left.Region.OffsetX+left.Region.CubesX != right.Region.OffsetX {
		t.Fatalf("x-adjacent regions do not share a boundary plane")
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	p, sampler := sphereParams()
	grid, err := NewChunkGrid(p, sampler)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	defer grid.Release()

	if err := grid.Generate(); err != nil {
		t.Fatalf("first generate: %v", err)
	}
	firstVerts, firstTris := grid.TotalCounts()
	if firstTris == 0 {
		t.Fatalf("sphere generated no triangles")
	}

	snapshot := make([][]math.Vertex3D, len(grid.Chunks()))
	for i, c := range grid.Chunks() {
		snapshot[i] = append([]math.Vertex3D(nil), c.Buffers.Vertices...)
	}

	if err := grid.Generate(); err != nil {
		t.Fatalf("second generate: %v", err)
	}
	secondVerts, secondTris := grid.TotalCounts()
	if firstVerts != secondVerts || firstTris != secondTris {
		t.Fatalf("rerun changed counts: %d/%d vs %d/%d", firstVerts, firstTris, secondVerts, secondTris)
	}
	for i, c := range grid.Chunks() {
		if len(snapshot[i]) != len(c.Buffers.Vertices) {
			t.Fatalf("%s vertex count changed on rerun", c.Name())
		}
		for j := range snapshot[i] {
			if snapshot[i][j] != c.Buffers.Vertices[j] {
				t.Fatalf("%s vertex %d changed on rerun", c.Name(), j)
			}
		}
	}
}

func TestGenerateParallelMatchesSequentialCounts(t *testing.T) {
	p, sampler := sphereParams()
	seqGrid, err := NewChunkGrid(p, sampler)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	defer seqGrid.Release()
	if err := seqGrid.Generate(); err != nil {
		t.Fatalf("sequential generate: %v", err)
	}

	p.Workers = 4
	parGrid, err := NewChunkGrid(p, sampler)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	defer parGrid.Release()
	if err := parGrid.Generate(); err != nil {
		t.Fatalf("parallel generate: %v", err)
	}

	seqVerts, seqTris := seqGrid.TotalCounts()
	parVerts, parTris := parGrid.TotalCounts()
	if seqVerts != parVerts || seqTris != parTris {
		t.Fatalf("parallel counts %d/%d differ from sequential %d/%d", parVerts, parTris, seqVerts, seqTris)
	}

	// Per-chunk buffers agree too; chunk scheduling must not leak into
	// mesh content.
	for i := range seqGrid.Chunks() {
		a := seqGrid.Chunks()[i].Buffers
		b := parGrid.Chunks()[i].Buffers
		if len(a.Vertices) != len(b.Vertices) || len(a.Indices) != len(b.Indices) {
			t.Fatalf("chunk %d buffers differ between scheduling modes", i)
		}
	}
}

func TestReleaseDropsBuffersAndStampsGeneration(t *testing.T) {
	p, sampler := sphereParams()
	grid, err := NewChunkGrid(p, sampler)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	if err := grid.Generate(); err != nil {
		t.Fatalf("generate: %v", err)
	}

	c := grid.Chunks()[0]
	if c.Generation == "" {
		t.Fatalf("generated chunk missing generation ID")
	}

	grid.Release()
	if len(c.Buffers.Vertices) != 0 || c.Generation != "" {
		t.Fatalf("release kept buffers or generation ID")
	}
}
