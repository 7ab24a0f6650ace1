package field

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/cubemarch/engine/math"
)

// Sentinel is returned for every out-of-range lattice sample. It is far on
// the empty side of any sane isoLevel, so geometry always closes against
// the volume boundary instead of leaking through it.
const Sentinel float32 = -math.K_INFINITY

// ScalarField is a regular 3D lattice of density samples plus the mapping
// from lattice coordinates to world space. Solid regions have densities
// above the isoLevel, empty regions below.
type ScalarField struct {
	SizeX, SizeY, SizeZ int

	// Origin is the world position of lattice point (0,0,0); Spacing is the
	// world distance between neighbouring lattice points per axis.
	Origin  math.Vec3
	Spacing math.Vec3

	values []float32
}

func NewScalarField(sizeX, sizeY, sizeZ int, origin, spacing math.Vec3) (*ScalarField, error) {
	if sizeX < 2 || sizeY < 2 || sizeZ < 2 {
		return nil, fmt.Errorf("scalar field needs at least 2 points per axis, got %dx%dx%d", sizeX, sizeY, sizeZ)
	}
	return &ScalarField{
		SizeX:   sizeX,
		SizeY:   sizeY,
		SizeZ:   sizeZ,
		Origin:  origin,
		Spacing: spacing,
		values:  make([]float32, sizeX*sizeY*sizeZ),
	}, nil
}

// FlatIndex maps a lattice coordinate to its slot in the flat sample array.
// Also used as the basis for vertex weld keys, so it must stay stable.
func (f *ScalarField) FlatIndex(x, y, z int) int {
	return (z*f.SizeY+y)*f.SizeX + x
}

func (f *ScalarField) InBounds(x, y, z int) bool {
	return x >= 0 && x < f.SizeX &&
		y >= 0 && y < f.SizeY &&
		z >= 0 && z < f.SizeZ
}

// Sample returns the density at a lattice coordinate. Out-of-range
// coordinates yield Sentinel rather than an error.
func (f *ScalarField) Sample(x, y, z int) float32 {
	if !f.InBounds(x, y, z) {
		return Sentinel
	}
	return f.values[f.FlatIndex(x, y, z)]
}

func (f *ScalarField) Set(x, y, z int, v float32) {
	if !f.InBounds(x, y, z) {
		return
	}
	f.values[f.FlatIndex(x, y, z)] = v
}

// WorldPosition converts a lattice coordinate to world space.
func (f *ScalarField) WorldPosition(x, y, z int) math.Vec3 {
	return math.NewVec3(
		f.Origin.X+float32(x)*f.Spacing.X,
		f.Origin.Y+float32(y)*f.Spacing.Y,
		f.Origin.Z+float32(z)*f.Spacing.Z,
	)
}

// Fill samples the provided sampler at every lattice point, sequentially.
func (f *ScalarField) Fill(s Sampler) {
	for z := 0; z < f.SizeZ; z++ {
		for y := 0; y < f.SizeY; y++ {
			for x := 0; x < f.SizeX; x++ {
				f.values[f.FlatIndex(x, y, z)] = s.Sample(f.WorldPosition(x, y, z))
			}
		}
	}
}

// FillParallel distributes lattice slabs (one per Z layer) across workers.
// Callers must not read the field until this returns; the WaitGroup is the
// barrier between field generation and meshing.
func (f *ScalarField) FillParallel(s Sampler, workers int) {
	if workers <= 1 {
		f.Fill(s)
		return
	}

	var wg sync.WaitGroup
	slabs := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for z := range slabs {
				for y := 0; y < f.SizeY; y++ {
					for x := 0; x < f.SizeX; x++ {
						f.values[f.FlatIndex(x, y, z)] = s.Sample(f.WorldPosition(x, y, z))
					}
				}
			}
		}()
	}
	for z := 0; z < f.SizeZ; z++ {
		slabs <- z
	}
	close(slabs)
	wg.Wait()
}

// ApplyBorder forces the outermost width layers of the lattice to the empty
// sentinel so that solids touching the volume edge still produce a closed
// surface.
func (f *ScalarField) ApplyBorder(width int) {
	if width <= 0 {
		return
	}
	for z := 0; z < f.SizeZ; z++ {
		for y := 0; y < f.SizeY; y++ {
			for x := 0; x < f.SizeX; x++ {
				if x < width || x >= f.SizeX-width ||
					y < width || y >= f.SizeY-width ||
					z < width || z >= f.SizeZ-width {
					f.values[f.FlatIndex(x, y, z)] = Sentinel
				}
			}
		}
	}
}

// Gradient estimates the density gradient at a lattice point via central
// differences. Neighbours outside the lattice fall back to the centre
// sample so border gradients stay finite.
func (f *ScalarField) Gradient(x, y, z int) math.Vec3 {
	centre := f.Sample(x, y, z)

	sampleOr := func(sx, sy, sz int) float32 {
		if !f.InBounds(sx, sy, sz) {
			return centre
		}
		return f.values[f.FlatIndex(sx, sy, sz)]
	}

	return math.NewVec3(
		(sampleOr(x+1, y, z)-sampleOr(x-1, y, z))*0.5,
		(sampleOr(x, y+1, z)-sampleOr(x, y-1, z))*0.5,
		(sampleOr(x, y, z+1)-sampleOr(x, y, z-1))*0.5,
	)
}
