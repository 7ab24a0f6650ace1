package field

import (
	"testing"

	"github.com/spaghettifunk/cubemarch/engine/math"
)

type planeSampler struct{}

func (planeSampler) Sample(p math.Vec3) float32 {
	return 2*p.X + 3*p.Y - p.Z
}

func TestNewScalarFieldRejectsDegenerateLattice(t *testing.T) {
	if _, err := NewScalarField(1, 4, 4, math.NewVec3Zero(), math.NewVec3One()); err == nil {
		t.Fatalf("expected error for a lattice with one point per axis")
	}
}

func TestSampleOutOfRangeYieldsSentinel(t *testing.T) {
	f, err := NewScalarField(4, 4, 4, math.NewVec3Zero(), math.NewVec3One())
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	f.Fill(planeSampler{})

	for _, coord := range [][3]int{
		{-1, 0, 0}, {0, -1, 0}, {0, 0, -1},
		{4, 0, 0}, {0, 4, 0}, {0, 0, 4},
	} {
		if got := f.Sample(coord[0], coord[1], coord[2]); got != Sentinel {
			t.Fatalf("sample at %v returned %f, want sentinel", coord, got)
		}
	}
	if got := f.Sample(2, 1, 3); got != 2*2+3*1-3 {
		t.Fatalf("in-range sample %f, want %f", got, float32(2*2+3*1-3))
	}
}

func TestWorldPositionUsesOriginAndSpacing(t *testing.T) {
	f, err := NewScalarField(4, 4, 4, math.NewVec3(-10, 5, 0), math.NewVec3(2, 0.5, 1))
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	got := f.WorldPosition(3, 2, 1)
	want := math.NewVec3(-10+3*2, 5+2*0.5, 0+1*1)
	if got != want {
		t.Fatalf("world position %+v, want %+v", got, want)
	}
}

func TestFillParallelMatchesSequential(t *testing.T) {
	sequential, err := NewScalarField(8, 8, 8, math.NewVec3(-4, -4, -4), math.NewVec3One())
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	parallel, err := NewScalarField(8, 8, 8, math.NewVec3(-4, -4, -4), math.NewVec3One())
	if err != nil {
		t.Fatalf("field: %v", err)
	}

	sampler := SphereSampler{Radius: 3}
	sequential.Fill(sampler)
	parallel.FillParallel(sampler, 4)

	for z := 0; z < 8; z++ {
		for y := 0; y < 8; y++ {
			for x := 0; x < 8; x++ {
				if sequential.Sample(x, y, z) != parallel.Sample(x, y, z) {
					t.Fatalf("parallel fill diverged at (%d,%d,%d)", x, y, z)
				}
			}
		}
	}
}

func TestApplyBorderForcesOuterLayersEmpty(t *testing.T) {
	f, err := NewScalarField(6, 6, 6, math.NewVec3Zero(), math.NewVec3One())
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	for z := 0; z < 6; z++ {
		for y := 0; y < 6; y++ {
			for x := 0; x < 6; x++ {
				f.Set(x, y, z, 1)
			}
		}
	}
	f.ApplyBorder(1)

	for z := 0; z < 6; z++ {
		for y := 0; y < 6; y++ {
			for x := 0; x < 6; x++ {
				onShell := x == 0 || x == 5 || y == 0 || y == 5 || z == 0 || z == 5
				got := f.Sample(x, y, z)
				if onShell && got != Sentinel {
					t.Fatalf("border point (%d,%d,%d) kept density %f", x, y, z, got)
				}
				if !onShell && got != 1 {
					t.Fatalf("interior point (%d,%d,%d) clobbered to %f", x, y, z, got)
				}
			}
		}
	}
}

func TestGradientOfLinearField(t *testing.T) {
	f, err := NewScalarField(5, 5, 5, math.NewVec3Zero(), math.NewVec3One())
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	f.Fill(planeSampler{})

	// Central differences recover an affine field's gradient exactly at
	// interior points.
	got := f.Gradient(2, 2, 2)
	want := math.NewVec3(2, 3, -1)
	if !got.Compare(want, 1e-5) {
		t.Fatalf("gradient %+v, want %+v", got, want)
	}

	// Border gradients stay finite thanks to the centre fallback.
	border := f.Gradient(0, 0, 0)
	for _, component := range []float32{border.X, border.Y, border.Z} {
		if component != component || component > math.K_INFINITY || component < -math.K_INFINITY {
			t.Fatalf("border gradient not finite: %+v", border)
		}
	}
}

func TestNoiseIsDeterministicAndBounded(t *testing.T) {
	for i := 0; i < 200; i++ {
		x := float64(i) * 0.137
		y := float64(i) * 0.291
		z := float64(i) * 0.433
		a := OctaveNoise3D(x, y, z, 1337, 4, 0.5, 2.0)
		b := OctaveNoise3D(x, y, z, 1337, 4, 0.5, 2.0)
		if a != b {
			t.Fatalf("noise not deterministic at sample %d: %f vs %f", i, a, b)
		}
		if a < 0 || a > 1 {
			t.Fatalf("noise out of [0,1] at sample %d: %f", i, a)
		}
	}

	if OctaveNoise3D(0.5, 0.5, 0.5, 1, 4, 0.5, 2.0) == OctaveNoise3D(0.5, 0.5, 0.5, 2, 4, 0.5, 2.0) {
		t.Fatalf("different seeds produced identical noise")
	}
}

func TestNoiseSamplerSeamSafety(t *testing.T) {
	// Two samplers with the same parameters agree at any world position;
	// neighbouring chunks rely on this for seam-free boundaries.
	a := NoiseSampler{Radius: 10, Seed: 7, Frequency: 0.1, Octaves: 3, Persistence: 0.5, Lacunarity: 2.0, Amplitude: 2}
	b := NoiseSampler{Radius: 10, Seed: 7, Frequency: 0.1, Octaves: 3, Persistence: 0.5, Lacunarity: 2.0, Amplitude: 2}
	for i := 0; i < 50; i++ {
		p := math.NewVec3(float32(i)*0.7, float32(i)*-0.3, float32(i)*1.1)
		if a.Sample(p) != b.Sample(p) {
			t.Fatalf("sampler instances disagree at %+v", p)
		}
	}
}
