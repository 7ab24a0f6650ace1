package field

import (
	"github.com/spaghettifunk/cubemarch/engine/math"
)

// Sampler produces a density for a world-space position. Implementations
// must be deterministic for fixed inputs; regeneration relies on it.
type Sampler interface {
	Sample(p math.Vec3) float32
}

// SphereSampler yields radius minus distance from the centre: positive
// inside the ball, negative outside, zero exactly on the surface.
type SphereSampler struct {
	Center math.Vec3
	Radius float32
}

func (s SphereSampler) Sample(p math.Vec3) float32 {
	return s.Radius - p.Distance(s.Center)
}

// NoiseSampler deforms a sphere with fractal value noise, the usual
// "little planet" density. Noise is sampled in world coordinates so
// neighbouring chunks agree on every shared lattice point.
type NoiseSampler struct {
	Center      math.Vec3
	Radius      float32
	Seed        int64
	Frequency   float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
	Amplitude   float32
}

func (s NoiseSampler) Sample(p math.Vec3) float32 {
	n := OctaveNoise3D(
		float64(p.X)*s.Frequency,
		float64(p.Y)*s.Frequency,
		float64(p.Z)*s.Frequency,
		s.Seed, s.Octaves, s.Persistence, s.Lacunarity,
	)
	// Normalize to [-1,1]
	n = n*2.0 - 1.0
	return (s.Radius - p.Distance(s.Center)) + float32(n)*s.Amplitude
}
