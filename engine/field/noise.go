package field

import m "math"

// Deterministic hash value noise. Sampling keys off world coordinates,
// never RNG state, so the field is seam-safe across chunks and identical
// between runs with the same seed.

func hashLattice(x, y, z, seed int64) float64 {
	h := uint64(x)*0x9E3779B97F4A7C15 ^
		uint64(y)*0xC2B2AE3D27D4EB4F ^
		uint64(z)*0x165667B19E3779F9 ^
		uint64(seed)
	h ^= h >> 33
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 33
	h *= 0xC4CEB9FE1A85EC53
	h ^= h >> 33
	// 53 usable mantissa bits
	return float64(h>>11) / float64(1<<53)
}

func smooth(t float64) float64 {
	return t * t * (3.0 - 2.0*t)
}

// ValueNoise3D returns smoothed lattice noise in [0,1].
func ValueNoise3D(x, y, z float64, seed int64) float64 {
	x0, y0, z0 := int64(m.Floor(x)), int64(m.Floor(y)), int64(m.Floor(z))
	tx := smooth(x - float64(x0))
	ty := smooth(y - float64(y0))
	tz := smooth(z - float64(z0))

	lerp := func(a, b, t float64) float64 { return a + (b-a)*t }

	c000 := hashLattice(x0, y0, z0, seed)
	c100 := hashLattice(x0+1, y0, z0, seed)
	c010 := hashLattice(x0, y0+1, z0, seed)
	c110 := hashLattice(x0+1, y0+1, z0, seed)
	c001 := hashLattice(x0, y0, z0+1, seed)
	c101 := hashLattice(x0+1, y0, z0+1, seed)
	c011 := hashLattice(x0, y0+1, z0+1, seed)
	c111 := hashLattice(x0+1, y0+1, z0+1, seed)

	x00 := lerp(c000, c100, tx)
	x10 := lerp(c010, c110, tx)
	x01 := lerp(c001, c101, tx)
	x11 := lerp(c011, c111, tx)

	y0v := lerp(x00, x10, ty)
	y1v := lerp(x01, x11, ty)

	return lerp(y0v, y1v, tz)
}

// OctaveNoise3D stacks ValueNoise3D octaves and renormalizes to [0,1].
func OctaveNoise3D(x, y, z float64, seed int64, octaves int, persistence, lacunarity float64) float64 {
	if octaves < 1 {
		octaves = 1
	}
	total := 0.0
	amplitude := 1.0
	frequency := 1.0
	maxValue := 0.0
	for i := 0; i < octaves; i++ {
		total += ValueNoise3D(x*frequency, y*frequency, z*frequency, seed+int64(i)) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	return total / maxValue
}
