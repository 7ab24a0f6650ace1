package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/cubemarch/engine/core"
	"github.com/spaghettifunk/cubemarch/engine/field"
	"github.com/spaghettifunk/cubemarch/engine/marching"
	"github.com/spaghettifunk/cubemarch/engine/math"
	"github.com/spaghettifunk/cubemarch/engine/volume"
)

// SamplerConfig selects and parameterizes the density function.
type SamplerConfig struct {
	// Kind is "sphere" or "noise".
	Kind        string  `toml:"kind"`
	Radius      float32 `toml:"radius"`
	Seed        int64   `toml:"seed"`
	Frequency   float64 `toml:"frequency"`
	Octaves     int     `toml:"octaves"`
	Persistence float64 `toml:"persistence"`
	Lacunarity  float64 `toml:"lacunarity"`
	Amplitude   float32 `toml:"amplitude"`
}

type OutputConfig struct {
	OBJPath    string `toml:"obj_path"`
	PreviewDir string `toml:"preview_dir"`
	// PreviewSize is the edge length in pixels of exported slice images.
	PreviewSize int `toml:"preview_size"`
}

// GenerationConfig is the full parameter surface of a run. The core
// consumes it; it never mutates it.
type GenerationConfig struct {
	ChunksPerAxis int     `toml:"chunks_per_axis"`
	PointsPerAxis int     `toml:"points_per_axis"`
	BoundsSize    float32 `toml:"bounds_size"`
	IsoLevel      float32 `toml:"iso_level"`
	// Shading is "smooth" (welded, gradient normals) or "flat" (faceted).
	Shading     string        `toml:"shading"`
	BorderWidth int           `toml:"border_width"`
	Workers     int           `toml:"workers"`
	Sampler     SamplerConfig `toml:"sampler"`
	Output      OutputConfig  `toml:"output"`
}

func Default() *GenerationConfig {
	return &GenerationConfig{
		ChunksPerAxis: 4,
		PointsPerAxis: 16,
		BoundsSize:    100,
		IsoLevel:      0,
		Shading:       "smooth",
		BorderWidth:   1,
		Workers:       1,
		Sampler: SamplerConfig{
			Kind:        "noise",
			Radius:      35,
			Seed:        1337,
			Frequency:   0.05,
			Octaves:     4,
			Persistence: 0.5,
			Lacunarity:  2.0,
			Amplitude:   6,
		},
		Output: OutputConfig{
			OBJPath:     "out/surface.obj",
			PreviewSize: 512,
		},
	}
}

// Load reads a TOML file over the defaults.
func Load(path string) (*GenerationConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	// Seed 0 means "pick one": a fresh seed is resolved at load time so
	// repeated runs explore different noise, while any explicit non-zero
	// seed stays reproducible.
	if cfg.Sampler.Seed == 0 {
		cfg.Sampler.Seed = int64(math.RandomInRange(1, 1<<31-1))
		core.LogInfo("sampler seed not set, using %d", cfg.Sampler.Seed)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *GenerationConfig) Validate() error {
	if c.ChunksPerAxis <= 0 {
		return fmt.Errorf("%w: got %d", core.ErrInvalidChunkCount, c.ChunksPerAxis)
	}
	if c.PointsPerAxis < 2 {
		return fmt.Errorf("%w: got %d", core.ErrInvalidResolution, c.PointsPerAxis)
	}
	if c.BoundsSize <= 0 {
		return fmt.Errorf("%w: got %f", core.ErrInvalidBounds, c.BoundsSize)
	}
	switch c.Shading {
	case "smooth", "flat":
	default:
		return fmt.Errorf("shading must be smooth or flat, got %q", c.Shading)
	}
	switch c.Sampler.Kind {
	case "sphere", "noise":
	default:
		return fmt.Errorf("sampler kind must be sphere or noise, got %q", c.Sampler.Kind)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

func (c *GenerationConfig) ShadingMode() marching.ShadingMode {
	if c.Shading == "flat" {
		return marching.ShadingFlat
	}
	return marching.ShadingSmooth
}

// BuildSampler constructs the configured density sampler.
func (c *GenerationConfig) BuildSampler() field.Sampler {
	switch c.Sampler.Kind {
	case "sphere":
		return field.SphereSampler{
			Center: math.NewVec3Zero(),
			Radius: c.Sampler.Radius,
		}
	default:
		return field.NoiseSampler{
			Center:      math.NewVec3Zero(),
			Radius:      c.Sampler.Radius,
			Seed:        c.Sampler.Seed,
			Frequency:   c.Sampler.Frequency,
			Octaves:     c.Sampler.Octaves,
			Persistence: c.Sampler.Persistence,
			Lacunarity:  c.Sampler.Lacunarity,
			Amplitude:   c.Sampler.Amplitude,
		}
	}
}

// GridParams maps the config onto grid parameters.
func (c *GenerationConfig) GridParams() volume.Params {
	return volume.Params{
		ChunksPerAxis: c.ChunksPerAxis,
		PointsPerAxis: c.PointsPerAxis,
		BoundsSize:    c.BoundsSize,
		IsoLevel:      c.IsoLevel,
		Shading:       c.ShadingMode(),
		BorderWidth:   c.BorderWidth,
		Workers:       c.Workers,
	}
}
