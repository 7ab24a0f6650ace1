package export

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"

	"github.com/spaghettifunk/cubemarch/engine/field"
)

// WriteSlicePreviews renders horizontal cross-sections of the density
// field as webp images, one per requested Y layer. Solid lattice points
// (density above isoLevel) render light, empty ones dark, with a red line
// of pixels where the sign flips. Useful for eyeballing a density
// function without loading the mesh anywhere.
func WriteSlicePreviews(dir string, f *field.ScalarField, isoLevel float32, layers []int, size int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating preview dir: %w", err)
	}
	for _, y := range layers {
		if y < 0 || y >= f.SizeY {
			continue
		}
		img := renderSlice(f, isoLevel, y)
		if size > 0 && (img.Bounds().Dx() != size || img.Bounds().Dy() != size) {
			scaled := image.NewNRGBA(image.Rect(0, 0, size, size))
			draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
			img = scaled
		}

		path := filepath.Join(dir, fmt.Sprintf("slice_y%03d.webp", y))
		if err := writeWebp(path, img); err != nil {
			return err
		}
	}
	return nil
}

func renderSlice(f *field.ScalarField, isoLevel float32, y int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.SizeX, f.SizeZ))
	for z := 0; z < f.SizeZ; z++ {
		for x := 0; x < f.SizeX; x++ {
			d := f.Sample(x, y, z)
			var c color.NRGBA
			switch {
			case onBoundary(f, isoLevel, x, y, z):
				c = color.NRGBA{R: 220, G: 60, B: 60, A: 255}
			case d > isoLevel:
				c = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
			default:
				c = color.NRGBA{R: 30, G: 30, B: 40, A: 255}
			}
			img.SetNRGBA(x, z, c)
		}
	}
	return img
}

// onBoundary reports whether any in-plane neighbour sits on the other
// side of the isoLevel.
func onBoundary(f *field.ScalarField, isoLevel float32, x, y, z int) bool {
	solid := f.Sample(x, y, z) > isoLevel
	for _, n := range [4][2]int{{x - 1, z}, {x + 1, z}, {x, z - 1}, {x, z + 1}} {
		if !f.InBounds(n[0], y, n[1]) {
			continue
		}
		if (f.Sample(n[0], y, n[1]) > isoLevel) != solid {
			return true
		}
	}
	return false
}

func writeWebp(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}
