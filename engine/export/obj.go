package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spaghettifunk/cubemarch/engine/volume"
)

// WriteOBJ streams the whole grid as a Wavefront OBJ, one object group
// per chunk. Chunk meshes keep their own vertex blocks; OBJ indices are
// global and 1-based, so each chunk's faces are offset by the vertices
// written before it.
func WriteOBJ(w io.Writer, grid *volume.ChunkGrid) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "# cubemarch isosurface export")
	vertexBase := 1
	for _, chunk := range grid.Chunks() {
		buffers := chunk.Buffers
		if len(buffers.Indices) == 0 {
			// Entirely inside or outside the surface; valid and empty.
			continue
		}

		fmt.Fprintf(bw, "o %s\n", chunk.Name())
		for _, v := range buffers.Vertices {
			fmt.Fprintf(bw, "v %g %g %g\n", v.Position.X, v.Position.Y, v.Position.Z)
		}
		for _, v := range buffers.Vertices {
			fmt.Fprintf(bw, "vn %g %g %g\n", v.Normal.X, v.Normal.Y, v.Normal.Z)
		}
		for i := 0; i+2 < len(buffers.Indices); i += 3 {
			a := vertexBase + int(buffers.Indices[i])
			b := vertexBase + int(buffers.Indices[i+1])
			c := vertexBase + int(buffers.Indices[i+2])
			fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
		}
		vertexBase += len(buffers.Vertices)
	}

	return bw.Flush()
}

// WriteOBJFile writes the grid to a file, creating parent directories.
func WriteOBJFile(path string, grid *volume.ChunkGrid) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := WriteOBJ(f, grid); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
