package math

// GeometryGenerateNormals assigns a face normal to every corner of every
// triangle. Used by the flat shading path, where vertices are never shared
// between faces.
func GeometryGenerateNormals(vertices []Vertex3D, indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		i0 := indices[i+0]
		i1 := indices[i+1]
		i2 := indices[i+2]

		edge1 := vertices[i1].Position.Sub(vertices[i0].Position)
		edge2 := vertices[i2].Position.Sub(vertices[i0].Position)

		c := edge1.Cross(edge2)
		normal := c.Normalized()

		// NOTE: This just generates a face normal. Smoothing out should be done in a separate pass if desired.
		vertices[i0].Normal = normal
		vertices[i1].Normal = normal
		vertices[i2].Normal = normal
	}
}

// GeometryExtents computes the axis-aligned bounds of a vertex set.
func GeometryExtents(vertices []Vertex3D) Extents3D {
	if len(vertices) == 0 {
		return Extents3D{}
	}
	ext := Extents3D{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		p := v.Position
		if p.X < ext.Min.X {
			ext.Min.X = p.X
		}
		if p.Y < ext.Min.Y {
			ext.Min.Y = p.Y
		}
		if p.Z < ext.Min.Z {
			ext.Min.Z = p.Z
		}
		if p.X > ext.Max.X {
			ext.Max.X = p.X
		}
		if p.Y > ext.Max.Y {
			ext.Max.Y = p.Y
		}
		if p.Z > ext.Max.Z {
			ext.Max.Z = p.Z
		}
	}
	return ext
}
