package marching

// Classify computes the cube configuration index for eight corner
// densities, in table corner order. Bit i is set when corner i lies
// inside the solid, meaning its density is above isoLevel. NaN and -Inf
// compare false against any isoLevel and therefore classify as outside;
// +Inf classifies as inside. Either way the result is deterministic.
func Classify(densities [8]float32, isoLevel float32) uint8 {
	var index uint8
	for i := 0; i < 8; i++ {
		if densities[i] > isoLevel {
			index |= 1 << uint(i)
		}
	}
	return index
}

// CrossedEdges returns the 12-bit mask of edges the isosurface crosses
// for a configuration. Zero for the two terminal configurations.
func CrossedEdges(config uint8) uint16 {
	return EdgeTable[config]
}

// HasGeometry reports whether a configuration produces any triangles.
func HasGeometry(config uint8) bool {
	return config != 0 && config != 255
}
