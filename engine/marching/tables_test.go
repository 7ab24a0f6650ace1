package marching

import "testing"

// The edge table and triangle table describe the same geometry two ways;
// any transcription slip between them shows up as a mask/reference
// mismatch somewhere in the 256 configurations.
func TestTablesAgreeOnCrossedEdges(t *testing.T) {
	for config := 0; config < 256; config++ {
		var referenced uint16
		row := TriangleTable[config]
		for i := 0; i < len(row) && row[i] != -1; i++ {
			e := row[i]
			if e < 0 || e > 11 {
				t.Fatalf("config %d: edge index %d out of range", config, e)
			}
			referenced |= 1 << uint(e)
		}
		if referenced != EdgeTable[config] {
			t.Fatalf("config %d: edge table mask %#x but triangles reference %#x", config, EdgeTable[config], referenced)
		}
	}
}

func TestTerminalConfigurationsEmpty(t *testing.T) {
	for _, config := range []int{0, 255} {
		if EdgeTable[config] != 0 {
			t.Fatalf("config %d: edge mask %#x, want 0", config, EdgeTable[config])
		}
		if TriangleTable[config][0] != -1 {
			t.Fatalf("config %d: triangle row starts with %d, want terminator", config, TriangleTable[config][0])
		}
	}
}

func TestTriangleRowsWellFormed(t *testing.T) {
	for config := 0; config < 256; config++ {
		row := TriangleTable[config]
		n := 0
		for n < len(row) && row[n] != -1 {
			n++
		}
		if n == len(row) {
			t.Fatalf("config %d: row has no terminator", config)
		}
		if n%3 != 0 {
			t.Fatalf("config %d: %d edge entries, not a whole number of triangles", config, n)
		}
		if n > 15 {
			t.Fatalf("config %d: %d entries exceeds 5 triangles", config, n)
		}
	}
}

func TestEdgeTableMatchesCornerClassification(t *testing.T) {
	// An edge is crossed exactly when its two corners fall on opposite
	// sides, independent of the table. Re-derive the mask per config.
	for config := 0; config < 256; config++ {
		var derived uint16
		for e := 0; e < 12; e++ {
			a := config >> uint(EdgeCorners[e][0]) & 1
			b := config >> uint(EdgeCorners[e][1]) & 1
			if a != b {
				derived |= 1 << uint(e)
			}
		}
		if derived != EdgeTable[config] {
			t.Fatalf("config %d: derived mask %#x, table mask %#x", config, derived, EdgeTable[config])
		}
	}
}
