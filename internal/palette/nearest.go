package palette

// Nearest returns the name of the entry closest to (r, g, b).
//
// See NearestEntry for the distance and tie-break rules.
func (idx *Index) Nearest(r, g, b int) string {
	e, _ := idx.NearestEntry(r, g, b)
	return e.Name
}

// NearestEntry returns the entry closest to (r, g, b) and its distance.
//
// # Distance
//
// Closeness is the L1 (Manhattan) distance |R-r| + |G-g| + |B-b|, computed
// over every entry in table order. Channel values are plain ints, and inputs
// outside [0,255] are clamped first, so a caller holding uint8 channels
// must widen them before calling rather than subtracting bytes.
//
// # Ties
//
// An entry replaces the current best when its distance is less than or
// equal to the best so far. Among equal-distance entries the one appearing
// LAST in the table wins.
//
// The index is never empty, so a result is always returned.
func (idx *Index) NearestEntry(r, g, b int) (ColorEntry, int) {
	r, g, b = clampChannel(r), clampChannel(g), clampChannel(b)

	best := -1
	bestDist := 0
	for i, e := range idx.entries {
		d := absInt(int(e.R)-r) + absInt(int(e.G)-g) + absInt(int(e.B)-b)
		if best < 0 || d <= bestDist {
			best = i
			bestDist = d
		}
	}
	return idx.entries[best], bestDist
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
