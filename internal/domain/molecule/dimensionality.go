package molecule

import (
	"strconv"
	"strings"

	moltypes "github.com/turtacn/ChemNorm/pkg/types/molecule"
)

// Fixed-column heuristics for 3D detection.  These are behavioral contracts,
// not tunables: downstream validity checks depend on these exact byte-column
// positions and the sample window.
const (
	// headerScanLines is how many leading lines are searched for a "3D" or
	// "V3000" token before falling back to the coordinate heuristic.
	headerScanLines = 4

	// zSampleFirst/zSampleLast delimit the 1-based line window sampled for a
	// non-zero Z coordinate (the early atom block of a V2000 record).
	zSampleFirst = 5
	zSampleLast  = 29

	// zColStart/zColEnd are the byte columns of the Z field in a V2000 atom
	// line.
	zColStart = 20
	zColEnd   = 30

	// zTolerance is the minimum |z| treated as a real spatial coordinate.
	zTolerance = 1e-3
)

// DetectDimensionality classifies molfile/SDF text as 2D or 3D.
//
// Text is 3D when a header line contains a "3D" or "V3000" token, or when any
// atom line in the sample window carries a Z coordinate with |z| above the
// tolerance at the fixed column offset.  The coordinate heuristic is
// authoritative: a record whose header claims nothing but whose atoms carry
// real Z values is 3D.
func DetectDimensionality(text string) moltypes.Dimensionality {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	limit := headerScanLines
	if len(lines) < limit {
		limit = len(lines)
	}
	for i := 0; i < limit; i++ {
		if strings.Contains(lines[i], "V3000") || strings.Contains(lines[i], "3D") {
			return moltypes.Dim3D
		}
	}

	last := zSampleLast
	if len(lines) < last {
		last = len(lines)
	}
	for i := zSampleFirst - 1; i < last; i++ {
		if z, ok := zColumn(lines[i]); ok && (z > zTolerance || z < -zTolerance) {
			return moltypes.Dim3D
		}
	}

	return moltypes.Dim2D
}

// zColumn extracts the Z field from a fixed-column atom line.  Lines too
// short to carry the field, or whose field is not a float, report ok=false.
func zColumn(line string) (float64, bool) {
	if len(line) < zColEnd {
		return 0, false
	}
	raw := strings.TrimSpace(line[zColStart:zColEnd])
	if raw == "" {
		return 0, false
	}
	z, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return z, true
}
