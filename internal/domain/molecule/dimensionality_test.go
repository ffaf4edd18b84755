package molecule

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	moltypes "github.com/turtacn/ChemNorm/pkg/types/molecule"
)

// atomLine renders a V2000 atom line with the coordinate fields at their
// fixed byte columns.
func atomLine(x, y, z float64, elem string) string {
	return fmt.Sprintf("%10.4f%10.4f%10.4f %-3s 0  0  0  0  0  0  0  0  0  0  0  0", x, y, z, elem)
}

func molBlock(header2 string, atoms ...string) string {
	lines := []string{
		"test molecule",
		header2,
		"",
		fmt.Sprintf("%3d%3d  0  0  0  0  0  0  0  0999 V2000", len(atoms), 0),
	}
	lines = append(lines, atoms...)
	lines = append(lines, "M  END")
	return strings.Join(lines, "\n")
}

func TestDetectDimensionality_V3000Header(t *testing.T) {
	text := "name\n  -PROG-  \n\n  0  0  0     0  0            999 V3000\n"
	assert.Equal(t, moltypes.Dim3D, DetectDimensionality(text))
}

func TestDetectDimensionality_3DHeaderToken(t *testing.T) {
	text := molBlock("  -OEChem-031324113D",
		atomLine(1.0, 0.5, 0.0, "C"),
		atomLine(0.0, 0.0, 0.0, "O"),
	)
	assert.Equal(t, moltypes.Dim3D, DetectDimensionality(text))
}

func TestDetectDimensionality_2DHeaderAllZeroZ(t *testing.T) {
	text := molBlock("  -OEChem-031324112D",
		atomLine(1.0, 0.5, 0.0, "C"),
		atomLine(0.0, 0.0, 0.0, "O"),
		atomLine(-1.0, 0.5, 0.0, "C"),
	)
	assert.Equal(t, moltypes.Dim2D, DetectDimensionality(text))
}

func TestDetectDimensionality_HeaderlessNonZeroZ(t *testing.T) {
	text := molBlock("  -PROG-",
		atomLine(1.0, 0.5, 0.0, "C"),
		atomLine(0.0, 0.0, 0.005, "O"),
	)
	assert.Equal(t, moltypes.Dim3D, DetectDimensionality(text))
}

func TestDetectDimensionality_ZBelowTolerance(t *testing.T) {
	text := molBlock("  -PROG-",
		atomLine(1.0, 0.5, 0.0005, "C"),
		atomLine(0.0, 0.0, -0.0009, "O"),
	)
	assert.Equal(t, moltypes.Dim2D, DetectDimensionality(text))
}

func TestDetectDimensionality_NegativeZCountsAsSpatial(t *testing.T) {
	text := molBlock("  -PROG-",
		atomLine(1.0, 0.5, -0.75, "C"),
	)
	assert.Equal(t, moltypes.Dim3D, DetectDimensionality(text))
}

func TestDetectDimensionality_EmptyAndGarbage(t *testing.T) {
	assert.Equal(t, moltypes.Dim2D, DetectDimensionality(""))
	assert.Equal(t, moltypes.Dim2D, DetectDimensionality("not a molfile at all"))
}

func TestDetectDimensionality_ZOutsideSampleWindowIgnored(t *testing.T) {
	// 30 flat atom lines push the only non-zero Z past line 29; the fixed
	// sample window must not see it.
	atoms := make([]string, 0, 31)
	for i := 0; i < 30; i++ {
		atoms = append(atoms, atomLine(float64(i), 0.0, 0.0, "C"))
	}
	atoms = append(atoms, atomLine(0.0, 0.0, 2.5, "C"))
	text := molBlock("  -PROG-", atoms...)
	assert.Equal(t, moltypes.Dim2D, DetectDimensionality(text))
}
