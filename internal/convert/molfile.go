// Package convert implements the molfile/SDF → PDB format converter: a pure,
// deterministic transform from legacy counts-line/atom-block/bond-block text
// to fixed-column ATOM/CONECT records plus the molecule graph consumed by
// the substructure matcher.
package convert

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/ChemNorm/internal/domain/molecule"
	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemNorm/pkg/errors"
)

// countsScanWindow is how many leading lines are searched for the counts
// line.  A behavioral contract of the legacy format handling, not a tunable.
const countsScanWindow = 5

// countsLineRe matches a line whose first two whitespace-separated fields are
// integers: the (atomCount, bondCount) pair of a V2000 counts line.
var countsLineRe = regexp.MustCompile(`^\s*(\d+)\s+(\d+)`)

// propertyMarkers are molfile line prefixes that terminate or interleave the
// bond block without consuming bond-count slots.
var propertyMarkers = []string{"M ", "A  ", "G  ", "V  ", "> ", "$$$$"}

// defaultElement is assumed when an atom line omits its element symbol.
const defaultElement = "C"

type parsedMol struct {
	atoms   []molecule.AtomRecord
	adj     *molecule.Adjacency
	dropped int
}

func isPropertyMarker(line string) bool {
	for _, p := range propertyMarkers {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// findCounts locates the counts line within the scan window and returns its
// index plus the declared atom and bond counts.
func findCounts(lines []string) (idx, atomCount, bondCount int, ok bool) {
	limit := countsScanWindow
	if len(lines) < limit {
		limit = len(lines)
	}
	for i := 0; i < limit; i++ {
		m := countsLineRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		a, errA := strconv.Atoi(m[1])
		b, errB := strconv.Atoi(m[2])
		if errA != nil || errB != nil {
			continue
		}
		return i, a, b, true
	}
	return 0, 0, 0, false
}

// parseMolfile parses text into atom records and an adjacency set.  The only
// fatal condition is a missing or zero-atom counts line; malformed atom or
// bond lines degrade tolerantly.
func parseMolfile(text string, logger logging.Logger) (*parsedMol, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	countsIdx, atomCount, bondCount, ok := findCounts(lines)
	if !ok {
		return nil, errors.New(errors.ErrCodeMalformedInput, "no counts line found").
			WithDetail("scanned first 5 lines")
	}
	if atomCount == 0 {
		return nil, errors.New(errors.ErrCodeMalformedInput, "counts line declares zero atoms")
	}

	p := &parsedMol{adj: molecule.NewAdjacency(atomCount)}

	atomEnd := countsIdx + 1 + atomCount
	if atomEnd > len(lines) {
		logger.Warn("atom block shorter than declared count",
			logging.Int("declared", atomCount),
			logging.Int("available", len(lines)-countsIdx-1))
		atomEnd = len(lines)
	}

	for i := countsIdx + 1; i < atomEnd; i++ {
		p.atoms = append(p.atoms, parseAtomLine(lines[i], len(p.atoms)+1))
	}
	// Re-anchor the adjacency when the atom block was truncated so bond
	// indices past the parsed atoms are rejected as out-of-range.
	if len(p.atoms) < atomCount {
		p.adj = molecule.NewAdjacency(len(p.atoms))
	}

	consumed := 0
	for i := atomEnd; i < len(lines) && consumed < bondCount; i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" || isPropertyMarker(line) {
			continue
		}
		consumed++
		from, to, ok := parseBondLine(line)
		if !ok {
			p.dropped++
			logger.Debug("bond line rejected", logging.Int("line", i+1))
			continue
		}
		if !p.adj.AddBond(from, to) {
			p.dropped++
			logger.Debug("bond rejected",
				logging.Int("from", from), logging.Int("to", to))
		}
	}

	return p, nil
}

// parseAtomLine reads x, y, z from the first three whitespace tokens and the
// element symbol from the fourth, defaulting to carbon when absent.
// Unparsable coordinate tokens degrade to zero.
func parseAtomLine(line string, index int) molecule.AtomRecord {
	fields := strings.Fields(line)
	atom := molecule.AtomRecord{Index: index, Element: defaultElement}

	coords := [3]float64{}
	for i := 0; i < 3 && i < len(fields); i++ {
		if v, err := strconv.ParseFloat(fields[i], 64); err == nil {
			coords[i] = v
		}
	}
	atom.X, atom.Y, atom.Z = coords[0], coords[1], coords[2]

	if len(fields) >= 4 && fields[3] != "" {
		atom.Element = fields[3]
	}
	return atom
}

// parseBondLine reads the two 1-based atom indices from the first two
// whitespace tokens of a bond line.
func parseBondLine(line string) (from, to int, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, 0, false
	}
	from, errF := strconv.Atoi(fields[0])
	to, errT := strconv.Atoi(fields[1])
	if errF != nil || errT != nil {
		return 0, 0, false
	}
	return from, to, true
}

// NormalizeText canonicalises line endings and trims outer whitespace.  The
// parser and the detection-cache key derivation share this definition so a
// CRLF copy of a structure hits the same cache entry.
func NormalizeText(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
}
