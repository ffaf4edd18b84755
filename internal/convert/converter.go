package convert

import (
	"time"

	"github.com/turtacn/ChemNorm/internal/domain/molecule"
	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/metrics"
	moltypes "github.com/turtacn/ChemNorm/pkg/types/molecule"
)

// Result bundles the PDB rendition of a molfile together with the molecule
// graph used downstream by functional-group detection.
type Result struct {
	PDB   string
	Graph *molecule.Graph
	Stats moltypes.ConversionStats
}

// Converter turns molfile/SDF text into PDB text plus a connectivity graph.
type Converter struct {
	logger  logging.Logger
	metrics *metrics.Metrics
}

// New builds a Converter.  A nil logger falls back to the process default and
// nil metrics to a no-op registry.
func New(logger logging.Logger, m *metrics.Metrics) *Converter {
	if logger == nil {
		logger = logging.Default()
	}
	if m == nil {
		m = metrics.NewNop()
	}
	return &Converter{logger: logger.Named("convert"), metrics: m}
}

// Convert parses text and renders it as PDB.  The same input always yields a
// byte-identical Result.  The only error condition is malformed input with no
// usable counts line (or one declaring zero atoms); degenerate bond lines are
// dropped with diagnostics instead.
func (c *Converter) Convert(text string) (*Result, error) {
	start := time.Now()

	parsed, err := parseMolfile(NormalizeText(text), c.logger)
	if err != nil {
		return nil, err
	}

	pdb, conectLines := writePDB(parsed.atoms, parsed.adj)

	stats := moltypes.ConversionStats{
		AtomsParsed:    len(parsed.atoms),
		BondsProcessed: parsed.adj.BondCount(),
		BondsDropped:   parsed.dropped,
		ConectLines:    conectLines,
	}
	c.metrics.ConversionDuration.Observe(time.Since(start).Seconds())
	if parsed.dropped > 0 {
		c.metrics.BondsDropped.Add(float64(parsed.dropped))
	}
	c.logger.Debug("conversion complete",
		logging.Int("atoms", stats.AtomsParsed),
		logging.Int("bonds", stats.BondsProcessed),
		logging.Int("dropped", stats.BondsDropped))

	return &Result{
		PDB:   pdb,
		Graph: &molecule.Graph{Atoms: parsed.atoms, Adj: parsed.adj},
		Stats: stats,
	}, nil
}
