package matcher

import (
	"time"

	"github.com/turtacn/ChemNorm/internal/domain/annotation"
	"github.com/turtacn/ChemNorm/internal/domain/molecule"
	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/metrics"
	moltypes "github.com/turtacn/ChemNorm/pkg/types/molecule"
)

// Detector runs a pattern library against molecule graphs and produces the
// functional-group candidates fed to annotation resolution.
type Detector struct {
	logger  logging.Logger
	metrics *metrics.Metrics
}

func NewDetector(logger logging.Logger, m *metrics.Metrics) *Detector {
	if logger == nil {
		logger = logging.Default()
	}
	if m == nil {
		m = metrics.NewNop()
	}
	return &Detector{logger: logger.Named("detector"), metrics: m}
}

// Detect evaluates every library pattern against g.  Each pattern with at
// least one embedding contributes one candidate whose atom set is the union
// of all its embeddings.  Candidates keep library declaration order.
func (d *Detector) Detect(g *molecule.Graph, lib *Library) []annotation.Candidate {
	start := time.Now()
	var candidates []annotation.Candidate
	for _, cp := range lib.Patterns() {
		atoms := CandidateAtoms(cp.Pattern, g)
		if len(atoms) == 0 {
			continue
		}
		candidates = append(candidates, annotation.Candidate{
			Group: moltypes.FunctionalGroup{
				ID:          cp.Spec.ID,
				Name:        cp.Spec.Name,
				Atoms:       atoms,
				Description: cp.Spec.Description,
				Pattern:     cp.Spec.Pattern,
			},
			Priority: cp.Spec.Priority,
		})
	}
	d.metrics.DetectionDuration.Observe(time.Since(start).Seconds())
	d.logger.Debug("pattern detection complete",
		logging.Int("patterns", len(lib.Patterns())),
		logging.Int("candidates", len(candidates)))
	return candidates
}
