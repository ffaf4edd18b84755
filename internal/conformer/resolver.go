// Package conformer resolves a compound identifier to structure text through
// an ordered cascade of external providers.  Every step but the last must
// yield a 3D-valid record; the final 2D depiction is accepted unconditionally
// so the pipeline always has something to annotate.
package conformer

import (
	"context"
	"fmt"
	"strings"

	"github.com/turtacn/ChemNorm/internal/domain/molecule"
	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/metrics"
	"github.com/turtacn/ChemNorm/internal/infrastructure/sources"
	"github.com/turtacn/ChemNorm/pkg/errors"
	moltypes "github.com/turtacn/ChemNorm/pkg/types/molecule"
)

// Per-attempt outcomes recorded in diagnostics and metrics labels.
const (
	OutcomeOK       = "ok"
	OutcomeSkipped  = "skipped"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
	OutcomeNot3D    = "not_3d"
)

// Resolver walks the cascade in order and returns the first acceptable
// record.  It owns ordering, 3D validation, and the attempt summary; the
// steps own transport.
type Resolver struct {
	steps   []sources.StructureSource
	logger  logging.Logger
	metrics *metrics.Metrics
}

// NewResolver builds the standard seven-step cascade over the provider
// clients.
func NewResolver(pubchem *sources.PubChemClient, registry *sources.CommonChemClient, cactus *sources.CactusClient, logger logging.Logger, m *metrics.Metrics) *Resolver {
	return NewResolverWithSources(DefaultSteps(pubchem, registry, cactus), logger, m)
}

// NewResolverWithSources builds a Resolver over an explicit step list.
func NewResolverWithSources(steps []sources.StructureSource, logger logging.Logger, m *metrics.Metrics) *Resolver {
	if logger == nil {
		logger = logging.Default()
	}
	if m == nil {
		m = metrics.NewNop()
	}
	return &Resolver{steps: steps, logger: logger.Named("conformer"), metrics: m}
}

// Resolve tries each step in order.  Steps 1..n-1 must return 3D-valid text;
// the last step's record is taken as-is.  The attempt slice records every
// step tried, in order, whatever the outcome.
func (r *Resolver) Resolve(ctx context.Context, q sources.Query) (*moltypes.MoleculeRecord, []moltypes.SourceAttempt, error) {
	var attempts []moltypes.SourceAttempt

	record := func(source, outcome string) {
		attempts = append(attempts, moltypes.SourceAttempt{Source: source, Outcome: outcome})
		r.metrics.SourceAttempts.WithLabelValues(source, outcome).Inc()
	}

	for i, step := range r.steps {
		if err := ctx.Err(); err != nil {
			return nil, attempts, errors.Wrap(err, errors.ErrCodeTimeout, "cascade aborted")
		}
		last := i == len(r.steps)-1

		text, err := step.Fetch(ctx, q)
		if err != nil {
			outcome := classifyFetchError(err)
			record(step.Name(), outcome)
			if outcome == OutcomeError {
				r.logger.Warn("source attempt failed",
					logging.String("source", step.Name()), logging.Err(err))
			} else {
				r.logger.Debug("source attempt yielded nothing",
					logging.String("source", step.Name()),
					logging.String("outcome", outcome))
			}
			continue
		}

		dim := molecule.DetectDimensionality(text)
		if !dim.Is3D() && !last {
			record(step.Name(), OutcomeNot3D)
			r.logger.Debug("source returned non-3D record, cascading",
				logging.String("source", step.Name()))
			continue
		}

		record(step.Name(), OutcomeOK)
		r.logger.Info("structure resolved",
			logging.String("source", step.Name()),
			logging.String("dimensionality", string(dim)))
		return &moltypes.MoleculeRecord{
			Text:           text,
			Source:         step.Name(),
			Dimensionality: dim,
		}, attempts, nil
	}

	return nil, attempts, errors.New(errors.ErrCodeStructureNotFound, "no structure found in any source").
		WithDetail(summarize(q, attempts))
}

func classifyFetchError(err error) string {
	switch {
	case errors.IsCode(err, errors.ErrCodeIdentifierInvalid):
		return OutcomeSkipped
	case errors.IsCode(err, errors.ErrCodeSourceNotFound):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}

func summarize(q sources.Query, attempts []moltypes.SourceAttempt) string {
	parts := make([]string, 0, len(attempts)+1)
	parts = append(parts, fmt.Sprintf("query{cid=%q cas=%q name=%q smiles=%q}", q.CID, q.CAS, q.Name, q.SMILES))
	for _, a := range attempts {
		parts = append(parts, a.Source+"="+a.Outcome)
	}
	return strings.Join(parts, " ")
}
