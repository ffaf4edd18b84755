// Package annotation is the application-layer entry point of the engine: it
// wires the conformer cascade, format converter, pattern matcher, priority
// resolution, and detection cache into the two public operations.
package annotation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/ChemNorm/internal/conformer"
	"github.com/turtacn/ChemNorm/internal/convert"
	domannot "github.com/turtacn/ChemNorm/internal/domain/annotation"
	"github.com/turtacn/ChemNorm/internal/domain/molecule"
	"github.com/turtacn/ChemNorm/internal/infrastructure/cache"
	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/metrics"
	"github.com/turtacn/ChemNorm/internal/infrastructure/sources"
	"github.com/turtacn/ChemNorm/internal/matcher"
	"github.com/turtacn/ChemNorm/pkg/errors"
	moltypes "github.com/turtacn/ChemNorm/pkg/types/molecule"
)

// Request carries the identifiers a caller knows for a compound.  At least
// one field must be set.
type Request struct {
	CID    string
	CAS    string
	Name   string
	SMILES string
}

func (r Request) empty() bool {
	return r.CID == "" && r.CAS == "" && r.Name == "" && r.SMILES == ""
}

// Service is the annotation pipeline.  Safe for concurrent use.
type Service struct {
	resolver  *conformer.Resolver
	converter *convert.Converter
	detector  *matcher.Detector
	provider  matcher.LibraryProvider
	cache     cache.DetectionCache
	flight    singleflight.Group
	logger    logging.Logger
	metrics   *metrics.Metrics
}

func NewService(
	resolver *conformer.Resolver,
	converter *convert.Converter,
	detector *matcher.Detector,
	provider matcher.LibraryProvider,
	detectionCache cache.DetectionCache,
	logger logging.Logger,
	m *metrics.Metrics,
) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if m == nil {
		m = metrics.NewNop()
	}
	return &Service{
		resolver:  resolver,
		converter: converter,
		detector:  detector,
		provider:  provider,
		cache:     detectionCache,
		logger:    logger.Named("annotation"),
		metrics:   m,
	}
}

// AnnotateIdentifier resolves the compound through the source cascade and
// annotates the resulting structure.
func (s *Service) AnnotateIdentifier(ctx context.Context, req Request) (*moltypes.AnnotationResult, error) {
	if req.empty() {
		return nil, errors.New(errors.ErrCodeIdentifierInvalid, "request carries no identifier")
	}
	requestID := uuid.NewString()
	log := s.logger.With(logging.String("request_id", requestID))

	rec, attempts, err := s.resolver.Resolve(ctx, sources.Query{
		CID:    req.CID,
		CAS:    req.CAS,
		Name:   req.Name,
		SMILES: req.SMILES,
	})
	if err != nil {
		return nil, err
	}

	result, err := s.annotate(ctx, requestID, rec.Text, log)
	if err != nil {
		return nil, err
	}
	result.Source = rec.Source
	result.Dimensionality = rec.Dimensionality
	result.Diagnostics.Attempts = attempts
	return result, nil
}

// AnnotateStructure annotates caller-supplied molfile/SDF text directly,
// bypassing the cascade.
func (s *Service) AnnotateStructure(ctx context.Context, sdfText string) (*moltypes.AnnotationResult, error) {
	requestID := uuid.NewString()
	log := s.logger.With(logging.String("request_id", requestID))

	result, err := s.annotate(ctx, requestID, sdfText, log)
	if err != nil {
		return nil, err
	}
	result.Dimensionality = molecule.DetectDimensionality(sdfText)
	return result, nil
}

func (s *Service) annotate(ctx context.Context, requestID, text string, log logging.Logger) (*moltypes.AnnotationResult, error) {
	conv, err := s.converter.Convert(text)
	if err != nil {
		return nil, err
	}

	lib := s.provider.Library()
	key := detectionKey(lib.Hash(), text)

	detection, hit := s.cache.Get(ctx, key)
	if !hit {
		value, err, _ := s.flight.Do(key, func() (interface{}, error) {
			candidates := s.detector.Detect(conv.Graph, lib)
			resolved := domannot.Resolve(candidates)
			s.cache.Set(ctx, key, resolved)
			return resolved, nil
		})
		if err != nil {
			return nil, err
		}
		detection = value.(*moltypes.GroupDetectionResult)
	}

	log.Info("annotation complete",
		logging.Int("atoms", conv.Stats.AtomsParsed),
		logging.Int("groups", len(detection.Groups)),
		logging.Bool("cache_hit", hit))

	return &moltypes.AnnotationResult{
		PDBText: conv.PDB,
		SDFText: text,
		Groups:  detection.Groups,
		Diagnostics: moltypes.Diagnostics{
			RequestID:  requestID,
			Conversion: conv.Stats,
			CacheHit:   hit,
		},
	}, nil
}

// detectionKey derives the cache key from the library hash and the
// normalized structure text, so a library change or any textual difference
// addresses a different entry.
func detectionKey(libraryHash, text string) string {
	h := sha256.New()
	h.Write([]byte(libraryHash))
	h.Write([]byte{0})
	h.Write([]byte(convert.NormalizeText(text)))
	return hex.EncodeToString(h.Sum(nil))
}
