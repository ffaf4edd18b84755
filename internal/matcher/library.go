package matcher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/metrics"
	"github.com/turtacn/ChemNorm/pkg/errors"
)

// PatternSpec is one declared functional-group pattern.  Declaration order is
// significant: it breaks priority ties during annotation resolution.
type PatternSpec struct {
	ID              string `yaml:"id"`
	Name            string `yaml:"name"`
	Pattern         string `yaml:"pattern"`
	FallbackPattern string `yaml:"fallback_pattern,omitempty"`
	Priority        int    `yaml:"priority"`
	Description     string `yaml:"description,omitempty"`
}

type libraryFile struct {
	Patterns []PatternSpec `yaml:"patterns"`
}

// CompiledPattern pairs a declaration with its query graph.
type CompiledPattern struct {
	Spec    PatternSpec
	Pattern *Pattern
}

// Library is an ordered, compiled pattern set.  Its hash identifies the exact
// declarations, so cached detection results keyed on it are invalidated by
// any library change.
type Library struct {
	patterns []CompiledPattern
	hash     string
}

// Patterns returns the compiled patterns in declaration order.
func (l *Library) Patterns() []CompiledPattern { return l.patterns }

// Hash is a stable hex digest of the declarations.
func (l *Library) Hash() string { return l.hash }

// LibraryProvider yields the library currently in service.  A static provider
// wraps a fixed library; WatchingLibrary satisfies it with hot reload.
type LibraryProvider interface {
	Library() *Library
}

type staticProvider struct{ lib *Library }

func (p staticProvider) Library() *Library { return p.lib }

// StaticLibrary wraps a fixed library as a provider.
func StaticLibrary(lib *Library) LibraryProvider { return staticProvider{lib: lib} }

// Loader builds libraries from YAML declarations, compiling each pattern.
type Loader struct {
	compiler Compiler
	logger   logging.Logger
	metrics  *metrics.Metrics
}

func NewLoader(compiler Compiler, logger logging.Logger, m *metrics.Metrics) *Loader {
	if logger == nil {
		logger = logging.Default()
	}
	if m == nil {
		m = metrics.NewNop()
	}
	if compiler == nil {
		compiler = NewCompiler(logger)
	}
	return &Loader{compiler: compiler, logger: logger.Named("patterns"), metrics: m}
}

// FromSpecs compiles declarations into a Library.  Patterns that fail to
// compile are skipped with a warning; the library is bad only when it is
// empty, carries duplicate IDs, or nothing compiles.
func (l *Loader) FromSpecs(specs []PatternSpec) (*Library, error) {
	if len(specs) == 0 {
		return nil, errors.New(errors.ErrCodePatternLibraryBad, "pattern library is empty")
	}
	ids := map[string]struct{}{}
	lib := &Library{}
	for _, spec := range specs {
		if spec.ID == "" {
			return nil, errors.New(errors.ErrCodePatternLibraryBad, "pattern without id")
		}
		if _, dup := ids[spec.ID]; dup {
			return nil, errors.New(errors.ErrCodePatternLibraryBad, "duplicate pattern id").
				WithDetail(spec.ID)
		}
		ids[spec.ID] = struct{}{}

		compiled, err := l.compiler.Compile(spec.Pattern)
		if err != nil && spec.FallbackPattern != "" {
			l.logger.Debug("trying declared fallback pattern",
				logging.String("id", spec.ID), logging.Err(err))
			compiled, err = l.compiler.Compile(spec.FallbackPattern)
		}
		if err != nil {
			l.metrics.PatternCompileFailures.Inc()
			l.logger.Warn("skipping uncompilable pattern",
				logging.String("id", spec.ID),
				logging.String("pattern", spec.Pattern),
				logging.Err(err))
			continue
		}
		lib.patterns = append(lib.patterns, CompiledPattern{Spec: spec, Pattern: compiled})
	}
	if len(lib.patterns) == 0 {
		return nil, errors.New(errors.ErrCodePatternLibraryBad, "no pattern compiled")
	}
	lib.hash = hashSpecs(specs)
	return lib, nil
}

// Load reads a YAML library file.
func (l *Loader) Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePatternLibraryBad, "read pattern library").
			WithDetail(path)
	}
	return l.fromYAML(data, path)
}

// Default builds the built-in library shipped with the binary.
func (l *Loader) Default() (*Library, error) {
	return l.fromYAML(defaultPatternsYAML, "embedded")
}

func (l *Loader) fromYAML(data []byte, origin string) (*Library, error) {
	var file libraryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodePatternLibraryBad, "parse pattern library").
			WithDetail(origin)
	}
	lib, err := l.FromSpecs(file.Patterns)
	if err != nil {
		return nil, err
	}
	l.logger.Info("pattern library loaded",
		logging.String("origin", origin),
		logging.Int("patterns", len(lib.patterns)),
		logging.String("hash", lib.hash[:12]))
	return lib, nil
}

func hashSpecs(specs []PatternSpec) string {
	h := sha256.New()
	for _, s := range specs {
		fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x00%d\n", s.ID, s.Name, s.Pattern, s.FallbackPattern, s.Priority)
	}
	return hex.EncodeToString(h.Sum(nil))
}
