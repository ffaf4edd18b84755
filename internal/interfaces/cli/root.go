// Package cli defines the chemnorm command tree: resolve, convert, annotate,
// and version, sharing one engine assembly and global flags.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	appannot "github.com/turtacn/ChemNorm/internal/application/annotation"
	"github.com/turtacn/ChemNorm/internal/config"
	"github.com/turtacn/ChemNorm/internal/conformer"
	"github.com/turtacn/ChemNorm/internal/convert"
	"github.com/turtacn/ChemNorm/internal/infrastructure/cache"
	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/metrics"
	"github.com/turtacn/ChemNorm/internal/infrastructure/sources"
	"github.com/turtacn/ChemNorm/internal/matcher"
)

// Build-time variables injected via ldflags.
var (
	Version   = config.Version
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
}

// NewRootCommand creates the root command with global flags and subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "chemnorm",
		Short:   "ChemNorm normalizes molecular structures and annotates functional groups",
		Long:    "ChemNorm resolves compound identifiers through public structure providers,\nconverts molfile/SDF records to PDB, and annotates molecules with a\npriority-resolved functional-group assignment.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")

	cmd.AddCommand(
		NewResolveCmd(opts),
		NewConvertCmd(opts),
		NewAnnotateCmd(opts),
		NewVersionCmd(),
	)
	return cmd
}

// engine is the assembled pipeline shared by the subcommands.
type engine struct {
	cfg       *config.Config
	logger    logging.Logger
	resolver  *conformer.Resolver
	converter *convert.Converter
	service   *appannot.Service
	closers   []func()
}

func (e *engine) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

func buildEngine(opts *RootOptions) (*engine, error) {
	var cfg *config.Config
	var err error
	if opts.ConfigPath == "" {
		cfg, err = config.LoadFromEnv()
	} else {
		cfg, err = config.Load(opts.ConfigPath)
	}
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	logging.SetDefault(logger)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(prometheus.DefaultRegisterer)
	} else {
		m = metrics.NewNop()
	}

	e := &engine{cfg: cfg, logger: logger}

	fetcher := sources.NewFetcher(cfg.Sources, logger)
	e.closers = append(e.closers, fetcher.Close)

	pubchem := sources.NewPubChemClient(cfg.Sources.PubChemBaseURL, fetcher)
	registry := sources.NewCommonChemClient(cfg.Sources.CommonChemBaseURL, fetcher)
	cactus := sources.NewCactusClient(cfg.Sources.CactusBaseURL, fetcher)

	e.resolver = conformer.NewResolver(pubchem, registry, cactus, logger, m)
	e.converter = convert.New(logger, m)

	provider, err := buildLibraryProvider(cfg.Patterns, logger, m, &e.closers)
	if err != nil {
		return nil, err
	}

	store, err := cache.New(cfg.Cache, logger, m)
	if err != nil {
		return nil, err
	}

	e.service = appannot.NewService(
		e.resolver, e.converter, matcher.NewDetector(logger, m), provider, store, logger, m)
	return e, nil
}

func buildLibraryProvider(cfg config.PatternsConfig, logger logging.Logger, m *metrics.Metrics, closers *[]func()) (matcher.LibraryProvider, error) {
	loader := matcher.NewLoader(matcher.NewCompiler(logger), logger, m)
	if cfg.Path == "" {
		lib, err := loader.Default()
		if err != nil {
			return nil, err
		}
		return matcher.StaticLibrary(lib), nil
	}
	if cfg.Watch {
		watching, err := matcher.NewWatchingLibrary(loader, cfg.Path, logger)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, func() { watching.Close() })
		return watching, nil
	}
	lib, err := loader.Load(cfg.Path)
	if err != nil {
		return nil, err
	}
	return matcher.StaticLibrary(lib), nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// readInput returns the contents of path, or stdin when path is "-" or empty.
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
