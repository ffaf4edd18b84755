package matcher

import (
	"github.com/turtacn/ChemNorm/internal/infrastructure/monitoring/logging"
)

// Compiler turns a pattern expression into a query graph.
type Compiler interface {
	Compile(expr string) (*Pattern, error)
}

// fallbackCompiler tries a primary compiler and, when it fails, salvages the
// expression with a more tolerant one.
type fallbackCompiler struct {
	primary  Compiler
	fallback Compiler
	logger   logging.Logger
}

// NewCompiler returns the standard compiler stack: the full chain-expression
// compiler with a bare element-path compiler as fallback for expressions
// using syntax the chain grammar does not cover.
func NewCompiler(logger logging.Logger) Compiler {
	if logger == nil {
		logger = logging.Default()
	}
	return &fallbackCompiler{
		primary:  ChainCompiler{},
		fallback: PathCompiler{},
		logger:   logger.Named("matcher"),
	}
}

func (c *fallbackCompiler) Compile(expr string) (*Pattern, error) {
	p, err := c.primary.Compile(expr)
	if err == nil {
		return p, nil
	}
	c.logger.Debug("chain compile failed, trying element path",
		logging.String("expr", expr), logging.Err(err))
	fp, ferr := c.fallback.Compile(expr)
	if ferr != nil {
		return nil, err // the primary error names the real defect
	}
	return fp, nil
}
