package matcher

import _ "embed"

// defaultPatternsYAML is the built-in functional-group library used when no
// library path is configured.
//
//go:embed patterns.yaml
var defaultPatternsYAML []byte
