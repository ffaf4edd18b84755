// Package sources contains the external structure-provider clients used by
// the conformer cascade: PubChem, the CAS Common Chemistry registry, and the
// NCI Cactus resolver.  Every client maps transport and status failures onto
// SRC-class errors so the cascade can classify and move on.
package sources

import "context"

// Query carries every identifier a caller may know for a compound.  Sources
// use the fields relevant to them and ignore the rest.
type Query struct {
	CID    string
	CAS    string
	Name   string
	SMILES string
}

// StructureSource is one step of the conformer cascade: a named provider
// returning raw SDF/molfile text for a query.
type StructureSource interface {
	Name() string
	Fetch(ctx context.Context, q Query) (string, error)
}
