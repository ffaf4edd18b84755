// Package molecule defines the cross-layer data transfer types produced by
// the ChemNorm normalization and annotation pipeline.  These types carry no
// behaviour beyond trivial accessors; the domain packages own all logic.
package molecule

// Dimensionality classifies a structure record as flat or spatial.
type Dimensionality string

const (
	Dim2D Dimensionality = "2d"
	Dim3D Dimensionality = "3d"
)

// Is3D reports whether the record carries usable spatial coordinates.
func (d Dimensionality) Is3D() bool { return d == Dim3D }

// MoleculeRecord is the raw structure text obtained from a source, together
// with its provenance and computed dimensionality.  It is transient per
// request; only the derived GroupDetectionResult is cached.
type MoleculeRecord struct {
	// Text is the raw molfile/SDF text exactly as returned by the source.
	Text string `json:"text"`

	// Source names the provider that produced the text, e.g. "pubchem_3d".
	Source string `json:"source"`

	// Dimensionality is the computed 2D/3D flag.  The Z-coordinate heuristic
	// is authoritative; header claims are only a shortcut.
	Dimensionality Dimensionality `json:"dimensionality"`
}

// SourceAttempt records the outcome of one cascade step for diagnostics.
type SourceAttempt struct {
	Source  string `json:"source"`
	Outcome string `json:"outcome"` // "ok", "not_3d", or an error summary
}

// ConversionStats summarises one molfile → PDB conversion.
type ConversionStats struct {
	AtomsParsed    int `json:"atoms_parsed"`
	BondsProcessed int `json:"bonds_processed"`
	BondsDropped   int `json:"bonds_dropped"`
	ConectLines    int `json:"conect_lines"`
}

// FunctionalGroup is one detected functional group: the set of molecule atom
// indices (1-based, source order) claimed by a pattern-library entry.
type FunctionalGroup struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Atoms       []int  `json:"atoms"`
	Description string `json:"description,omitempty"`
	Pattern     string `json:"pattern,omitempty"`
}

// GroupDetectionResult is the final, conflict-resolved annotation of one
// molecule: a pairwise atom-disjoint group list plus the atom → group-id
// reverse index.  This is the unit stored in the detection cache.
type GroupDetectionResult struct {
	Groups     []FunctionalGroup `json:"groups"`
	AtomGroups map[int]string    `json:"atom_groups"`
}

// Diagnostics carries per-request observability data returned to the caller.
type Diagnostics struct {
	RequestID  string          `json:"request_id"`
	Conversion ConversionStats `json:"conversion"`
	CacheHit   bool            `json:"cache_hit"`
	Attempts   []SourceAttempt `json:"attempts,omitempty"`
}

// AnnotationResult is the full pipeline output for one compound.
type AnnotationResult struct {
	PDBText        string            `json:"pdb_text"`
	SDFText        string            `json:"sdf_text"`
	Source         string            `json:"source,omitempty"`
	Dimensionality Dimensionality    `json:"dimensionality,omitempty"`
	Groups         []FunctionalGroup `json:"groups"`
	Diagnostics    Diagnostics       `json:"diagnostics"`
}
