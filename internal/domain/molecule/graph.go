// Package molecule provides the in-memory molecule graph model consumed by
// the format converter and the substructure matcher: atom records in source
// order and an undirected, deduplicated adjacency set.
package molecule

import "sort"

// AtomRecord is one atom parsed from a molfile atom block.  Index is 1-based
// and matches source order; downstream PDB serials and functional-group atom
// sets reference this index.
type AtomRecord struct {
	Index   int     `json:"index"`
	Element string  `json:"element"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
}

// Adjacency is an undirected set of atom-index pairs.  Self-loops, duplicate
// pairs, and out-of-range indices are rejected at insertion so every stored
// bond references two distinct, in-range atoms.
type Adjacency struct {
	n    int
	nbrs []map[int]struct{} // index 0 unused; 1-based
}

// NewAdjacency creates an empty adjacency set over n atoms.
func NewAdjacency(n int) *Adjacency {
	if n < 0 {
		n = 0
	}
	return &Adjacency{n: n, nbrs: make([]map[int]struct{}, n+1)}
}

// AtomCount returns the number of atoms the set was built over.
func (a *Adjacency) AtomCount() int { return a.n }

// AddBond inserts the undirected pair (i, j).  It reports whether the pair
// was accepted: false for self-loops, out-of-range indices, or duplicates.
func (a *Adjacency) AddBond(i, j int) bool {
	if i == j || i < 1 || j < 1 || i > a.n || j > a.n {
		return false
	}
	if a.nbrs[i] == nil {
		a.nbrs[i] = make(map[int]struct{})
	}
	if _, dup := a.nbrs[i][j]; dup {
		return false
	}
	if a.nbrs[j] == nil {
		a.nbrs[j] = make(map[int]struct{})
	}
	a.nbrs[i][j] = struct{}{}
	a.nbrs[j][i] = struct{}{}
	return true
}

// HasBond reports whether atoms i and j are bonded.
func (a *Adjacency) HasBond(i, j int) bool {
	if i < 1 || i > a.n || a.nbrs[i] == nil {
		return false
	}
	_, ok := a.nbrs[i][j]
	return ok
}

// Neighbors returns the bonded neighbors of atom i in ascending order.
func (a *Adjacency) Neighbors(i int) []int {
	if i < 1 || i > a.n || len(a.nbrs[i]) == 0 {
		return nil
	}
	out := make([]int, 0, len(a.nbrs[i]))
	for j := range a.nbrs[i] {
		out = append(out, j)
	}
	sort.Ints(out)
	return out
}

// Degree returns the number of bonds incident to atom i.
func (a *Adjacency) Degree(i int) int {
	if i < 1 || i > a.n {
		return 0
	}
	return len(a.nbrs[i])
}

// BondCount returns the number of distinct undirected bonds.
func (a *Adjacency) BondCount() int {
	total := 0
	for i := 1; i <= a.n; i++ {
		total += len(a.nbrs[i])
	}
	return total / 2
}

// Graph bundles the parsed atom list with its adjacency for pattern matching.
type Graph struct {
	Atoms []AtomRecord
	Adj   *Adjacency
}

// Element returns the element symbol of atom i, or "" when out of range.
func (g *Graph) Element(i int) string {
	if i < 1 || i > len(g.Atoms) {
		return ""
	}
	return g.Atoms[i-1].Element
}
