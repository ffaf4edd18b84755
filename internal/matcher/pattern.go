// Package matcher compiles functional-group pattern expressions into query
// graphs and finds their embeddings in molecule connectivity graphs.  Matching
// is connectivity-only: bond glyphs in expressions constrain which atoms are
// joined, never the bond order.
package matcher

import "strings"

type atomKind int

const (
	kindElement atomKind = iota
	kindWildcard
	kindHalogen
)

var halogens = map[string]struct{}{
	"F": {}, "CL": {}, "BR": {}, "I": {}, "AT": {},
}

// atomSpec is one node of a compiled query graph.
type atomSpec struct {
	kind   atomKind
	symbol string
}

func (s atomSpec) matches(element string) bool {
	switch s.kind {
	case kindWildcard:
		return true
	case kindHalogen:
		_, ok := halogens[strings.ToUpper(element)]
		return ok
	default:
		return strings.EqualFold(s.symbol, element)
	}
}

// Pattern is a compiled pattern expression: a small connected query graph
// whose nodes carry element constraints.
type Pattern struct {
	Expr  string
	specs []atomSpec
	adj   [][]int
}

// Size reports the number of query atoms.
func (p *Pattern) Size() int { return len(p.specs) }

func (p *Pattern) addAtom(s atomSpec) int {
	p.specs = append(p.specs, s)
	p.adj = append(p.adj, nil)
	return len(p.specs) - 1
}

func (p *Pattern) addEdge(a, b int) bool {
	if a == b {
		return false
	}
	for _, n := range p.adj[a] {
		if n == b {
			return false
		}
	}
	p.adj[a] = append(p.adj[a], b)
	p.adj[b] = append(p.adj[b], a)
	return true
}
