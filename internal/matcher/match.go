package matcher

import (
	"fmt"
	"sort"

	"github.com/turtacn/ChemNorm/internal/domain/molecule"
)

// Match is one embedding of a pattern into a molecule, reported as the sorted
// set of 1-based atom indices it covers.  Embeddings covering the same atom
// set (ring automorphisms, reversed paths) collapse into one Match.
type Match struct {
	Atoms []int
}

// FindMatches enumerates every injective embedding of p into g and returns
// the distinct atom sets covered.
func FindMatches(p *Pattern, g *molecule.Graph) []Match {
	if p == nil || p.Size() == 0 || g == nil || g.Adj == nil || g.Adj.AtomCount() == 0 {
		return nil
	}

	order, anchor := searchOrder(p)
	n := g.Adj.AtomCount()

	mapping := make([]int, p.Size())
	mapped := make([]bool, p.Size())
	used := make([]bool, n+1)
	seen := map[string]struct{}{}
	var out []Match

	var place func(step int)
	place = func(step int) {
		if step == len(order) {
			atoms := append([]int(nil), mapping...)
			sort.Ints(atoms)
			key := fmt.Sprint(atoms)
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				out = append(out, Match{Atoms: atoms})
			}
			return
		}

		node := order[step]
		var candidates []int
		if anchor[node] < 0 {
			for a := 1; a <= n; a++ {
				candidates = append(candidates, a)
			}
		} else {
			candidates = g.Adj.Neighbors(mapping[anchor[node]])
		}

		for _, a := range candidates {
			if used[a] || !p.specs[node].matches(g.Element(a)) {
				continue
			}
			if !edgesConsistent(p, g, node, a, mapping, mapped) {
				continue
			}
			mapping[node] = a
			mapped[node] = true
			used[a] = true
			place(step + 1)
			used[a] = false
			mapped[node] = false
		}
	}
	place(0)
	return out
}

// CandidateAtoms returns the union of atoms across all embeddings of p in g,
// sorted ascending.  Empty when the pattern does not occur.
func CandidateAtoms(p *Pattern, g *molecule.Graph) []int {
	union := map[int]struct{}{}
	for _, m := range FindMatches(p, g) {
		for _, a := range m.Atoms {
			union[a] = struct{}{}
		}
	}
	if len(union) == 0 {
		return nil
	}
	atoms := make([]int, 0, len(union))
	for a := range union {
		atoms = append(atoms, a)
	}
	sort.Ints(atoms)
	return atoms
}

// searchOrder yields a DFS ordering of the pattern graph plus, per node, the
// earlier neighbor to expand from (-1 for the root).  Chain expressions
// always compile to connected graphs, so a single DFS covers every node.
func searchOrder(p *Pattern) (order []int, anchor []int) {
	anchor = make([]int, p.Size())
	visited := make([]bool, p.Size())
	var walk func(node, from int)
	walk = func(node, from int) {
		visited[node] = true
		anchor[node] = from
		order = append(order, node)
		for _, nb := range p.adj[node] {
			if !visited[nb] {
				walk(nb, node)
			}
		}
	}
	walk(0, -1)
	return order, anchor
}

// edgesConsistent verifies that placing pattern node at molecule atom a keeps
// every pattern edge to an already-placed node realized by a molecule bond.
func edgesConsistent(p *Pattern, g *molecule.Graph, node, a int, mapping []int, mapped []bool) bool {
	for _, nb := range p.adj[node] {
		if mapped[nb] && !g.Adj.HasBond(a, mapping[nb]) {
			return false
		}
	}
	return true
}
