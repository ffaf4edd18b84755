package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemNorm/internal/domain/molecule"
)

func buildGraph(t *testing.T, elems []string, bonds [][2]int) *molecule.Graph {
	t.Helper()
	adj := molecule.NewAdjacency(len(elems))
	atoms := make([]molecule.AtomRecord, len(elems))
	for i, e := range elems {
		atoms[i] = molecule.AtomRecord{Index: i + 1, Element: e}
	}
	for _, b := range bonds {
		require.True(t, adj.AddBond(b[0], b[1]), "bond %v", b)
	}
	return &molecule.Graph{Atoms: atoms, Adj: adj}
}

// ethanol with explicit hydroxyl hydrogen: C-C-O-H
func ethanolGraph(t *testing.T) *molecule.Graph {
	return buildGraph(t,
		[]string{"C", "C", "O", "H"},
		[][2]int{{1, 2}, {2, 3}, {3, 4}})
}

// caffeine heavy-atom skeleton: fused six-ring (N1 C2 N3 C4 C5 C6) and
// five-ring (C4 C5 N7 C8 N9), two carbonyl oxygens, three methyl carbons.
func caffeineGraph(t *testing.T) *molecule.Graph {
	return buildGraph(t,
		[]string{"N", "C", "N", "C", "C", "C", "N", "C", "N", "O", "O", "C", "C", "C"},
		[][2]int{
			{1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 6}, {6, 1},
			{5, 7}, {7, 8}, {8, 9}, {9, 4},
			{2, 10}, {6, 11},
			{1, 12}, {3, 13}, {7, 14},
		})
}

func mustCompile(t *testing.T, expr string) *Pattern {
	t.Helper()
	p, err := ChainCompiler{}.Compile(expr)
	require.NoError(t, err)
	return p
}

func TestFindMatches_Hydroxyl(t *testing.T) {
	matches := FindMatches(mustCompile(t, "O[H]"), ethanolGraph(t))
	require.Len(t, matches, 1)
	assert.Equal(t, []int{3, 4}, matches[0].Atoms)
}

func TestFindMatches_ConnectivityIgnoresBondOrder(t *testing.T) {
	// The single C-O bond in ethanol satisfies a carbonyl expression because
	// matching sees connectivity only.
	matches := FindMatches(mustCompile(t, "C=O"), ethanolGraph(t))
	require.Len(t, matches, 1)
	assert.Equal(t, []int{2, 3}, matches[0].Atoms)
}

func TestFindMatches_DistinctSitesReported(t *testing.T) {
	// ethylene glycol with explicit hydroxyl hydrogens
	g := buildGraph(t,
		[]string{"C", "C", "O", "O", "H", "H"},
		[][2]int{{1, 2}, {1, 3}, {2, 4}, {3, 5}, {4, 6}})
	matches := FindMatches(mustCompile(t, "O[H]"), g)
	require.Len(t, matches, 2)
	assert.Equal(t, []int{3, 4, 5, 6}, CandidateAtoms(mustCompile(t, "O[H]"), g))
}

func TestFindMatches_RingAutomorphismsCollapse(t *testing.T) {
	g := buildGraph(t,
		[]string{"C", "C", "C", "C", "C", "C"},
		[][2]int{{1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 6}, {6, 1}})
	matches := FindMatches(mustCompile(t, "C1CCCCC1"), g)
	require.Len(t, matches, 1)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, matches[0].Atoms)
}

func TestFindMatches_Wildcard(t *testing.T) {
	g := buildGraph(t, []string{"C", "O", "N"}, [][2]int{{1, 2}, {2, 3}})
	matches := FindMatches(mustCompile(t, "*O*"), g)
	require.Len(t, matches, 1)
	assert.Equal(t, []int{1, 2, 3}, matches[0].Atoms)
}

func TestFindMatches_HalogenClass(t *testing.T) {
	g := buildGraph(t, []string{"C", "Cl"}, [][2]int{{1, 2}})
	assert.Equal(t, []int{2}, CandidateAtoms(mustCompile(t, "X"), g))
	assert.Empty(t, CandidateAtoms(mustCompile(t, "X"), ethanolGraph(t)))
}

func TestFindMatches_InjectiveMapping(t *testing.T) {
	// A two-carbon pattern cannot fold onto a single atom.
	g := buildGraph(t, []string{"C"}, nil)
	assert.Empty(t, FindMatches(mustCompile(t, "CC"), g))
}

func TestFindMatches_NoOccurrence(t *testing.T) {
	assert.Empty(t, FindMatches(mustCompile(t, "S[H]"), ethanolGraph(t)))
	assert.Nil(t, CandidateAtoms(mustCompile(t, "S[H]"), ethanolGraph(t)))
}

func TestFindMatches_CaffeinePurineCore(t *testing.T) {
	atoms := CandidateAtoms(mustCompile(t, "C1NCNC1"), caffeineGraph(t))
	assert.Equal(t, []int{4, 5, 7, 8, 9}, atoms)
}

func TestFindMatches_CaffeineImide(t *testing.T) {
	atoms := CandidateAtoms(mustCompile(t, "C(=O)NC=O"), caffeineGraph(t))
	assert.Equal(t, []int{1, 2, 6, 10, 11}, atoms)
}

func TestFindMatches_CaffeineNoBenzene(t *testing.T) {
	// The six-ring contains nitrogens, so an all-carbon ring cannot embed.
	assert.Empty(t, CandidateAtoms(mustCompile(t, "C1CCCCC1"), caffeineGraph(t)))
}

func TestFindMatches_EmptyGraph(t *testing.T) {
	g := &molecule.Graph{Adj: molecule.NewAdjacency(0)}
	assert.Empty(t, FindMatches(mustCompile(t, "C"), g))
}
