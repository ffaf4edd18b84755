package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	moltypes "github.com/turtacn/ChemNorm/pkg/types/molecule"
)

func candidate(id string, priority int, atoms ...int) Candidate {
	return Candidate{
		Group:    moltypes.FunctionalGroup{ID: id, Name: id, Atoms: atoms},
		Priority: priority,
	}
}

func groupIDs(r *moltypes.GroupDetectionResult) []string {
	ids := make([]string, 0, len(r.Groups))
	for _, g := range r.Groups {
		ids = append(ids, g.ID)
	}
	return ids
}

func TestResolve_HigherPriorityWinsOverlap(t *testing.T) {
	for name, input := range map[string][]Candidate{
		"high first": {candidate("imide", 75, 1, 2, 3), candidate("carbonyl", 30, 2)},
		"high last":  {candidate("carbonyl", 30, 2), candidate("imide", 75, 1, 2, 3)},
	} {
		t.Run(name, func(t *testing.T) {
			r := Resolve(input)
			assert.Equal(t, []string{"imide"}, groupIDs(r))
			assert.Equal(t, "imide", r.AtomGroups[2])
		})
	}
}

func TestResolve_DisjointCandidatesAllKept(t *testing.T) {
	r := Resolve([]Candidate{
		candidate("hydroxyl", 40, 3, 9),
		candidate("amide", 65, 1, 2),
	})
	require.Len(t, r.Groups, 2)
	// Output order follows resolution order: amide outranks hydroxyl.
	assert.Equal(t, []string{"amide", "hydroxyl"}, groupIDs(r))
	for atom, want := range map[int]string{1: "amide", 2: "amide", 3: "hydroxyl", 9: "hydroxyl"} {
		assert.Equal(t, want, r.AtomGroups[atom])
	}
}

func TestResolve_WholesaleDiscard(t *testing.T) {
	// A single shared atom discards the entire lower candidate, including
	// atoms nothing else claims.
	r := Resolve([]Candidate{
		candidate("ester", 70, 1, 2, 3),
		candidate("ether", 25, 3, 4, 5),
	})
	assert.Equal(t, []string{"ester"}, groupIDs(r))
	_, claimed := r.AtomGroups[4]
	assert.False(t, claimed)
	_, claimed = r.AtomGroups[5]
	assert.False(t, claimed)
}

func TestResolve_TieBrokenByInputOrder(t *testing.T) {
	r := Resolve([]Candidate{
		candidate("nitrile", 60, 1, 2),
		candidate("nitro", 60, 2, 3, 4),
	})
	assert.Equal(t, []string{"nitrile"}, groupIDs(r))
}

func TestResolve_EmptyCandidateSkipped(t *testing.T) {
	r := Resolve([]Candidate{candidate("hollow", 99)})
	assert.Empty(t, r.Groups)
	assert.Empty(t, r.AtomGroups)
}

func TestResolve_NoCandidates(t *testing.T) {
	r := Resolve(nil)
	require.NotNil(t, r)
	assert.Empty(t, r.Groups)
	assert.NotNil(t, r.AtomGroups)
}
