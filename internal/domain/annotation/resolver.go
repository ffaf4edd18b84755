// Package annotation resolves overlapping functional-group candidates into a
// pairwise-disjoint annotation by priority.
package annotation

import (
	"sort"

	moltypes "github.com/turtacn/ChemNorm/pkg/types/molecule"
)

// Candidate is a detected functional group together with the priority it
// claims atoms with.
type Candidate struct {
	Group    moltypes.FunctionalGroup
	Priority int
}

// Resolve turns candidates into a disjoint annotation.  Candidates are
// considered in descending priority, ties broken by input order; each one
// claims its atoms wholesale or, when any atom is already claimed, is
// discarded wholesale.  The returned AtomGroups maps every claimed atom to
// the ID of the group holding it.
func Resolve(candidates []Candidate) *moltypes.GroupDetectionResult {
	ordered := append([]Candidate(nil), candidates...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	result := &moltypes.GroupDetectionResult{AtomGroups: map[int]string{}}
	for _, c := range ordered {
		if len(c.Group.Atoms) == 0 {
			continue
		}
		conflict := false
		for _, a := range c.Group.Atoms {
			if _, taken := result.AtomGroups[a]; taken {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}
		for _, a := range c.Group.Atoms {
			result.AtomGroups[a] = c.Group.ID
		}
		result.Groups = append(result.Groups, c.Group)
	}
	return result
}
