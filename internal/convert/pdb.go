package convert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/turtacn/ChemNorm/internal/domain/molecule"
)

const (
	pdbResName  = "MOL"
	pdbChainID  = "A"
	pdbResSeq   = 1
	conectChunk = 4
)

// writePDB renders atoms and bonds as fixed-column ATOM and CONECT records
// terminated by END.  Output is a pure function of its inputs; identical
// graphs always produce byte-identical text.
func writePDB(atoms []molecule.AtomRecord, adj *molecule.Adjacency) (string, int) {
	var b strings.Builder

	for _, a := range atoms {
		b.WriteString(formatAtomRecord(a))
		b.WriteByte('\n')
	}

	conectLines := 0
	for _, a := range atoms {
		nbrs := adj.Neighbors(a.Index)
		for off := 0; off < len(nbrs); off += conectChunk {
			end := off + conectChunk
			if end > len(nbrs) {
				end = len(nbrs)
			}
			b.WriteString(fmt.Sprintf("CONECT%5d", a.Index))
			for _, n := range nbrs[off:end] {
				b.WriteString(fmt.Sprintf("%5d", n))
			}
			b.WriteByte('\n')
			conectLines++
		}
	}

	b.WriteString("END\n")
	return b.String(), conectLines
}

// formatAtomRecord emits one ATOM line.  The atom name is the element symbol
// concatenated with the serial, truncated to the 4-character name field; the
// element column is the upper-cased symbol right-justified in 2 characters.
func formatAtomRecord(a molecule.AtomRecord) string {
	elem := strings.ToUpper(a.Element)
	if len(elem) > 2 {
		elem = elem[:2]
	}
	name := elem + strconv.Itoa(a.Index)
	if len(name) > 4 {
		name = name[:4]
	}
	return fmt.Sprintf("ATOM  %5d %-4s %-3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s",
		a.Index, name, pdbResName, pdbChainID, pdbResSeq,
		a.X, a.Y, a.Z, 1.00, 0.00, elem)
}
