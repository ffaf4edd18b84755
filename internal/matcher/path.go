package matcher

// PathCompiler is the tolerant fallback: it extracts the element symbols from
// an expression, ignoring every other character, and compiles them into a
// linear chain.  This salvages expressions carrying syntax outside the chain
// grammar (stereo or charge markers, for instance) at the cost of branch and
// ring information.
type PathCompiler struct{}

func (PathCompiler) Compile(expr string) (*Pattern, error) {
	p := &Pattern{Expr: expr}
	prev := -1
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if c < 'A' || c > 'Z' {
			continue
		}
		sym := string(c)
		if followedByLower(expr, i) {
			sym += string(expr[i+1])
			i++
		}
		node := p.addAtom(atomSpec{kind: kindElement, symbol: sym})
		if prev >= 0 {
			p.addEdge(prev, node)
		}
		prev = node
	}
	if p.Size() == 0 {
		return nil, compileError(expr, "no element symbols in expression")
	}
	return p, nil
}
