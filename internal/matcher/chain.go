package matcher

import (
	"strings"

	"github.com/turtacn/ChemNorm/pkg/errors"
)

// ChainCompiler parses the full chain-expression grammar:
//
//	C(=O)O[H]   branches in parentheses, bracket atoms
//	C1NCNC1     numeric ring-closure labels
//	*           wildcard atom
//	X           halogen class (F, Cl, Br, I, At)
//
// Bond glyphs (-, =, #, :) join atoms without constraining bond order, since
// molecule graphs carry connectivity only.
type ChainCompiler struct{}

func compileError(expr, msg string) error {
	return errors.New(errors.ErrCodePatternCompileFailed, msg).
		WithDetail("expression " + strings.TrimSpace(expr))
}

func (ChainCompiler) Compile(expr string) (*Pattern, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, compileError(expr, "empty pattern expression")
	}

	p := &Pattern{Expr: expr}
	prev := -1
	var branch []int
	rings := map[byte]int{}

	link := func(node int) {
		if prev >= 0 {
			p.addEdge(prev, node)
		}
		prev = node
	}

	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == '(':
			if prev < 0 {
				return nil, compileError(expr, "branch before any atom")
			}
			branch = append(branch, prev)
			i++
		case c == ')':
			if len(branch) == 0 {
				return nil, compileError(expr, "unbalanced closing parenthesis")
			}
			prev = branch[len(branch)-1]
			branch = branch[:len(branch)-1]
			i++
		case c == '-' || c == '=' || c == '#' || c == ':':
			i++
		case c >= '1' && c <= '9':
			if prev < 0 {
				return nil, compileError(expr, "ring label before any atom")
			}
			if open, ok := rings[c]; ok {
				if !p.addEdge(open, prev) {
					return nil, compileError(expr, "degenerate ring closure")
				}
				delete(rings, c)
			} else {
				rings[c] = prev
			}
			i++
		case c == '[':
			end := strings.IndexByte(expr[i:], ']')
			if end < 0 {
				return nil, compileError(expr, "unterminated bracket atom")
			}
			sym := expr[i+1 : i+end]
			if sym == "" {
				return nil, compileError(expr, "empty bracket atom")
			}
			link(p.addAtom(atomSpec{kind: kindElement, symbol: sym}))
			i += end + 1
		case c == '*':
			link(p.addAtom(atomSpec{kind: kindWildcard}))
			i++
		case c == 'X' && !followedByLower(expr, i):
			link(p.addAtom(atomSpec{kind: kindHalogen}))
			i++
		case c >= 'A' && c <= 'Z':
			sym := string(c)
			if followedByLower(expr, i) {
				sym += string(expr[i+1])
				i++
			}
			link(p.addAtom(atomSpec{kind: kindElement, symbol: sym}))
			i++
		default:
			return nil, compileError(expr, "unexpected character "+string(c))
		}
	}

	if len(branch) != 0 {
		return nil, compileError(expr, "unbalanced opening parenthesis")
	}
	if len(rings) != 0 {
		return nil, compileError(expr, "unclosed ring label")
	}
	if p.Size() == 0 {
		return nil, compileError(expr, "expression contains no atoms")
	}
	return p, nil
}

func followedByLower(expr string, i int) bool {
	return i+1 < len(expr) && expr[i+1] >= 'a' && expr[i+1] <= 'z'
}
