package kernel

import (
	"sort"

	"github.com/san-kum/hyperstellar/internal/equation"
)

// Bind validates a parsed equation against the engine schema and the live
// index set, producing a program ready for submission. liveCount is the
// number of particles in the store at bind time; every p[i] must satisfy
// 0 <= i < liveCount.
func Bind(ast *equation.Channels, liveCount int) (*Program, error) {
	refSet := make(map[int]struct{})

	var bindErr error
	for _, tree := range ast.Trees {
		equation.Walk(tree, func(n equation.Node) {
			if bindErr != nil {
				return
			}
			switch t := n.(type) {
			case *equation.Scalar:
				if !scalarResolvable(t.Name) {
					bindErr = bindErrorf(t.Name, t.Offset, "unknown symbol")
				}
			case *equation.Ref:
				if _, ok := fieldByName[t.Field]; !ok {
					bindErr = bindErrorf(t.Field, t.Offset, "unknown object field")
					return
				}
				if t.Index < 0 || t.Index >= liveCount {
					bindErr = bindErrorf("", t.Offset, "object index %d out of range (count %d)", t.Index, liveCount)
					return
				}
				refSet[t.Index] = struct{}{}
			case *equation.Call:
				b, ok := builtins[t.Name]
				if !ok {
					bindErr = bindErrorf(t.Name, t.Offset, "unknown function")
					return
				}
				if len(t.Args) != b.arity {
					bindErr = bindErrorf(t.Name, t.Offset, "wrong arity: want %d arguments, got %d", b.arity, len(t.Args))
				}
			case *equation.Deriv:
				if t.WRT == "t" {
					return
				}
				f, ok := fieldByName[t.WRT]
				if !ok || !differentiable[f] {
					bindErr = bindErrorf(t.WRT, t.Offset, "cannot take derivative with respect to")
				}
			}
		})
		if bindErr != nil {
			return nil, bindErr
		}
	}

	refs := make([]int, 0, len(refSet))
	for i := range refSet {
		refs = append(refs, i)
	}
	sort.Ints(refs)

	return &Program{
		Source: ast.Source,
		ast:    ast,
		refs:   refs,
		status: StatusPending,
	}, nil
}

func scalarResolvable(name string) bool {
	if name == "t" {
		return true
	}
	if _, ok := fieldByName[name]; ok {
		return true
	}
	if _, ok := paramByName[name]; ok {
		return true
	}
	_, ok := constByName[name]
	return ok
}
