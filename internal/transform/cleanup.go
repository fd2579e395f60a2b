package transform

import "github.com/roach88/deswitch/internal/ir"

// CleanupVariable removes every declaration of v from each function on the
// ancestor chain and drops v from that function's variable registry.
// Declarations inside nested functions belong to those functions and are
// only touched when the nested function is itself on the chain.
//
// Absent entries are skipped, so calling it twice is harmless. It returns
// the number of bindings removed.
func CleanupVariable(v *ir.Variable, ancestors []ir.Node) int {
	removed := 0
	for _, n := range ancestors {
		fn, ok := n.(*ir.Function)
		if !ok || fn.Body == nil {
			continue
		}
		for _, decl := range declarations(fn.Body) {
			count := decl.RemoveDeclarations(v.Name)
			if count == 0 {
				continue
			}
			removed += count
			if len(decl.Declarations) == 0 {
				null := &ir.NullStatement{}
				null.SetLabel(decl.Label())
				ir.ReplaceRecursive(fn.Body, decl, null)
			}
		}
		fn.RemoveVariable(v.Name)
	}
	return removed
}

// declarations lists the declaration statements under n without entering
// nested functions.
func declarations(n ir.Node) []*ir.VariableDeclarationStatement {
	var out []*ir.VariableDeclarationStatement
	for _, c := range n.Children() {
		switch v := c.(type) {
		case nil, *ir.Function:
			continue
		case *ir.VariableDeclarationStatement:
			out = append(out, v)
		}
		out = append(out, declarations(c)...)
	}
	return out
}
