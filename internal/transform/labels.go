package transform

import "github.com/roach88/deswitch/internal/ir"

// ResolveLabel finds the innermost block on the ancestor chain that directly
// holds a statement labelled label and detaches the run from that statement
// through the end of the block. "goto L" means "continue at L and run to the
// end of L's block", so the run is what the jump executes.
//
// Resolution fails, leaving the tree untouched, when no ancestor block holds
// the label or when the run would contain one of the ancestors (a backward
// jump over the switch being rebuilt).
func ResolveLabel(label string, ancestors []ir.Node) ([]ir.Statement, bool) {
	if label == "" {
		return nil, false
	}
	for _, n := range ancestors {
		b, ok := n.(*ir.Block)
		if !ok {
			continue
		}
		start := ir.LabelIndex(b, label)
		if start < 0 {
			continue
		}
		for _, s := range b.Statements[start:] {
			if onChain(s, ancestors) {
				return nil, false
			}
		}
		run := ir.CollectLabelledStatements(b, label)
		return run, len(run) > 0
	}
	return nil, false
}

func onChain(s ir.Statement, ancestors []ir.Node) bool {
	for _, a := range ancestors {
		if ir.Node(s) == a {
			return true
		}
	}
	return false
}

// labelShared reports whether any goto other than jump targets label within
// the innermost enclosing function. Relocating the run clears its label, so
// such a jump would be left without a target.
func labelShared(label string, jump *ir.GotoExpression, ancestors []ir.Node) bool {
	if len(ancestors) == 0 {
		return false
	}
	scope := ancestors[len(ancestors)-1]
	for _, n := range ancestors {
		if fn, ok := n.(*ir.Function); ok {
			scope = fn
			break
		}
	}
	for g := range ir.DescendantsOf[*ir.GotoExpression](scope) {
		if g != jump && g.TargetLabel == label {
			return true
		}
	}
	return false
}
