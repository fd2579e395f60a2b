package transform

import (
	"fmt"

	"github.com/roach88/deswitch/internal/ir"
	"github.com/roach88/deswitch/internal/visit"
)

// visitSwitch restores ss when a complete scaffold feeds it, otherwise it
// just walks the switch's children.
//
// Every check that can reject the switch runs before the first mutation, so
// an aborted switch leaves the tree exactly as it was.
func (r *SwitchRestorer) visitSwitch(w *visit.Walker, ss *ir.SwitchStatement) {
	cond, ok := ss.Condition.(*ir.Variable)
	if !ok {
		w.VisitChildren(ss)
		return
	}
	lookup, ok := r.tables.lookups[cond.Name]
	if !ok {
		w.VisitChildren(ss)
		return
	}
	init, ok := r.tables.initializers[lookup.Field.Key()]
	if !ok || w.Parent() == nil {
		w.VisitChildren(ss)
		return
	}

	ancestors := w.Ancestors()
	fnName := enclosingFunction(ancestors)

	cases, err := translateCases(ss.Cases, init)
	if err != nil {
		r.log.Warn("switch restoration aborted",
			"function", fnName,
			"key", lookup.Input.Name,
			"index", cond.Name,
			"error", err,
		)
		r.result.Aborted = append(r.result.Aborted, Abort{Function: fnName, Key: lookup.Input.Name, Err: err})
		w.VisitChildren(ss)
		return
	}

	rw := Rewrite{
		Function: fnName,
		Key:      lookup.Input.Name,
		Index:    cond.Name,
		Field:    lookup.Field.Key(),
		Cases:    len(cases),
	}
	for _, c := range cases {
		for _, v := range c.Values {
			rw.Values = append(rw.Values, ir.Format(v))
		}
	}

	if guard, ok := r.tables.guards[lookup.Input.Name]; ok {
		rw.GuardErased = w.Erase(guard.Statement)
	}
	w.Erase(init.Statement)
	w.Erase(lookup.Statement)

	for _, c := range cases {
		if c.IsDefault() {
			rw.Relocated += r.relocateDefault(c.Body, lookup.DefaultLabel(), ancestors)
		}
	}

	restored := &ir.SwitchStatement{Condition: ir.Clone(lookup.Input), Cases: cases}
	restored.SetLabel(ss.Label())
	w.ReplaceCurrent(restored)

	CleanupVariable(lookup.Output, ancestors)
	delete(r.tables.lookups, cond.Name)

	r.result.Restored = append(r.result.Restored, rw)
	r.log.Debug("switch restored",
		"function", rw.Function,
		"key", rw.Key,
		"index", rw.Index,
		"cases", rw.Cases,
		"relocated", rw.Relocated,
	)

	w.VisitReplacement(restored)
}

// translateCases maps every integer case value back to the key registered
// for it. Bodies are carried over; default cases are copied as is.
func translateCases(cases []*ir.SwitchCase, init *InitializerRecord) ([]*ir.SwitchCase, error) {
	out := make([]*ir.SwitchCase, 0, len(cases))
	for _, c := range cases {
		if c.IsDefault() {
			out = append(out, &ir.SwitchCase{Body: c.Body})
			continue
		}
		values := make([]ir.Expression, 0, len(c.Values))
		for _, v := range c.Values {
			lit, ok := v.(*ir.IntegerLiteral)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrNonIntegerValue, ir.Format(v))
			}
			key, ok := init.ValuesByIndex[lit.Value]
			if !ok {
				return nil, fmt.Errorf("%w: %d", ErrMissingIndex, lit.Value)
			}
			values = append(values, ir.Clone(key))
		}
		out = append(out, &ir.SwitchCase{Values: values, Body: c.Body})
	}
	return out, nil
}

// relocateDefault moves the run labelled label into body in place of the
// jump to it. Returns the number of statements moved; zero means the body
// was left as lowered.
func (r *SwitchRestorer) relocateDefault(body *ir.Block, label string, ancestors []ir.Node) int {
	if label == "" || body == nil {
		return 0
	}
	var jump *ir.GotoExpression
	for g := range ir.DescendantsOf[*ir.GotoExpression](body) {
		if g.TargetLabel == label {
			jump = g
			break
		}
	}
	if jump == nil {
		return 0
	}

	if labelShared(label, jump, ancestors) {
		r.log.Debug("default label has other jumps", "label", label)
		return 0
	}
	run, ok := ResolveLabel(label, ancestors)
	if !ok {
		r.log.Debug("default label unresolved", "label", label)
		return 0
	}
	run[0].SetLabel("")

	// A jump that is a statement of its own is replaced by the run; a jump
	// nested deeper is nulled and the run appended.
	for i, s := range body.Statements {
		es, ok := s.(*ir.ExpressionStatement)
		if !ok || es.Expression != ir.Expression(jump) {
			continue
		}
		if es.Label() != "" {
			run[0].SetLabel(es.Label())
		}
		spliced := make([]ir.Statement, 0, len(body.Statements)+len(run)-1)
		spliced = append(spliced, body.Statements[:i]...)
		spliced = append(spliced, run...)
		spliced = append(spliced, body.Statements[i+1:]...)
		body.Statements = spliced
		return len(run)
	}
	ir.ReplaceRecursive(body, jump, &ir.NullExpression{})
	body.Statements = append(body.Statements, run...)
	return len(run)
}
