package transform

import "github.com/roach88/deswitch/internal/ir"

// recordIf matches the three scaffold shapes. Anything else is ignored.
func (r *SwitchRestorer) recordIf(ifs *ir.IfStatement) {
	switch cond := ifs.Condition.(type) {
	case *ir.BinaryExpression:
		if cond.Op != ir.OpEqual || !r.opts.Metadata.IsDefaultValue(cond.Right) {
			return
		}
		if v, ok := cond.Left.(*ir.Variable); ok {
			r.recordGuard(ifs, v)
			return
		}
		if field, ok := r.opts.Metadata.FieldOf(cond.Left); ok {
			r.recordInitializer(ifs, field)
		}
	case *ir.UnaryExpression:
		if cond.Op == ir.OpLogicalNot {
			r.recordLookup(ifs, cond.Operand)
		}
	}
}

// recordGuard records `if (v == default) goto L;`.
func (r *SwitchRestorer) recordGuard(ifs *ir.IfStatement, v *ir.Variable) {
	r.tables.guards[v.Name] = &GuardRecord{
		Statement:   ifs,
		Variable:    v,
		DefaultGoto: ir.FirstGoto(ifs),
	}
}

// recordInitializer records the lazy map population and every
// Add(value, index) call in its true branch. Calls with the wrong arity, an
// unresolved target or a non-literal index are skipped.
func (r *SwitchRestorer) recordInitializer(ifs *ir.IfStatement, field *ir.FieldRef) {
	init := &InitializerRecord{
		Statement:     ifs,
		Field:         field,
		ValuesByIndex: make(map[int64]ir.Expression),
	}
	r.tables.initializers[field.Key()] = init

	if ifs.Then == nil {
		return
	}
	for call := range ir.DescendantsOf[*ir.Invocation](ifs.Then) {
		if call.Method == nil || call.Method.Name != r.opts.InitializerMethod {
			continue
		}
		if len(call.Arguments) != 2 {
			continue
		}
		index, ok := call.Arguments[1].(*ir.IntegerLiteral)
		if !ok {
			continue
		}
		init.ValuesByIndex[index.Value] = call.Arguments[0]
	}
}

// recordLookup records `if (!field.TryResolve(input, out output)) goto L;`.
func (r *SwitchRestorer) recordLookup(ifs *ir.IfStatement, operand ir.Expression) {
	call, ok := operand.(*ir.Invocation)
	if !ok || call.Method == nil || call.Method.Name != r.opts.LookupMethod {
		return
	}
	if len(call.Arguments) != 2 {
		return
	}
	field, ok := r.opts.Metadata.FieldOf(call.This)
	if !ok {
		return
	}
	input, ok := call.Arguments[0].(*ir.Variable)
	if !ok {
		return
	}
	output, ok := outputVariable(call.Arguments[1])
	if !ok {
		return
	}

	r.tables.lookups[output.Name] = &LookupRecord{
		Statement:   ifs,
		Field:       field,
		Input:       input,
		Output:      output,
		DefaultGoto: ir.FirstGoto(ifs),
	}
}

// outputVariable unwraps `out v`, with or without an explicit reference node.
func outputVariable(e ir.Expression) (*ir.Variable, bool) {
	out, ok := e.(*ir.PassByReference)
	if !ok {
		return nil, false
	}
	referent := out.Referent
	if ref, ok := referent.(*ir.ReferenceExpression); ok {
		referent = ref.Referent
	}
	v, ok := referent.(*ir.Variable)
	return v, ok
}
