package transform

import "github.com/roach88/deswitch/internal/ir"

// GuardRecord is a recorded `if (v == default) goto L;`.
type GuardRecord struct {
	Statement   *ir.IfStatement
	Variable    *ir.Variable
	DefaultGoto *ir.GotoExpression // first goto in the statement, may be nil
}

// InitializerRecord is a recorded `if (field == default) { ...Add(value, index)... }`.
type InitializerRecord struct {
	Statement     *ir.IfStatement
	Field         *ir.FieldRef
	ValuesByIndex map[int64]ir.Expression
}

// LookupRecord is a recorded `if (!field.TryResolve(input, out output)) goto L;`.
type LookupRecord struct {
	Statement   *ir.IfStatement
	Field       *ir.FieldRef
	Input       *ir.Variable
	Output      *ir.Variable
	DefaultGoto *ir.GotoExpression // first goto in the statement, may be nil
}

// DefaultLabel returns the label the lookup jumps to on a miss, or "".
func (l *LookupRecord) DefaultLabel() string {
	if l.DefaultGoto == nil {
		return ""
	}
	return l.DefaultGoto.TargetLabel
}

// records holds the three lookup tables. A later record for the same key
// replaces the earlier one.
type records struct {
	guards       map[string]*GuardRecord
	initializers map[ir.FieldKey]*InitializerRecord
	lookups      map[string]*LookupRecord
}

func newRecords() records {
	return records{
		guards:       make(map[string]*GuardRecord),
		initializers: make(map[ir.FieldKey]*InitializerRecord),
		lookups:      make(map[string]*LookupRecord),
	}
}
