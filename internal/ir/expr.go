package ir

// Operator names a unary or binary operator.
type Operator string

// Operators understood by the printer and emitter.
const (
	OpEqual      Operator = "=="
	OpNotEqual   Operator = "!="
	OpLess       Operator = "<"
	OpGreater    Operator = ">"
	OpAdd        Operator = "+"
	OpSub        Operator = "-"
	OpAssign     Operator = "="
	OpLogicalAnd Operator = "&&"
	OpLogicalOr  Operator = "||"
	OpLogicalNot Operator = "!"
	OpNegate     Operator = "neg"
)

// Variable is a reference to a local or parameter.
//
// Identity is the name: two distinct *Variable values with the same Name
// are the same variable. Use SameVariable, never pointer equality, when
// comparing variables.
type Variable struct {
	Name string
	Type string
}

func (*Variable) expression()                 {}
func (*Variable) Children() []Node            { return nil }
func (*Variable) ReplaceChild(_, _ Node) bool { return false }

// SameVariable reports whether a and b denote the same variable.
func SameVariable(a, b *Variable) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name
}

// FieldKey identifies a field by declaring type and name.
type FieldKey struct {
	DeclaringType string
	Name          string
}

// FieldRef is a static field reference.
type FieldRef struct {
	DeclaringType string
	Name          string
	Type          string
}

func (*FieldRef) expression()                 {}
func (*FieldRef) Children() []Node            { return nil }
func (*FieldRef) ReplaceChild(_, _ Node) bool { return false }

// Key returns the identity of the field.
func (f *FieldRef) Key() FieldKey {
	return FieldKey{DeclaringType: f.DeclaringType, Name: f.Name}
}

// MethodRef names an invocation target.
type MethodRef struct {
	DeclaringType string
	Name          string
}

// IgnoredMemberReference accesses a member for its metadata only; the
// front end emits it for compiler-generated caches such as switch maps.
type IgnoredMemberReference struct {
	Member Expression
}

func (*IgnoredMemberReference) expression() {}

func (r *IgnoredMemberReference) Children() []Node { return []Node{r.Member} }

func (r *IgnoredMemberReference) ReplaceChild(old, new Node) bool {
	return swapExpr(&r.Member, old, new)
}

// DefaultValueLiteral is the zero value of Type (null for reference types).
type DefaultValueLiteral struct {
	Type string
}

func (*DefaultValueLiteral) expression()                 {}
func (*DefaultValueLiteral) Children() []Node            { return nil }
func (*DefaultValueLiteral) ReplaceChild(_, _ Node) bool { return false }

// IntegerLiteral is an integer constant.
type IntegerLiteral struct {
	Value int64
}

func (*IntegerLiteral) expression()                 {}
func (*IntegerLiteral) Children() []Node            { return nil }
func (*IntegerLiteral) ReplaceChild(_, _ Node) bool { return false }

// StringLiteral is a string constant.
type StringLiteral struct {
	Value string
}

func (*StringLiteral) expression()                 {}
func (*StringLiteral) Children() []Node            { return nil }
func (*StringLiteral) ReplaceChild(_, _ Node) bool { return false }

// BooleanLiteral is true or false.
type BooleanLiteral struct {
	Value bool
}

func (*BooleanLiteral) expression()                 {}
func (*BooleanLiteral) Children() []Node            { return nil }
func (*BooleanLiteral) ReplaceChild(_, _ Node) bool { return false }

// BinaryExpression applies Op to Left and Right.
type BinaryExpression struct {
	Op    Operator
	Left  Expression
	Right Expression
}

func (*BinaryExpression) expression() {}

func (e *BinaryExpression) Children() []Node { return []Node{e.Left, e.Right} }

func (e *BinaryExpression) ReplaceChild(old, new Node) bool {
	return swapExpr(&e.Left, old, new) || swapExpr(&e.Right, old, new)
}

// UnaryExpression applies Op to Operand.
type UnaryExpression struct {
	Op      Operator
	Operand Expression
}

func (*UnaryExpression) expression() {}

func (e *UnaryExpression) Children() []Node { return []Node{e.Operand} }

func (e *UnaryExpression) ReplaceChild(old, new Node) bool {
	return swapExpr(&e.Operand, old, new)
}

// Invocation calls Method on This (nil for static calls).
// Method is nil when the front end could not resolve the target.
type Invocation struct {
	Method    *MethodRef
	This      Expression
	Arguments []Expression
}

func (*Invocation) expression() {}

func (e *Invocation) Children() []Node {
	nodes := make([]Node, 0, len(e.Arguments)+1)
	if e.This != nil {
		nodes = append(nodes, e.This)
	}
	for _, a := range e.Arguments {
		nodes = append(nodes, a)
	}
	return nodes
}

func (e *Invocation) ReplaceChild(old, new Node) bool {
	if swapExpr(&e.This, old, new) {
		return true
	}
	for i := range e.Arguments {
		if swapExpr(&e.Arguments[i], old, new) {
			return true
		}
	}
	return false
}

// MethodName returns the resolved method name, or "" when unresolved.
func (e *Invocation) MethodName() string {
	if e.Method == nil {
		return ""
	}
	return e.Method.Name
}

// PassByReference passes Referent as an out/ref argument.
type PassByReference struct {
	Referent Expression
}

func (*PassByReference) expression() {}

func (e *PassByReference) Children() []Node { return []Node{e.Referent} }

func (e *PassByReference) ReplaceChild(old, new Node) bool {
	return swapExpr(&e.Referent, old, new)
}

// ReferenceExpression takes a reference to the storage of Referent.
type ReferenceExpression struct {
	Referent Expression
}

func (*ReferenceExpression) expression() {}

func (e *ReferenceExpression) Children() []Node { return []Node{e.Referent} }

func (e *ReferenceExpression) ReplaceChild(old, new Node) bool {
	return swapExpr(&e.Referent, old, new)
}

// GotoExpression transfers control to the statement labelled TargetLabel.
type GotoExpression struct {
	TargetLabel string
}

func (*GotoExpression) expression()                 {}
func (*GotoExpression) Children() []Node            { return nil }
func (*GotoExpression) ReplaceChild(_, _ Node) bool { return false }

// ReturnExpression leaves the enclosing function.
type ReturnExpression struct {
	Value Expression // nil for a bare return
}

func (*ReturnExpression) expression() {}

func (e *ReturnExpression) Children() []Node {
	if e.Value == nil {
		return nil
	}
	return []Node{e.Value}
}

func (e *ReturnExpression) ReplaceChild(old, new Node) bool {
	return swapExpr(&e.Value, old, new)
}

// BreakExpression leaves the innermost switch.
type BreakExpression struct{}

func (*BreakExpression) expression()                 {}
func (*BreakExpression) Children() []Node            { return nil }
func (*BreakExpression) ReplaceChild(_, _ Node) bool { return false }

// NullExpression does nothing. Erased expressions are replaced by it.
type NullExpression struct{}

func (*NullExpression) expression()                 {}
func (*NullExpression) Children() []Node            { return nil }
func (*NullExpression) ReplaceChild(_, _ Node) bool { return false }
