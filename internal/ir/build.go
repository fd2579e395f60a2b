package ir

// Constructors for hand-built trees. The transform tests and the emitter
// tests lean on these heavily; production code mostly decodes documents.

// Var returns a variable reference.
func Var(name string) *Variable { return &Variable{Name: name} }

// Int returns an integer literal.
func Int(v int64) *IntegerLiteral { return &IntegerLiteral{Value: v} }

// Str returns a string literal.
func Str(s string) *StringLiteral { return &StringLiteral{Value: s} }

// Default returns the default-value literal of typ.
func Default(typ string) *DefaultValueLiteral { return &DefaultValueLiteral{Type: typ} }

// Field returns a static field reference.
func Field(declaringType, name string) *FieldRef {
	return &FieldRef{DeclaringType: declaringType, Name: name}
}

// Ignored wraps member in a metadata-only reference.
func Ignored(member Expression) *IgnoredMemberReference {
	return &IgnoredMemberReference{Member: member}
}

// Eq returns left == right.
func Eq(left, right Expression) *BinaryExpression {
	return &BinaryExpression{Op: OpEqual, Left: left, Right: right}
}

// Assign returns left = right.
func Assign(left, right Expression) *BinaryExpression {
	return &BinaryExpression{Op: OpAssign, Left: left, Right: right}
}

// Not returns !operand.
func Not(operand Expression) *UnaryExpression {
	return &UnaryExpression{Op: OpLogicalNot, Operand: operand}
}

// Call returns an invocation of method on this (nil for static calls).
func Call(this Expression, method string, args ...Expression) *Invocation {
	return &Invocation{Method: &MethodRef{Name: method}, This: this, Arguments: args}
}

// Out returns an output binding of v.
func Out(v *Variable) *PassByReference {
	return &PassByReference{Referent: &ReferenceExpression{Referent: v}}
}

// Goto returns a jump to label.
func Goto(label string) *GotoExpression { return &GotoExpression{TargetLabel: label} }

// Return returns a return of value (nil for a bare return).
func Return(value Expression) *ReturnExpression { return &ReturnExpression{Value: value} }

// Stmt wraps e in an expression statement.
func Stmt(e Expression) *ExpressionStatement { return &ExpressionStatement{Expression: e} }

// NewBlock returns a block of stmts.
func NewBlock(stmts ...Statement) *Block { return &Block{Statements: stmts} }

// If returns a conditional whose then branch is a block of stmts.
func If(cond Expression, stmts ...Statement) *IfStatement {
	return &IfStatement{Condition: cond, Then: NewBlock(stmts...)}
}

// Case returns a switch case matching values.
func Case(values []Expression, body ...Statement) *SwitchCase {
	if values == nil {
		values = []Expression{}
	}
	return &SwitchCase{Values: values, Body: NewBlock(body...)}
}

// DefaultCase returns the default switch case.
func DefaultCase(body ...Statement) *SwitchCase {
	return &SwitchCase{Body: NewBlock(body...)}
}

// Switch returns a switch over cond.
func Switch(cond Expression, cases ...*SwitchCase) *SwitchStatement {
	return &SwitchStatement{Condition: cond, Cases: cases}
}

// Declare returns a declaration statement binding each variable uninitialized.
func Declare(vars ...*Variable) *VariableDeclarationStatement {
	s := &VariableDeclarationStatement{}
	for _, v := range vars {
		s.Declarations = append(s.Declarations, &Declaration{Left: v})
	}
	return s
}

// NewFunction returns a function with the given body. Every variable
// declared in body is registered.
func NewFunction(name string, body ...Statement) *Function {
	fn := &Function{Name: name, Body: NewBlock(body...)}
	for d := range DescendantsOf[*Declaration](fn.Body) {
		fn.RegisterVariable(d.Left)
	}
	return fn
}
