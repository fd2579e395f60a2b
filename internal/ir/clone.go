package ir

// Clone returns a deep copy of n. Labels and the function variable registry
// are copied; MethodRef values are shared since they are immutable.
func Clone[N Node](n N) N {
	return cloneNode(n).(N)
}

// CloneModule returns a deep copy of m.
func CloneModule(m *Module) *Module {
	out := &Module{IRVersion: m.IRVersion, Name: m.Name}
	for _, fn := range m.Functions {
		out.Functions = append(out.Functions, Clone(fn))
	}
	return out
}

func cloneExpr(e Expression) Expression {
	if e == nil {
		return nil
	}
	return cloneNode(e).(Expression)
}

func cloneStmt(s Statement) Statement {
	if s == nil {
		return nil
	}
	return cloneNode(s).(Statement)
}

func cloneBlock(b *Block) *Block {
	if b == nil {
		return nil
	}
	return cloneNode(b).(*Block)
}

func cloneVar(v *Variable) *Variable {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneNode(n Node) Node {
	switch v := n.(type) {
	case *Block:
		out := &Block{Statements: make([]Statement, len(v.Statements))}
		for i, s := range v.Statements {
			out.Statements[i] = cloneStmt(s)
		}
		out.SetLabel(v.Label())
		return out
	case *IfStatement:
		out := &IfStatement{Condition: cloneExpr(v.Condition), Then: cloneStmt(v.Then), Else: cloneStmt(v.Else)}
		out.SetLabel(v.Label())
		return out
	case *SwitchStatement:
		out := &SwitchStatement{Condition: cloneExpr(v.Condition), Cases: make([]*SwitchCase, len(v.Cases))}
		for i, c := range v.Cases {
			out.Cases[i] = cloneNode(c).(*SwitchCase)
		}
		out.SetLabel(v.Label())
		return out
	case *SwitchCase:
		out := &SwitchCase{Body: cloneBlock(v.Body)}
		if v.Values != nil {
			out.Values = make([]Expression, len(v.Values))
			for i, e := range v.Values {
				out.Values[i] = cloneExpr(e)
			}
		}
		return out
	case *ExpressionStatement:
		out := &ExpressionStatement{Expression: cloneExpr(v.Expression)}
		out.SetLabel(v.Label())
		return out
	case *NullStatement:
		out := &NullStatement{}
		out.SetLabel(v.Label())
		return out
	case *VariableDeclarationStatement:
		out := &VariableDeclarationStatement{Declarations: make([]*Declaration, len(v.Declarations))}
		for i, d := range v.Declarations {
			out.Declarations[i] = cloneNode(d).(*Declaration)
		}
		out.SetLabel(v.Label())
		return out
	case *Declaration:
		return &Declaration{Left: cloneVar(v.Left), Right: cloneExpr(v.Right)}
	case *Function:
		out := &Function{Name: v.Name, Body: cloneBlock(v.Body)}
		for _, p := range v.Parameters {
			out.Parameters = append(out.Parameters, cloneVar(p))
		}
		for _, name := range v.VariableNames() {
			reg, _ := v.LookupVariable(name)
			out.RegisterVariable(cloneVar(reg))
		}
		return out
	case *Variable:
		return cloneVar(v)
	case *FieldRef:
		c := *v
		return &c
	case *IgnoredMemberReference:
		return &IgnoredMemberReference{Member: cloneExpr(v.Member)}
	case *DefaultValueLiteral:
		c := *v
		return &c
	case *IntegerLiteral:
		c := *v
		return &c
	case *StringLiteral:
		c := *v
		return &c
	case *BooleanLiteral:
		c := *v
		return &c
	case *BinaryExpression:
		return &BinaryExpression{Op: v.Op, Left: cloneExpr(v.Left), Right: cloneExpr(v.Right)}
	case *UnaryExpression:
		return &UnaryExpression{Op: v.Op, Operand: cloneExpr(v.Operand)}
	case *Invocation:
		out := &Invocation{Method: v.Method, This: cloneExpr(v.This)}
		for _, a := range v.Arguments {
			out.Arguments = append(out.Arguments, cloneExpr(a))
		}
		return out
	case *PassByReference:
		return &PassByReference{Referent: cloneExpr(v.Referent)}
	case *ReferenceExpression:
		return &ReferenceExpression{Referent: cloneExpr(v.Referent)}
	case *GotoExpression:
		c := *v
		return &c
	case *ReturnExpression:
		return &ReturnExpression{Value: cloneExpr(v.Value)}
	case *BreakExpression:
		return &BreakExpression{}
	case *NullExpression:
		return &NullExpression{}
	}
	panic("ir: Clone of unknown node type")
}
