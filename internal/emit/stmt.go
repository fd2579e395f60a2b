package emit

import (
	"github.com/dave/jennifer/jen"

	"github.com/roach88/deswitch/internal/ir"
)

func statements(stmts []ir.Statement) []jen.Code {
	out := make([]jen.Code, 0, len(stmts))
	for _, s := range stmts {
		c := statement(s)
		if label := s.Label(); label != "" {
			if c == nil {
				// A label must precede a statement.
				c = jen.Op(";")
			}
			out = append(out, jen.Id(label).Op(":"))
		}
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// statement renders s without its label. Returns nil for statements with
// no Go counterpart.
func statement(s ir.Statement) jen.Code {
	switch v := s.(type) {
	case *ir.Block:
		return jen.Block(statements(v.Statements)...)
	case *ir.IfStatement:
		return ifStatement(v)
	case *ir.SwitchStatement:
		cases := make([]jen.Code, len(v.Cases))
		for i, c := range v.Cases {
			cases[i] = switchCase(c)
		}
		return jen.Switch(expr(v.Condition)).Block(cases...)
	case *ir.ExpressionStatement:
		if _, ok := v.Expression.(*ir.NullExpression); ok {
			return nil
		}
		return expr(v.Expression)
	case *ir.NullStatement:
		return nil
	case *ir.VariableDeclarationStatement:
		decls := make([]jen.Code, 0, len(v.Declarations))
		for _, d := range v.Declarations {
			decls = append(decls, declaration(d))
		}
		return jen.Var().Defs(decls...)
	default:
		return jen.Commentf("unsupported statement %T", s)
	}
}

func ifStatement(s *ir.IfStatement) jen.Code {
	st := jen.If(expr(s.Condition)).Block(branch(s.Then)...)
	if s.Else != nil {
		st.Else().Block(branch(s.Else)...)
	}
	return st
}

// branch flattens a block branch so it is not wrapped in a second pair of
// braces.
func branch(s ir.Statement) []jen.Code {
	if b, ok := s.(*ir.Block); ok && b.Label() == "" {
		return statements(b.Statements)
	}
	return statements([]ir.Statement{s})
}

func switchCase(c *ir.SwitchCase) jen.Code {
	var body []jen.Code
	if c.Body != nil {
		body = statements(c.Body.Statements)
	}
	if c.IsDefault() {
		return jen.Default().Block(body...)
	}
	values := make([]jen.Code, len(c.Values))
	for i, v := range c.Values {
		values[i] = expr(v)
	}
	return jen.Case(values...).Block(body...)
}

func declaration(d *ir.Declaration) jen.Code {
	s := jen.Id(d.Left.Name)
	if d.Right != nil {
		return s.Op("=").Add(expr(d.Right))
	}
	return s.Add(goType(d.Left.Type))
}
