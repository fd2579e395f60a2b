package emit

import (
	"github.com/dave/jennifer/jen"

	"github.com/roach88/deswitch/internal/ir"
)

func expr(e ir.Expression) *jen.Statement {
	switch v := e.(type) {
	case nil, *ir.NullExpression:
		return jen.Null()
	case *ir.Variable:
		return jen.Id(v.Name)
	case *ir.FieldRef:
		return jen.Id(v.DeclaringType).Dot(v.Name)
	case *ir.IgnoredMemberReference:
		return expr(v.Member)
	case *ir.DefaultValueLiteral:
		// *new(T) is the zero value of any T.
		return jen.Op("*").New(goType(v.Type))
	case *ir.IntegerLiteral:
		return jen.Lit(int(v.Value))
	case *ir.StringLiteral:
		return jen.Lit(v.Value)
	case *ir.BooleanLiteral:
		return jen.Lit(v.Value)
	case *ir.BinaryExpression:
		return operand(v.Left).Op(string(v.Op)).Add(operand(v.Right))
	case *ir.UnaryExpression:
		op := string(v.Op)
		if v.Op == ir.OpNegate {
			op = "-"
		}
		return jen.Op(op).Add(operand(v.Operand))
	case *ir.Invocation:
		return callee(v).Call(exprs(v.Arguments)...)
	case *ir.PassByReference:
		return jen.Op("&").Add(expr(v.Referent))
	case *ir.ReferenceExpression:
		return expr(v.Referent)
	case *ir.GotoExpression:
		return jen.Goto().Id(v.TargetLabel)
	case *ir.ReturnExpression:
		if v.Value == nil {
			return jen.Return()
		}
		return jen.Return(expr(v.Value))
	case *ir.BreakExpression:
		return jen.Break()
	case *ir.Function:
		lit := jen.Func().Params(params(v)...)
		if returnsValue(v) {
			lit.Id("any")
		}
		return lit.Block(body(v)...)
	default:
		return jen.Nil()
	}
}

func exprs(es []ir.Expression) []jen.Code {
	out := make([]jen.Code, len(es))
	for i, e := range es {
		out[i] = expr(e)
	}
	return out
}

func operand(e ir.Expression) *jen.Statement {
	if _, ok := e.(*ir.BinaryExpression); ok {
		return jen.Parens(expr(e))
	}
	return expr(e)
}

func callee(call *ir.Invocation) *jen.Statement {
	name := "unresolved"
	if call.Method != nil {
		name = call.Method.Name
	}
	switch {
	case call.This != nil:
		return operand(call.This).Dot(name)
	case call.Method != nil && call.Method.DeclaringType != "":
		return jen.Id(call.Method.DeclaringType).Dot(name)
	default:
		return jen.Id(name)
	}
}
