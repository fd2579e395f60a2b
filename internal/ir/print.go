package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders n as deterministic C#-like text.
//
// Null statements and statements wrapping a NullExpression are omitted
// unless labelled, so erased scaffolding leaves no trace in the output.
func Format(n Node) string {
	p := &printer{}
	switch v := n.(type) {
	case *Function:
		p.function(v)
	case Statement:
		p.stmt(v)
	case Expression:
		p.buf.WriteString(p.expr(v))
	case *SwitchCase:
		p.switchCase(v)
	case *Declaration:
		p.buf.WriteString(p.decl(v))
	}
	return p.buf.String()
}

// FormatModule renders every function of m separated by blank lines.
func FormatModule(m *Module) string {
	parts := make([]string, 0, len(m.Functions))
	for _, fn := range m.Functions {
		parts = append(parts, Format(fn))
	}
	return strings.Join(parts, "\n")
}

type printer struct {
	buf    strings.Builder
	indent int
}

func (p *printer) line(format string, args ...any) {
	p.buf.WriteString(strings.Repeat("  ", p.indent))
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *printer) function(fn *Function) {
	params := make([]string, len(fn.Parameters))
	for i, v := range fn.Parameters {
		params[i] = v.Name
	}
	p.line("function %s(%s) {", fn.Name, strings.Join(params, ", "))
	p.indent++
	if fn.Body != nil {
		for _, s := range fn.Body.Statements {
			p.stmt(s)
		}
	}
	p.indent--
	p.line("}")
}

func prefix(s Statement) string {
	if s.Label() == "" {
		return ""
	}
	return s.Label() + ": "
}

func omitted(s Statement) bool {
	if s.Label() != "" {
		return false
	}
	switch v := s.(type) {
	case *NullStatement:
		return true
	case *ExpressionStatement:
		_, isNull := v.Expression.(*NullExpression)
		return isNull
	}
	return false
}

func (p *printer) stmt(s Statement) {
	if omitted(s) {
		return
	}
	pre := prefix(s)
	switch v := s.(type) {
	case *Block:
		p.line("%s{", pre)
		p.block(v)
		p.line("}")
	case *IfStatement:
		p.ifStmt(v, pre)
	case *SwitchStatement:
		p.line("%sswitch (%s) {", pre, p.expr(v.Condition))
		p.indent++
		for _, c := range v.Cases {
			p.switchCase(c)
		}
		p.indent--
		p.line("}")
	case *ExpressionStatement:
		p.line("%s%s;", pre, p.expr(v.Expression))
	case *NullStatement:
		p.line("%s;", pre)
	case *VariableDeclarationStatement:
		decls := make([]string, len(v.Declarations))
		for i, d := range v.Declarations {
			decls[i] = p.decl(d)
		}
		p.line("%svar %s;", pre, strings.Join(decls, ", "))
	default:
		p.line("%s/* %T */", pre, s)
	}
}

func (p *printer) block(b *Block) {
	p.indent++
	for _, s := range b.Statements {
		p.stmt(s)
	}
	p.indent--
}

func (p *printer) ifStmt(s *IfStatement, pre string) {
	cond := p.expr(s.Condition)
	then, isBlock := s.Then.(*Block)
	if !isBlock && s.Else == nil && s.Then.Label() == "" {
		if es, ok := s.Then.(*ExpressionStatement); ok {
			p.line("%sif (%s) %s;", pre, cond, p.expr(es.Expression))
			return
		}
	}
	p.line("%sif (%s) {", pre, cond)
	if isBlock {
		p.block(then)
	} else {
		p.indent++
		p.stmt(s.Then)
		p.indent--
	}
	if s.Else != nil {
		p.line("} else {")
		if eb, ok := s.Else.(*Block); ok {
			p.block(eb)
		} else {
			p.indent++
			p.stmt(s.Else)
			p.indent--
		}
	}
	p.line("}")
}

func (p *printer) switchCase(c *SwitchCase) {
	if c.IsDefault() {
		p.line("default:")
	} else {
		labels := make([]string, len(c.Values))
		for i, v := range c.Values {
			labels[i] = "case " + p.expr(v) + ":"
		}
		p.line("%s", strings.Join(labels, " "))
	}
	if c.Body != nil {
		p.block(c.Body)
	}
}

func (p *printer) decl(d *Declaration) string {
	if d.Right == nil {
		return d.Left.Name
	}
	return d.Left.Name + " = " + p.expr(d.Right)
}

func (p *printer) operand(e Expression) string {
	if _, ok := e.(*BinaryExpression); ok {
		return "(" + p.expr(e) + ")"
	}
	return p.expr(e)
}

func (p *printer) expr(e Expression) string {
	switch v := e.(type) {
	case nil:
		return ""
	case *Variable:
		return v.Name
	case *FieldRef:
		return v.DeclaringType + "." + v.Name
	case *IgnoredMemberReference:
		return p.expr(v.Member)
	case *DefaultValueLiteral:
		return "default(" + v.Type + ")"
	case *IntegerLiteral:
		return strconv.FormatInt(v.Value, 10)
	case *StringLiteral:
		return strconv.Quote(v.Value)
	case *BooleanLiteral:
		return strconv.FormatBool(v.Value)
	case *BinaryExpression:
		return p.operand(v.Left) + " " + string(v.Op) + " " + p.operand(v.Right)
	case *UnaryExpression:
		if v.Op == OpNegate {
			return "-" + p.operand(v.Operand)
		}
		return string(v.Op) + p.operand(v.Operand)
	case *Invocation:
		args := make([]string, len(v.Arguments))
		for i, a := range v.Arguments {
			args[i] = p.expr(a)
		}
		name := "<unresolved>"
		if v.Method != nil {
			name = v.Method.Name
		}
		switch {
		case v.This != nil:
			name = p.operand(v.This) + "." + name
		case v.Method != nil && v.Method.DeclaringType != "":
			name = v.Method.DeclaringType + "." + name
		}
		return name + "(" + strings.Join(args, ", ") + ")"
	case *PassByReference:
		return "out " + p.expr(v.Referent)
	case *ReferenceExpression:
		return p.expr(v.Referent)
	case *GotoExpression:
		return "goto " + v.TargetLabel
	case *ReturnExpression:
		if v.Value == nil {
			return "return"
		}
		return "return " + p.expr(v.Value)
	case *BreakExpression:
		return "break"
	case *NullExpression:
		return ""
	case *Function:
		return "function " + v.Name + "(...)"
	default:
		return fmt.Sprintf("/* %T */", e)
	}
}
