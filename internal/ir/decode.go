package ir

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeError reports a malformed IR document with its YAML position.
type DecodeError struct {
	Line    int
	Column  int
	Message string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d:%d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}

func errAt(n *yaml.Node, format string, args ...any) *DecodeError {
	return &DecodeError{Line: n.Line, Column: n.Column, Message: fmt.Sprintf(format, args...)}
}

// DecodeModule parses a YAML IR document.
//
// Every node is a mapping with a "kind" key matching the names produced by
// ToCanonical. Scalars are shorthand for literals (ints, quoted strings,
// booleans) and the tags !var, !goto, !field and !default abbreviate the
// corresponding leaf nodes:
//
//	- kind: if
//	  condition: {kind: binary, op: "==", left: !var s, right: !default string}
//	  then: {kind: expr, expression: !goto IL_default}
//
// Expression kinds in statement position are wrapped in an
// ExpressionStatement. When a function has no "variables" list, every
// declared local is registered in declaration order.
func DecodeModule(data []byte) (*Module, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode module: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, &DecodeError{Message: "empty document"}
	}
	return decodeModule(root.Content[0])
}

// DecodeFunction parses a single function mapping. Mostly useful in tests.
func DecodeFunction(data []byte) (*Function, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode function: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, &DecodeError{Message: "empty document"}
	}
	return decodeFunction(root.Content[0])
}

func fields(n *yaml.Node) (map[string]*yaml.Node, error) {
	if n.Kind != yaml.MappingNode {
		return nil, errAt(n, "expected mapping, got %s", kindName(n))
	}
	m := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		m[n.Content[i].Value] = n.Content[i+1]
	}
	return m, nil
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar " + strconv.Quote(n.Value)
	case yaml.AliasNode:
		return "alias"
	}
	return "document"
}

func str(m map[string]*yaml.Node, key string) string {
	if n, ok := m[key]; ok && n.Kind == yaml.ScalarNode {
		return n.Value
	}
	return ""
}

func required(parent *yaml.Node, m map[string]*yaml.Node, key string) (*yaml.Node, error) {
	n, ok := m[key]
	if !ok {
		return nil, errAt(parent, "missing required field %q", key)
	}
	return n, nil
}

func decodeModule(n *yaml.Node) (*Module, error) {
	m, err := fields(n)
	if err != nil {
		return nil, err
	}
	mod := &Module{IRVersion: str(m, "ir_version"), Name: str(m, "name")}
	fns, ok := m["functions"]
	if !ok {
		return mod, nil
	}
	if fns.Kind != yaml.SequenceNode {
		return nil, errAt(fns, "functions: expected sequence, got %s", kindName(fns))
	}
	for _, fn := range fns.Content {
		f, err := decodeFunction(fn)
		if err != nil {
			return nil, err
		}
		mod.Functions = append(mod.Functions, f)
	}
	return mod, nil
}

func decodeFunction(n *yaml.Node) (*Function, error) {
	m, err := fields(n)
	if err != nil {
		return nil, err
	}
	fn := &Function{Name: str(m, "name")}
	if params, ok := m["parameters"]; ok {
		if params.Kind != yaml.SequenceNode {
			return nil, errAt(params, "parameters: expected sequence, got %s", kindName(params))
		}
		for _, p := range params.Content {
			v, err := decodeVariable(p)
			if err != nil {
				return nil, err
			}
			fn.Parameters = append(fn.Parameters, v)
		}
	}
	body, err := required(n, m, "body")
	if err != nil {
		return nil, err
	}
	fn.Body, err = decodeBlock(body)
	if err != nil {
		return nil, err
	}
	if vars, ok := m["variables"]; ok {
		if vars.Kind != yaml.SequenceNode {
			return nil, errAt(vars, "variables: expected sequence, got %s", kindName(vars))
		}
		for _, v := range vars.Content {
			variable, err := decodeVariable(v)
			if err != nil {
				return nil, err
			}
			fn.RegisterVariable(variable)
		}
	} else {
		for d := range DescendantsOf[*Declaration](fn.Body) {
			fn.RegisterVariable(d.Left)
		}
	}
	return fn, nil
}

// decodeVariable accepts a plain name, a !var scalar, or a variable mapping.
func decodeVariable(n *yaml.Node) (*Variable, error) {
	if n.Kind == yaml.ScalarNode {
		if n.Value == "" {
			return nil, errAt(n, "variable name must be non-empty")
		}
		return &Variable{Name: n.Value}, nil
	}
	m, err := fields(n)
	if err != nil {
		return nil, err
	}
	name := str(m, "name")
	if name == "" {
		return nil, errAt(n, "variable name must be non-empty")
	}
	return &Variable{Name: name, Type: str(m, "type")}, nil
}

// decodeBlock accepts a sequence of statements or a block mapping.
func decodeBlock(n *yaml.Node) (*Block, error) {
	if n.Kind == yaml.SequenceNode {
		b := &Block{}
		for _, s := range n.Content {
			stmt, err := decodeStatement(s)
			if err != nil {
				return nil, err
			}
			b.Statements = append(b.Statements, stmt)
		}
		return b, nil
	}
	stmt, err := decodeStatement(n)
	if err != nil {
		return nil, err
	}
	if b, ok := stmt.(*Block); ok {
		return b, nil
	}
	return &Block{Statements: []Statement{stmt}}, nil
}

func decodeStatement(n *yaml.Node) (Statement, error) {
	if n.Kind == yaml.SequenceNode {
		return decodeBlock(n)
	}
	if n.Kind == yaml.ScalarNode {
		e, err := decodeExpression(n)
		if err != nil {
			return nil, err
		}
		return &ExpressionStatement{Expression: e}, nil
	}
	m, err := fields(n)
	if err != nil {
		return nil, err
	}
	var stmt Statement
	switch kind := str(m, "kind"); kind {
	case "block":
		b := &Block{}
		if stmts, ok := m["statements"]; ok {
			inner, err := decodeBlock(stmts)
			if err != nil {
				return nil, err
			}
			b.Statements = inner.Statements
		}
		stmt = b
	case "if":
		stmt, err = decodeIf(n, m)
	case "switch":
		stmt, err = decodeSwitch(n, m)
	case "expr":
		var en *yaml.Node
		if en, err = required(n, m, "expression"); err == nil {
			var e Expression
			if e, err = decodeExpression(en); err == nil {
				stmt = &ExpressionStatement{Expression: e}
			}
		}
	case "nop":
		stmt = &NullStatement{}
	case "var":
		stmt, err = decodeVarDecl(n, m)
	case "":
		return nil, errAt(n, "statement is missing \"kind\"")
	default:
		e, eerr := decodeExpressionMapping(n, m)
		if eerr != nil {
			return nil, eerr
		}
		stmt = &ExpressionStatement{Expression: e}
	}
	if err != nil {
		return nil, err
	}
	if label := str(m, "label"); label != "" {
		stmt.SetLabel(label)
	}
	return stmt, nil
}

func decodeIf(n *yaml.Node, m map[string]*yaml.Node) (Statement, error) {
	cn, err := required(n, m, "condition")
	if err != nil {
		return nil, err
	}
	cond, err := decodeExpression(cn)
	if err != nil {
		return nil, err
	}
	tn, err := required(n, m, "then")
	if err != nil {
		return nil, err
	}
	then, err := decodeStatement(tn)
	if err != nil {
		return nil, err
	}
	s := &IfStatement{Condition: cond, Then: then}
	if en, ok := m["else"]; ok {
		if s.Else, err = decodeStatement(en); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func decodeSwitch(n *yaml.Node, m map[string]*yaml.Node) (Statement, error) {
	cn, err := required(n, m, "condition")
	if err != nil {
		return nil, err
	}
	cond, err := decodeExpression(cn)
	if err != nil {
		return nil, err
	}
	s := &SwitchStatement{Condition: cond}
	cases, ok := m["cases"]
	if !ok {
		return s, nil
	}
	if cases.Kind != yaml.SequenceNode {
		return nil, errAt(cases, "cases: expected sequence, got %s", kindName(cases))
	}
	for _, cn := range cases.Content {
		c, err := decodeCase(cn)
		if err != nil {
			return nil, err
		}
		s.Cases = append(s.Cases, c)
	}
	return s, nil
}

func decodeCase(n *yaml.Node) (*SwitchCase, error) {
	m, err := fields(n)
	if err != nil {
		return nil, err
	}
	c := &SwitchCase{Body: &Block{}}
	vals, hasValues := m["values"]
	isDefault := str(m, "default") == "true"
	switch {
	case hasValues && isDefault:
		return nil, errAt(n, "case cannot have both values and default")
	case hasValues:
		if vals.Kind != yaml.SequenceNode {
			return nil, errAt(vals, "values: expected sequence, got %s", kindName(vals))
		}
		c.Values = make([]Expression, 0, len(vals.Content))
		for _, vn := range vals.Content {
			v, err := decodeExpression(vn)
			if err != nil {
				return nil, err
			}
			c.Values = append(c.Values, v)
		}
	case !isDefault:
		return nil, errAt(n, "case needs values or default: true")
	}
	if body, ok := m["body"]; ok {
		if c.Body, err = decodeBlock(body); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func decodeVarDecl(n *yaml.Node, m map[string]*yaml.Node) (Statement, error) {
	dn, err := required(n, m, "declarations")
	if err != nil {
		return nil, err
	}
	if dn.Kind != yaml.SequenceNode {
		return nil, errAt(dn, "declarations: expected sequence, got %s", kindName(dn))
	}
	s := &VariableDeclarationStatement{}
	for _, d := range dn.Content {
		v, err := decodeVariable(d)
		if err != nil {
			return nil, err
		}
		decl := &Declaration{Left: v}
		if d.Kind == yaml.MappingNode {
			dm, _ := fields(d)
			if vn, ok := dm["value"]; ok {
				if decl.Right, err = decodeExpression(vn); err != nil {
					return nil, err
				}
			}
		}
		s.Declarations = append(s.Declarations, decl)
	}
	return s, nil
}

func decodeExpression(n *yaml.Node) (Expression, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return decodeScalar(n)
	case yaml.MappingNode:
		m, _ := fields(n)
		return decodeExpressionMapping(n, m)
	}
	return nil, errAt(n, "expected expression, got %s", kindName(n))
}

func decodeScalar(n *yaml.Node) (Expression, error) {
	switch n.ShortTag() {
	case "!var":
		if n.Value == "" {
			return nil, errAt(n, "variable name must be non-empty")
		}
		return &Variable{Name: n.Value}, nil
	case "!goto":
		return &GotoExpression{TargetLabel: n.Value}, nil
	case "!default":
		return &DefaultValueLiteral{Type: n.Value}, nil
	case "!field":
		dot := strings.LastIndex(n.Value, ".")
		if dot <= 0 || dot == len(n.Value)-1 {
			return nil, errAt(n, "field %q must be Type.name", n.Value)
		}
		return &FieldRef{DeclaringType: n.Value[:dot], Name: n.Value[dot+1:]}, nil
	case "!!int":
		v, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, errAt(n, "invalid integer %q", n.Value)
		}
		return &IntegerLiteral{Value: v}, nil
	case "!!bool":
		return &BooleanLiteral{Value: n.Value == "true"}, nil
	case "!!str":
		return &StringLiteral{Value: n.Value}, nil
	}
	return nil, errAt(n, "unsupported scalar tag %s", n.ShortTag())
}

func decodeExpressionMapping(n *yaml.Node, m map[string]*yaml.Node) (Expression, error) {
	sub := func(key string) (Expression, error) {
		en, err := required(n, m, key)
		if err != nil {
			return nil, err
		}
		return decodeExpression(en)
	}
	switch kind := str(m, "kind"); kind {
	case "variable":
		v, err := decodeVariable(n)
		if err != nil {
			return nil, err
		}
		return v, nil
	case "field":
		name := str(m, "name")
		if name == "" {
			return nil, errAt(n, "field name must be non-empty")
		}
		return &FieldRef{DeclaringType: str(m, "declaring_type"), Name: name, Type: str(m, "type")}, nil
	case "ignored":
		member, err := sub("member")
		if err != nil {
			return nil, err
		}
		return &IgnoredMemberReference{Member: member}, nil
	case "default":
		return &DefaultValueLiteral{Type: str(m, "type")}, nil
	case "int", "string", "bool":
		vn, err := required(n, m, "value")
		if err != nil {
			return nil, err
		}
		switch kind {
		case "int":
			v, err := strconv.ParseInt(vn.Value, 0, 64)
			if err != nil {
				return nil, errAt(vn, "invalid integer %q", vn.Value)
			}
			return &IntegerLiteral{Value: v}, nil
		case "bool":
			return &BooleanLiteral{Value: vn.Value == "true"}, nil
		}
		return &StringLiteral{Value: vn.Value}, nil
	case "binary":
		left, err := sub("left")
		if err != nil {
			return nil, err
		}
		right, err := sub("right")
		if err != nil {
			return nil, err
		}
		return &BinaryExpression{Op: Operator(str(m, "op")), Left: left, Right: right}, nil
	case "unary":
		operand, err := sub("operand")
		if err != nil {
			return nil, err
		}
		return &UnaryExpression{Op: Operator(str(m, "op")), Operand: operand}, nil
	case "call":
		return decodeCall(n, m)
	case "out", "ref":
		referent, err := sub("referent")
		if err != nil {
			return nil, err
		}
		if kind == "out" {
			return &PassByReference{Referent: referent}, nil
		}
		return &ReferenceExpression{Referent: referent}, nil
	case "goto":
		target := str(m, "target")
		if target == "" {
			return nil, errAt(n, "goto target must be non-empty")
		}
		return &GotoExpression{TargetLabel: target}, nil
	case "return":
		r := &ReturnExpression{}
		if _, ok := m["value"]; ok {
			v, err := sub("value")
			if err != nil {
				return nil, err
			}
			r.Value = v
		}
		return r, nil
	case "break":
		return &BreakExpression{}, nil
	case "null":
		return &NullExpression{}, nil
	case "function":
		fn, err := decodeFunction(n)
		if err != nil {
			return nil, err
		}
		return fn, nil
	case "":
		return nil, errAt(n, "expression is missing \"kind\"")
	default:
		return nil, errAt(n, "unknown kind %q", kind)
	}
}

func decodeCall(n *yaml.Node, m map[string]*yaml.Node) (Expression, error) {
	call := &Invocation{}
	if name := str(m, "method"); name != "" {
		call.Method = &MethodRef{DeclaringType: str(m, "declaring_type"), Name: name}
	}
	if tn, ok := m["this"]; ok {
		this, err := decodeExpression(tn)
		if err != nil {
			return nil, err
		}
		call.This = this
	}
	if an, ok := m["arguments"]; ok {
		if an.Kind != yaml.SequenceNode {
			return nil, errAt(an, "arguments: expected sequence, got %s", kindName(an))
		}
		for _, a := range an.Content {
			arg, err := decodeExpression(a)
			if err != nil {
				return nil, err
			}
			call.Arguments = append(call.Arguments, arg)
		}
	}
	return call, nil
}
