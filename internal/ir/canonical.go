package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 canonical JSON.
// Tree dumps and tree hashes both go through this encoder so that two
// structurally equal trees always serialize to identical bytes.
//
// Differences from json.Marshal:
//  1. Object keys sorted by UTF-16 code units
//  2. No HTML escaping
//  3. Strings are NFC normalized
//  4. Floats and null are rejected
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := marshalCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is forbidden in canonical JSON")
	case string:
		return marshalCanonicalString(buf, val)
	case int64:
		fmt.Fprintf(buf, "%d", val)
	case int:
		fmt.Fprintf(buf, "%d", val)
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, compareKeysRFC8785)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalCanonicalString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := marshalCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("object[%q]: %w", k, err)
			}
		}
		buf.WriteByte('}')
	case float64, float32:
		return fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

// compareKeysRFC8785 orders keys by UTF-16 code units.
func compareKeysRFC8785(a, b string) int {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	return slices.Compare(ua, ub)
}

// marshalCanonicalString writes s NFC normalized, escaping only control
// characters, backslash and quote.
func marshalCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	out := bytes.TrimSuffix(tmp.Bytes(), []byte("\n"))
	buf.Write(unescapeLineSeparators(out))
	return nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes json.Encoder
// emits back into literal characters. An escape preceded by an odd number
// of backslashes is literal text and stays as is.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] == '\\' && i+5 < len(data) && data[i+1] == 'u' &&
			string(data[i+2:i+5]) == "202" && (data[i+5] == '8' || data[i+5] == '9') {
			slashes := 0
			for j := len(out) - 1; j >= 0 && out[j] == '\\'; j-- {
				slashes++
			}
			if slashes%2 == 0 {
				if data[i+5] == '8' {
					out = append(out, "\u2028"...)
				} else {
					out = append(out, "\u2029"...)
				}
				i += 5
				continue
			}
		}
		out = append(out, data[i])
	}
	return out
}

// ToCanonical converts a node into the generic map form consumed by
// MarshalCanonical. Every object carries a "kind" key.
func ToCanonical(n Node) map[string]any {
	obj := map[string]any{}
	if s, ok := n.(Statement); ok && s.Label() != "" {
		obj["label"] = s.Label()
	}
	switch v := n.(type) {
	case *Function:
		obj["kind"] = "function"
		obj["name"] = v.Name
		params := make([]any, len(v.Parameters))
		for i, p := range v.Parameters {
			params[i] = ToCanonical(p)
		}
		obj["parameters"] = params
		vars := make([]any, 0)
		for _, name := range v.VariableNames() {
			vars = append(vars, name)
		}
		obj["variables"] = vars
		if v.Body != nil {
			obj["body"] = ToCanonical(v.Body)
		}
	case *Block:
		obj["kind"] = "block"
		obj["statements"] = canonicalStatements(v.Statements)
	case *IfStatement:
		obj["kind"] = "if"
		obj["condition"] = ToCanonical(v.Condition)
		obj["then"] = ToCanonical(v.Then)
		if v.Else != nil {
			obj["else"] = ToCanonical(v.Else)
		}
	case *SwitchStatement:
		obj["kind"] = "switch"
		obj["condition"] = ToCanonical(v.Condition)
		cases := make([]any, len(v.Cases))
		for i, c := range v.Cases {
			cases[i] = ToCanonical(c)
		}
		obj["cases"] = cases
	case *SwitchCase:
		obj["kind"] = "case"
		if v.IsDefault() {
			obj["default"] = true
		} else {
			vals := make([]any, len(v.Values))
			for i, e := range v.Values {
				vals[i] = ToCanonical(e)
			}
			obj["values"] = vals
		}
		if v.Body != nil {
			obj["body"] = ToCanonical(v.Body)
		}
	case *ExpressionStatement:
		obj["kind"] = "expr"
		obj["expression"] = ToCanonical(v.Expression)
	case *NullStatement:
		obj["kind"] = "nop"
	case *VariableDeclarationStatement:
		obj["kind"] = "var"
		decls := make([]any, len(v.Declarations))
		for i, d := range v.Declarations {
			decls[i] = ToCanonical(d)
		}
		obj["declarations"] = decls
	case *Declaration:
		obj["kind"] = "declaration"
		obj["name"] = v.Left.Name
		if v.Right != nil {
			obj["value"] = ToCanonical(v.Right)
		}
	case *Variable:
		obj["kind"] = "variable"
		obj["name"] = v.Name
		if v.Type != "" {
			obj["type"] = v.Type
		}
	case *FieldRef:
		obj["kind"] = "field"
		obj["declaring_type"] = v.DeclaringType
		obj["name"] = v.Name
		if v.Type != "" {
			obj["type"] = v.Type
		}
	case *IgnoredMemberReference:
		obj["kind"] = "ignored"
		obj["member"] = ToCanonical(v.Member)
	case *DefaultValueLiteral:
		obj["kind"] = "default"
		obj["type"] = v.Type
	case *IntegerLiteral:
		obj["kind"] = "int"
		obj["value"] = v.Value
	case *StringLiteral:
		obj["kind"] = "string"
		obj["value"] = v.Value
	case *BooleanLiteral:
		obj["kind"] = "bool"
		obj["value"] = v.Value
	case *BinaryExpression:
		obj["kind"] = "binary"
		obj["op"] = string(v.Op)
		obj["left"] = ToCanonical(v.Left)
		obj["right"] = ToCanonical(v.Right)
	case *UnaryExpression:
		obj["kind"] = "unary"
		obj["op"] = string(v.Op)
		obj["operand"] = ToCanonical(v.Operand)
	case *Invocation:
		obj["kind"] = "call"
		if v.Method != nil {
			obj["method"] = v.Method.Name
			if v.Method.DeclaringType != "" {
				obj["declaring_type"] = v.Method.DeclaringType
			}
		}
		if v.This != nil {
			obj["this"] = ToCanonical(v.This)
		}
		args := make([]any, len(v.Arguments))
		for i, a := range v.Arguments {
			args[i] = ToCanonical(a)
		}
		obj["arguments"] = args
	case *PassByReference:
		obj["kind"] = "out"
		obj["referent"] = ToCanonical(v.Referent)
	case *ReferenceExpression:
		obj["kind"] = "ref"
		obj["referent"] = ToCanonical(v.Referent)
	case *GotoExpression:
		obj["kind"] = "goto"
		obj["target"] = v.TargetLabel
	case *ReturnExpression:
		obj["kind"] = "return"
		if v.Value != nil {
			obj["value"] = ToCanonical(v.Value)
		}
	case *BreakExpression:
		obj["kind"] = "break"
	case *NullExpression:
		obj["kind"] = "null"
	default:
		obj["kind"] = fmt.Sprintf("%T", n)
	}
	return obj
}

func canonicalStatements(stmts []Statement) []any {
	out := make([]any, len(stmts))
	for i, s := range stmts {
		out[i] = ToCanonical(s)
	}
	return out
}

// ModuleToCanonical converts a whole module.
func ModuleToCanonical(m *Module) map[string]any {
	fns := make([]any, len(m.Functions))
	for i, fn := range m.Functions {
		fns[i] = ToCanonical(fn)
	}
	obj := map[string]any{
		"ir_version": m.IRVersion,
		"functions":  fns,
	}
	if m.Name != "" {
		obj["name"] = m.Name
	}
	return obj
}
