// Package emit renders IR modules as Go source for review.
//
// The output is gofmt-formatted and syntactically valid Go, but it is not
// meant to type-check: IR types map onto Go only where the names coincide,
// and everything else is emitted as an identifier.
package emit

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/roach88/deswitch/internal/ir"
)

// Header is the first line of every emitted file.
const Header = "Code generated by deswitch. DO NOT EDIT."

// GoSource renders every function of m into one Go file in package pkg.
func GoSource(m *ir.Module, pkg string) (string, error) {
	if pkg == "" {
		pkg = m.Name
	}
	f := jen.NewFile(pkg)
	f.HeaderComment(Header)

	for i, fn := range m.Functions {
		if i > 0 {
			f.Line()
		}
		f.Add(function(fn))
	}

	buf := &bytes.Buffer{}
	if err := f.Render(buf); err != nil {
		return "", fmt.Errorf("render %s: %w", m.Name, err)
	}
	return buf.String(), nil
}

func function(fn *ir.Function) *jen.Statement {
	s := jen.Func().Id(fn.Name).Params(params(fn)...)
	if returnsValue(fn) {
		s.Id("any")
	}
	return s.Block(body(fn)...)
}

func params(fn *ir.Function) []jen.Code {
	out := make([]jen.Code, len(fn.Parameters))
	for i, p := range fn.Parameters {
		out[i] = jen.Id(p.Name).Add(goType(p.Type))
	}
	return out
}

func body(fn *ir.Function) []jen.Code {
	if fn.Body == nil {
		return nil
	}
	return statements(fn.Body.Statements)
}

// returnsValue reports whether fn, not counting nested functions, returns a value.
func returnsValue(fn *ir.Function) bool {
	found := false
	var walk func(n ir.Node)
	walk = func(n ir.Node) {
		if found {
			return
		}
		switch v := n.(type) {
		case *ir.Function:
			if v != fn {
				return
			}
		case *ir.ReturnExpression:
			if v.Value != nil {
				found = true
				return
			}
		}
		for _, c := range n.Children() {
			if c != nil {
				walk(c)
			}
		}
	}
	walk(fn)
	return found
}

// goType maps IR primitive type names onto Go. Unknown names pass through.
func goType(t string) *jen.Statement {
	switch t {
	case "":
		return jen.Id("any")
	case "string":
		return jen.String()
	case "int", "long":
		return jen.Int64()
	case "bool":
		return jen.Bool()
	default:
		return jen.Id(t)
	}
}
