// Package verify checks the structural invariants a rewritten function must
// keep: every jump has a target, no node is reachable twice and no label is
// declared twice.
package verify

import (
	"fmt"

	"github.com/roach88/deswitch/internal/ir"
)

// Issue codes (V100-V199)
const (
	CodeNilNode        = "V100" // nil child where a node is required
	CodeDanglingGoto   = "V101" // goto targets a label absent from the function
	CodeDuplicateNode  = "V102" // same node reachable from two places
	CodeDuplicateLabel = "V103" // label declared on two statements
	CodeMultiDefault   = "V104" // switch has more than one default case
)

// Issue is one structural problem found in a function.
type Issue struct {
	Function string `json:"function"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// Error implements the error interface.
func (i Issue) Error() string {
	return fmt.Sprintf("[%s] %s: %s", i.Code, i.Function, i.Message)
}

// Function checks fn and every function nested in it.
// Returns all issues found (does not fail-fast).
func Function(fn *ir.Function) []Issue {
	c := &checker{seen: make(map[ir.Node]bool)}
	c.function(fn)
	return c.issues
}

// Module checks every function of m.
func Module(m *ir.Module) []Issue {
	var issues []Issue
	for _, fn := range m.Functions {
		issues = append(issues, Function(fn)...)
	}
	return issues
}

type checker struct {
	seen   map[ir.Node]bool
	issues []Issue
}

// scope holds the labels and jumps of one function body. Labels are
// function-scoped, so nested functions get their own scope.
type scope struct {
	name   string
	labels map[string]int
	gotos  []*ir.GotoExpression
	nested []*ir.Function
}

func (c *checker) report(fn, code, format string, args ...any) {
	c.issues = append(c.issues, Issue{Function: fn, Code: code, Message: fmt.Sprintf(format, args...)})
}

func (c *checker) function(fn *ir.Function) {
	if fn.Body == nil {
		c.report(fn.Name, CodeNilNode, "function has no body")
		return
	}
	sc := &scope{name: fn.Name, labels: make(map[string]int)}
	c.walk(sc, fn.Body)

	// V103: label declared twice
	for label, count := range sc.labels {
		if count > 1 {
			c.report(fn.Name, CodeDuplicateLabel, "label %q declared %d times", label, count)
		}
	}

	// V101: dangling goto
	for _, g := range sc.gotos {
		if sc.labels[g.TargetLabel] == 0 {
			c.report(fn.Name, CodeDanglingGoto, "goto %s has no target", g.TargetLabel)
		}
	}

	for _, inner := range sc.nested {
		c.function(inner)
	}
}

func (c *checker) walk(sc *scope, n ir.Node) {
	// V102: node reachable twice
	if c.seen[n] {
		c.report(sc.name, CodeDuplicateNode, "%T reachable twice: %s", n, ir.Format(n))
		return
	}
	c.seen[n] = true

	switch v := n.(type) {
	case *ir.Function:
		sc.nested = append(sc.nested, v)
		return
	case *ir.GotoExpression:
		sc.gotos = append(sc.gotos, v)
	case *ir.SwitchStatement:
		defaults := 0
		for _, cs := range v.Cases {
			if cs != nil && cs.IsDefault() {
				defaults++
			}
		}
		if defaults > 1 {
			c.report(sc.name, CodeMultiDefault, "switch (%s) has %d default cases", ir.Format(v.Condition), defaults)
		}
	}
	if s, ok := n.(ir.Statement); ok && s.Label() != "" {
		sc.labels[s.Label()]++
	}

	for _, child := range n.Children() {
		if isNil(child) {
			c.report(sc.name, CodeNilNode, "%T has a nil child", n)
			continue
		}
		c.walk(sc, child)
	}
}

// isNil catches both untyped nil and typed nil pointers stored in a Node.
func isNil(n ir.Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *ir.Block:
		return v == nil
	case *ir.SwitchCase:
		return v == nil
	case *ir.Variable:
		return v == nil
	}
	return false
}
