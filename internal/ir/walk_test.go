package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescendantsDocumentOrder(t *testing.T) {
	fn := NewFunction("F",
		Stmt(Goto("A")),
		If(Var("c"), Stmt(Goto("B"))),
		Stmt(Goto("C")),
	)

	var targets []string
	for g := range DescendantsOf[*GotoExpression](fn) {
		targets = append(targets, g.TargetLabel)
	}

	assert.Equal(t, []string{"A", "B", "C"}, targets)
	assert.Equal(t, "A", FirstGoto(fn).TargetLabel)
	assert.Nil(t, FirstGoto(Var("x")))
}

func TestDescendantsStopsEarly(t *testing.T) {
	fn := NewFunction("F", Stmt(Goto("A")), Stmt(Goto("B")))

	count := 0
	for range Descendants(fn) {
		count++
		break
	}

	assert.Equal(t, 1, count)
}

func TestContains(t *testing.T) {
	jump := Goto("A")
	fn := NewFunction("F", If(Var("c"), Stmt(jump)))

	assert.True(t, Contains(fn, jump))
	assert.True(t, Contains(jump, jump))
	assert.False(t, Contains(fn, Goto("A")))
}

func TestReplaceRecursive(t *testing.T) {
	jump := Goto("A")
	fn := NewFunction("F", If(Var("c"), Stmt(jump)))

	require.True(t, ReplaceRecursive(fn, jump, &NullExpression{}))
	assert.Nil(t, FirstGoto(fn))
	assert.False(t, ReplaceRecursive(fn, jump, &NullExpression{}))
}

func TestReplaceChildRejectsWrongKind(t *testing.T) {
	c := DefaultCase()
	ss := Switch(Var("x"), c)

	assert.False(t, ss.ReplaceChild(c, Stmt(Goto("A"))), "a case slot only holds cases")
	assert.False(t, c.ReplaceChild(c.Body, &NullStatement{}), "a case body only holds blocks")
}

func TestCollectLabelledStatements(t *testing.T) {
	b := NewBlock(
		Stmt(Goto("L")),
		Labelled("L", Stmt(Call(nil, "one"))),
		Stmt(Call(nil, "two")),
	)

	run := CollectLabelledStatements(b, "L")

	require.Len(t, run, 2)
	assert.Equal(t, "L", run[0].Label())
	assert.Len(t, b.Statements, 3)
	assert.IsType(t, &NullStatement{}, b.Statements[1])
	assert.IsType(t, &NullStatement{}, b.Statements[2])
	assert.Nil(t, CollectLabelledStatements(b, "L"), "label gone after collection")
	assert.Equal(t, -1, LabelIndex(b, ""))
}

func TestRemoveDeclarations(t *testing.T) {
	s := Declare(Var("a"), Var("i"), Var("b"), Var("i"))

	assert.Equal(t, 2, s.RemoveDeclarations("i"))
	assert.Equal(t, "var a, b;\n", Format(s))
	assert.Zero(t, s.RemoveDeclarations("i"))
}

func TestFunctionRegistry(t *testing.T) {
	fn := &Function{Name: "F"}
	fn.RegisterVariable(Var("a"))
	fn.RegisterVariable(Var("b"))
	fn.RegisterVariable(&Variable{Name: "a", Type: "int"})

	assert.Equal(t, []string{"a", "b"}, fn.VariableNames())
	a, ok := fn.LookupVariable("a")
	require.True(t, ok)
	assert.Equal(t, "int", a.Type)

	assert.True(t, fn.RemoveVariable("a"))
	assert.False(t, fn.RemoveVariable("a"))
	assert.Equal(t, []string{"b"}, fn.VariableNames())
}

func TestSameVariable(t *testing.T) {
	assert.True(t, SameVariable(Var("x"), Var("x")))
	assert.False(t, SameVariable(Var("x"), Var("y")))
}
