package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/deswitch/internal/ir"
)

func TestCleanupVariableRemovesDeclarationsAndRegistry(t *testing.T) {
	fn := ir.NewFunction("F",
		ir.Declare(ir.Var("a"), ir.Var("i"), ir.Var("b")),
		ir.NewBlock(ir.Declare(ir.Var("i"))),
	)

	removed := CleanupVariable(ir.Var("i"), []ir.Node{fn.Body, fn})

	assert.Equal(t, 2, removed)
	assert.Equal(t, "var a, b;\n", ir.Format(fn.Body.Statements[0]))
	inner := fn.Body.Statements[1].(*ir.Block)
	assert.IsType(t, &ir.NullStatement{}, inner.Statements[0])
	assert.Equal(t, []string{"a", "b"}, fn.VariableNames())
}

func TestCleanupVariableIsIdempotent(t *testing.T) {
	fn := ir.NewFunction("F", ir.Declare(ir.Var("i")))
	chain := []ir.Node{fn.Body, fn}

	require.Equal(t, 1, CleanupVariable(ir.Var("i"), chain))
	before := ir.MustTreeHash(fn)

	assert.Zero(t, CleanupVariable(ir.Var("i"), chain))
	assert.Equal(t, before, ir.MustTreeHash(fn))
}

func TestCleanupVariableKeepsLabel(t *testing.T) {
	fn := ir.NewFunction("F", ir.Labelled("L", ir.Declare(ir.Var("i"))))

	CleanupVariable(ir.Var("i"), []ir.Node{fn})

	null, ok := fn.Body.Statements[0].(*ir.NullStatement)
	require.True(t, ok)
	assert.Equal(t, "L", null.Label())
}

func TestCleanupVariableSkipsNestedFunctions(t *testing.T) {
	nested := ir.NewFunction("closure", ir.Declare(ir.Var("i")))
	fn := ir.NewFunction("F", ir.Declare(ir.Var("i")), ir.Stmt(nested))

	removed := CleanupVariable(ir.Var("i"), []ir.Node{fn.Body, fn})

	assert.Equal(t, 1, removed)
	assert.Equal(t, "var i;\n", ir.Format(nested.Body.Statements[0]))
	_, ok := nested.LookupVariable("i")
	assert.True(t, ok)
}

func TestCleanupVariableEveryFunctionOnChain(t *testing.T) {
	nested := ir.NewFunction("closure", ir.Declare(ir.Var("i")))
	fn := ir.NewFunction("F", ir.Declare(ir.Var("i")), ir.Stmt(nested))

	removed := CleanupVariable(ir.Var("i"), []ir.Node{nested.Body, nested, fn.Body, fn})

	assert.Equal(t, 2, removed)
	_, ok := nested.LookupVariable("i")
	assert.False(t, ok)
	_, ok = fn.LookupVariable("i")
	assert.False(t, ok)
}
