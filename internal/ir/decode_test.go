package ir

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lowered = `
ir_version: "1.0.0"
name: sample
functions:
  - name: Classify
    parameters: [s]
    body:
      - kind: var
        declarations: [i]
      - kind: if
        condition: {kind: binary, op: "==", left: !var s, right: !default string}
        then: {kind: goto, target: IL_default}
      - kind: if
        condition:
          kind: binary
          op: "=="
          left: {kind: ignored, member: !field Switch.map0}
          right: !default Dictionary
        then:
          - kind: call
            method: Add
            this: {kind: ignored, member: !field Switch.map0}
            arguments: ["a", 0]
          - kind: call
            method: Add
            this: {kind: ignored, member: !field Switch.map0}
            arguments: ["b", 1]
      - kind: if
        condition:
          kind: unary
          op: "!"
          operand:
            kind: call
            method: TryResolve
            this: {kind: ignored, member: !field Switch.map0}
            arguments: [!var s, {kind: out, referent: {kind: ref, referent: !var i}}]
        then: !goto IL_default
      - kind: switch
        condition: !var i
        cases:
          - values: [0]
            body: [{kind: return, value: 10}]
          - values: [1]
            body: [{kind: return, value: 11}]
          - default: true
            body: [!goto IL_default]
      - kind: return
        label: IL_default
        value: -1
`

func TestDecodeModule(t *testing.T) {
	m, err := DecodeModule([]byte(lowered))
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", m.IRVersion)
	assert.Equal(t, "sample", m.Name)
	require.Len(t, m.Functions, 1)

	fn := m.Function("Classify")
	require.NotNil(t, fn)
	require.Len(t, fn.Parameters, 1)
	assert.Equal(t, "s", fn.Parameters[0].Name)
	assert.Equal(t, []string{"i"}, fn.VariableNames())
	require.Len(t, fn.Body.Statements, 6)

	want := `function Classify(s) {
  var i;
  if (s == default(string)) goto IL_default;
  if (Switch.map0 == default(Dictionary)) {
    Switch.map0.Add("a", 0);
    Switch.map0.Add("b", 1);
  }
  if (!Switch.map0.TryResolve(s, out i)) goto IL_default;
  switch (i) {
    case 0:
      return 10;
    case 1:
      return 11;
    default:
      goto IL_default;
  }
  IL_default: return -1;
}
`
	assert.Equal(t, want, Format(fn))
}

func TestDecodeScalarShorthand(t *testing.T) {
	fn, err := DecodeFunction([]byte(`
name: F
body:
  - kind: expr
    expression:
      kind: call
      method: Use
      arguments: [!var v, 7, "text", true, !default int, !field A.B.c, !goto L]
`))
	require.NoError(t, err)

	call := fn.Body.Statements[0].(*ExpressionStatement).Expression.(*Invocation)
	require.Len(t, call.Arguments, 7)
	assert.IsType(t, &Variable{}, call.Arguments[0])
	assert.Equal(t, int64(7), call.Arguments[1].(*IntegerLiteral).Value)
	assert.Equal(t, "text", call.Arguments[2].(*StringLiteral).Value)
	assert.True(t, call.Arguments[3].(*BooleanLiteral).Value)
	assert.Equal(t, "int", call.Arguments[4].(*DefaultValueLiteral).Type)
	assert.Equal(t, FieldKey{DeclaringType: "A.B", Name: "c"}, call.Arguments[5].(*FieldRef).Key())
	assert.Equal(t, "L", call.Arguments[6].(*GotoExpression).TargetLabel)
}

func TestDecodeExplicitVariables(t *testing.T) {
	fn, err := DecodeFunction([]byte(`
name: F
variables: [a, {name: b, type: int}]
body:
  - {kind: var, declarations: [c, {name: d, value: 1}]}
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, fn.VariableNames())
	b, ok := fn.LookupVariable("b")
	require.True(t, ok)
	assert.Equal(t, "int", b.Type)
	assert.Equal(t, "var c, d = 1;\n", Format(fn.Body.Statements[0]))
}

func TestDecodeNestedFunction(t *testing.T) {
	fn, err := DecodeFunction([]byte(`
name: outer
body:
  - kind: function
    name: inner
    body: [{kind: return}]
`))
	require.NoError(t, err)

	inner, ok := fn.Body.Statements[0].(*ExpressionStatement).Expression.(*Function)
	require.True(t, ok)
	assert.Equal(t, "inner", inner.Name)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		message string
	}{
		{
			name:    "missing body",
			input:   "name: F\n",
			line:    1,
			message: `missing required field "body"`,
		},
		{
			name:    "unknown kind",
			input:   "name: F\nbody:\n  - kind: loop\n",
			line:    3,
			message: `unknown kind "loop"`,
		},
		{
			name:    "statement without kind",
			input:   "name: F\nbody:\n  - label: L\n",
			line:    3,
			message: `statement is missing "kind"`,
		},
		{
			name:    "case without values",
			input:   "name: F\nbody:\n  - kind: switch\n    condition: !var x\n    cases:\n      - body: []\n",
			line:    6,
			message: "case needs values or default: true",
		},
		{
			name:    "bad field shorthand",
			input:   "name: F\nbody:\n  - !field nodot\n",
			line:    3,
			message: `field "nodot" must be Type.name`,
		},
		{
			name:    "unsupported scalar",
			input:   "name: F\nbody:\n  - 1.5\n",
			line:    3,
			message: "unsupported scalar tag !!float",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFunction([]byte(tt.input))
			require.Error(t, err)

			var de *DecodeError
			require.True(t, errors.As(err, &de), "got %T: %v", err, err)
			assert.Equal(t, tt.line, de.Line)
			assert.Equal(t, tt.message, de.Message)
		})
	}
}

func TestDecodeModuleEmpty(t *testing.T) {
	_, err := DecodeModule([]byte(""))

	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "empty document", de.Error())
}

func TestDecodeModuleInvalidYAML(t *testing.T) {
	_, err := DecodeModule([]byte("functions: [\n"))

	assert.ErrorContains(t, err, "decode module")
}
