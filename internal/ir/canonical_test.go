package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int64", int64(42), "42"},
		{"negative int", -100, "-100"},
		{"min int64", int64(-9223372036854775808), "-9223372036854775808"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"array", []any{int64(1), "a", true}, `[1,"a",true]`},
		{"no html escaping", "<a&b>", `"<a&b>"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	obj := map[string]any{
		"zebra": int64(1),
		"alpha": map[string]any{"b": int64(1), "a": int64(2)},
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":{"a":2,"b":1},"zebra":1}`, string(result))
}

func TestMarshalCanonicalUTF16Ordering(t *testing.T) {
	// U+10000 encodes as a surrogate pair starting at 0xD800, which sorts
	// before U+E000 in UTF-16 even though it sorts after it in UTF-8.
	obj := map[string]any{
		"\uE000":     int64(1),
		"\U00010000": int64(2),
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, "{\"\U00010000\":2,\"\uE000\":1}", string(result))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// "e" + combining acute accent normalizes to a single code point.
	result, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(result))
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	result, err := MarshalCanonical("a\u2028b\u2029c")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(result))

	// A literal backslash followed by the text u2028 stays escaped.
	result, err = MarshalCanonical(`\u2028`)
	require.NoError(t, err)
	assert.Equal(t, `"\\u2028"`, string(result))
}

func TestMarshalCanonicalRejects(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"null", nil},
		{"float64", 1.5},
		{"float32", float32(1)},
		{"nested null", map[string]any{"a": []any{nil}}},
		{"unsupported", struct{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MarshalCanonical(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestToCanonicalStatement(t *testing.T) {
	s := Labelled("L", If(Eq(Var("s"), Default("string")), Stmt(Goto("D"))))

	result, err := MarshalCanonical(ToCanonical(s))
	require.NoError(t, err)

	want := `{"condition":{"kind":"binary","left":{"kind":"variable","name":"s"},"op":"==","right":{"kind":"default","type":"string"}},` +
		`"kind":"if","label":"L","then":{"kind":"block","statements":[{"expression":{"kind":"goto","target":"D"},"kind":"expr"}]}}`
	assert.Equal(t, want, string(result))
}

func TestToCanonicalDefaultCase(t *testing.T) {
	obj := ToCanonical(DefaultCase())

	assert.Equal(t, true, obj["default"])
	assert.NotContains(t, obj, "values")

	obj = ToCanonical(Case(nil))
	assert.Equal(t, []any{}, obj["values"], "empty value list is not a default case")
}

func TestModuleToCanonical(t *testing.T) {
	m := &Module{IRVersion: IRVersion, Functions: []*Function{NewFunction("F")}}

	obj := ModuleToCanonical(m)

	assert.Equal(t, IRVersion, obj["ir_version"])
	assert.NotContains(t, obj, "name")
	require.Len(t, obj["functions"], 1)
}
