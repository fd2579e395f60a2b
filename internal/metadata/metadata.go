// Package metadata answers the type-system questions the rewrite passes ask
// about expressions. It is read-only and safe to share between passes.
package metadata

import "github.com/roach88/deswitch/internal/ir"

// Resolver resolves field identity and recognizes default-value literals.
type Resolver interface {
	// FieldOf returns the field behind a metadata-only member access.
	FieldOf(e ir.Expression) (*ir.FieldRef, bool)

	// IsDefaultValue reports whether e is the default value of its type.
	IsDefaultValue(e ir.Expression) bool
}

// Static is the Resolver for fully decoded trees: every reference is
// already resolved, so answers come from the node shapes alone.
type Static struct{}

var _ Resolver = Static{}

// FieldOf accepts only IgnoredMemberReference wrapping a field. A field
// read as a value is a real access and never a cache slot.
func (Static) FieldOf(e ir.Expression) (*ir.FieldRef, bool) {
	ref, ok := e.(*ir.IgnoredMemberReference)
	if !ok {
		return nil, false
	}
	f, ok := ref.Member.(*ir.FieldRef)
	if !ok || f == nil {
		return nil, false
	}
	return f, true
}

// IsDefaultValue recognizes DefaultValueLiteral of any type.
func (Static) IsDefaultValue(e ir.Expression) bool {
	_, ok := e.(*ir.DefaultValueLiteral)
	return ok
}
