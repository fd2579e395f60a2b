package ir

import (
	"errors"
	"fmt"

	semver "github.com/Masterminds/semver/v3"
)

// Version constants for the IR document format and the tool.
const (
	// IRVersion is the document format version written by this tool.
	IRVersion = "1.0.0"

	// ToolVersion is the deswitch release version.
	ToolVersion = "0.1.0"

	// SupportedIRVersions is the constraint a document's ir_version must meet.
	SupportedIRVersions = "^1.0"
)

// ErrUnsupportedVersion is returned when a document's ir_version falls
// outside SupportedIRVersions.
var ErrUnsupportedVersion = errors.New("unsupported ir_version")

// CheckVersion verifies that v satisfies SupportedIRVersions.
// An empty v is treated as IRVersion.
func CheckVersion(v string) error {
	if v == "" {
		v = IRVersion
	}
	sv, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrUnsupportedVersion, v, err)
	}
	c, err := semver.NewConstraint(SupportedIRVersions)
	if err != nil {
		return fmt.Errorf("parse constraint %q: %w", SupportedIRVersions, err)
	}
	if !c.Check(sv) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedVersion, sv, SupportedIRVersions)
	}
	return nil
}
