// Package compiler implements the CompilerVersion tagged union.
package compiler

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

type Family string

const FamilyGhc Family = "ghc"

// Version is a tagged union of compiler family and version. The spec
// requires at minimum a Ghc variant; the family tag is carried so future
// variants round-trip through the same wire format without breaking
// existing snapshots.
type Version struct {
	family Family
	semver *semver.Version
}

func Ghc(v *semver.Version) Version {
	return Version{family: FamilyGhc, semver: v}
}

func (v Version) Family() Family { return v.family }

func (v Version) SemVer() *semver.Version { return v.semver }

// WhichCompiler reports whether this version belongs to the given family —
// the predicate used by flag-conditional logic during materialization.
func (v Version) WhichCompiler(f Family) bool { return v.family == f }

func (v Version) String() string {
	if v.semver == nil {
		return string(v.family)
	}
	return fmt.Sprintf("%s-%s", v.family, v.semver.String())
}

func (v Version) Equal(other Version) bool {
	if v.family != other.family {
		return false
	}
	if v.semver == nil || other.semver == nil {
		return v.semver == other.semver
	}
	return v.semver.Equal(other.semver)
}

// Parse decodes the custom-snapshot "compiler" string, e.g. "ghc-8.0.1".
// Failure to parse maps to InvalidCompiler per spec.md §7.
func Parse(text string) (Version, error) {
	parts := strings.SplitN(text, "-", 2)
	if len(parts) != 2 {
		return Version{}, &InvalidCompilerError{Text: text}
	}
	family := Family(strings.ToLower(parts[0]))
	v, err := semver.NewVersion(parts[1])
	if err != nil {
		return Version{}, &InvalidCompilerError{Text: text, Cause: err}
	}
	return Version{family: family, semver: v}, nil
}

// InvalidCompilerError is raised when a custom snapshot's compiler string
// cannot be parsed (spec.md §7).
type InvalidCompilerError struct {
	Text  string
	Cause error
}

func (e *InvalidCompilerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid compiler version %q: %s", e.Text, e.Cause)
	}
	return fmt.Sprintf("invalid compiler version %q", e.Text)
}

func (e *InvalidCompilerError) Unwrap() error { return e.Cause }

func (v Version) MarshalYAML() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Version) UnmarshalYAML(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"'`)
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// GobEncode/GobDecode round-trip through the string form, since the
// wrapped *semver.Version carries unexported fields gob cannot see.
func (v Version) GobEncode() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Version) GobDecode(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
