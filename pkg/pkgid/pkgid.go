// Package pkgid defines the opaque identifiers shared across the
// resolution core: package names, versions, flags, and version ranges.
package pkgid

import (
	"cmp"
	"fmt"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
)

// PackageName is an opaque, totally-ordered package identifier.
type PackageName string

func (n PackageName) String() string { return string(n) }

// ToolName is an executable name as it appears in a toolDeps set; it is
// resolved to providing packages strictly through the tool map, never by
// assuming a package named N provides a tool named N.
type ToolName string

// ExeName is an executable a package declares that it provides.
type ExeName string

// Version wraps the teacher's semantic-version library. Dotted versions
// with one to three numeric components parse; missing components render as
// zero, so "4.7" prints as "4.7.0". Versions with four or more components
// are rejected.
type Version struct {
	v *semver.Version
}

// parsedVersions holds one *semver.Version per canonical string.
var parsedVersions sync.Map

func NewVersion(raw string) (Version, error) {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return Version{}, fmt.Errorf("pkgid: invalid version %q: %w", raw, err)
	}
	// Equal versions share one parsed value, so Version and
	// PackageIdentifier compare by value with == and as map or set keys.
	shared, _ := parsedVersions.LoadOrStore(v.String(), v)
	return Version{v: shared.(*semver.Version)}, nil
}

func MustVersion(raw string) Version {
	v, err := NewVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.String()
}

func (v Version) IsZero() bool { return v.v == nil }

func (v Version) Compare(other Version) int {
	if v.v == nil || other.v == nil {
		return cmp.Compare(v.String(), other.String())
	}
	return v.v.Compare(other.v)
}

func (v Version) Equal(other Version) bool { return v.Compare(other) == 0 }

// Max returns the greater of two versions; ties favor a, matching the
// spec's "best-known version (max across known indexes)" rule, which needs
// a deterministic tie-break when indexes agree.
func Max(a, b Version) Version {
	if b.Compare(a) > 0 {
		return b
	}
	return a
}

func (v Version) MarshalYAML() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Version) UnmarshalYAML(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"'`)
	parsed, err := NewVersion(s)
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
	if len(data) == 0 {
		*v = Version{}
		return nil
	}
	parsed, err := NewVersion(string(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// PackageIdentifier is a concrete (name, version) pin.
type PackageIdentifier struct {
	Name    PackageName
	Version Version
}

func (id PackageIdentifier) String() string {
	return fmt.Sprintf("%s-%s", id.Name, id.Version)
}

// FlagName is an opaque cabal-style flag identifier.
type FlagName string

// FlagAssignment maps flag name to its boolean setting.
type FlagAssignment map[FlagName]bool

// Equal reports whether two assignments agree on every key present in
// either map.
func (a FlagAssignment) Equal(b FlagAssignment) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

// Merge returns the union of a and b; where both set a key, b's value
// wins.
func (a FlagAssignment) Merge(b FlagAssignment) FlagAssignment {
	out := make(FlagAssignment, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// VersionRange is a predicate over versions, backed by cabal-style
// constraint syntax (">=1.2 && <2"). An intersection is represented as the
// conjunction of every constraint contributed so far, so Intersect never
// needs to reparse a combined string.
type VersionRange struct {
	raw  string
	cons []*semver.Constraints
}

func ParseVersionRange(raw string) (VersionRange, error) {
	if raw == "" {
		return VersionRange{}, nil
	}
	cons, err := semver.NewConstraint(strings.ReplaceAll(raw, "&&", ","))
	if err != nil {
		return VersionRange{}, fmt.Errorf("pkgid: invalid version range %q: %w", raw, err)
	}
	return VersionRange{raw: raw, cons: []*semver.Constraints{cons}}, nil
}

// Any matches every version.
func Any() VersionRange { return VersionRange{} }

func (r VersionRange) String() string {
	if len(r.cons) == 0 {
		return "*"
	}
	return r.raw
}

func (r VersionRange) WithinRange(v Version) bool {
	if len(r.cons) == 0 {
		return true
	}
	if v.v == nil {
		return false
	}
	for _, c := range r.cons {
		if !c.Check(v.v) {
			return false
		}
	}
	return true
}

// Intersect combines two ranges conjunctively.
func (r VersionRange) Intersect(other VersionRange) VersionRange {
	switch {
	case len(r.cons) == 0:
		return other
	case len(other.cons) == 0:
		return r
	}
	raw := r.raw
	if other.raw != "" {
		if raw != "" {
			raw += " && "
		}
		raw += other.raw
	}
	return VersionRange{raw: raw, cons: append(append([]*semver.Constraints{}, r.cons...), other.cons...)}
}

func (r VersionRange) MarshalYAML() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *VersionRange) UnmarshalYAML(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"'`)
	if s == "*" {
		s = ""
	}
	parsed, err := ParseVersionRange(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
