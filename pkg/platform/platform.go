// Package platform is adapted from the teacher's simpleplatform: a small
// OS/architecture predicate used when resolving package descriptions
// conditional on platform (spec.md §4.3 step 3, PackageConfig.platform).
package platform

import (
	"fmt"
	"runtime"
	"strings"
)

type Platform struct {
	OS           string
	Architecture string
}

func Current() Platform {
	return Platform{OS: runtime.GOOS, Architecture: runtime.GOARCH}
}

func Parse(s string) (Platform, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return Platform{}, fmt.Errorf("platform: expected format os/arch, got %q", s)
	}
	return Platform{OS: parts[0], Architecture: parts[1]}, nil
}

func (p Platform) String() string {
	return fmt.Sprintf("%s/%s", p.OS, p.Architecture)
}

func (p Platform) Equal(other Platform) bool {
	return p.OS == other.OS && p.Architecture == other.Architecture
}

func (p Platform) MarshalYAML() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Platform) UnmarshalYAML(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"'`)
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
