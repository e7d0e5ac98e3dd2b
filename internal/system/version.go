// Package system detects the host kernel and nft tool versions that gate
// version-dependent nftables features, and holds them in an immutable Snapshot.
package system

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Version is a major.minor.patch triple ordered lexicographically.
type Version struct {
	Major uint32
	Minor uint32
	Patch uint32
}

// NewVersion returns the version major.minor.patch.
func NewVersion(major, minor, patch uint32) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// Compare returns -1, 0 or +1 depending on whether a sorts before, equal to
// or after b.
func Compare(a, b Version) int {
	switch {
	case a.Major != b.Major:
		return cmpUint(a.Major, b.Major)
	case a.Minor != b.Minor:
		return cmpUint(a.Minor, b.Minor)
	default:
		return cmpUint(a.Patch, b.Patch)
	}
}

func cmpUint(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Compare compares v with o, see Compare.
func (v Version) Compare(o Version) int {
	return Compare(v, o)
}

// Less reports whether v sorts before o.
func (v Version) Less(o Version) bool {
	return Compare(v, o) < 0
}

// AtLeast reports whether v >= threshold. The threshold itself is included.
func (v Version) AtLeast(threshold Version) bool {
	return Compare(v, threshold) >= 0
}

// String returns "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// ErrMalformedVersion is returned when text is not a major.minor.patch triple.
var ErrMalformedVersion = errors.New("malformed version")

// ParseVersion parses "major.minor.patch". A kernel-style suffix starting with
// '-' (as in "6.1.0-18-amd64") is ignored.
func ParseVersion(s string) (Version, error) {
	core, _, _ := strings.Cut(strings.TrimSpace(s), "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("system: parse version %q: expected major.minor.patch: %w", s, ErrMalformedVersion)
	}

	var nums [3]uint32
	for i, name := range []string{"major", "minor", "patch"} {
		n, err := strconv.ParseUint(parts[i], 10, 32)
		if err != nil {
			return Version{}, fmt.Errorf("system: parse version %q: invalid %s component %q: %w", s, name, parts[i], ErrMalformedVersion)
		}
		nums[i] = uint32(n)
	}
	return NewVersion(nums[0], nums[1], nums[2]), nil
}

// ParseEngineVersion extracts the version from `nft --version` output, e.g.
// "nftables v1.0.6 (Lester Gooch #5)".
func ParseEngineVersion(out string) (Version, error) {
	_, after, found := strings.Cut(out, "v")
	if !found {
		return Version{}, fmt.Errorf("system: parse nft version %q: no version marker: %w", strings.TrimSpace(out), ErrMalformedVersion)
	}
	token := strings.FieldsFunc(after, func(r rune) bool {
		return r == '(' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(token) == 0 {
		return Version{}, fmt.Errorf("system: parse nft version %q: empty version: %w", strings.TrimSpace(out), ErrMalformedVersion)
	}
	return ParseVersion(token[0])
}

// MarshalYAML encodes v as its "major.minor.patch" string.
func (v Version) MarshalYAML() (interface{}, error) {
	return v.String(), nil
}

// UnmarshalYAML decodes a "major.minor.patch" scalar.
func (v *Version) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("system: version must be a scalar at line %d", node.Line)
	}
	parsed, err := ParseVersion(node.Value)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
