package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Scheme selects how many components a project version carries.
type Scheme string

const (
	// SchemeSemver is major.minor.patch.
	SchemeSemver Scheme = "semver"
	// SchemeBuild is major.minor.patch.build; the build counter moves on every
	// commit that does not earn a semantic bump.
	SchemeBuild Scheme = "build"
)

// ParseScheme converts a configuration value into a Scheme.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case SchemeSemver:
		return SchemeSemver, nil
	case SchemeBuild:
		return SchemeBuild, nil
	}
	return "", fmt.Errorf("unknown version scheme %q (expected %q or %q)", s, SchemeSemver, SchemeBuild)
}

// Valid reports whether s is a known scheme.
func (s Scheme) Valid() bool {
	return s == SchemeSemver || s == SchemeBuild
}

var tupleRegex = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(?:\.(\d+))?$`)

// Version is a (major, minor, patch[, build]) tuple.
type Version struct {
	Major  uint64
	Minor  uint64
	Patch  uint64
	Build  uint64
	Scheme Scheme
}

// ParseVersion parses s according to scheme. The semver scheme rejects a
// fourth component instead of dropping it; the build scheme reads a missing
// build component as 0.
func ParseVersion(s string, scheme Scheme) (*Version, error) {
	raw := strings.TrimSpace(s)
	switch scheme {
	case SchemeSemver:
		if m := tupleRegex.FindStringSubmatch(raw); m != nil && m[4] != "" {
			return nil, fmt.Errorf("%w: %q has a build component but scheme is %s", ErrSchemeMismatch, s, scheme)
		}
		v, err := semver.StrictNewVersion(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrVersionFormat, s, err)
		}
		if v.Prerelease() != "" || v.Metadata() != "" {
			return nil, fmt.Errorf("%w: %q: prerelease and metadata are not supported", ErrVersionFormat, s)
		}
		return &Version{Major: v.Major(), Minor: v.Minor(), Patch: v.Patch(), Scheme: SchemeSemver}, nil
	case SchemeBuild:
		m := tupleRegex.FindStringSubmatch(raw)
		if m == nil {
			return nil, fmt.Errorf("%w: %q (expected major.minor.patch[.build])", ErrVersionFormat, s)
		}
		var parts [4]uint64
		for i := range parts {
			if m[i+1] == "" {
				continue
			}
			n, err := strconv.ParseUint(m[i+1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrVersionFormat, s, err)
			}
			parts[i] = n
		}
		return &Version{Major: parts[0], Minor: parts[1], Patch: parts[2], Build: parts[3], Scheme: SchemeBuild}, nil
	}
	return nil, fmt.Errorf("unknown version scheme %q", scheme)
}

// Bump returns the version that follows v for the given kind. BumpNone
// returns an unchanged copy.
func (v *Version) Bump(kind BumpKind) (*Version, error) {
	if v.Scheme == SchemeSemver {
		return v.bumpSemver(kind)
	}
	next := *v
	switch kind {
	case BumpMajor:
		next = Version{Major: v.Major + 1, Scheme: v.Scheme}
	case BumpMinor:
		next = Version{Major: v.Major, Minor: v.Minor + 1, Scheme: v.Scheme}
	case BumpPatch:
		next = Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1, Scheme: v.Scheme}
	case BumpBuild:
		next.Build++
	case BumpNone:
	default:
		return nil, fmt.Errorf("unknown bump kind %d", kind)
	}
	return &next, nil
}

func (v *Version) bumpSemver(kind BumpKind) (*Version, error) {
	sv := semver.New(v.Major, v.Minor, v.Patch, "", "")
	var next semver.Version
	switch kind {
	case BumpMajor:
		next = sv.IncMajor()
	case BumpMinor:
		next = sv.IncMinor()
	case BumpPatch:
		next = sv.IncPatch()
	case BumpNone:
		next = *sv
	case BumpBuild:
		return nil, fmt.Errorf("%w: build bumps need the %s scheme", ErrSchemeMismatch, SchemeBuild)
	default:
		return nil, fmt.Errorf("unknown bump kind %d", kind)
	}
	return &Version{Major: next.Major(), Minor: next.Minor(), Patch: next.Patch(), Scheme: SchemeSemver}, nil
}

// Compare orders versions lexicographically by tuple.
func (v *Version) Compare(other *Version) int {
	a := [4]uint64{v.Major, v.Minor, v.Patch, v.Build}
	b := [4]uint64{other.Major, other.Minor, other.Patch, other.Build}
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// Equal reports whether both tuples are identical.
func (v *Version) Equal(other *Version) bool {
	return other != nil && v.Compare(other) == 0
}

// String renders the version in its scheme's manifest form.
func (v *Version) String() string {
	if v.Scheme == SchemeBuild {
		return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Patch, v.Build)
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
