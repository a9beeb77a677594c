package release

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// SnapshotSuffix is appended to snapshot versions.
const SnapshotSuffix = "-SNAPSHOT"

// semverPattern matches MAJOR.MINOR.PATCH with optional pre-release and build
// metadata. A leading "v" is stripped before matching.
var semverPattern = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-([0-9A-Za-z.-]+))?(?:\+([0-9A-Za-z.-]+))?$`)

// Version is a parsed semantic version.
type Version struct {
	Major      int
	Minor      int
	Patch      int
	PreRelease string
	Build      string
}

// ParseVersion parses "1.2.3", "v1.2.3", "1.2.3-rc.1" or "1.2.3+build.5".
func ParseVersion(s string) (Version, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "v")
	m := semverPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return Version{}, fmt.Errorf("invalid semantic version %q (expected: X.Y.Z)", s)
	}

	var v Version
	var err error
	if v.Major, err = strconv.Atoi(m[1]); err != nil {
		return Version{}, fmt.Errorf("parsing major of %q: %w", s, err)
	}
	if v.Minor, err = strconv.Atoi(m[2]); err != nil {
		return Version{}, fmt.Errorf("parsing minor of %q: %w", s, err)
	}
	if v.Patch, err = strconv.Atoi(m[3]); err != nil {
		return Version{}, fmt.Errorf("parsing patch of %q: %w", s, err)
	}
	v.PreRelease = m[4]
	v.Build = m[5]
	return v, nil
}

// String renders the version without a "v" prefix.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.PreRelease != "" {
		s += "-" + v.PreRelease
	}
	if v.Build != "" {
		s += "+" + v.Build
	}
	return s
}

// Compare returns -1, 0 or 1 by SemVer precedence: numeric components
// first, then pre-release identifiers one at a time (so rc.9 < rc.10 and a
// release ranks above its pre-releases). Build metadata is ignored.
func (v Version) Compare(o Version) int {
	return v.semver().Compare(o.semver())
}

func (v Version) semver() *semver.Version {
	return semver.New(uint64(v.Major), uint64(v.Minor), uint64(v.Patch), v.PreRelease, v.Build)
}

// Bump returns the version incremented by kind. Lower components reset to
// zero and pre-release/build metadata is dropped.
func (v Version) Bump(kind Bump) Version {
	switch kind {
	case BumpMajor:
		return Version{Major: v.Major + 1}
	case BumpMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	default:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}
