package git

import "github.com/ariel-frischer/gitrelease/internal/release"

// highestName returns the tag that ranks highest among tags sharing a commit.
func highestName(names []string) string {
	best := names[0]
	for _, n := range names[1:] {
		if tagLess(best, n) {
			best = n
		}
	}
	return best
}

// tagLess orders tag names by the version they carry, so "v1.0.0" ranks
// above "v1.0.0-rc.1". Names carrying a version rank above names that do not.
// Equal versions and unparsable names fall back to natural order.
func tagLess(a, b string) bool {
	va, okA := tagVersion(a)
	vb, okB := tagVersion(b)
	switch {
	case okA && okB:
		if c := va.Compare(vb); c != 0 {
			return c < 0
		}
	case okA != okB:
		return okB
	}
	return naturalLess(a, b)
}

// tagVersion finds the version in a tag name such as "v1.2.3",
// "api-v1.2.3" or "services/api/1.2.3". The version must start the name or
// follow a '-' or '/'.
func tagVersion(name string) (release.Version, bool) {
	for i := 0; i < len(name); i++ {
		if i > 0 && name[i-1] != '-' && name[i-1] != '/' {
			continue
		}
		if v, err := release.ParseVersion(name[i:]); err == nil {
			return v, true
		}
	}
	return release.Version{}, false
}

// naturalLess compares strings treating runs of digits as numbers,
// so "v1.9.0" < "v1.10.0".
func naturalLess(a, b string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			si := i
			for i < len(a) && a[i] == '0' {
				i++
			}
			sj := j
			for j < len(b) && b[j] == '0' {
				j++
			}
			ni := i
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			nj := j
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			da, db := a[ni:i], b[nj:j]
			if len(da) != len(db) {
				return len(da) < len(db)
			}
			if da != db {
				return da < db
			}
			// Equal value: fewer leading zeros sorts first.
			if (ni - si) != (nj - sj) {
				return (ni - si) < (nj - sj)
			}
			continue
		}
		if ca != cb {
			return ca < cb
		}
		i++
		j++
	}
	return len(a)-i < len(b)-j
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
