package release

// DetermineBump picks the increment for a set of commits, in priority order:
// any breaking change is major, any feature is minor, everything else
// (including no categorised commits at all) is patch.
func DetermineBump(commits []ParsedCommit) Bump {
	bump := BumpPatch
	for _, c := range commits {
		if c.Breaking {
			return BumpMajor
		}
		if c.Conventional && c.Category == CategoryFeat {
			bump = BumpMinor
		}
	}
	return bump
}

// NextVersion computes the version that follows previous given the commits
// since it. A nil previous starts from 0.0.0.
func NextVersion(previous *Version, commits []ParsedCommit) (Version, Bump) {
	var start Version
	if previous != nil {
		start = *previous
	}
	bump := DetermineBump(commits)
	return start.Bump(bump), bump
}
