// Package release turns the commit history since the last tagged release into a
// ReleaseSummary.
//
// This package implements:
//   - Conventional commit parsing (type, scope, breaking marker, description)
//   - Release boundary lookup from version-bearing tags, optionally scoped
//   - Next semantic version calculation from the parsed commits
//   - Changed-file collection for the release range
//
// All repository access goes through the Repository interface so the pipeline
// can run against go-git or an in-memory fake. Rendering lives in the
// changelog package.
package release
