// Package changelog renders a release.ReleaseSummary for humans and tools.
//
// This package implements:
//   - Markdown rendering for pull request bodies and changelogs
//   - Colored terminal output with category icons
//   - YAML and JSON output of the structured summary
//   - A glamour-based terminal preview of the markdown
//   - Reading the "Files edited" block back out of rendered markdown
//
// Rendering is deterministic: the same summary always produces identical output.
package changelog
