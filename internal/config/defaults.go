package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# gitrelease configuration
# Values here are overridden by GITRELEASE_* environment variables and flags.

# Repository selection
subdir: ""                            # Only report files under this directory (also scopes tags)
submodule: ""                         # Only include commits with this scope, e.g. feat(api): ...

# Links
repo_url: ""                          # Browsable repository URL (empty = derive from remote)
remote: origin                        # Remote used when repo_url is empty

# Output
format: markdown                      # markdown | text | yaml | json
preview: false                        # Render markdown in the terminal with glamour
snapshot: false                       # Append -SNAPSHOT to the computed version
banner: ""                            # Replace the first line of the summary
footer: ""                            # Replace the closing line of the summary
omit_footer: false                    # Drop the closing line entirely

# Commits whose subject starts with one of these prefixes are skipped
skip_prefixes:
  - Release
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"dir":       ".",
		"subdir":    "",
		"submodule": "",
		"repo_url":  "",
		"remote":    "origin",
		"format":    "markdown",
		// skip_prefixes: the release commits created by the tool itself.
		"skip_prefixes": []string{"Release"},
		"banner":        "",
		"footer":        "",
		"omit_footer":   false,
		"snapshot":      false,
		"preview":       false,
	}
}
