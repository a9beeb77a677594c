package errors

import "fmt"

// Common error messages for the gitrelease CLI.

// NotAGitRepository creates an error for a directory outside any repository.
func NotAGitRepository(dir string, err error) *CLIError {
	return &CLIError{
		Category: Access,
		Message:  fmt.Sprintf("%s is not inside a git repository", dir),
		Remediation: []string{
			"Run gitrelease from within a git working tree",
			"Or pass the repository location: gitrelease --dir <path>",
		},
		Err: err,
	}
}

// EmptyRepository creates an error for a repository without commits.
func EmptyRepository(err error) *CLIError {
	return &CLIError{
		Category: Access,
		Message:  "repository has no commits yet",
		Remediation: []string{
			"Create at least one commit before generating a release",
		},
		Err: err,
	}
}

// MalformedReleaseTag creates an error for a release tag whose version cannot be parsed.
func MalformedReleaseTag(tag string, err error) *CLIError {
	return &CLIError{
		Category: Locator,
		Message:  fmt.Sprintf("release tag %q does not carry a valid semantic version", tag),
		Remediation: []string{
			"Release tags must look like v1.2.3, 1.2.3 or <scope>-v1.2.3",
			fmt.Sprintf("Delete or rename the tag: git tag -d %s", tag),
		},
		Err: err,
	}
}

// InvalidConfig creates an error for a rejected configuration value.
func InvalidConfig(field, message string) *CLIError {
	text := message
	if field != "" {
		text = fmt.Sprintf("invalid %s: %s", field, message)
	}
	return NewConfigError(text,
		"Check .gitrelease.yml and GITRELEASE_* environment variables",
		"Show the effective configuration: gitrelease config",
	)
}

// InvalidFormat creates an error for an unsupported --format value.
func InvalidFormat(provided string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("unknown output format: %s", provided),
		"gitrelease --format <markdown|text|yaml|json>",
		"Use one of: markdown, text, yaml, json",
	)
}

// UnexpectedArguments creates an error for positional arguments a command does not take.
// commandPath is the full command, e.g. "gitrelease next".
func UnexpectedArguments(commandPath string, args []string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("unexpected arguments: %v", args),
		fmt.Sprintf("%s [flags]", commandPath),
		"Pass options as flags, e.g. --subdir services/api",
	)
}
