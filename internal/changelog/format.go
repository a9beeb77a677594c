package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/ariel-frischer/gitrelease/internal/release"
)

// CategoryStyle defines the color and icon for a release category.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

// categoryStyles maps categories to their terminal styling.
var categoryStyles = map[release.Category]CategoryStyle{
	release.CategoryFeat:  {Color: color.New(color.FgGreen), Icon: "✓"},
	release.CategoryFix:   {Color: color.New(color.FgYellow), Icon: "⚡"},
	release.CategoryDocs:  {Color: color.New(color.FgBlue), Icon: "✎"},
	release.CategoryChore: {Color: color.New(color.FgCyan), Icon: "~"},
	release.CategoryOther: {Color: color.New(color.FgMagenta), Icon: "•"},
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatTerminal writes a compact, colored overview of the summary.
func FormatTerminal(s *release.ReleaseSummary, w io.Writer, opts FormatOptions) error {
	if s == nil {
		return fmt.Errorf("formatting summary: summary is nil")
	}

	width := resolveWidth(opts.MaxWidth)

	if err := writeVersionHeader(s, w, opts); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, cat := range release.Categories() {
		commits := s.Groups[cat]
		if len(commits) == 0 {
			continue
		}
		if err := writeCategorySection(cat, commits, w, opts, width); err != nil {
			return fmt.Errorf("formatting %s: %w", cat, err)
		}
	}

	_, err := fmt.Fprintf(w, "\n%d commits, %d files changed\n", len(s.Commits), len(s.ChangedFiles))
	return err
}

// writeVersionHeader writes "vNEXT (date)" followed by the bump and the previous release.
func writeVersionHeader(s *release.ReleaseSummary, w io.Writer, opts FormatOptions) error {
	header := fmt.Sprintf("v%s (%s)", s.Version, s.Date)
	previous := "no previous release"
	if s.BoundaryTag != "" {
		previous = "since " + s.BoundaryTag
	}
	detail := fmt.Sprintf("%s bump, %s", s.Bump, previous)

	if opts.Plain {
		_, err := fmt.Fprintf(w, "## %s\n%s\n", header, detail)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	_, err := fmt.Fprintf(w, "## %s\n%s\n", bold(header), faint(detail))
	return err
}

// writeCategorySection writes a single category with its commits.
func writeCategorySection(cat release.Category, commits []release.ParsedCommit, w io.Writer, opts FormatOptions, width int) error {
	style := categoryStyles[cat]

	if err := writeCategoryHeader(cat, style, w, opts); err != nil {
		return err
	}

	for _, c := range commits {
		if err := writeEntry(c, style, w, opts, width); err != nil {
			return err
		}
	}
	return nil
}

// writeCategoryHeader writes the category header line.
func writeCategoryHeader(cat release.Category, style CategoryStyle, w io.Writer, opts FormatOptions) error {
	if opts.Plain {
		_, err := fmt.Fprintf(w, "\n### %s\n", cat.Label())
		return err
	}

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "\n%s %s\n", colored(style.Icon), colored(cat.Label()))
	return err
}

// writeEntry writes a single commit line with optional wrapping.
func writeEntry(c release.ParsedCommit, style CategoryStyle, w io.Writer, opts FormatOptions, width int) error {
	prefix := "  - "
	text := entryText(c)

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, text)
		return err
	}

	wrapped := wrapText(text, width-len(prefix), "    ")

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, colored(wrapped))
	return err
}

// entryText is "scope: description (ref)", with a marker for breaking changes.
func entryText(c release.ParsedCommit) string {
	text := capitalizeFirst(c.Description)
	if c.Scope != "" {
		text = c.Scope + ": " + text
	}
	if c.Breaking {
		text = "BREAKING " + text
	}
	return fmt.Sprintf("%s (%s)", text, c.Ref())
}

// FormatCommitSummary returns a brief one-line summary of a commit.
func FormatCommitSummary(c release.ParsedCommit, opts FormatOptions) string {
	text := truncateText(c.Description, 60)

	if opts.Plain {
		return fmt.Sprintf("[%s] %s", c.Category, text)
	}

	style, ok := categoryStyles[c.Category]
	if !ok {
		style = categoryStyles[release.CategoryOther]
	}
	colored := style.Color.SprintFunc()
	return fmt.Sprintf("%s %s", colored(style.Icon), text)
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}

// truncateText truncates text to maxLen, adding ellipsis if needed.
func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen-3] + "..."
}

// capitalizeFirst capitalizes the first letter of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
