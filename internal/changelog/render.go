package changelog

import (
	"fmt"
	"io"
	"strings"

	"github.com/ariel-frischer/gitrelease/internal/release"
)

const (
	// DefaultBanner is the first line of every rendered summary.
	DefaultBanner = `:robot: I have created a release \*beep\* \*boop\*`
	// DefaultFooter credits the tool at the end of the summary.
	DefaultFooter = "This PR was generated with [gitrelease](https://github.com/ariel-frischer/gitrelease)."

	commitsHeading = "### Commits since last release:"
	filesHeading   = "### Files edited since last release:"
)

// RenderOptions customises the fixed text around the summary.
type RenderOptions struct {
	// Banner replaces DefaultBanner when non-empty.
	Banner string
	// Footer replaces DefaultFooter. Set OmitFooter to drop it entirely.
	Footer     string
	OmitFooter bool
}

func (o RenderOptions) banner() string {
	if o.Banner != "" {
		return o.Banner
	}
	return DefaultBanner
}

func (o RenderOptions) footer() string {
	if o.OmitFooter {
		return ""
	}
	if o.Footer != "" {
		return o.Footer
	}
	return DefaultFooter
}

// RenderMarkdown writes the summary as a markdown document suitable for a
// pull request body.
func RenderMarkdown(s *release.ReleaseSummary, w io.Writer, opts RenderOptions) error {
	if s == nil {
		return fmt.Errorf("rendering summary: summary is nil")
	}

	if err := renderHeader(s, w, opts); err != nil {
		return fmt.Errorf("rendering header: %w", err)
	}
	if err := renderCategories(s, w); err != nil {
		return fmt.Errorf("rendering categories: %w", err)
	}
	if err := renderCommitList(s, w); err != nil {
		return fmt.Errorf("rendering commits: %w", err)
	}
	if err := renderFiles(s, w); err != nil {
		return fmt.Errorf("rendering files: %w", err)
	}
	if err := renderFooter(s, w, opts); err != nil {
		return fmt.Errorf("rendering footer: %w", err)
	}
	return nil
}

// RenderMarkdownString is a convenience function that renders to a string.
func RenderMarkdownString(s *release.ReleaseSummary, opts RenderOptions) (string, error) {
	var b strings.Builder
	if err := RenderMarkdown(s, &b, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

// renderHeader writes the banner and the version/date line.
func renderHeader(s *release.ReleaseSummary, w io.Writer, opts RenderOptions) error {
	_, err := fmt.Fprintf(w, "%s\n---\n### %s / %s\n\n", opts.banner(), s.Version, s.Date)
	return err
}

// renderCategories writes one section per non-empty category in priority order.
func renderCategories(s *release.ReleaseSummary, w io.Writer) error {
	for _, cat := range release.Categories() {
		commits := s.Groups[cat]
		if len(commits) == 0 {
			continue
		}

		if _, err := fmt.Fprintf(w, "#### %s\n\n", cat.Label()); err != nil {
			return err
		}
		for _, c := range commits {
			if _, err := fmt.Fprintf(w, "* %s\n", categoryEntry(c)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "---\n")
	return err
}

// categoryEntry formats a grouped commit, prefixing its scope in bold.
func categoryEntry(c release.ParsedCommit) string {
	text := c.Description
	if c.Breaking {
		text = "**BREAKING:** " + text
	}
	if c.Scope != "" {
		text = "**" + c.Scope + ":** " + text
	}
	return text
}

// renderCommitList writes every included commit as a link to the commit.
func renderCommitList(s *release.ReleaseSummary, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s\n\n", commitsHeading); err != nil {
		return err
	}

	if len(s.Commits) == 0 {
		_, err := io.WriteString(w, "_No commits since last release._\n\n")
		return err
	}

	for _, c := range s.Commits {
		text := fmt.Sprintf("%s (%s)", c.Description, c.Ref())
		url := s.CommitURL(c.Source.Hash)

		var line string
		if url != "" {
			line = fmt.Sprintf("* [%s](%s)\n", escapeLinkText(text), url)
		} else {
			line = fmt.Sprintf("* %s\n", text)
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "\n")
	return err
}

// renderFiles writes the changed files as a fenced block, one path per line.
func renderFiles(s *release.ReleaseSummary, w io.Writer) error {
	fence := codeFence(s.ChangedFiles)
	if _, err := fmt.Fprintf(w, "%s\n\n%stext\n", filesHeading, fence); err != nil {
		return err
	}
	for _, f := range s.ChangedFiles {
		if _, err := io.WriteString(w, f+"\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, fence+"\n\n")
	return err
}

// codeFence returns a backtick fence longer than any backtick run in lines,
// and at least three long, so no line can close the block.
func codeFence(lines []string) string {
	longest := 0
	for _, l := range lines {
		run := 0
		for _, r := range l {
			if r != '`' {
				run = 0
				continue
			}
			run++
			longest = max(longest, run)
		}
	}
	return strings.Repeat("`", max(3, longest+1))
}

// renderFooter writes the compare link and the closing credit line.
func renderFooter(s *release.ReleaseSummary, w io.Writer, opts RenderOptions) error {
	var compare string
	if link := s.CompareLink(); link != "" {
		compare = fmt.Sprintf("[Compare Changes](%s)", link)
	} else {
		compare = fmt.Sprintf("Compare: `%s...%s`", s.CompareFrom, s.CompareTo)
	}
	if _, err := io.WriteString(w, compare+"\n"); err != nil {
		return err
	}

	if footer := opts.footer(); footer != "" {
		if _, err := fmt.Fprintf(w, "\n%s\n", footer); err != nil {
			return err
		}
	}
	return nil
}

// escapeLinkText escapes characters that would end the markdown link text early.
func escapeLinkText(s string) string {
	return strings.NewReplacer(`\`, `\\`, "[", `\[`, "]", `\]`).Replace(s)
}
