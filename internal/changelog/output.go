package changelog

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/gitrelease/internal/release"
)

// Format selects how a summary is written.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
)

// Formats returns every supported output format.
func Formats() []Format {
	return []Format{FormatMarkdown, FormatText, FormatYAML, FormatJSON}
}

// ParseFormat converts a user supplied name into a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatMarkdown, nil
	}
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (valid: markdown, text, yaml, json)", s)
}

// WriteOptions bundles the per-format options for Write.
type WriteOptions struct {
	Render RenderOptions
	Format FormatOptions
}

// Write renders the summary in the requested format.
func Write(s *release.ReleaseSummary, w io.Writer, format Format, opts WriteOptions) error {
	switch format {
	case FormatMarkdown, "":
		return RenderMarkdown(s, w, opts.Render)
	case FormatText:
		return FormatTerminal(s, w, opts.Format)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
