package changelog

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// DefaultPreviewWidth is the word-wrap width used when none is given.
const DefaultPreviewWidth = 80

// Preview renders markdown for display in a terminal.
func Preview(markdown string, width int) (string, error) {
	if width <= 0 {
		width = DefaultPreviewWidth
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating preview renderer: %w", err)
	}

	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering preview: %w", err)
	}
	return out, nil
}
