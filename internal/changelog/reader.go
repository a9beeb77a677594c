package changelog

import (
	"errors"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ErrNoFilesBlock is returned when the markdown has no "Files edited" block.
var ErrNoFilesBlock = errors.New("no files edited block found")

// ParseFilesEdited reads the changed file list back out of markdown produced
// by RenderMarkdown. It finds the fenced code block that directly follows the
// "Files edited since last release" heading.
func ParseFilesEdited(markdown []byte) ([]string, error) {
	root := goldmark.DefaultParser().Parse(text.NewReader(markdown))
	want := strings.TrimPrefix(filesHeading, "### ")

	var (
		files []string
		found bool
	)

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || found {
			return ast.WalkContinue, nil
		}

		block, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		heading, ok := block.PreviousSibling().(*ast.Heading)
		if !ok || strings.TrimSpace(string(heading.Text(markdown))) != want {
			return ast.WalkSkipChildren, nil
		}

		found = true
		files = []string{}
		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			if f := strings.TrimSpace(string(line.Value(markdown))); f != "" {
				files = append(files, f)
			}
		}
		return ast.WalkStop, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNoFilesBlock
	}
	return files, nil
}
