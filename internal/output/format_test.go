package output

import (
	"bytes"
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestGetTerminalWidth(t *testing.T) {
	t.Parallel()
	assert.Greater(t, GetTerminalWidth(), 0)
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()

	assert.False(t, IsTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	if assert.NoError(t, err) {
		defer f.Close()
		assert.False(t, IsTerminal(f))
	}
}

func TestPrintHelpers(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	var buf bytes.Buffer
	PrintSuccess(&buf, "migrated")
	PrintNotice(&buf, "nothing to do")
	assert.Equal(t, "✓ migrated\nnothing to do\n", buf.String())
}
