package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreview(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		width int
	}{
		"explicit width": {width: 60},
		"default width":  {width: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			out, err := Preview("### 1.0.0 / 2024-03-01\n\n* add parser\n", tt.width)
			require.NoError(t, err)
			assert.Contains(t, out, "1.0.0")
			assert.Contains(t, out, "add parser")
		})
	}
}
