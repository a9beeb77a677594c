package changelog

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		want    Format
		wantErr bool
	}{
		"empty defaults to markdown": {input: "", want: FormatMarkdown},
		"markdown":                   {input: "markdown", want: FormatMarkdown},
		"upper case json":            {input: "JSON", want: FormatJSON},
		"yaml with spaces":           {input: " yaml ", want: FormatYAML},
		"text":                       {input: "text", want: FormatText},
		"unknown":                    {input: "html", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	s := newSummary(t, "https://github.com/acme/widgets",
		map[string]string{hashA: "feat(cli): add flag (#3)"}, []string{hashA}, []string{"cli.go"})

	var buf bytes.Buffer
	require.NoError(t, Write(s, &buf, FormatJSON, WriteOptions{}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "0.1.2", decoded["version"])
	assert.Equal(t, "patch", decoded["bump"])
	assert.Equal(t, []any{"cli.go"}, decoded["changed_files"])

	commits, ok := decoded["commits"].([]any)
	require.True(t, ok)
	require.Len(t, commits, 1)
	first := commits[0].(map[string]any)
	assert.Equal(t, "cli", first["scope"])
	assert.Equal(t, "3", first["pr_ref"])
}

func TestWrite_YAML(t *testing.T) {
	t.Parallel()

	s := newSummary(t, "", map[string]string{hashA: "fix: thing"}, []string{hashA}, nil)

	var buf bytes.Buffer
	require.NoError(t, Write(s, &buf, FormatYAML, WriteOptions{}))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "0.1.2", decoded["version"])
	assert.Equal(t, "v0.1.1", decoded["boundary_tag"])
	assert.NotContains(t, decoded, "repo_url")
}

func TestWrite_MarkdownMatchesRender(t *testing.T) {
	t.Parallel()

	s := newSummary(t, "", map[string]string{hashA: "fix: thing"}, []string{hashA}, nil)

	var buf bytes.Buffer
	require.NoError(t, Write(s, &buf, FormatMarkdown, WriteOptions{}))

	want, err := RenderMarkdownString(s, RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, want, buf.String())
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	s := newSummary(t, "", nil, nil, nil)
	assert.Error(t, Write(s, &bytes.Buffer{}, Format("html"), WriteOptions{}))
}
