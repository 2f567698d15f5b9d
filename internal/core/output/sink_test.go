package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/linedit/internal/core/document"
)

func sampleDoc() document.Document {
	return document.New([]document.Line{
		{Text: "A"},
		{Text: "B"},
	}).Snapshot()
}

func TestWriterSink(t *testing.T) {
	t.Run("writes four-space indented document JSON", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriterSink(&buf).Push(sampleDoc()))

		want := `{
    "lines": [
        {
            "lineNumber": 1,
            "text": "A"
        },
        {
            "lineNumber": 2,
            "text": "B"
        }
    ]
}
`
		assert.Equal(t, want, buf.String())
	})

	t.Run("each push is a full replacement", func(t *testing.T) {
		var buf bytes.Buffer
		s := NewWriterSink(&buf)
		require.NoError(t, s.Push(sampleDoc()))
		first := buf.Len()
		require.NoError(t, s.Push(sampleDoc()))

		assert.Equal(t, first*2, buf.Len())
	})
}

func TestFileSink(t *testing.T) {
	t.Run("writes and overwrites the target file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "doc.json")
		s := NewFileSink(path)

		require.NoError(t, s.Push(sampleDoc()))
		require.NoError(t, s.Push(sampleDoc()))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"lineNumber": 1`)

		// No temp files left behind.
		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}
