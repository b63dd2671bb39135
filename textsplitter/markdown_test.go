package textsplitter

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarkdown = `# Title

Intro paragraph before any section.

## First Section

Content of the first section.

## Second Section

Content of the second section.

### Subsection

Nested content stays with its parent section.
`

func TestMarkdown_SplitsAtHeadings(t *testing.T) {
	splitter, err := NewMarkdown(WithChunkSize(500), WithChunkOverlap(0))
	require.NoError(t, err)

	chunks, err := splitter.SplitText(context.Background(), sampleMarkdown)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.True(t, strings.HasPrefix(chunks[0], "# Title"))
	assert.True(t, strings.HasPrefix(chunks[1], "## First Section"))
	assert.True(t, strings.HasPrefix(chunks[2], "## Second Section"))

	// Level-3 headings do not start a new chunk at the default level.
	assert.Contains(t, chunks[2], "### Subsection")
}

func TestMarkdown_HeadingLevelOption(t *testing.T) {
	splitter, err := NewMarkdown(WithChunkSize(500), WithChunkOverlap(0), WithHeadingLevel(3))
	require.NoError(t, err)

	chunks, err := splitter.SplitText(context.Background(), sampleMarkdown)
	require.NoError(t, err)
	require.Len(t, chunks, 4)
	assert.True(t, strings.HasPrefix(chunks[3], "### Subsection"))
}

func TestMarkdown_NoHeadings(t *testing.T) {
	splitter, err := NewMarkdown(WithChunkSize(500), WithChunkOverlap(0))
	require.NoError(t, err)

	chunks, err := splitter.SplitText(context.Background(), "just a plain paragraph")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "just a plain paragraph", chunks[0])
}

func TestMarkdown_OversizedSectionFallsBack(t *testing.T) {
	splitter, err := NewMarkdown(WithChunkSize(50), WithChunkOverlap(0))
	require.NoError(t, err)

	long := "## Big\n\n" + strings.Repeat("word ", 40)
	chunks, err := splitter.SplitText(context.Background(), long)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 50)
	}
}
