package textsplitter

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextChunker_InvalidOverlap(t *testing.T) {
	_, err := NewTextChunker(WithChunkSize(100), WithChunkOverlap(100))
	assert.Error(t, err)

	_, err = NewTextChunker(WithChunkSize(100), WithChunkOverlap(150))
	assert.Error(t, err)
}

func TestTextChunker_SplitText(t *testing.T) {
	chunker, err := NewTextChunker(WithChunkSize(10), WithChunkOverlap(4))
	require.NoError(t, err)

	text := "abcdefghijklmnopqrstuvwxyz"
	chunks, err := chunker.SplitText(context.Background(), text)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	// Windows advance by chunkSize-chunkOverlap characters.
	assert.Equal(t, "abcdefghij", chunks[0])
	assert.Equal(t, "ghijklmnop", chunks[1])

	// Every chunk respects the size limit and the last one reaches the end.
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 10)
	}
	assert.True(t, strings.HasSuffix(chunks[len(chunks)-1], "z"))
}

func TestTextChunker_SplitText_Empty(t *testing.T) {
	chunker, err := NewTextChunker()
	require.NoError(t, err)

	chunks, err := chunker.SplitText(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestTextChunker_SplitText_ShorterThanChunk(t *testing.T) {
	chunker, err := NewTextChunker(WithChunkSize(100), WithChunkOverlap(10))
	require.NoError(t, err)

	chunks, err := chunker.SplitText(context.Background(), "short text")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0])
}

func TestTextChunker_SplitText_Multibyte(t *testing.T) {
	chunker, err := NewTextChunker(WithChunkSize(10), WithChunkOverlap(2))
	require.NoError(t, err)

	text := "日本語のテキストを分割する"
	chunks, err := chunker.SplitText(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	// Windows are measured in runes, never in bytes, so a boundary cannot
	// cut a multibyte character in half.
	for _, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk), "chunk %q is not valid UTF-8", chunk)
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 10)
	}
	assert.Equal(t, "日本語のテキストを分", chunks[0])
	assert.Equal(t, "を分割する", chunks[1])
}

func TestCreateDocuments(t *testing.T) {
	chunker, err := NewTextChunker(WithChunkSize(10), WithChunkOverlap(2))
	require.NoError(t, err)

	metadata := map[string]any{"source": "test.txt"}
	docs, err := CreateDocuments(context.Background(), chunker, strings.Repeat("x", 30), metadata)
	require.NoError(t, err)
	require.NotEmpty(t, docs)

	seen := make(map[string]bool)
	for _, doc := range docs {
		assert.NotEmpty(t, doc.ID)
		assert.False(t, seen[doc.ID], "IDs must be unique")
		seen[doc.ID] = true
		assert.Equal(t, "test.txt", doc.Metadata["source"])
	}
}

func TestCreateDocuments_MetadataNotShared(t *testing.T) {
	chunker, err := NewTextChunker(WithChunkSize(10), WithChunkOverlap(2))
	require.NoError(t, err)

	metadata := map[string]any{"source": "test.txt"}
	docs, err := CreateDocuments(context.Background(), chunker, strings.Repeat("x", 30), metadata)
	require.NoError(t, err)
	require.Greater(t, len(docs), 1)

	docs[0].Metadata["chunk"] = 0

	assert.NotContains(t, docs[1].Metadata, "chunk")
	assert.NotContains(t, metadata, "chunk")
}
