package textsplitter

import (
	"context"
	"fmt"
)

const (
	// DefaultChunkSize is the chunk window in characters.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is how many characters consecutive chunks share.
	DefaultChunkOverlap = 200
)

// TextChunker is a fixed-window character chunker: it walks the text in
// steps of chunkSize-chunkOverlap and emits chunkSize-sized windows. It is
// the default chunker of the vector stores.
type TextChunker struct {
	opts options
}

var _ TextSplitter = (*TextChunker)(nil)

// NewTextChunker creates a fixed-window chunker. Returns an error when the
// overlap is not smaller than the chunk size, since the walk would not
// advance.
func NewTextChunker(opts ...Option) (*TextChunker, error) {
	o := options{
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.chunkOverlap >= o.chunkSize {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", o.chunkOverlap, o.chunkSize)
	}

	return &TextChunker{opts: o}, nil
}

// SplitText splits text into overlapping fixed-size windows. The window is
// measured in runes, so a boundary never lands inside a multibyte character.
func (c *TextChunker) SplitText(_ context.Context, text string) ([]string, error) {
	if text == "" {
		return []string{}, nil
	}

	runes := []rune(text)
	step := c.opts.chunkSize - c.opts.chunkOverlap
	chunks := make([]string, 0, len(runes)/step+1)

	for start := 0; start < len(runes); start += step {
		end := start + c.opts.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}

	return chunks, nil
}
