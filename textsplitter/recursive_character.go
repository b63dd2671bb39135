package textsplitter

import (
	"context"
	"fmt"
	"strings"
)

// RecursiveCharacter is a text splitter that recursively tries to split text
// using a list of separators. It aims to keep semantically related parts of
// the text together as long as possible.
type RecursiveCharacter struct {
	opts options
}

var _ TextSplitter = (*RecursiveCharacter)(nil)

// NewRecursiveCharacter creates a new RecursiveCharacter text splitter.
// Returns an error when the overlap is not smaller than the chunk size.
func NewRecursiveCharacter(opts ...Option) (*RecursiveCharacter, error) {
	o := options{
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
		separators:   []string{"\n\n", "\n", " ", ""},
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.chunkOverlap >= o.chunkSize {
		return nil, fmt.Errorf("chunk overlap (%d) must be smaller than chunk size (%d)", o.chunkOverlap, o.chunkSize)
	}

	return &RecursiveCharacter{opts: o}, nil
}

// SplitText splits a single text into multiple chunks.
func (s *RecursiveCharacter) SplitText(_ context.Context, text string) ([]string, error) {
	return s.splitTextRecursive(text, s.opts.separators)
}

// splitTextRecursive is the core logic that recursively splits text.
func (s *RecursiveCharacter) splitTextRecursive(text string, separators []string) ([]string, error) {
	var finalChunks []string

	// If the text is already small enough, just return it.
	if len(text) <= s.opts.chunkSize {
		return []string{text}, nil
	}

	// Base case for the recursion: if we've run out of separators,
	// we must add the oversized text as-is and stop.
	if len(separators) == 0 {
		return []string{text}, nil
	}

	separator := separators[0]
	remainingSeparators := separators[1:]

	// Split the text by the current separator and merge adjacent splits
	// while they still fit in a chunk.
	splits := strings.Split(text, separator)
	var goodSplits []string
	currentSplit := ""

	for _, split := range splits {
		if len(split) == 0 {
			continue
		}

		if len(currentSplit) > 0 && len(currentSplit)+len(separator)+len(split) <= s.opts.chunkSize {
			currentSplit += separator + split
		} else {
			if len(currentSplit) > 0 {
				goodSplits = append(goodSplits, currentSplit)
			}
			currentSplit = split
		}
	}
	if currentSplit != "" {
		goodSplits = append(goodSplits, currentSplit)
	}

	// If a merged split is still too large, recurse with the finer
	// separators.
	for _, split := range goodSplits {
		if len(split) <= s.opts.chunkSize {
			finalChunks = append(finalChunks, split)
		} else {
			recursiveChunks, err := s.splitTextRecursive(split, remainingSeparators)
			if err != nil {
				return nil, err
			}
			finalChunks = append(finalChunks, recursiveChunks...)
		}
	}

	if s.opts.chunkOverlap > 0 && len(finalChunks) > 1 {
		return s.mergeWithOverlap(finalChunks)
	}

	return finalChunks, nil
}

// mergeWithOverlap combines chunks, adding the specified overlap between
// them. The overlap is already validated against the chunk size at
// construction.
func (s *RecursiveCharacter) mergeWithOverlap(chunks []string) ([]string, error) {
	var mergedChunks []string
	currentChunk := ""
	separator := "\n"

	for i, chunk := range chunks {
		if currentChunk == "" {
			currentChunk = chunk
			continue
		}

		var overlap string
		if len(currentChunk) > s.opts.chunkOverlap {
			overlap = currentChunk[len(currentChunk)-s.opts.chunkOverlap:]
		} else {
			overlap = currentChunk
		}

		if len(currentChunk)+len(separator)+len(chunk) <= s.opts.chunkSize {
			currentChunk += separator + chunk
		} else {
			mergedChunks = append(mergedChunks, currentChunk)
			currentChunk = overlap + separator + chunk
		}

		if i == len(chunks)-1 {
			mergedChunks = append(mergedChunks, currentChunk)
		}
	}

	return mergedChunks, nil
}
