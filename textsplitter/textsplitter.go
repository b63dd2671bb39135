package textsplitter

import (
	"context"
	"maps"

	"github.com/sevigo/ragstore/schema"
)

// TextSplitter breaks a text into smaller pieces suitable for embedding.
type TextSplitter interface {
	SplitText(ctx context.Context, text string) ([]string, error)
}

// CreateDocuments splits a text and wraps every chunk in a schema.Document
// with a fresh ID. Every chunk gets its own copy of the metadata, so
// mutating one document cannot leak into its siblings or the caller's map.
func CreateDocuments(ctx context.Context, splitter TextSplitter, text string, metadata map[string]any) ([]schema.Document, error) {
	chunks, err := splitter.SplitText(ctx, text)
	if err != nil {
		return nil, err
	}

	docs := make([]schema.Document, 0, len(chunks))
	for _, chunk := range chunks {
		docs = append(docs, schema.NewDocument(chunk, maps.Clone(metadata)))
	}
	return docs, nil
}

// SplitDocuments re-splits existing documents, carrying each document's
// metadata over to the chunks produced from it.
func SplitDocuments(ctx context.Context, splitter TextSplitter, docs []schema.Document) ([]schema.Document, error) {
	var result []schema.Document
	for _, doc := range docs {
		chunks, err := CreateDocuments(ctx, splitter, doc.PageContent, doc.Metadata)
		if err != nil {
			return nil, err
		}
		result = append(result, chunks...)
	}
	return result, nil
}
