package schema

import (
	"context"

	"github.com/google/uuid"
)

// Document is the unit of data moving through the toolkit: a chunk of text
// plus arbitrary metadata. The ID is used as the point ID in the backing
// vector database; an empty ID means the store assigns one on insert.
type Document struct {
	ID          string
	PageContent string
	Metadata    map[string]any
}

func (d Document) String() string {
	return d.PageContent
}

func NewDocument(content string, metadata map[string]any) Document {
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return Document{
		ID:          uuid.New().String(),
		PageContent: content,
		Metadata:    metadata,
	}
}

// Retriever fetches the documents relevant to a query.
type Retriever interface {
	GetRelevantDocuments(ctx context.Context, query string) ([]Document, error)
}

type CollectionInfo struct {
	Name           string `json:"name"`            // Name of the collection.
	PointsCount    uint64 `json:"points_count"`    // Number of points (vectors) in the collection.
	VectorSize     uint64 `json:"vector_size"`     // Dimensionality of the vectors in this collection.
	VectorDistance string `json:"vector_distance"` // Distance metric used by the collection (e.g., "Cosine").
}
