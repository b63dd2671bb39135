// Package fake provides an in-memory VectorStore stub for tests that only
// care about the interface, not about vectors.
package fake

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sevigo/ragstore/schema"
	"github.com/sevigo/ragstore/vectorstores"
)

// Store keeps documents in a map and "searches" by insertion order. Scores
// are faked as 1.0.
type Store struct {
	docs  map[string]schema.Document
	order []string
	idSeq int
}

var _ vectorstores.VectorStore = (*Store)(nil)

func New() *Store {
	return &Store{
		docs: make(map[string]schema.Document),
	}
}

// Add stores raw text as a single document without chunking.
func (s *Store) Add(ctx context.Context, text string, options ...vectorstores.Option) ([]string, error) {
	return s.AddDocuments(ctx, []schema.Document{{PageContent: text}}, options...)
}

func (s *Store) AddDocuments(_ context.Context, docs []schema.Document, _ ...vectorstores.Option) ([]string, error) {
	ids := make([]string, len(docs))
	for i, doc := range docs {
		id := fmt.Sprintf("fake-id-%d", s.idSeq)
		s.idSeq++
		doc.ID = id
		s.docs[id] = doc
		s.order = append(s.order, id)
		ids[i] = id
	}
	return ids, nil
}

// Retrieve returns the first document whose content contains the query, or
// the oldest document when nothing matches.
func (s *Store) Retrieve(_ context.Context, query string, _ ...vectorstores.Option) (vectorstores.QueryResult, error) {
	if len(s.order) == 0 {
		return vectorstores.QueryResult{}, vectorstores.ErrNoResults
	}

	best := s.docs[s.order[0]]
	for _, id := range s.order {
		if strings.Contains(s.docs[id].PageContent, query) {
			best = s.docs[id]
			break
		}
	}

	return vectorstores.QueryResult{
		ID:       best.ID,
		Document: best,
		Score:    1.0,
	}, nil
}

// SimilaritySearch returns up to numDocuments documents in insertion order.
func (s *Store) SimilaritySearch(_ context.Context, _ string, numDocuments int, _ ...vectorstores.Option) ([]schema.Document, error) {
	var results []schema.Document
	for _, id := range s.order {
		if len(results) >= numDocuments {
			break
		}
		results = append(results, s.docs[id])
	}
	return results, nil
}

func (s *Store) SimilaritySearchWithScores(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]vectorstores.DocumentWithScore, error) {
	docs, err := s.SimilaritySearch(ctx, query, numDocuments, options...)
	if err != nil {
		return nil, err
	}

	results := make([]vectorstores.DocumentWithScore, len(docs))
	for i, doc := range docs {
		results[i] = vectorstores.DocumentWithScore{
			Document: doc,
			Score:    1.0,
		}
	}
	return results, nil
}

func (s *Store) DeleteDocuments(_ context.Context, ids []string, _ ...vectorstores.Option) error {
	for _, id := range ids {
		if _, ok := s.docs[id]; !ok {
			continue
		}
		delete(s.docs, id)
		for i, existing := range s.order {
			if existing == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (s *Store) ListCollections(_ context.Context) ([]schema.CollectionInfo, error) {
	return []schema.CollectionInfo{
		{Name: "fake-collection", PointsCount: uint64(len(s.docs))},
	}, nil
}

func (s *Store) Close() error {
	return nil
}

// Docs returns all stored documents sorted by ID, for assertions.
func (s *Store) Docs() []schema.Document {
	docs := make([]schema.Document, 0, len(s.docs))
	for _, id := range s.order {
		docs = append(docs, s.docs[id])
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs
}
