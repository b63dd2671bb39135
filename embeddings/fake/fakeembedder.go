// Package fake provides a deterministic in-process embedder for tests.
package fake

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/sevigo/ragstore/embeddings"
)

const DefaultDimension = 64

// Embedder maps each word of the input onto a bucket of a fixed-size
// vector, so texts sharing words produce similar vectors. Deterministic and
// offline, which is all a test needs.
type Embedder struct {
	Dimension int
}

var _ embeddings.Embedder = (*Embedder)(nil)

func New() *Embedder {
	return &Embedder{Dimension: DefaultDimension}
}

func (e *Embedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = e.embed(text)
	}
	return vectors, nil
}

func (e *Embedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return e.embed(text), nil
}

func (e *Embedder) GetDimension(_ context.Context) (int, error) {
	return e.dimension(), nil
}

func (e *Embedder) dimension() int {
	if e.Dimension > 0 {
		return e.Dimension
	}
	return DefaultDimension
}

func (e *Embedder) embed(text string) []float32 {
	dim := e.dimension()
	vector := make([]float32, dim)

	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		vector[h.Sum32()%uint32(dim)]++
	}

	// L2-normalize so cosine similarity is a plain dot product.
	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vector {
			vector[i] *= scale
		}
	}

	return vector
}
