// Package ollama implements embeddings.Embedder on top of a locally
// running Ollama server.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/sevigo/ragstore/embeddings"
)

var (
	ErrInvalidModel        = errors.New("ollama: invalid model specified")
	ErrEmptyEmbedding      = errors.New("ollama: empty embedding received")
	ErrIncompleteEmbedding = errors.New("ollama: not all input texts were embedded")
	ErrModelNotFound       = errors.New("ollama: model not found")
)

// Embedder creates embeddings through the Ollama /api/embed endpoint.
type Embedder struct {
	client  *client
	options options
	logger  *slog.Logger

	dimOnce sync.Once
	dim     int
	dimErr  error
}

var _ embeddings.Embedder = (*Embedder)(nil)

// New creates a new Ollama embedder for the configured model.
func New(opts ...Option) (*Embedder, error) {
	o := applyOptions(opts...)

	if o.model == "" {
		return nil, ErrInvalidModel
	}

	c, err := newClient(o.serverURL, o.httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}

	e := &Embedder{
		client:  c,
		options: o,
		logger:  o.logger.With("component", "ollama_embedder", "model", o.model),
	}

	e.logger.Info("Ollama embedder initialized successfully")
	return e, nil
}

// EmbedDocuments embeds all texts in a single API call.
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	start := time.Now()
	resp, err := e.client.Embed(ctx, &api.EmbedRequest{
		Model: e.options.model,
		Input: texts,
	})
	if err != nil {
		e.logger.ErrorContext(ctx, "Embedding API call failed", "error", err, "texts", len(texts))
		return nil, fmt.Errorf("ollama embed failed: %w", err)
	}

	if len(resp.Embeddings) != len(texts) {
		e.logger.ErrorContext(ctx, "Embedding count mismatch",
			"expected", len(texts), "got", len(resp.Embeddings))
		return nil, ErrIncompleteEmbedding
	}

	e.logger.DebugContext(ctx, "Documents embedded",
		"count", len(texts), "duration", time.Since(start))
	return resp.Embeddings, nil
}

// EmbedQuery embeds a single query string.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, embeddings.ErrEmptyText
	}

	resp, err := e.client.Embed(ctx, &api.EmbedRequest{
		Model: e.options.model,
		Input: text,
	})
	if err != nil {
		e.logger.ErrorContext(ctx, "Query embedding failed", "error", err)
		return nil, fmt.Errorf("ollama embed failed: %w", err)
	}

	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0]) == 0 {
		return nil, ErrEmptyEmbedding
	}

	return resp.Embeddings[0], nil
}

// GetDimension probes the model once with a short text and caches the
// resulting vector length.
func (e *Embedder) GetDimension(ctx context.Context) (int, error) {
	e.dimOnce.Do(func() {
		vector, err := e.EmbedQuery(ctx, "dimension probe")
		if err != nil {
			e.dimErr = fmt.Errorf("failed to determine embedding dimension: %w", err)
			return
		}
		e.dim = len(vector)
		e.logger.Debug("Determined embedding dimension", "dimension", e.dim)
	})

	return e.dim, e.dimErr
}

// ModelExists checks if the configured model is available locally.
func (e *Embedder) ModelExists(ctx context.Context) (bool, error) {
	_, err := e.client.Show(ctx, &api.ShowRequest{Name: e.options.model})
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return false, nil
		}
		return false, fmt.Errorf("model existence check failed: %w", err)
	}
	return true, nil
}
