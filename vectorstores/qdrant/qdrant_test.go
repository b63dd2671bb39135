package qdrant

import (
	"context"
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/ragstore/schema"
	"github.com/sevigo/ragstore/vectorstores"
)

func docsFixture(n int) []schema.Document {
	docs := make([]schema.Document, n)
	for i := range docs {
		docs[i] = schema.NewDocument("some content", nil)
	}
	return docs
}

func TestNew_DoesNotDial(t *testing.T) {
	// Construction with an unreachable host must succeed: the connection
	// is only opened on first use.
	store, err := New(
		WithCollectionName("docs"),
		WithMode(vectorstores.ModeCustom),
		WithHost("unreachable.invalid"),
	)
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Nil(t, store.client)
}

func TestClientConfig_Modes(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		wantHost string
		wantPort int
		wantTLS  bool
		wantKey  string
	}{
		{
			name:     "local defaults",
			opts:     []Option{WithCollectionName("docs")},
			wantHost: "localhost",
			wantPort: 6334,
		},
		{
			name: "cloud always TLS",
			opts: []Option{
				WithCollectionName("docs"),
				WithMode(vectorstores.ModeCloud),
				WithHost("xyz.cloud.example.io"),
				WithAPIKey("secret"),
			},
			wantHost: "xyz.cloud.example.io",
			wantPort: 6334,
			wantTLS:  true,
			wantKey:  "secret",
		},
		{
			name: "custom as given",
			opts: []Option{
				WithCollectionName("docs"),
				WithMode(vectorstores.ModeCustom),
				WithHost("10.0.0.5"),
				WithPort(7000),
				WithTLS(true),
				WithAPIKey("other"),
			},
			wantHost: "10.0.0.5",
			wantPort: 7000,
			wantTLS:  true,
			wantKey:  "other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseOptions(tt.opts...)
			require.NoError(t, err)

			config := clientConfig(opts)
			assert.Equal(t, tt.wantHost, config.Host)
			assert.Equal(t, tt.wantPort, config.Port)
			assert.Equal(t, tt.wantTLS, config.UseTLS)
			assert.Equal(t, tt.wantKey, config.APIKey)
		})
	}
}

func TestAddDocuments_MissingEmbedder(t *testing.T) {
	store := newTestStore(t)

	_, err := store.AddDocuments(context.Background(), docsFixture(2))
	assert.ErrorIs(t, err, ErrMissingEmbedder)
}

func TestAddDocuments_EmptyInput(t *testing.T) {
	store := newTestStore(t)

	ids, err := store.AddDocuments(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestAdd_EmptyText(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Add(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestSimilaritySearch_InvalidArguments(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SimilaritySearch(context.Background(), "", 3)
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = store.SimilaritySearch(context.Background(), "query", 0)
	assert.ErrorIs(t, err, ErrInvalidNumDocuments)

	_, err = store.SimilaritySearch(context.Background(), "query", 3)
	assert.ErrorIs(t, err, ErrMissingEmbedder)
}

func TestVectorDetails(t *testing.T) {
	result := &qdrant.CollectionInfo{
		Config: &qdrant.CollectionConfig{
			Params: &qdrant.CollectionParams{
				VectorsConfig: &qdrant.VectorsConfig{
					Config: &qdrant.VectorsConfig_Params{
						Params: &qdrant.VectorParams{
							Size:     64,
							Distance: qdrant.Distance_Cosine,
						},
					},
				},
			},
		},
	}

	size, distance := vectorDetails(result)
	assert.Equal(t, uint64(64), size)
	assert.Equal(t, "Cosine", distance)
}

func TestVectorDetails_MissingConfig(t *testing.T) {
	size, distance := vectorDetails(&qdrant.CollectionInfo{})
	assert.Zero(t, size)
	assert.Empty(t, distance)
}

func TestClose_WithoutConnection(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Close())
	// Closing twice is fine.
	require.NoError(t, store.Close())

	_, err := store.ListCollections(context.Background())
	assert.ErrorIs(t, err, ErrStoreClosed)
}
