package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/ragstore/embeddings/fake"
	"github.com/sevigo/ragstore/schema"
	"github.com/sevigo/ragstore/textsplitter"
	"github.com/sevigo/ragstore/vectorstores"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(
		WithCollectionName("test-collection"),
		WithEmbedder(fake.New()),
	)
	require.NoError(t, err)
	return store
}

func TestAddDocumentsAndRetrieve(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	docs := []schema.Document{
		schema.NewDocument("Tokyo is the capital of Japan.", map[string]any{"country": "Japan"}),
		schema.NewDocument("Paris is the capital of France.", map[string]any{"country": "France"}),
		schema.NewDocument("Berlin is the capital of Germany.", map[string]any{"country": "Germany"}),
	}

	ids, err := store.AddDocuments(ctx, docs)
	require.NoError(t, err)
	require.Len(t, ids, 3)

	result, err := store.Retrieve(ctx, "capital of France Paris")
	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital of France.", result.Document.PageContent)
	assert.Equal(t, result.Document.ID, result.ID)
	assert.Greater(t, result.Score, float32(0))
}

func TestRetrieve_EmptyCollection(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Retrieve(context.Background(), "anything")
	assert.ErrorIs(t, err, vectorstores.ErrNoResults)
}

func TestAdd_ChunksRawText(t *testing.T) {
	chunker, err := textsplitter.NewTextChunker(
		textsplitter.WithChunkSize(20),
		textsplitter.WithChunkOverlap(5),
	)
	require.NoError(t, err)

	store, err := New(
		WithCollectionName("test-collection"),
		WithEmbedder(fake.New()),
		WithChunker(chunker),
	)
	require.NoError(t, err)

	ids, err := store.Add(context.Background(), strings.Repeat("tokyo paris berlin ", 10))
	require.NoError(t, err)
	assert.Greater(t, len(ids), 1)
}

func TestAdd_EmptyText(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Add(context.Background(), "  \n ")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestAddDocuments_SingleDocument(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ids, err := store.AddDocuments(ctx, []schema.Document{
		{PageContent: "a lonely document"},
	})
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.NotEmpty(t, ids[0], "store assigns an ID when the document has none")

	result, err := store.Retrieve(ctx, "lonely document")
	require.NoError(t, err)
	assert.Equal(t, ids[0], result.ID)
}

func TestAddDocuments_MissingEmbedder(t *testing.T) {
	store, err := New(WithCollectionName("test-collection"))
	require.NoError(t, err)

	_, err = store.AddDocuments(context.Background(), []schema.Document{
		{PageContent: "doc"},
	})
	assert.ErrorIs(t, err, ErrMissingEmbedder)
}

func TestSimilaritySearch_Filters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddDocuments(ctx, []schema.Document{
		schema.NewDocument("Tokyo is the capital of Japan.", map[string]any{"country": "Japan"}),
		schema.NewDocument("Kyoto is a city in Japan.", map[string]any{"country": "Japan"}),
		schema.NewDocument("Paris is the capital of France.", map[string]any{"country": "France"}),
	})
	require.NoError(t, err)

	docs, err := store.SimilaritySearch(ctx, "capital city", 10,
		vectorstores.WithFilter("country", "Japan"))
	require.NoError(t, err)
	require.NotEmpty(t, docs)
	for _, doc := range docs {
		assert.Equal(t, "Japan", doc.Metadata["country"])
	}
}

func TestSimilaritySearch_NamespaceIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddDocuments(ctx,
		[]schema.Document{schema.NewDocument("document in the default collection", nil)})
	require.NoError(t, err)

	_, err = store.AddDocuments(ctx,
		[]schema.Document{schema.NewDocument("document in the other collection", nil)},
		vectorstores.WithNameSpace("other"))
	require.NoError(t, err)

	docs, err := store.SimilaritySearch(ctx, "document", 10, vectorstores.WithNameSpace("other"))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Contains(t, docs[0].PageContent, "other collection")

	infos, err := store.ListCollections(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "other", infos[0].Name)
	assert.Equal(t, "test-collection", infos[1].Name)
}

func TestListCollections_Details(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddDocuments(ctx, []schema.Document{
		schema.NewDocument("first document", nil),
		schema.NewDocument("second document", nil),
	})
	require.NoError(t, err)

	infos, err := store.ListCollections(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)

	assert.Equal(t, "test-collection", infos[0].Name)
	assert.Equal(t, uint64(2), infos[0].PointsCount)
	assert.Equal(t, uint64(fake.DefaultDimension), infos[0].VectorSize)
	assert.Equal(t, "Cosine", infos[0].VectorDistance)
}

func TestDeleteDocuments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ids, err := store.AddDocuments(ctx, []schema.Document{
		schema.NewDocument("to be deleted", nil),
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteDocuments(ctx, ids))

	_, err = store.Retrieve(ctx, "deleted")
	assert.ErrorIs(t, err, vectorstores.ErrNoResults)
}

func TestDeleteCollection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddDocuments(ctx, []schema.Document{
		schema.NewDocument("some document", nil),
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteCollection(ctx, "test-collection"))
	assert.ErrorIs(t, store.DeleteCollection(ctx, "test-collection"), vectorstores.ErrCollectionNotFound)
}

func TestClose(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	_, err := store.AddDocuments(ctx, []schema.Document{
		schema.NewDocument("after close", nil),
	})
	assert.ErrorIs(t, err, ErrStoreClosed)

	_, err = store.ListCollections(ctx)
	assert.ErrorIs(t, err, ErrStoreClosed)

	assert.ErrorIs(t, store.DeleteCollection(ctx, "test-collection"), ErrStoreClosed)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{1, 0}), 0.0001)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 0.0001)
	assert.Zero(t, cosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Zero(t, cosineSimilarity(nil, nil))
}
