package fake

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/ragstore/schema"
	"github.com/sevigo/ragstore/vectorstores"
)

func TestAddAndRetrieve(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.AddDocuments(ctx, []schema.Document{
		{PageContent: "alpha document"},
		{PageContent: "beta document"},
	})
	require.NoError(t, err)

	result, err := s.Retrieve(ctx, "beta")
	require.NoError(t, err)
	assert.Equal(t, "beta document", result.Document.PageContent)
}

func TestRetrieve_Empty(t *testing.T) {
	_, err := New().Retrieve(context.Background(), "anything")
	assert.ErrorIs(t, err, vectorstores.ErrNoResults)
}

func TestDeleteDocuments(t *testing.T) {
	s := New()
	ctx := context.Background()

	ids, err := s.Add(ctx, "to be deleted")
	require.NoError(t, err)

	require.NoError(t, s.DeleteDocuments(ctx, ids))
	assert.Empty(t, s.Docs())
}
