package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/graphit/core"
	"github.com/poiesic/graphit/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocuments(t *testing.T) storage.DocumentRepository {
	t.Helper()
	docs, graph, vectors, backend, err := NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		vectors.Close()
		graph.Close()
		docs.Close()
		backend.Close()
	})
	return docs
}

func TestDocumentPutGet(t *testing.T) {
	docs := newTestDocuments(t)
	ctx := context.Background()

	doc := core.NewDocument("movies.csv", core.FormatCSV, 2048)
	require.NoError(t, docs.PutDocument(ctx, doc))

	got, err := docs.GetDocument(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, doc.Id, got.Id)
	assert.Equal(t, "movies.csv", got.Filename)
	assert.Equal(t, core.FormatCSV, got.Format)
	assert.Equal(t, core.StatusPending, got.Status)
	assert.EqualValues(t, 2048, got.SizeBytes)
}

func TestDocumentGet_NotFound(t *testing.T) {
	docs := newTestDocuments(t)

	_, err := docs.GetDocument(context.Background(), core.NewDocumentID())
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestDocumentPut_OverwritesSnapshot(t *testing.T) {
	docs := newTestDocuments(t)
	ctx := context.Background()

	doc := core.NewDocument("notes.txt", core.FormatText, 100)
	require.NoError(t, docs.PutDocument(ctx, doc))

	doc.UpdateStatus(core.StatusParsing)
	doc.SetProgress(25)
	require.NoError(t, docs.PutDocument(ctx, doc))

	got, err := docs.GetDocument(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusParsing, got.Status)
	assert.EqualValues(t, 25, got.Progress)

	listed, err := docs.ListDocuments(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestDocumentList_NewestFirst(t *testing.T) {
	docs := newTestDocuments(t)
	ctx := context.Background()

	first := core.NewDocument("a.csv", core.FormatCSV, 1)
	second := core.NewDocument("b.csv", core.FormatCSV, 2)
	third := core.NewDocument("c.csv", core.FormatCSV, 3)
	for _, doc := range []*core.Document{first, second, third} {
		require.NoError(t, docs.PutDocument(ctx, doc))
	}

	listed, err := docs.ListDocuments(ctx, 0)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, third.Id, listed[0].Id)
	assert.Equal(t, second.Id, listed[1].Id)
	assert.Equal(t, first.Id, listed[2].Id)

	limited, err := docs.ListDocuments(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, third.Id, limited[0].Id)
}

func TestDocumentDelete(t *testing.T) {
	docs := newTestDocuments(t)
	ctx := context.Background()

	doc := core.NewDocument("gone.json", core.FormatJSON, 10)
	require.NoError(t, docs.PutDocument(ctx, doc))
	require.NoError(t, docs.DeleteDocument(ctx, doc.Id))

	_, err := docs.GetDocument(ctx, doc.Id)
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	err = docs.DeleteDocument(ctx, doc.Id)
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestDocumentRoundTrip_TerminalFields(t *testing.T) {
	docs := newTestDocuments(t)
	ctx := context.Background()

	doc := core.NewDocument("done.xml", core.FormatXML, 999)
	doc.UpdateStatus(core.StatusParsing)
	doc.MarkCompleted(12, 7)
	require.NoError(t, docs.PutDocument(ctx, doc))

	got, err := docs.GetDocument(ctx, doc.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, got.Status)
	assert.EqualValues(t, 100, got.Progress)
	assert.Equal(t, 12, got.EntitiesExtracted)
	assert.Equal(t, 7, got.RelationsExtracted)
	assert.False(t, got.ProcessedAt.IsZero())
}
