package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/graphit/ai/mock"
	"github.com/poiesic/graphit/core"
	"github.com/poiesic/graphit/decode"
	"github.com/poiesic/graphit/pipeline"
	"github.com/poiesic/graphit/storage"
	"github.com/poiesic/graphit/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingIndexer struct {
	indexed []*core.Entity
	err     error
}

func (r *recordingIndexer) IndexEntities(_ context.Context, entities []*core.Entity) error {
	if r.err != nil {
		return r.err
	}
	r.indexed = append(r.indexed, entities...)
	return nil
}

type harness struct {
	orchestrator *Orchestrator
	documents    storage.DocumentRepository
	graph        storage.GraphRepository
	provider     *mock.MockProvider
	indexer      *recordingIndexer
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	docs, graph, vectors, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	t.Cleanup(func() {
		vectors.Close()
		graph.Close()
		docs.Close()
		backend.Close()
	})

	provider := mock.NewMockProvider()
	registry := decode.NewRegistry()
	factory := pipeline.NewFactory(registry, provider, graph)
	indexer := &recordingIndexer{}

	orchestrator, err := NewOrchestrator(docs, factory, registry,
		append([]Option{WithIndexer(indexer), WithWorkers(2)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(orchestrator.Release)

	return &harness{
		orchestrator: orchestrator,
		documents:    docs,
		graph:        graph,
		provider:     provider,
		indexer:      indexer,
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewOrchestrator_RequiresCollaborators(t *testing.T) {
	registry := decode.NewRegistry()
	factory := pipeline.NewFactory(registry, mock.NewMockProvider(), nil)

	_, err := NewOrchestrator(nil, factory, registry)
	assert.ErrorIs(t, err, ErrDocumentRepositoryRequired)

	h := newHarness(t)
	_, err = NewOrchestrator(h.documents, nil, registry)
	assert.ErrorIs(t, err, ErrFactoryRequired)

	_, err = NewOrchestrator(h.documents, factory, nil)
	assert.ErrorIs(t, err, ErrRegistryRequired)
}

func TestProcess_TabularFile(t *testing.T) {
	h := newHarness(t)
	path := writeTempFile(t, "people.csv", "name\nAda\nAlan\nGrace\n")

	result, err := h.orchestrator.Process(context.Background(), path, core.FormatCSV)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, core.StatusCompleted, result.Document.Status)
	assert.Equal(t, 3, result.TotalEntities)
	assert.Equal(t, 3, result.EntitiesStored)
	assert.Equal(t, 3, result.EntitiesByType["Generic"])

	names := make([]string, len(result.Stages))
	for i, s := range result.Stages {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"parsing", "extraction", "transformation", "validation", "storage"}, names)

	// The final document snapshot is persisted for pollers.
	stored, err := h.documents.GetDocument(context.Background(), result.Document.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, stored.Status)
	assert.Equal(t, 3, stored.EntitiesExtracted)

	// Entities were handed to the indexer.
	assert.Len(t, h.indexer.indexed, 3)
}

func TestProcess_FormatInferredFromExtension(t *testing.T) {
	h := newHarness(t)
	path := writeTempFile(t, "people.csv", "name\nAda\n")

	result, err := h.orchestrator.Process(context.Background(), path, "")
	require.NoError(t, err)
	assert.Equal(t, core.FormatCSV, result.Document.Format)
}

func TestProcess_UnsupportedFormatBeforeDocument(t *testing.T) {
	h := newHarness(t)
	path := writeTempFile(t, "data.parquet", "x")

	_, err := h.orchestrator.Process(context.Background(), path, "parquet")
	assert.ErrorIs(t, err, decode.ErrUnsupportedFormat)

	docs, err := h.documents.ListDocuments(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, docs, "no document should exist for a rejected format")
}

func TestProcess_MissingFile(t *testing.T) {
	h := newHarness(t)
	_, err := h.orchestrator.Process(context.Background(), "/nonexistent/file.csv", core.FormatCSV)
	assert.Error(t, err)
}

func TestProcess_StageFailureReturnsSummaryNotError(t *testing.T) {
	h := newHarness(t)
	h.provider.GetMockEntityExtractor().ExtractEntitiesFunc = func(context.Context, []core.Record, map[string]any, int) ([]*core.Entity, error) {
		return nil, errors.New("model overloaded")
	}
	path := writeTempFile(t, "people.csv", "name\nAda\n")

	result, err := h.orchestrator.Process(context.Background(), path, core.FormatCSV)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, core.StatusFailed, result.Document.Status)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "model overloaded")

	var failed *StageSummary
	for i := range result.Stages {
		if result.Stages[i].Status == "failed" {
			failed = &result.Stages[i]
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, "extraction", failed.Name)

	assert.Empty(t, h.indexer.indexed, "failed runs are not indexed")
}

func TestProcessData_Upload(t *testing.T) {
	h := newHarness(t)
	body := "name\nAda\nAlan\n"

	result, err := h.orchestrator.ProcessData(context.Background(), "upload.csv", core.FormatCSV,
		strings.NewReader(body), int64(len(body)))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "upload.csv", result.Document.Filename)
	assert.Equal(t, 2, result.EntitiesStored)
}

func TestProcess_IndexerFailureLeavesDocumentCompleted(t *testing.T) {
	h := newHarness(t)
	h.indexer.err = errors.New("vector index unavailable")
	path := writeTempFile(t, "people.csv", "name\nAda\n")

	result, err := h.orchestrator.Process(context.Background(), path, core.FormatCSV)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, core.StatusCompleted, result.Document.Status)
}

func TestSubmit_ReturnsPendingAndCompletesAsync(t *testing.T) {
	h := newHarness(t)
	path := writeTempFile(t, "people.csv", "name\nAda\nAlan\n")

	doc, err := h.orchestrator.Submit(context.Background(), path, core.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, core.StatusPending, doc.Status)

	require.Eventually(t, func() bool {
		stored, err := h.documents.GetDocument(context.Background(), doc.Id)
		return err == nil && stored.Terminal()
	}, 5*time.Second, 10*time.Millisecond)

	stored, err := h.documents.GetDocument(context.Background(), doc.Id)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, stored.Status)
	assert.Equal(t, 2, stored.EntitiesExtracted)
}

func TestSubmit_UnsupportedFormat(t *testing.T) {
	h := newHarness(t)
	path := writeTempFile(t, "data.bin", "x")

	_, err := h.orchestrator.Submit(context.Background(), path, "bin")
	assert.ErrorIs(t, err, decode.ErrUnsupportedFormat)
}

func TestProcess_ReusesCachedPipeline(t *testing.T) {
	h := newHarness(t)
	path := writeTempFile(t, "people.csv", "name\nAda\n")

	_, err := h.orchestrator.Process(context.Background(), path, core.FormatCSV)
	require.NoError(t, err)
	first := h.orchestrator.pipelineFor(core.FormatCSV)
	second := h.orchestrator.pipelineFor(core.FormatCSV)
	assert.Same(t, first, second)
}
