package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/graphit/ai/mock"
	"github.com/poiesic/graphit/core"
	"github.com/poiesic/graphit/decode"
	"github.com/poiesic/graphit/ingestion"
	"github.com/poiesic/graphit/pipeline"
	"github.com/poiesic/graphit/search"
	"github.com/poiesic/graphit/storage"
	"github.com/poiesic/graphit/storage/badger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	server   *Server
	graph    storage.GraphRepository
	vectors  storage.VectorIndex
	searcher *search.Searcher
}

func newFixture(t *testing.T) *fixture {
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

	searcher, err := search.NewSearcher(vectors, graph, provider)
	require.NoError(t, err)

	orchestrator, err := ingestion.NewOrchestrator(docs, factory, registry,
		ingestion.WithIndexer(searcher), ingestion.WithWorkers(2))
	require.NoError(t, err)
	t.Cleanup(orchestrator.Release)

	srv, err := NewServer(docs, graph, vectors, orchestrator, searcher)
	require.NoError(t, err)

	return &fixture{server: srv, graph: graph, vectors: vectors, searcher: searcher}
}

func (f *fixture) do(t *testing.T, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, body)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	w := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(w, req)
	return w
}

func multipartUpload(t *testing.T, filename, format, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)

	if format != "" {
		require.NoError(t, writer.WriteField("format", format))
	}
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func TestHealthCheck(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewServer_RequiresCollaborators(t *testing.T) {
	_, err := NewServer(nil, nil, nil, nil, nil)
	assert.ErrorIs(t, err, ErrDocumentRepositoryRequired)
}

func TestIngest_AcceptsUploadAndCompletes(t *testing.T) {
	f := newFixture(t)

	body, contentType := multipartUpload(t, "people.csv", "", "name\nAda\nGrace\n")
	w := f.do(t, http.MethodPost, "/v1/documents", body, contentType)
	require.Equal(t, http.StatusAccepted, w.Code)

	var doc core.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.NotEmpty(t, doc.Id)
	assert.Equal(t, core.StatusPending, doc.Status)
	assert.Equal(t, core.FormatCSV, doc.Format)

	require.Eventually(t, func() bool {
		resp := f.do(t, http.MethodGet, "/v1/documents/"+doc.Id, nil, "")
		if resp.Code != http.StatusOK {
			return false
		}
		var polled core.Document
		if err := json.Unmarshal(resp.Body.Bytes(), &polled); err != nil {
			return false
		}
		return polled.Status.Terminal()
	}, 5*time.Second, 20*time.Millisecond)

	resp := f.do(t, http.MethodGet, "/v1/documents/"+doc.Id, nil, "")
	var final core.Document
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &final))
	assert.Equal(t, core.StatusCompleted, final.Status)
	assert.Equal(t, 2, final.EntitiesExtracted)
}

func TestIngest_MissingFile(t *testing.T) {
	f := newFixture(t)

	body := bytes.NewBufferString("{}")
	w := f.do(t, http.MethodPost, "/v1/documents", body, "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngest_UnsupportedFormat(t *testing.T) {
	f := newFixture(t)

	body, contentType := multipartUpload(t, "image.bmp", "bmp", "not really a bitmap")
	w := f.do(t, http.MethodPost, "/v1/documents", body, contentType)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unsupported")
}

func TestGetDocument_NotFound(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/v1/documents/01ZZZZZZZZZZZZZZZZZZZZZZZZ", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListDocuments(t *testing.T) {
	f := newFixture(t)

	body, contentType := multipartUpload(t, "a.csv", "", "name\nAda\n")
	require.Equal(t, http.StatusAccepted, f.do(t, http.MethodPost, "/v1/documents", body, contentType).Code)

	w := f.do(t, http.MethodGet, "/v1/documents?limit=10", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Documents []*core.Document `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Documents, 1)
}

func seedGraph(t *testing.T, f *fixture) {
	t.Helper()

	ctx := context.Background()
	entities := []*core.Entity{
		{Type: core.EntityPerson, Name: "Ada Lovelace", Confidence: 0.95},
		{Type: core.EntityLocation, Name: "London", Confidence: 0.9},
	}
	_, err := f.graph.UpsertEntities(ctx, entities...)
	require.NoError(t, err)

	_, err = f.graph.UpsertRelations(ctx, &core.Relation{
		Type:       core.RelationLocatedIn,
		FromEntity: "Ada Lovelace",
		FromType:   core.EntityPerson,
		ToEntity:   "London",
		ToType:     core.EntityLocation,
		Confidence: 0.8,
	})
	require.NoError(t, err)

	require.NoError(t, f.searcher.IndexEntities(ctx, entities))
}

func TestGraphEndpoints(t *testing.T) {
	f := newFixture(t)
	seedGraph(t, f)

	t.Run("visualize", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/v1/graph", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var data core.GraphData
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
		assert.Len(t, data.Nodes, 2)
		assert.Len(t, data.Edges, 1)
	})

	t.Run("stats", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/v1/graph/stats", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var stats core.GraphStats
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
		assert.Equal(t, 2, stats.TotalNodes)
		assert.Equal(t, 1, stats.TotalRelationships)
	})

	t.Run("d3", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/v1/graph/d3", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var graph struct {
			Nodes []map[string]any `json:"nodes"`
			Links []map[string]any `json:"links"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &graph))
		assert.Len(t, graph.Nodes, 2)
		require.Len(t, graph.Links, 1)
		assert.Equal(t, string(core.RelationLocatedIn), graph.Links[0]["relation"])
	})

	t.Run("clear wipes graph and vectors", func(t *testing.T) {
		w := f.do(t, http.MethodDelete, "/v1/graph", nil, "")
		require.Equal(t, http.StatusNoContent, w.Code)

		stats, err := f.graph.Stats(context.Background())
		require.NoError(t, err)
		assert.Zero(t, stats.TotalNodes)

		count, err := f.vectors.CountVectors(context.Background())
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestEntityEndpoint(t *testing.T) {
	f := newFixture(t)
	seedGraph(t, f)

	w := f.do(t, http.MethodGet, "/v1/entities/ada%20lovelace", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Entities  []*core.Entity   `json:"entities"`
		Relations []*core.Relation `json:"relations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Entities, 1)
	assert.Equal(t, "Ada Lovelace", resp.Entities[0].Name)
	require.Len(t, resp.Relations, 1)
	assert.Equal(t, core.RelationLocatedIn, resp.Relations[0].Type)
}

func TestEntityEndpoint_NotFound(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/v1/entities/nobody", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchEndpoint(t *testing.T) {
	f := newFixture(t)
	seedGraph(t, f)

	body := bytes.NewBufferString(`{"query": "Ada Lovelace", "limit": 5}`)
	w := f.do(t, http.MethodPost, "/v1/search", body, "application/json")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Query   string              `json:"query"`
		Matches []*core.EntityMatch `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Matches)
	assert.Equal(t, "Ada Lovelace", resp.Matches[0].Entity.Name)
}

func TestSearchEndpoint_BadRequest(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/v1/search", bytes.NewBufferString(`{"query": ""}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/v1/search", bytes.NewBufferString(`not json`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryIntDefaults(t *testing.T) {
	f := newFixture(t)

	// Bad limit values fall back to the default rather than erroring
	w := f.do(t, http.MethodGet, "/v1/documents?limit=abc", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/v1/documents?limit=-3", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIngest_FormatFieldOverridesExtension(t *testing.T) {
	f := newFixture(t)

	body, contentType := multipartUpload(t, "data.txt", "csv", "name\nAda\n")
	w := f.do(t, http.MethodPost, "/v1/documents", body, contentType)
	require.Equal(t, http.StatusAccepted, w.Code)

	var doc core.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, core.FormatCSV, doc.Format)
}
