package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/poiesic/graphit/core"
	"github.com/poiesic/graphit/decode"
	"github.com/poiesic/graphit/export"
	"github.com/poiesic/graphit/storage"
)

const (
	defaultDocumentLimit = 50
	defaultGraphLimit    = 100
	defaultSearchLimit   = 10
)

// handleIngest accepts a multipart upload and schedules it for async
// processing. The response is the pending document; poll GET
// /v1/documents/:id for progress.
func (s *Server) handleIngest(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}

	format := core.SourceFormat(c.PostForm("format"))

	reader, err := file.Open()
	if err != nil {
		handleError(c, err)
		return
	}
	defer reader.Close()

	doc, err := s.orchestrator.SubmitData(c.Request.Context(), file.Filename, format, reader, file.Size)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, doc)
}

func (s *Server) handleListDocuments(c *gin.Context) {
	limit := queryInt(c, "limit", defaultDocumentLimit)

	docs, err := s.documents.ListDocuments(c.Request.Context(), limit)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (s *Server) handleGetDocument(c *gin.Context) {
	doc, err := s.documents.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (s *Server) handleGraph(c *gin.Context) {
	limit := queryInt(c, "limit", defaultGraphLimit)

	data, err := s.graph.Visualize(c.Request.Context(), limit)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

func (s *Server) handleGraphStats(c *gin.Context) {
	stats, err := s.graph.Stats(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// handleGraphD3 returns the graph extract in the node/link shape consumed
// by D3 force layouts.
func (s *Server) handleGraphD3(c *gin.Context) {
	limit := queryInt(c, "limit", defaultGraphLimit)

	data, err := s.graph.Visualize(c.Request.Context(), limit)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, export.FromGraphData(data))
}

// handleClearGraph wipes the graph and its vector index together so
// search never resolves entities that no longer exist.
func (s *Server) handleClearGraph(c *gin.Context) {
	if err := s.graph.Clear(c.Request.Context()); err != nil {
		handleError(c, err)
		return
	}
	if err := s.vectors.Clear(c.Request.Context()); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// handleEntity returns the entities matching a name together with their
// outgoing relations.
func (s *Server) handleEntity(c *gin.Context) {
	name := c.Param("name")

	entities, err := s.graph.FindEntitiesByName(c.Request.Context(), name)
	if err != nil {
		handleError(c, err)
		return
	}
	if len(entities) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "entity not found"})
		return
	}

	relations, err := s.graph.GetEntityRelations(c.Request.Context(), name)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entities": entities, "relations": relations})
}

func (s *Server) handleSearch(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	if req.Limit <= 0 {
		req.Limit = defaultSearchLimit
	}

	matches, err := s.searcher.FindSimilar(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"query": req.Query, "matches": matches})
}

// handleError maps sentinel errors to HTTP statuses.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, decode.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
