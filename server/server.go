// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/poiesic/graphit/ingestion"
	"github.com/poiesic/graphit/search"
	"github.com/poiesic/graphit/storage"
)

// Server exposes the ingestion pipeline, graph, and search over a REST API.
type Server struct {
	documents    storage.DocumentRepository
	graph        storage.GraphRepository
	vectors      storage.VectorIndex
	orchestrator *ingestion.Orchestrator
	searcher     *search.Searcher
	router       *gin.Engine
	logger       *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets the logger used for request-scoped warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			return ErrNilLogger
		}
		s.logger = logger
		return nil
	}
}

// NewServer creates a Server wired to the given stores and services.
func NewServer(documents storage.DocumentRepository, graph storage.GraphRepository, vectors storage.VectorIndex, orchestrator *ingestion.Orchestrator, searcher *search.Searcher, opts ...Option) (*Server, error) {
	switch {
	case documents == nil:
		return nil, ErrDocumentRepositoryRequired
	case graph == nil:
		return nil, ErrGraphRepositoryRequired
	case vectors == nil:
		return nil, ErrVectorIndexRequired
	case orchestrator == nil:
		return nil, ErrOrchestratorRequired
	case searcher == nil:
		return nil, ErrSearcherRequired
	}

	s := &Server{
		documents:    documents,
		graph:        graph,
		vectors:      vectors,
		orchestrator: orchestrator,
		searcher:     searcher,
		router:       gin.Default(),
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	s.setupRoutes()
	return s, nil
}

// Run starts the server on the specified address.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler returns the underlying HTTP handler, for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)

	v1 := s.router.Group("/v1")
	v1.POST("/documents", s.handleIngest)
	v1.GET("/documents", s.handleListDocuments)
	v1.GET("/documents/:id", s.handleGetDocument)
	v1.GET("/graph", s.handleGraph)
	v1.GET("/graph/stats", s.handleGraphStats)
	v1.GET("/graph/d3", s.handleGraphD3)
	v1.DELETE("/graph", s.handleClearGraph)
	v1.GET("/entities/:name", s.handleEntity)
	v1.POST("/search", s.handleSearch)
}

func (s *Server) healthCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}
