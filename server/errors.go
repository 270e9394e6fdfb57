package server

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when no document repository is supplied.
	ErrDocumentRepositoryRequired = errors.New("document repository is required")

	// ErrGraphRepositoryRequired is returned when no graph repository is supplied.
	ErrGraphRepositoryRequired = errors.New("graph repository is required")

	// ErrVectorIndexRequired is returned when no vector index is supplied.
	ErrVectorIndexRequired = errors.New("vector index is required")

	// ErrOrchestratorRequired is returned when no orchestrator is supplied.
	ErrOrchestratorRequired = errors.New("orchestrator is required")

	// ErrSearcherRequired is returned when no searcher is supplied.
	ErrSearcherRequired = errors.New("searcher is required")

	// ErrNilLogger is returned when a nil logger is passed to WithLogger.
	ErrNilLogger = errors.New("logger cannot be nil")
)
