package ingestion

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrFactoryRequired is returned when a pipeline factory is not provided.
	ErrFactoryRequired = errors.New("pipeline factory required")

	// ErrRegistryRequired is returned when a decoder registry is not provided.
	ErrRegistryRequired = errors.New("decoder registry required")
)
