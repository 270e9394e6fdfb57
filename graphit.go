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


package graphit

import (
	"context"
	"log/slog"

	"github.com/poiesic/graphit/ai"
	"github.com/poiesic/graphit/ai/openai"
	"github.com/poiesic/graphit/decode"
	"github.com/poiesic/graphit/ingestion"
	"github.com/poiesic/graphit/pipeline"
	"github.com/poiesic/graphit/search"
	"github.com/poiesic/graphit/storage"
	"github.com/poiesic/graphit/storage/badger"
	"github.com/poiesic/graphit/storage/sqlite"
)

// Database wires a storage backend, the decoder registry, and an AI
// provider into the stores and services the library exposes.
type Database struct {
	closeBackend func() error
	documents    storage.DocumentRepository
	graph        storage.GraphRepository
	vectors      storage.VectorIndex
	registry     *decode.Registry
	provider     ai.AIProvider
	logger       *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	sqlite   bool
	inMemory bool
}

// WithAIConfig overrides the default AI provider configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithSQLite stores documents, graph, and vectors in a SQLite file
// instead of the default BadgerDB directory.
func WithSQLite() DatabaseOption {
	return func(o *databaseOptions) {
		o.sqlite = true
	}
}

// WithInMemory opens an ephemeral store. Only the Badger backend
// supports this; it is meant for tests and throwaway runs.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	db := &Database{
		registry: decode.NewRegistry(),
		logger:   slog.Default(),
	}

	var err error
	if options.sqlite {
		err = db.openSQLite(filePath)
	} else {
		err = db.openBadger(filePath, options.inMemory)
	}
	if err != nil {
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		db.closeStores()
		return nil, err
	}

	cached, err := ai.NewCachingEmbedder(provider.Embedder(), ai.DefaultEmbedCacheSize)
	if err != nil {
		provider.Close()
		db.closeStores()
		return nil, err
	}
	db.provider = &cachingProvider{AIProvider: provider, embedder: cached}

	return db, nil
}

// cachingProvider overlays an LRU embedding cache on a provider. Repeated
// chunk and query texts skip the embedding service.
type cachingProvider struct {
	ai.AIProvider
	embedder ai.Embedder
}

func (p *cachingProvider) Embedder() ai.Embedder {
	return p.embedder
}

func (db *Database) openBadger(filePath string, inMemory bool) error {
	backend, err := badger.OpenBackend(filePath, inMemory)
	if err != nil {
		return err
	}

	documents, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return err
	}

	graph, err := badger.NewGraphRepository(backend)
	if err != nil {
		documents.Close()
		backend.Close()
		return err
	}

	vectors, err := badger.NewVectorIndex(backend)
	if err != nil {
		graph.Close()
		documents.Close()
		backend.Close()
		return err
	}

	db.documents = documents
	db.graph = graph
	db.vectors = vectors
	db.closeBackend = backend.Close
	return nil
}

func (db *Database) openSQLite(filePath string) error {
	backend, err := sqlite.Open(context.Background(), filePath)
	if err != nil {
		return err
	}

	documents, err := sqlite.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return err
	}

	graph, err := sqlite.NewGraphRepository(backend)
	if err != nil {
		documents.Close()
		backend.Close()
		return err
	}

	vectors, err := sqlite.NewVectorIndex(backend)
	if err != nil {
		graph.Close()
		documents.Close()
		backend.Close()
		return err
	}

	db.documents = documents
	db.graph = graph
	db.vectors = vectors
	db.closeBackend = backend.Close
	return nil
}

func (db *Database) closeStores() {
	if db.vectors != nil {
		db.vectors.Close()
	}
	if db.graph != nil {
		db.graph.Close()
	}
	if db.documents != nil {
		db.documents.Close()
	}
	if db.closeBackend != nil {
		db.closeBackend()
	}
}

func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.vectors.Close(); err != nil {
		db.logger.Error("error closing vector index", "err", err)
		return err
	}
	if err := db.graph.Close(); err != nil {
		db.logger.Error("error closing graph repository", "err", err)
		return err
	}
	if err := db.documents.Close(); err != nil {
		db.logger.Error("error closing document repository", "err", err)
		return err
	}

	if err := db.closeBackend(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) DocumentRepository() storage.DocumentRepository {
	return db.documents
}

func (db *Database) GraphRepository() storage.GraphRepository {
	return db.graph
}

func (db *Database) VectorIndex() storage.VectorIndex {
	return db.vectors
}

func (db *Database) Registry() *decode.Registry {
	return db.registry
}

func (db *Database) Provider() ai.AIProvider {
	return db.provider
}

// NewOrchestrator builds an ingestion orchestrator over this database.
// A searcher is wired in as the entity indexer so completed documents
// become searchable immediately.
func (db *Database) NewOrchestrator(opts ...ingestion.Option) (*ingestion.Orchestrator, error) {
	factory := pipeline.NewFactory(db.registry, db.provider, db.graph)

	searcher, err := db.NewSearcher()
	if err != nil {
		return nil, err
	}

	return ingestion.NewOrchestrator(db.documents, factory, db.registry,
		append([]ingestion.Option{ingestion.WithIndexer(searcher)}, opts...)...)
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.vectors, db.graph, db.provider, opts...)
}
