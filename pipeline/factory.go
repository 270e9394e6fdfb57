package pipeline

import (
	"log/slog"

	"github.com/poiesic/graphit/ai"
	"github.com/poiesic/graphit/core"
	"github.com/poiesic/graphit/decode"
	"github.com/poiesic/graphit/storage"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
	defaultBatchSize    = 50
	minimalBatchSize    = 100
)

// Factory builds pipelines from shared collaborators. Every build
// constructs fresh stage instances, so pipelines never share stage state.
type Factory struct {
	registry *decode.Registry
	provider ai.AIProvider
	graph    storage.GraphRepository
	logger   *slog.Logger
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithFactoryLogger sets the logger handed to stages that log.
func WithFactoryLogger(logger *slog.Logger) FactoryOption {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFactory creates a pipeline factory around the given collaborators.
func NewFactory(registry *decode.Registry, provider ai.AIProvider, graph storage.GraphRepository, opts ...FactoryOption) *Factory {
	f := &Factory{
		registry: registry,
		provider: provider,
		graph:    graph,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CustomConfig selects the optional stages of a custom pipeline. Parsing
// and storage are always present.
type CustomConfig struct {
	Chunking       bool
	Embedding      bool
	NER            bool
	Transformation bool
	Enrichment     bool
	Validation     bool

	// BatchSize applies to extraction and storage; zero means 50.
	BatchSize int

	// ChunkSize and ChunkOverlap apply when Chunking is set; zero means
	// 1000 and 200.
	ChunkSize    int
	ChunkOverlap int

	// StrictValidation makes the validation stage fail on issues.
	StrictValidation bool
}

// Default builds the full free-text pipeline: parse, chunk, embed,
// recognize, extract, transform, enrich, validate, store.
func (f *Factory) Default() *Pipeline {
	return f.Custom(CustomConfig{
		Chunking:       true,
		Embedding:      true,
		NER:            true,
		Transformation: true,
		Enrichment:     true,
		Validation:     true,
	})
}

// Tabular builds the structured-data pipeline: parse, extract, transform,
// validate, store. Rows carry no prose worth chunking or embedding.
func (f *Factory) Tabular() *Pipeline {
	return f.Custom(CustomConfig{
		Transformation: true,
		Validation:     true,
	})
}

// Minimal builds the smallest useful pipeline: parse, extract, store.
func (f *Factory) Minimal() *Pipeline {
	return f.Custom(CustomConfig{
		BatchSize: minimalBatchSize,
	})
}

// Custom builds a pipeline from an explicit stage selection.
func (f *Factory) Custom(cfg CustomConfig) *Pipeline {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	chunkSize := cfg.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	chunkOverlap := cfg.ChunkOverlap
	if chunkOverlap <= 0 {
		chunkOverlap = defaultChunkOverlap
	}

	stages := []Stage{&parsingStage{registry: f.registry}}
	if cfg.Chunking {
		stages = append(stages, &chunkingStage{chunkSize: chunkSize, chunkOverlap: chunkOverlap})
	}
	if cfg.Embedding {
		stages = append(stages, &embeddingStage{embedder: f.provider.Embedder()})
	}
	if cfg.NER {
		stages = append(stages, &nerStage{recognizer: f.provider.EntityRecognizer()})
	}
	stages = append(stages, &extractionStage{
		entities:  f.provider.EntityExtractor(),
		relations: f.provider.RelationExtractor(),
		batchSize: batchSize,
		logger:    f.logger,
	})
	if cfg.Transformation {
		stages = append(stages, &NoOpStage{StageName: "transformation"})
	}
	if cfg.Enrichment {
		stages = append(stages, &NoOpStage{StageName: "enrichment"})
	}
	if cfg.Validation {
		stages = append(stages, &validationStage{strict: cfg.StrictValidation})
	}
	stages = append(stages, &storageStage{graph: f.graph, batchSize: batchSize})

	p, _ := NewPipeline(pipelineName(cfg), stages)
	return p
}

// ForFormat selects the pipeline suited to a source format. The mapping
// is total: unknown formats get the default pipeline.
func (f *Factory) ForFormat(format core.SourceFormat) *Pipeline {
	switch format {
	case core.FormatCSV, core.FormatTSV:
		return f.Tabular()
	default:
		return f.Default()
	}
}

func pipelineName(cfg CustomConfig) string {
	switch {
	case cfg.Chunking && cfg.Embedding && cfg.NER:
		return "default"
	case cfg.Transformation && cfg.Validation:
		return "tabular"
	case !cfg.Transformation && !cfg.Enrichment && !cfg.Validation:
		return "minimal"
	default:
		return "custom"
	}
}
