package ingestion

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/graphit/core"
	"github.com/poiesic/graphit/decode"
	"github.com/poiesic/graphit/pipeline"
	"github.com/poiesic/graphit/storage"
)

// EntityIndexer receives newly stored entities for semantic indexing.
// *search.Searcher satisfies it.
type EntityIndexer interface {
	IndexEntities(ctx context.Context, entities []*core.Entity) error
}

// Orchestrator runs documents through format-appropriate pipelines and
// tracks their lifecycle in the document repository.
type Orchestrator struct {
	documents storage.DocumentRepository
	factory   *pipeline.Factory
	registry  *decode.Registry
	indexer   EntityIndexer
	pool      *ants.Pool
	logger    *slog.Logger

	mu        sync.Mutex
	pipelines map[core.SourceFormat]*pipeline.Pipeline
}

var _ pipeline.DocumentObserver = (*Orchestrator)(nil)

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithIndexer sets the entity indexer invoked after successful runs.
// Indexing is best effort: failures are logged, never surfaced.
func WithIndexer(indexer EntityIndexer) Option {
	return func(o *Orchestrator) error {
		o.indexer = indexer
		return nil
	}
}

// WithWorkers sets the async worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithWorkers(size int) Option {
	return func(o *Orchestrator) error {
		if size < 1 {
			size = 1
		}
		if o.pool != nil {
			o.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		o.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// NewOrchestrator creates a document processing orchestrator.
func NewOrchestrator(
	documents storage.DocumentRepository,
	factory *pipeline.Factory,
	registry *decode.Registry,
	opts ...Option,
) (*Orchestrator, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if factory == nil {
		return nil, ErrFactoryRequired
	}
	if registry == nil {
		return nil, ErrRegistryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		documents: documents,
		factory:   factory,
		registry:  registry,
		pool:      pool,
		logger:    slog.Default(),
		pipelines: make(map[core.SourceFormat]*pipeline.Pipeline),
	}

	for _, opt := range opts {
		if optErr := opt(o); optErr != nil {
			o.Release()
			return nil, optErr
		}
	}
	return o, nil
}

// Release frees the worker pool. In-flight runs complete first.
func (o *Orchestrator) Release() {
	if o.pool != nil {
		o.pool.Release()
	}
}

// DocumentUpdated persists a document snapshot so pollers see mid-run
// progress. Persistence failures are logged, never raised into the run.
func (o *Orchestrator) DocumentUpdated(ctx context.Context, doc *core.Document) {
	if err := o.documents.PutDocument(ctx, doc); err != nil {
		o.logger.Warn("persisting document snapshot", "document", doc.Id, "err", err)
	}
}

// Process runs the file at path through the pipeline for its format and
// blocks until done. An empty format is derived from the file extension.
// Stage failures are reported in the returned Result, not as an error;
// the error return covers only conditions preceding Document creation.
func (o *Orchestrator) Process(ctx context.Context, path string, format core.SourceFormat) (*Result, error) {
	if format == "" {
		format = core.FormatFromPath(path)
	}
	if _, err := o.registry.Decoder(format); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	doc := core.NewDocument(filepath.Base(path), format, info.Size())
	source := func() (io.ReadCloser, error) { return os.Open(path) }
	return o.run(ctx, doc, source)
}

// ProcessData runs an in-memory upload through the pipeline for its
// format. The reader is drained up front so the source can be reopened.
func (o *Orchestrator) ProcessData(ctx context.Context, filename string, format core.SourceFormat, r io.Reader, size int64) (*Result, error) {
	if format == "" {
		format = core.FormatFromPath(filename)
	}
	if _, err := o.registry.Decoder(format); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = int64(len(data))
	}

	doc := core.NewDocument(filename, format, size)
	source := func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return o.run(ctx, doc, source)
}

// Submit creates the pending document and schedules its run on the worker
// pool, returning immediately. Poll the document repository for progress.
func (o *Orchestrator) Submit(ctx context.Context, path string, format core.SourceFormat) (*core.Document, error) {
	if format == "" {
		format = core.FormatFromPath(path)
	}
	if _, err := o.registry.Decoder(format); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	doc := core.NewDocument(filepath.Base(path), format, info.Size())
	if err := o.documents.PutDocument(ctx, doc); err != nil {
		return nil, err
	}

	snapshot := *doc
	source := func() (io.ReadCloser, error) { return os.Open(path) }
	err = o.pool.Submit(func() {
		if _, runErr := o.run(context.Background(), doc, source); runErr != nil {
			o.logger.Error("async document run", "document", doc.Id, "err", runErr)
		}
	})
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// SubmitData is Submit for in-memory uploads.
func (o *Orchestrator) SubmitData(ctx context.Context, filename string, format core.SourceFormat, r io.Reader, size int64) (*core.Document, error) {
	if format == "" {
		format = core.FormatFromPath(filename)
	}
	if _, err := o.registry.Decoder(format); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = int64(len(data))
	}

	doc := core.NewDocument(filename, format, size)
	if err := o.documents.PutDocument(ctx, doc); err != nil {
		return nil, err
	}

	snapshot := *doc
	source := func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	err = o.pool.Submit(func() {
		if _, runErr := o.run(context.Background(), doc, source); runErr != nil {
			o.logger.Error("async document run", "document", doc.Id, "err", runErr)
		}
	})
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// run executes one document end to end: persist pending, execute the
// cached pipeline, persist final state, summarize, index.
func (o *Orchestrator) run(ctx context.Context, doc *core.Document, source pipeline.Source) (*Result, error) {
	if err := o.documents.PutDocument(ctx, doc); err != nil {
		return nil, err
	}

	p := o.pipelineFor(doc.Format)
	pc := pipeline.NewContext(doc.Filename, doc.Format, doc.SizeBytes, source)

	start := time.Now()
	if err := p.Execute(ctx, pc, doc); err != nil {
		return nil, err
	}
	duration := time.Since(start)

	if err := o.documents.PutDocument(ctx, doc); err != nil {
		o.logger.Warn("persisting final document", "document", doc.Id, "err", err)
	}

	result := Summarize(doc, pc, duration)

	if result.Success && o.indexer != nil && len(pc.FinalEntities()) > 0 {
		if err := o.indexer.IndexEntities(ctx, pc.FinalEntities()); err != nil {
			o.logger.Warn("indexing entities", "document", doc.Id, "err", err)
		}
	}

	o.logger.Info("document processed",
		"document", doc.Id, "filename", doc.Filename, "status", doc.Status,
		"entities", result.TotalEntities, "relations", result.TotalRelations,
		"duration", duration)
	return result, nil
}

// pipelineFor returns the cached pipeline for a format, building it on
// first use. Stages keep no per-run state, so sharing is safe.
func (o *Orchestrator) pipelineFor(format core.SourceFormat) *pipeline.Pipeline {
	o.mu.Lock()
	defer o.mu.Unlock()

	if p, ok := o.pipelines[format]; ok {
		return p
	}
	p := o.factory.ForFormat(format)
	p.SetObserver(o)
	p.SetLogger(o.logger)
	o.pipelines[format] = p
	return p
}
