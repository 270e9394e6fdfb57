package pipeline

import (
	"io"

	"github.com/poiesic/graphit/core"
)

// Source produces a fresh reader over the document being processed. The
// orchestrator stages the file (or upload body) behind this function so
// the parsing stage never touches the filesystem itself.
type Source func() (io.ReadCloser, error)

// Chunk is one unit of text prepared for embedding and recognition.
type Chunk struct {
	Id       string
	Content  string
	Type     string
	Metadata map[string]string
}

// ValidationReport is the outcome of the validation stage.
type ValidationReport struct {
	Valid  bool
	Issues []string
	Strict bool
}

// Context accumulates the state of a single pipeline run. Stages read the
// fields earlier stages populated and write their own; StageResults and
// Errors are append-only. A Context is used by one run and never shared.
type Context struct {
	Filename string
	Format   core.SourceFormat
	Size     int64
	Source   Source
	Metadata map[string]any

	RawRecords []core.Record
	Chunks     []Chunk
	Embeddings [][]float32

	Entities  []*core.Entity
	Relations []*core.Relation

	EnrichedEntities  []*core.Entity
	EnrichedRelations []*core.Relation

	ValidationReport *ValidationReport

	StoredEntityIds   []core.ID
	StoredRelationIds []core.ID
	StorageStats      map[string]any

	StageResults []*StageResult
	Errors       []string
}

// NewContext creates a run context for one document.
func NewContext(filename string, format core.SourceFormat, size int64, source Source) *Context {
	return &Context{
		Filename: filename,
		Format:   format,
		Size:     size,
		Source:   source,
		Metadata: make(map[string]any),
	}
}

// AddStageResult appends a stage outcome.
func (pc *Context) AddStageResult(result *StageResult) {
	pc.StageResults = append(pc.StageResults, result)
}

// AddError appends an error message.
func (pc *Context) AddError(msg string) {
	pc.Errors = append(pc.Errors, msg)
}

// IsSuccessful reports whether every recorded stage completed or skipped.
// A context with no recorded stages is not successful.
func (pc *Context) IsSuccessful() bool {
	if len(pc.StageResults) == 0 {
		return false
	}
	for _, result := range pc.StageResults {
		if !result.Succeeded() {
			return false
		}
	}
	return true
}

// FinalEntities returns the enriched entities when an enrichment stage
// produced them, otherwise the raw extracted entities.
func (pc *Context) FinalEntities() []*core.Entity {
	if pc.EnrichedEntities != nil {
		return pc.EnrichedEntities
	}
	return pc.Entities
}

// FinalRelations returns the enriched relations when an enrichment stage
// produced them, otherwise the raw extracted relations.
func (pc *Context) FinalRelations() []*core.Relation {
	if pc.EnrichedRelations != nil {
		return pc.EnrichedRelations
	}
	return pc.Relations
}
