package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/graphit/core"
)

// DocumentObserver is notified after every document mutation during a run,
// so callers can persist snapshots for status polling.
type DocumentObserver interface {
	DocumentUpdated(ctx context.Context, doc *core.Document)
}

// Pipeline executes a fixed stage sequence against one document. Build
// pipelines through a Factory; the zero value is not usable.
type Pipeline struct {
	name     string
	stages   []Stage
	observer DocumentObserver
	logger   *slog.Logger
}

// NewPipeline assembles a named pipeline from stages. Most callers go
// through a Factory instead.
func NewPipeline(name string, stages []Stage) (*Pipeline, error) {
	if len(stages) == 0 {
		return nil, ErrNoStages
	}
	return &Pipeline{
		name:   name,
		stages: stages,
		logger: slog.Default(),
	}, nil
}

// Name returns the pipeline's name.
func (p *Pipeline) Name() string { return p.name }

// StageNames returns the stage names in execution order.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, stage := range p.stages {
		names[i] = stage.Name()
	}
	return names
}

// SetObserver installs a document observer. Pass nil to remove it.
func (p *Pipeline) SetObserver(observer DocumentObserver) {
	p.observer = observer
}

// SetLogger replaces the pipeline's logger.
func (p *Pipeline) SetLogger(logger *slog.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// Execute runs the stages in order, recording results on pc and progress
// on doc. Stage failures and timeouts are captured in the context and the
// document, not returned; the error return covers only misuse (nil
// arguments).
func (p *Pipeline) Execute(ctx context.Context, pc *Context, doc *core.Document) error {
	if pc == nil {
		return errors.New("pipeline: nil context")
	}
	if doc == nil {
		return errors.New("pipeline: nil document")
	}

	total := len(p.stages)
	for i, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			msg := fmt.Errorf("%w: %w", ErrTimeout, err).Error()
			pc.AddError(msg)
			doc.MarkFailed(msg)
			p.notify(ctx, doc)
			p.logger.Warn("pipeline aborted",
				"pipeline", p.name, "document", doc.Id, "stage", stage.Name(), "error", err)
			return nil
		}

		doc.UpdateStatus(statusForStage(stage.Name()))
		doc.SetProgress(100 * float64(i) / float64(total))
		p.notify(ctx, doc)

		result := runStage(ctx, stage, pc)
		pc.AddStageResult(result)

		if result.Status == StageFailed {
			pc.AddError(result.Error)
			doc.MarkFailed(result.Error)
			p.notify(ctx, doc)
			p.logger.Warn("stage failed",
				"pipeline", p.name, "document", doc.Id, "stage", stage.Name(), "error", result.Error)
			return nil
		}

		p.logger.Debug("stage finished",
			"pipeline", p.name, "document", doc.Id, "stage", stage.Name(),
			"status", result.Status, "duration", result.Duration)
	}

	if pc.IsSuccessful() {
		doc.MarkCompleted(len(pc.FinalEntities()), len(pc.FinalRelations()))
		p.notify(ctx, doc)
	}
	return nil
}

func (p *Pipeline) notify(ctx context.Context, doc *core.Document) {
	if p.observer != nil {
		p.observer.DocumentUpdated(ctx, doc)
	}
}

// statusForStage maps a stage name to the document status shown while it
// runs. Unknown stage names keep the document in the storing phase.
func statusForStage(name string) core.DocumentStatus {
	switch name {
	case "parsing", "chunking":
		return core.StatusParsing
	case "embedding", "ner":
		return core.StatusExtractingEntities
	case "extraction", "transformation":
		return core.StatusExtractingRelations
	case "validation":
		return core.StatusValidating
	default:
		return core.StatusStoring
	}
}
