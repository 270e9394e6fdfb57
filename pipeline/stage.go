package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Stage is one step of a pipeline. Execute reads earlier stages' output
// from the Context and returns its own output data for the StageResult.
// A stage signals a skip by returning SkipStage(reason).
type Stage interface {
	// Name identifies the stage in results and logs.
	Name() string

	// Enabled reports whether the stage should run. Disabled stages are
	// recorded as skipped without calling Execute.
	Enabled() bool

	// Execute performs the stage's work against the run context.
	Execute(ctx context.Context, pc *Context) (map[string]any, error)
}

// runStage executes one stage and converts every possible outcome,
// including panics, into a StageResult. No error escapes.
func runStage(ctx context.Context, stage Stage, pc *Context) (result *StageResult) {
	result = &StageResult{
		StageName: stage.Name(),
		Timestamp: time.Now().UTC(),
	}

	if !stage.Enabled() {
		result.Status = StageSkipped
		result.Metadata = map[string]string{"reason": "disabled"}
		return result
	}

	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
		if r := recover(); r != nil {
			result.Status = StageFailed
			result.Error = fmt.Sprintf("panic: %v", r)
			result.Metadata = map[string]string{"error_kind": "panic"}
		}
	}()

	output, err := stage.Execute(ctx, pc)
	switch {
	case err == nil:
		result.Status = StageCompleted
		result.OutputData = output
	case errors.Is(err, ErrStageSkipped):
		result.Status = StageSkipped
		result.Metadata = map[string]string{"reason": skipReason(err)}
	default:
		result.Status = StageFailed
		result.Error = err.Error()
		result.Metadata = map[string]string{"error_kind": errorKind(err)}
	}
	return result
}
