package pipeline

import (
	"context"
	"errors"

	"github.com/poiesic/graphit/decode"
)

var (
	// ErrNoStages indicates a pipeline was built with an empty stage list.
	ErrNoStages = errors.New("pipeline has no stages")

	// ErrStageSkipped signals that a stage chose not to run. It is matched
	// with errors.Is against errors created by SkipStage.
	ErrStageSkipped = errors.New("stage skipped")

	// ErrValidationFailed indicates the validation stage found issues while
	// running in strict mode.
	ErrValidationFailed = errors.New("validation failed")

	// ErrTimeout indicates the pipeline deadline expired between stages.
	ErrTimeout = errors.New("pipeline timeout")
)

// skipError carries the reason a stage skipped itself.
type skipError struct {
	reason string
}

func (e *skipError) Error() string { return e.reason }

func (e *skipError) Is(target error) bool { return target == ErrStageSkipped }

// SkipStage returns an error a stage can return from Execute to record a
// skipped result instead of a failure. The reason appears in the result
// metadata.
func SkipStage(reason string) error {
	return &skipError{reason: reason}
}

func skipReason(err error) string {
	var se *skipError
	if errors.As(err, &se) {
		return se.reason
	}
	return err.Error()
}

// errorKind classifies a stage error for StageResult metadata. The kinds
// are coarse on purpose: they answer "whose fault was it" for operators
// reading a failed result.
func errorKind(err error) string {
	switch {
	case errors.Is(err, decode.ErrMalformed), errors.Is(err, decode.ErrUnsupportedFormat):
		return "decode"
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrValidationFailed):
		return "validation"
	default:
		return "collaborator"
	}
}
