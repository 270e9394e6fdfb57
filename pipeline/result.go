package pipeline

import "time"

// StageStatus is the lifecycle state of a single stage execution.
type StageStatus string

const (
	StagePending   StageStatus = "pending"
	StageRunning   StageStatus = "running"
	StageCompleted StageStatus = "completed"
	StageFailed    StageStatus = "failed"
	StageSkipped   StageStatus = "skipped"
)

// StageResult records the outcome of one stage execution. Exactly one of
// the terminal states applies: completed results carry OutputData and no
// Error, failed results carry Error and an "error_kind" metadata entry,
// skipped results carry a "reason" metadata entry.
type StageResult struct {
	StageName  string            `json:"stage_name"`
	Status     StageStatus       `json:"status"`
	Duration   time.Duration     `json:"duration"`
	OutputData map[string]any    `json:"output_data,omitempty"`
	Error      string            `json:"error,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Succeeded reports whether the stage ended in a non-failing state.
func (r *StageResult) Succeeded() bool {
	return r.Status == StageCompleted || r.Status == StageSkipped
}
