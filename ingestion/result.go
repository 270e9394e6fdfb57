package ingestion

import (
	"time"

	"github.com/poiesic/graphit/core"
	"github.com/poiesic/graphit/pipeline"
)

// StageSummary is the per-stage slice of a Result.
type StageSummary struct {
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Result summarizes one document run with enough detail to explain any
// failure without consulting logs.
type Result struct {
	Document *core.Document `json:"document"`
	Success  bool           `json:"success"`
	Duration time.Duration  `json:"duration"`

	TotalEntities   int            `json:"total_entities"`
	TotalRelations  int            `json:"total_relations"`
	EntitiesByType  map[string]int `json:"entities_by_type,omitempty"`
	RelationsByType map[string]int `json:"relations_by_type,omitempty"`

	EntitiesStored  int            `json:"entities_stored"`
	RelationsStored int            `json:"relations_stored"`
	StorageStats    map[string]any `json:"storage_stats,omitempty"`

	Stages []StageSummary `json:"stages"`
	Errors []string       `json:"errors,omitempty"`
}

// Summarize condenses a finished run into a Result. The document is
// snapshotted so later mutations don't reach the caller.
func Summarize(doc *core.Document, pc *pipeline.Context, duration time.Duration) *Result {
	snapshot := *doc

	entities := pc.FinalEntities()
	relations := pc.FinalRelations()

	result := &Result{
		Document:        &snapshot,
		Success:         pc.IsSuccessful(),
		Duration:        duration,
		TotalEntities:   len(entities),
		TotalRelations:  len(relations),
		EntitiesStored:  len(pc.StoredEntityIds),
		RelationsStored: len(pc.StoredRelationIds),
		StorageStats:    pc.StorageStats,
		Errors:          pc.Errors,
	}

	if len(entities) > 0 {
		result.EntitiesByType = make(map[string]int)
		for _, entity := range entities {
			result.EntitiesByType[string(entity.Type)]++
		}
	}
	if len(relations) > 0 {
		result.RelationsByType = make(map[string]int)
		for _, relation := range relations {
			result.RelationsByType[string(relation.Type)]++
		}
	}

	result.Stages = make([]StageSummary, len(pc.StageResults))
	for i, sr := range pc.StageResults {
		result.Stages[i] = StageSummary{
			Name:     sr.StageName,
			Status:   string(sr.Status),
			Duration: sr.Duration,
			Error:    sr.Error,
		}
	}
	return result
}
