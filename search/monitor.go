package search

import "github.com/poiesic/graphit/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterQueryEmbedding(embedding []float32)
	AfterSemanticSearch(ids []core.ID)
	AfterNameLookup(entities []*core.Entity)
	SemanticAndNameHit(entity *core.Entity)
	SemanticHit(entity *core.Entity)
	NameHit(entity *core.Entity)
	Finish(results []*core.EntityMatch)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                      {}
func (n *noopMonitor) AfterQueryEmbedding(_ []float32)     {}
func (n *noopMonitor) AfterSemanticSearch(_ []core.ID)     {}
func (n *noopMonitor) AfterNameLookup(_ []*core.Entity)    {}
func (n *noopMonitor) SemanticAndNameHit(_ *core.Entity)   {}
func (n *noopMonitor) SemanticHit(_ *core.Entity)          {}
func (n *noopMonitor) NameHit(_ *core.Entity)              {}
func (n *noopMonitor) Finish(_ []*core.EntityMatch)        {}
