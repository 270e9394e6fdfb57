package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/oklog/ulid/v2"
)

// ID is a unique identifier for graph records.
// It is generated from the record's identity tuple using content-based
// hashing, so the same logical entity always maps to the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// NewDocumentID returns a fresh lexicographically sortable document ID.
// ULIDs encode their creation time, so iterating document keys in reverse
// yields newest-first ordering without a separate index.
func NewDocumentID() string {
	return ulid.Make().String()
}

// Record is one decoded unit of source data before extraction: a CSV row,
// a JSON object, or {"content": text} for free-form text. Values keep the
// decoder's dynamic types; extraction normalizes them into typed entities
// and relations.
type Record map[string]any

// EmbeddingRecord associates an entity with its index vector.
type EmbeddingRecord struct {
	EntityId  ID
	Vector    []float32
	IndexedAt time.Time
}

// VectorMatch is a similarity hit from the vector index.
type VectorMatch struct {
	EntityId ID
	Score    float32
}

// EntityMatch is a scored entity returned by search.
type EntityMatch struct {
	Entity *Entity
	Score  float32
}

// GraphStats summarizes the stored graph.
type GraphStats struct {
	TotalNodes          int            `json:"total_nodes"`
	TotalRelationships  int            `json:"total_relationships"`
	NodesByLabel        map[string]int `json:"nodes_by_label"`
	RelationshipsByType map[string]int `json:"relationships_by_type"`
}

// GraphNode is one node in a visualization extract.
type GraphNode struct {
	Id         string            `json:"id"`
	Name       string            `json:"name"`
	Label      string            `json:"label"`
	Properties map[string]string `json:"properties,omitempty"`
}

// GraphEdge is one edge in a visualization extract. From and To reference
// GraphNode.Id values.
type GraphEdge struct {
	From       string            `json:"from"`
	To         string            `json:"to"`
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties,omitempty"`
}

// GraphData is a bounded extract of the graph for visualization.
type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}
