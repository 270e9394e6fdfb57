package core

import (
	"testing"
)

func TestDedupEntitiesMergesCaseVariants(t *testing.T) {
	entities := []*Entity{
		{Type: EntityPerson, Name: "tom hanks", Properties: map[string]string{"born": "1956"}, Confidence: 0.8},
		{Type: EntityMovie, Name: "Forrest Gump", Confidence: 0.9},
		{Type: EntityPerson, Name: "Tom Hanks", Properties: map[string]string{"oscars": "2"}, Confidence: 0.6},
	}

	out := DedupEntities(entities)

	if len(out) != 2 {
		t.Fatalf("got %d entities, want 2", len(out))
	}
	merged := out[0]
	if merged.Name != "tom hanks" {
		t.Errorf("first occurrence not kept: name = %q", merged.Name)
	}
	if merged.Properties["born"] != "1956" || merged.Properties["oscars"] != "2" {
		t.Errorf("properties not unioned: %v", merged.Properties)
	}
	if merged.Confidence != 0.7 {
		t.Errorf("confidence = %v, want 0.7", merged.Confidence)
	}
	if out[1].Name != "Forrest Gump" {
		t.Errorf("order not preserved: %q", out[1].Name)
	}
}

func TestDedupEntitiesNewPropertyWins(t *testing.T) {
	entities := []*Entity{
		{Type: EntityStudio, Name: "Paramount", Properties: map[string]string{"founded": "1912", "hq": "LA"}},
		{Type: EntityStudio, Name: "paramount", Properties: map[string]string{"founded": "1916"}},
	}

	out := DedupEntities(entities)

	if len(out) != 1 {
		t.Fatalf("got %d entities, want 1", len(out))
	}
	if got := out[0].Properties["founded"]; got != "1916" {
		t.Errorf(`founded = %q, want the newer "1916"`, got)
	}
	if got := out[0].Properties["hq"]; got != "LA" {
		t.Errorf("unrelated property lost: hq = %q", got)
	}
}

// Confidence merging is pairwise in encounter order, not a true mean:
// merging 0.9, 0.1, 0.1 yields avg(avg(0.9,0.1),0.1) = 0.3, where the true
// mean would be 0.366...
func TestDedupEntitiesPairwiseConfidence(t *testing.T) {
	entities := []*Entity{
		{Type: EntityPerson, Name: "Ada", Confidence: 0.9},
		{Type: EntityPerson, Name: "ada", Confidence: 0.1},
		{Type: EntityPerson, Name: "ADA", Confidence: 0.1},
	}

	out := DedupEntities(entities)

	if len(out) != 1 {
		t.Fatalf("got %d entities, want 1", len(out))
	}
	if out[0].Confidence != 0.3 {
		t.Errorf("confidence = %v, want pairwise 0.3", out[0].Confidence)
	}
	trueMean := (0.9 + 0.1 + 0.1) / 3
	if out[0].Confidence == trueMean {
		t.Errorf("confidence equals the true mean %v; pairwise averaging expected", trueMean)
	}
}

func TestDedupEntitiesPairwiseSequence(t *testing.T) {
	entities := []*Entity{
		{Type: EntityConcept, Name: "ai", Confidence: 0.9},
		{Type: EntityConcept, Name: "AI", Confidence: 0.7},
		{Type: EntityConcept, Name: "Ai", Confidence: 0.5},
	}

	out := DedupEntities(entities)

	// avg(avg(0.9,0.7),0.5) = avg(0.8,0.5) = 0.65
	if len(out) != 1 || out[0].Confidence != 0.65 {
		t.Fatalf("confidence = %v, want 0.65", out[0].Confidence)
	}
}

func TestDedupEntitiesIdempotent(t *testing.T) {
	entities := []*Entity{
		{Type: EntityPerson, Name: "Tom Hanks", Properties: map[string]string{"born": "1956"}, Confidence: 0.8},
		{Type: EntityPerson, Name: "tom hanks", Properties: map[string]string{"oscars": "2"}, Confidence: 0.6},
		{Type: EntityMovie, Name: "Big", Confidence: 0.9},
	}

	once := DedupEntities(entities)
	confidences := make([]float64, len(once))
	for i, e := range once {
		confidences[i] = e.Confidence
	}

	twice := DedupEntities(once)

	if len(twice) != len(once) {
		t.Fatalf("second pass changed length: %d -> %d", len(once), len(twice))
	}
	for i, e := range twice {
		if e != once[i] {
			t.Errorf("second pass reordered or replaced element %d", i)
		}
		if e.Confidence != confidences[i] {
			t.Errorf("second pass changed confidence %d: %v -> %v", i, confidences[i], e.Confidence)
		}
	}
}

func TestDedupEntitiesEmptyAndNil(t *testing.T) {
	if out := DedupEntities(nil); len(out) != 0 {
		t.Errorf("nil input produced %d entities", len(out))
	}
	out := DedupEntities([]*Entity{nil, {Type: EntityPerson, Name: "Ada"}, nil})
	if len(out) != 1 {
		t.Errorf("nil elements not skipped: got %d", len(out))
	}
}

func TestDedupRelations(t *testing.T) {
	relations := []*Relation{
		{Type: RelationActedIn, FromEntity: "Tom Hanks", ToEntity: "Big", Properties: map[string]string{"year": "1988"}, Confidence: 0.75},
		{Type: RelationActedIn, FromEntity: "tom hanks", ToEntity: "big", Properties: map[string]string{"role": "Josh"}, Confidence: 0.25},
		{Type: RelationDirected, FromEntity: "Penny Marshall", ToEntity: "Big", Confidence: 0.9},
	}

	out := DedupRelations(relations)

	if len(out) != 2 {
		t.Fatalf("got %d relations, want 2", len(out))
	}
	merged := out[0]
	if merged.FromEntity != "Tom Hanks" {
		t.Errorf("first occurrence not kept: %q", merged.FromEntity)
	}
	if merged.Properties["year"] != "1988" || merged.Properties["role"] != "Josh" {
		t.Errorf("properties not unioned: %v", merged.Properties)
	}
	if merged.Confidence != 0.5 {
		t.Errorf("confidence = %v, want 0.5", merged.Confidence)
	}
	if out[1].Type != RelationDirected {
		t.Errorf("order not preserved: %v", out[1].Type)
	}
}

func TestDedupRelationsDistinctEndpointsKept(t *testing.T) {
	relations := []*Relation{
		{Type: RelationKnows, FromEntity: "Alice", ToEntity: "Bob", Confidence: 0.9},
		{Type: RelationKnows, FromEntity: "Bob", ToEntity: "Alice", Confidence: 0.9},
	}

	out := DedupRelations(relations)

	if len(out) != 2 {
		t.Errorf("directionally distinct relations merged: got %d", len(out))
	}
}
