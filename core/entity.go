package core

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// EntityType classifies a graph node. The set is closed: unrecognized
// labels fall back to EntityGeneric rather than extending the set.
type EntityType string

const (
	EntityPerson       EntityType = "Person"
	EntityMovie        EntityType = "Movie"
	EntityStudio       EntityType = "Studio"
	EntityOrganization EntityType = "Organization"
	EntityLocation     EntityType = "Location"
	EntityConcept      EntityType = "Concept"
	EntityGeneric      EntityType = "Generic"
)

var entityTypes = map[string]EntityType{
	"person":       EntityPerson,
	"movie":        EntityMovie,
	"studio":       EntityStudio,
	"organization": EntityOrganization,
	"location":     EntityLocation,
	"concept":      EntityConcept,
	"generic":      EntityGeneric,
}

// ParseEntityType maps a label to an EntityType, case-insensitively.
// Unknown labels map to EntityGeneric.
func ParseEntityType(s string) EntityType {
	if t, ok := entityTypes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return EntityGeneric
}

var entityTypeNames = []string{
	string(EntityPerson),
	string(EntityMovie),
	string(EntityStudio),
	string(EntityOrganization),
	string(EntityLocation),
	string(EntityConcept),
	string(EntityGeneric),
}

// EntityTypeNames returns the closed entity type set in declaration order.
func EntityTypeNames() []string {
	return slices.Clone(entityTypeNames)
}

// RelationType classifies a graph edge. The set is closed: unrecognized
// labels fall back to RelationRelatedTo.
type RelationType string

const (
	RelationActedIn    RelationType = "ACTED_IN"
	RelationDirected   RelationType = "DIRECTED"
	RelationProducedBy RelationType = "PRODUCED_BY"
	RelationWorksAt    RelationType = "WORKS_AT"
	RelationKnows      RelationType = "KNOWS"
	RelationRelatedTo  RelationType = "RELATED_TO"
	RelationLocatedIn  RelationType = "LOCATED_IN"
	RelationPartOf     RelationType = "PART_OF"
)

var relationTypes = map[string]RelationType{
	"acted_in":    RelationActedIn,
	"directed":    RelationDirected,
	"produced_by": RelationProducedBy,
	"works_at":    RelationWorksAt,
	"knows":       RelationKnows,
	"related_to":  RelationRelatedTo,
	"located_in":  RelationLocatedIn,
	"part_of":     RelationPartOf,
}

// ParseRelationType maps a label to a RelationType, case-insensitively,
// treating spaces as underscores. Unknown labels map to RelationRelatedTo.
func ParseRelationType(s string) RelationType {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, " ", "_")
	if t, ok := relationTypes[key]; ok {
		return t
	}
	return RelationRelatedTo
}

var relationTypeNames = []string{
	string(RelationActedIn),
	string(RelationDirected),
	string(RelationProducedBy),
	string(RelationWorksAt),
	string(RelationKnows),
	string(RelationRelatedTo),
	string(RelationLocatedIn),
	string(RelationPartOf),
}

// RelationTypeNames returns the closed relation type set in declaration order.
func RelationTypeNames() []string {
	return slices.Clone(relationTypeNames)
}

// Entity is a typed graph node. Its identity is (Type, lowercase(Name)):
// two entities with the same type and case-insensitively equal names are
// the same entity everywhere in the system.
//
// Properties values are stringified at the extraction boundary so storage
// and merging never see untyped data. Confidence is in [0,1].
type Entity struct {
	Id         ID
	Type       EntityType
	Name       string
	Properties map[string]string
	Source     string
	Confidence float64
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Key returns the identity key used for deduplication.
func (e *Entity) Key() string {
	return string(e.Type) + "\x00" + strings.ToLower(e.Name)
}

// Tuple returns a (type,name) tuple string for content-based ID generation.
func (e *Entity) Tuple() string {
	return fmt.Sprintf("(%s,%s)", e.Type, strings.ToLower(e.Name))
}

// EntityID returns the content-based ID for an entity identity, without
// needing a constructed Entity. Storage keys entities by this ID so an
// upsert with the same (type, name) never duplicates a node.
func EntityID(t EntityType, name string) ID {
	return IDFromContent(fmt.Sprintf("(%s,%s)", t, strings.ToLower(name)))
}

// Relation is a typed directed edge between two entities, referenced by
// name. Its identity is (Type, lowercase(FromEntity), lowercase(ToEntity)).
// FromType and ToType are optional hints; empty means unknown.
type Relation struct {
	Id         ID
	Type       RelationType
	FromEntity string
	ToEntity   string
	FromType   EntityType
	ToType     EntityType
	Properties map[string]string
	Source     string
	Confidence float64
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Key returns the identity key used for deduplication.
func (r *Relation) Key() string {
	return string(r.Type) + "\x00" + strings.ToLower(r.FromEntity) + "\x00" + strings.ToLower(r.ToEntity)
}

// Tuple returns a (type,from,to) tuple string for content-based ID generation.
func (r *Relation) Tuple() string {
	return fmt.Sprintf("(%s,%s,%s)", r.Type, strings.ToLower(r.FromEntity), strings.ToLower(r.ToEntity))
}

// RelationID returns the content-based ID for a relation identity.
func RelationID(t RelationType, from, to string) ID {
	return IDFromContent(fmt.Sprintf("(%s,%s,%s)", t, strings.ToLower(from), strings.ToLower(to)))
}
