// Package sqlite implements the storage repositories on a single SQLite
// database file via the pure-Go modernc.org/sqlite driver. It is the
// alternative to the BadgerDB backend for deployments that prefer one
// inspectable file over a key-value directory.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/poiesic/graphit/core"
	"github.com/poiesic/graphit/storage"
)

// Backend wraps a SQLite database shared by the repositories.
type Backend struct {
	db *sql.DB
}

// Open opens (and if necessary bootstraps) a SQLite database at path.
// Pass ":memory:" for an in-memory database in tests.
func Open(ctx context.Context, path string) (*Backend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// The driver serializes writes; a single connection avoids
	// SQLITE_BUSY between the repositories sharing this backend.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Backend{db: db}, nil
}

// Close closes the database connection.
func (b *Backend) Close() error {
	return b.db.Close()
}

// initSchema creates tables if they don't exist.
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	format TEXT NOT NULL,
	size_bytes INTEGER NOT NULL,
	status TEXT NOT NULL,
	progress REAL NOT NULL,
	entities_extracted INTEGER NOT NULL DEFAULT 0,
	relations_extracted INTEGER NOT NULL DEFAULT 0,
	error TEXT NOT NULL DEFAULT '',
	uploaded_at INTEGER NOT NULL,
	processed_at INTEGER NOT NULL DEFAULT 0,
	metadata TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS entities (
	id INTEGER PRIMARY KEY,
	type TEXT NOT NULL,
	name TEXT NOT NULL,
	lower_name TEXT NOT NULL,
	properties TEXT NOT NULL DEFAULT '{}',
	source TEXT NOT NULL DEFAULT '',
	confidence REAL NOT NULL,
	inserted_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	UNIQUE(type, lower_name)
);
CREATE INDEX IF NOT EXISTS idx_entities_lower_name ON entities(lower_name);

CREATE TABLE IF NOT EXISTS relations (
	id INTEGER PRIMARY KEY,
	type TEXT NOT NULL,
	from_entity TEXT NOT NULL,
	to_entity TEXT NOT NULL,
	lower_from TEXT NOT NULL,
	lower_to TEXT NOT NULL,
	from_type TEXT NOT NULL DEFAULT '',
	to_type TEXT NOT NULL DEFAULT '',
	properties TEXT NOT NULL DEFAULT '{}',
	source TEXT NOT NULL DEFAULT '',
	confidence REAL NOT NULL,
	inserted_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	UNIQUE(type, lower_from, lower_to)
);
CREATE INDEX IF NOT EXISTS idx_relations_lower_from ON relations(lower_from);

CREATE TABLE IF NOT EXISTS vectors (
	entity_id INTEGER PRIMARY KEY,
	vector BLOB NOT NULL,
	indexed_at INTEGER NOT NULL
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// DocumentRepository implements storage.DocumentRepository on SQLite.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.DocumentRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (storage.DocumentRepository, error) {
	return &DocumentRepository{backend: backend}, nil
}

// Close releases resources. DocumentRepository has no resources to release.
func (r *DocumentRepository) Close() error {
	return nil
}

// PutDocument stores a document snapshot, overwriting any previous one.
func (r *DocumentRepository) PutDocument(ctx context.Context, doc *core.Document) error {
	metadata, err := json.Marshal(orEmpty(doc.Metadata))
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}
	_, err = r.backend.db.ExecContext(ctx, `
INSERT INTO documents
	(id, filename, format, size_bytes, status, progress,
	 entities_extracted, relations_extracted, error,
	 uploaded_at, processed_at, metadata)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	status = excluded.status,
	progress = excluded.progress,
	entities_extracted = excluded.entities_extracted,
	relations_extracted = excluded.relations_extracted,
	error = excluded.error,
	processed_at = excluded.processed_at,
	metadata = excluded.metadata`,
		doc.Id, doc.Filename, string(doc.Format), doc.SizeBytes,
		string(doc.Status), doc.Progress,
		doc.EntitiesExtracted, doc.RelationsExtracted, doc.Error,
		timeToMicro(doc.UploadedAt), timeToMicro(doc.ProcessedAt), string(metadata))
	return err
}

// GetDocument retrieves a document by ULID.
func (r *DocumentRepository) GetDocument(ctx context.Context, id string) (*core.Document, error) {
	row := r.backend.db.QueryRowContext(ctx, `
SELECT id, filename, format, size_bytes, status, progress,
       entities_extracted, relations_extracted, error,
       uploaded_at, processed_at, metadata
FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	return doc, err
}

// ListDocuments retrieves up to limit documents, newest first.
func (r *DocumentRepository) ListDocuments(ctx context.Context, limit int) ([]*core.Document, error) {
	query := `
SELECT id, filename, format, size_bytes, status, progress,
       entities_extracted, relations_extracted, error,
       uploaded_at, processed_at, metadata
FROM documents ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.backend.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*core.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, doc)
	}
	return results, rows.Err()
}

// DeleteDocument removes a document by ULID.
func (r *DocumentRepository) DeleteDocument(ctx context.Context, id string) error {
	result, err := r.backend.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*core.Document, error) {
	var doc core.Document
	var format, status, metadata string
	var uploadedAt, processedAt int64
	err := row.Scan(&doc.Id, &doc.Filename, &format, &doc.SizeBytes,
		&status, &doc.Progress, &doc.EntitiesExtracted, &doc.RelationsExtracted,
		&doc.Error, &uploadedAt, &processedAt, &metadata)
	if err != nil {
		return nil, err
	}
	doc.Format = core.SourceFormat(format)
	doc.Status = core.DocumentStatus(status)
	doc.UploadedAt = microToTime(uploadedAt)
	doc.ProcessedAt = microToTime(processedAt)
	if err := json.Unmarshal([]byte(metadata), &doc.Metadata); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}
	if len(doc.Metadata) == 0 {
		doc.Metadata = nil
	}
	return &doc, nil
}

// GraphRepository implements storage.GraphRepository on SQLite.
type GraphRepository struct {
	backend *Backend
}

var _ storage.GraphRepository = (*GraphRepository)(nil)

// NewGraphRepository creates a new GraphRepository.
func NewGraphRepository(backend *Backend) (storage.GraphRepository, error) {
	return &GraphRepository{backend: backend}, nil
}

// Close releases resources. GraphRepository has no resources to release.
func (r *GraphRepository) Close() error {
	return nil
}

// UpsertEntities stores entities keyed by identity, merging properties
// into existing rows rather than duplicating nodes.
func (r *GraphRepository) UpsertEntities(ctx context.Context, entities ...*core.Entity) ([]core.ID, error) {
	ids := make([]core.ID, 0, len(entities))
	now := time.Now().UTC()
	for _, entity := range entities {
		entity.Id = core.EntityID(entity.Type, entity.Name)

		old, err := r.getEntity(ctx, entity.Id)
		if err != nil && err != storage.ErrNotFound {
			return nil, err
		}
		if old != nil {
			entity.Properties = overlayProperties(old.Properties, entity.Properties)
			entity.InsertedAt = old.InsertedAt
		} else {
			entity.InsertedAt = now
		}
		entity.UpdatedAt = now

		properties, err := json.Marshal(orEmpty(entity.Properties))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
		}
		_, err = r.backend.db.ExecContext(ctx, `
INSERT INTO entities
	(id, type, name, lower_name, properties, source, confidence, inserted_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name = excluded.name,
	properties = excluded.properties,
	source = excluded.source,
	confidence = excluded.confidence,
	updated_at = excluded.updated_at`,
			int64(entity.Id), string(entity.Type), entity.Name,
			strings.ToLower(entity.Name), string(properties),
			entity.Source, entity.Confidence,
			timeToMicro(entity.InsertedAt), timeToMicro(entity.UpdatedAt))
		if err != nil {
			return nil, err
		}
		ids = append(ids, entity.Id)
	}
	return ids, nil
}

// UpsertRelations stores relations keyed by identity with the same merge
// semantics as UpsertEntities.
func (r *GraphRepository) UpsertRelations(ctx context.Context, relations ...*core.Relation) ([]core.ID, error) {
	ids := make([]core.ID, 0, len(relations))
	now := time.Now().UTC()
	for _, relation := range relations {
		relation.Id = core.RelationID(relation.Type, relation.FromEntity, relation.ToEntity)

		old, err := r.getRelation(ctx, relation.Id)
		if err != nil && err != storage.ErrNotFound {
			return nil, err
		}
		if old != nil {
			relation.Properties = overlayProperties(old.Properties, relation.Properties)
			relation.InsertedAt = old.InsertedAt
		} else {
			relation.InsertedAt = now
		}
		relation.UpdatedAt = now

		properties, err := json.Marshal(orEmpty(relation.Properties))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
		}
		_, err = r.backend.db.ExecContext(ctx, `
INSERT INTO relations
	(id, type, from_entity, to_entity, lower_from, lower_to,
	 from_type, to_type, properties, source, confidence, inserted_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	properties = excluded.properties,
	source = excluded.source,
	confidence = excluded.confidence,
	updated_at = excluded.updated_at`,
			int64(relation.Id), string(relation.Type),
			relation.FromEntity, relation.ToEntity,
			strings.ToLower(relation.FromEntity), strings.ToLower(relation.ToEntity),
			string(relation.FromType), string(relation.ToType),
			string(properties), relation.Source, relation.Confidence,
			timeToMicro(relation.InsertedAt), timeToMicro(relation.UpdatedAt))
		if err != nil {
			return nil, err
		}
		ids = append(ids, relation.Id)
	}
	return ids, nil
}

// GetEntity retrieves a single entity by ID.
func (r *GraphRepository) GetEntity(ctx context.Context, id core.ID) (*core.Entity, error) {
	entity, err := r.getEntity(ctx, id)
	if err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *GraphRepository) getEntity(ctx context.Context, id core.ID) (*core.Entity, error) {
	row := r.backend.db.QueryRowContext(ctx, entitySelect+" WHERE id = ?", int64(id))
	entity, err := scanEntity(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	return entity, err
}

// GetEntities retrieves multiple entities by their IDs.
// Missing IDs are skipped without error.
func (r *GraphRepository) GetEntities(ctx context.Context, ids ...core.ID) ([]*core.Entity, error) {
	var results []*core.Entity
	for _, id := range ids {
		entity, err := r.getEntity(ctx, id)
		if err == storage.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, nil
}

// FindEntitiesByName retrieves entities matching name case-insensitively.
func (r *GraphRepository) FindEntitiesByName(ctx context.Context, name string) ([]*core.Entity, error) {
	rows, err := r.backend.db.QueryContext(ctx,
		entitySelect+" WHERE lower_name = ? ORDER BY type", strings.ToLower(name))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntities(rows)
}

// GetAllEntities retrieves every stored entity.
func (r *GraphRepository) GetAllEntities(ctx context.Context) ([]*core.Entity, error) {
	rows, err := r.backend.db.QueryContext(ctx, entitySelect+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntities(rows)
}

// GetEntityRelations retrieves the relations leaving the named entity.
func (r *GraphRepository) GetEntityRelations(ctx context.Context, name string) ([]*core.Relation, error) {
	rows, err := r.backend.db.QueryContext(ctx,
		relationSelect+" WHERE lower_from = ? ORDER BY id", strings.ToLower(name))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*core.Relation
	for rows.Next() {
		relation, err := scanRelation(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, relation)
	}
	return results, rows.Err()
}

func (r *GraphRepository) getRelation(ctx context.Context, id core.ID) (*core.Relation, error) {
	row := r.backend.db.QueryRowContext(ctx, relationSelect+" WHERE id = ?", int64(id))
	relation, err := scanRelation(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	return relation, err
}

// Stats reports node/relationship totals and per-label breakdowns.
func (r *GraphRepository) Stats(ctx context.Context) (*core.GraphStats, error) {
	stats := &core.GraphStats{
		NodesByLabel:        make(map[string]int),
		RelationshipsByType: make(map[string]int),
	}

	rows, err := r.backend.db.QueryContext(ctx,
		"SELECT type, COUNT(*) FROM entities GROUP BY type")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.NodesByLabel[label] = count
		stats.TotalNodes += count
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.backend.db.QueryContext(ctx,
		"SELECT type, COUNT(*) FROM relations GROUP BY type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, err
		}
		stats.RelationshipsByType[label] = count
		stats.TotalRelationships += count
	}
	return stats, rows.Err()
}

// Visualize extracts up to limit relations with their endpoint entities.
func (r *GraphRepository) Visualize(ctx context.Context, limit int) (*core.GraphData, error) {
	data := &core.GraphData{
		Nodes: []core.GraphNode{},
		Edges: []core.GraphEdge{},
	}

	query := relationSelect + " ORDER BY id"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.backend.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var relations []*core.Relation
	for rows.Next() {
		relation, err := scanRelation(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		relations = append(relations, relation)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, relation := range relations {
		fromNode, err := r.resolveEndpoint(ctx, relation.FromEntity, relation.FromType)
		if err != nil {
			return nil, err
		}
		toNode, err := r.resolveEndpoint(ctx, relation.ToEntity, relation.ToType)
		if err != nil {
			return nil, err
		}
		for _, node := range []core.GraphNode{fromNode, toNode} {
			if !seen[node.Id] {
				seen[node.Id] = true
				data.Nodes = append(data.Nodes, node)
			}
		}
		data.Edges = append(data.Edges, core.GraphEdge{
			From:       fromNode.Id,
			To:         toNode.Id,
			Type:       string(relation.Type),
			Properties: relation.Properties,
		})
	}

	if len(data.Edges) > 0 {
		return data, nil
	}

	// No relations: fall back to bare nodes.
	query = entitySelect + " ORDER BY id"
	if limit > 0 {
		query += " LIMIT ?"
	}
	rows, err = r.backend.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		data.Nodes = append(data.Nodes, entityNode(entity))
	}
	return data, rows.Err()
}

func (r *GraphRepository) resolveEndpoint(ctx context.Context, name string, hint core.EntityType) (core.GraphNode, error) {
	if hint != "" {
		entity, err := r.getEntity(ctx, core.EntityID(hint, name))
		if err == nil {
			return entityNode(entity), nil
		}
		if err != storage.ErrNotFound {
			return core.GraphNode{}, err
		}
	}

	matches, err := r.FindEntitiesByName(ctx, name)
	if err != nil {
		return core.GraphNode{}, err
	}
	if len(matches) > 0 {
		return entityNode(matches[0]), nil
	}

	label := hint
	if label == "" {
		label = core.EntityGeneric
	}
	return core.GraphNode{
		Id:    fmt.Sprintf("%d", uint64(core.EntityID(label, name))),
		Name:  name,
		Label: string(label),
	}, nil
}

// Clear removes all entities and relations.
func (r *GraphRepository) Clear(ctx context.Context) error {
	if _, err := r.backend.db.ExecContext(ctx, "DELETE FROM entities"); err != nil {
		return err
	}
	_, err := r.backend.db.ExecContext(ctx, "DELETE FROM relations")
	return err
}

const entitySelect = `
SELECT id, type, name, properties, source, confidence, inserted_at, updated_at
FROM entities`

const relationSelect = `
SELECT id, type, from_entity, to_entity, from_type, to_type,
       properties, source, confidence, inserted_at, updated_at
FROM relations`

func scanEntity(row rowScanner) (*core.Entity, error) {
	var entity core.Entity
	var id, insertedAt, updatedAt int64
	var entityType, properties string
	err := row.Scan(&id, &entityType, &entity.Name, &properties,
		&entity.Source, &entity.Confidence, &insertedAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	entity.Id = core.ID(id)
	entity.Type = core.EntityType(entityType)
	entity.InsertedAt = microToTime(insertedAt)
	entity.UpdatedAt = microToTime(updatedAt)
	if err := json.Unmarshal([]byte(properties), &entity.Properties); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}
	if len(entity.Properties) == 0 {
		entity.Properties = nil
	}
	return &entity, nil
}

func scanRelation(row rowScanner) (*core.Relation, error) {
	var relation core.Relation
	var id, insertedAt, updatedAt int64
	var relationType, fromType, toType, properties string
	err := row.Scan(&id, &relationType, &relation.FromEntity, &relation.ToEntity,
		&fromType, &toType, &properties, &relation.Source, &relation.Confidence,
		&insertedAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	relation.Id = core.ID(id)
	relation.Type = core.RelationType(relationType)
	relation.FromType = core.EntityType(fromType)
	relation.ToType = core.EntityType(toType)
	relation.InsertedAt = microToTime(insertedAt)
	relation.UpdatedAt = microToTime(updatedAt)
	if err := json.Unmarshal([]byte(properties), &relation.Properties); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
	}
	if len(relation.Properties) == 0 {
		relation.Properties = nil
	}
	return &relation, nil
}

func collectEntities(rows *sql.Rows) ([]*core.Entity, error) {
	var results []*core.Entity
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func entityNode(entity *core.Entity) core.GraphNode {
	return core.GraphNode{
		Id:         fmt.Sprintf("%d", uint64(entity.Id)),
		Name:       entity.Name,
		Label:      string(entity.Type),
		Properties: entity.Properties,
	}
}

// VectorIndex implements storage.VectorIndex on SQLite. Vectors are
// stored as little-endian float32 blobs.
type VectorIndex struct {
	backend *Backend
}

var _ storage.VectorIndex = (*VectorIndex)(nil)

// NewVectorIndex creates a new VectorIndex.
func NewVectorIndex(backend *Backend) (storage.VectorIndex, error) {
	return &VectorIndex{backend: backend}, nil
}

// Close releases resources. VectorIndex has no resources to release.
func (v *VectorIndex) Close() error {
	return nil
}

// PutVectors stores embedding records keyed by entity ID.
func (v *VectorIndex) PutVectors(ctx context.Context, records ...*core.EmbeddingRecord) error {
	now := time.Now().UTC()
	for _, record := range records {
		if record.IndexedAt.IsZero() {
			record.IndexedAt = now
		}
		_, err := v.backend.db.ExecContext(ctx, `
INSERT INTO vectors (entity_id, vector, indexed_at)
VALUES (?, ?, ?)
ON CONFLICT(entity_id) DO UPDATE SET
	vector = excluded.vector,
	indexed_at = excluded.indexed_at`,
			int64(record.EntityId), encodeVector(record.Vector), timeToMicro(record.IndexedAt))
		if err != nil {
			return err
		}
	}
	return nil
}

// FindSimilar scans all stored vectors and ranks them by dot product.
func (v *VectorIndex) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.VectorMatch, error) {
	rows, err := v.backend.db.QueryContext(ctx, "SELECT entity_id, vector FROM vectors")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*core.VectorMatch
	for rows.Next() {
		var id int64
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, err
		}
		candidate := decodeVector(blob)
		if len(candidate) == 0 {
			continue
		}
		similarity := dotProduct(vector, candidate)
		if similarity >= minSimilarity {
			results = append(results, &core.VectorMatch{
				EntityId: core.ID(id),
				Score:    similarity,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.VectorMatch) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// CountVectors reports the number of stored vectors.
func (v *VectorIndex) CountVectors(ctx context.Context) (int, error) {
	var count int
	err := v.backend.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM vectors").Scan(&count)
	return count, err
}

// Clear removes all stored vectors.
func (v *VectorIndex) Clear(ctx context.Context) error {
	_, err := v.backend.db.ExecContext(ctx, "DELETE FROM vectors")
	return err
}

func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, val := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(val))
	}
	return buf
}

func decodeVector(blob []byte) []float32 {
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vector
}

func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

func overlayProperties(existing, incoming map[string]string) map[string]string {
	if len(existing) == 0 {
		return incoming
	}
	merged := make(map[string]string, len(existing)+len(incoming))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range incoming {
		merged[k] = v
	}
	return merged
}

func orEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func timeToMicro(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMicro()
}

func microToTime(micro int64) time.Time {
	if micro == 0 {
		return time.Time{}
	}
	return time.UnixMicro(micro).UTC()
}
