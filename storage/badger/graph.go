package badger

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/graphit/core"
	"github.com/poiesic/graphit/storage"
)

// GraphRepository implements storage.GraphRepository for BadgerDB.
//
// Entities are keyed by the content ID of their (type, lowercase name)
// identity and relations by (type, from, to), so upserts are naturally
// idempotent: the same logical node or edge always lands on the same key.
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

// UpsertEntities stores entities by identity key, merging into any
// existing node rather than duplicating it.
func (r *GraphRepository) UpsertEntities(ctx context.Context, entities ...*core.Entity) ([]core.ID, error) {
	ids := make([]core.ID, 0, len(entities))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, entity := range entities {
			entity.Id = core.EntityID(entity.Type, entity.Name)

			old, err := readEntity(tx, makeEntityKey(entity.Id))
			if err != nil {
				return err
			}
			if old != nil {
				entity.Properties = overlayProperties(old.Properties, entity.Properties)
				entity.InsertedAt = old.InsertedAt
			} else {
				entity.InsertedAt = now
			}
			entity.UpdatedAt = now

			if err := tx.Set(makeEntityKey(entity.Id), storage.MarshalEntity(entity)); err != nil {
				return err
			}
			idValue := storage.MarshalID(entity.Id)
			if err := tx.Set(makeEntityTupleKey(entity.Type, entity.Name), idValue); err != nil {
				return err
			}
			if err := tx.Set(makeEntityNameKey(entity.Name, entity.Id), idValue); err != nil {
				return err
			}

			ids = append(ids, entity.Id)
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// UpsertRelations stores relations by identity key, merging into any
// existing edge rather than duplicating it.
func (r *GraphRepository) UpsertRelations(ctx context.Context, relations ...*core.Relation) ([]core.ID, error) {
	ids := make([]core.ID, 0, len(relations))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, relation := range relations {
			relation.Id = core.RelationID(relation.Type, relation.FromEntity, relation.ToEntity)

			old, err := readRelation(tx, makeRelationKey(relation.Id))
			if err != nil {
				return err
			}
			if old != nil {
				relation.Properties = overlayProperties(old.Properties, relation.Properties)
				relation.InsertedAt = old.InsertedAt
			} else {
				relation.InsertedAt = now
			}
			relation.UpdatedAt = now

			if err := tx.Set(makeRelationKey(relation.Id), storage.MarshalRelation(relation)); err != nil {
				return err
			}

			// Adjacency index keyed by the from-endpoint's name hash so
			// outgoing edges are reachable without knowing the type.
			fromID := core.IDFromContent(strings.ToLower(relation.FromEntity))
			adjKey := makeRelationAdjKey(fromID, relation.Id)
			if err := tx.Set(adjKey, storage.MarshalID(relation.Id)); err != nil {
				return err
			}

			ids = append(ids, relation.Id)
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// GetEntity retrieves a single entity by ID.
func (r *GraphRepository) GetEntity(ctx context.Context, id core.ID) (*core.Entity, error) {
	var result *core.Entity
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readEntity(tx, makeEntityKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetEntities retrieves multiple entities by their IDs.
// Missing IDs are skipped without error.
func (r *GraphRepository) GetEntities(ctx context.Context, ids ...core.ID) ([]*core.Entity, error) {
	var results []*core.Entity
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			entity, err := readEntity(tx, makeEntityKey(id))
			if err != nil {
				return err
			}
			if entity != nil {
				results = append(results, entity)
			}
		}
		return nil
	}, false)
	return results, err
}

// FindEntitiesByName retrieves entities matching name case-insensitively,
// across all entity types, via the name index.
func (r *GraphRepository) FindEntitiesByName(ctx context.Context, name string) ([]*core.Entity, error) {
	var results []*core.Entity
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialEntityNameKey(name)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			entity, err := readEntity(tx, makeEntityKey(id))
			if err != nil {
				return err
			}
			if entity != nil {
				results = append(results, entity)
			}
		}
		return nil
	}, false)
	return results, err
}

// GetAllEntities retrieves every stored entity.
func (r *GraphRepository) GetAllEntities(ctx context.Context) ([]*core.Entity, error) {
	var results []*core.Entity
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entityPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entity *core.Entity
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				entity, err = storage.UnmarshalEntity(val)
				return err
			}); err != nil {
				return err
			}
			results = append(results, entity)
		}
		return nil
	}, false)
	return results, err
}

// GetEntityRelations retrieves the relations leaving the named entity,
// via the adjacency index.
func (r *GraphRepository) GetEntityRelations(ctx context.Context, name string) ([]*core.Relation, error) {
	fromID := core.IDFromContent(strings.ToLower(name))
	partial := makeRelationAdjKey(fromID, 0)
	// Strip the relation-ID half so the prefix covers every edge.
	prefix := partial[:len(partial)-8]

	var results []*core.Relation
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			relation, err := readRelation(tx, makeRelationKey(id))
			if err != nil {
				return err
			}
			if relation != nil {
				results = append(results, relation)
			}
		}
		return nil
	}, false)
	return results, err
}

// Stats reports node/relationship totals and per-label breakdowns.
func (r *GraphRepository) Stats(ctx context.Context) (*core.GraphStats, error) {
	stats := &core.GraphStats{
		NodesByLabel:        make(map[string]int),
		RelationshipsByType: make(map[string]int),
	}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entityPrefix + ":")
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := iter.Item().Value(func(val []byte) error {
				entity, err := storage.UnmarshalEntity(val)
				if err != nil {
					return err
				}
				stats.TotalNodes++
				stats.NodesByLabel[string(entity.Type)]++
				return nil
			}); err != nil {
				iter.Close()
				return err
			}
		}
		iter.Close()

		opts = badger.DefaultIteratorOptions
		opts.Prefix = []byte(relationPrefix + ":")
		iter = tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := iter.Item().Value(func(val []byte) error {
				relation, err := storage.UnmarshalRelation(val)
				if err != nil {
					return err
				}
				stats.TotalRelationships++
				stats.RelationshipsByType[string(relation.Type)]++
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Visualize extracts up to limit relations with their endpoint entities.
// Graphs without relations fall back to bare nodes.
func (r *GraphRepository) Visualize(ctx context.Context, limit int) (*core.GraphData, error) {
	data := &core.GraphData{
		Nodes: []core.GraphNode{},
		Edges: []core.GraphEdge{},
	}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		seen := make(map[core.ID]bool)

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(relationPrefix + ":")
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			if limit > 0 && len(data.Edges) >= limit {
				break
			}
			var relation *core.Relation
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				relation, err = storage.UnmarshalRelation(val)
				return err
			}); err != nil {
				iter.Close()
				return err
			}

			fromNode, err := resolveEndpoint(tx, relation.FromEntity, relation.FromType)
			if err != nil {
				iter.Close()
				return err
			}
			toNode, err := resolveEndpoint(tx, relation.ToEntity, relation.ToType)
			if err != nil {
				iter.Close()
				return err
			}

			for _, node := range []core.GraphNode{fromNode, toNode} {
				id, _ := strconv.ParseUint(node.Id, 10, 64)
				if !seen[core.ID(id)] {
					seen[core.ID(id)] = true
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
		iter.Close()

		if len(data.Edges) > 0 {
			return nil
		}

		// No relations: show bare nodes instead of an empty canvas.
		opts = badger.DefaultIteratorOptions
		opts.Prefix = []byte(entityPrefix + ":")
		iter = tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			if limit > 0 && len(data.Nodes) >= limit {
				break
			}
			if err := iter.Item().Value(func(val []byte) error {
				entity, err := storage.UnmarshalEntity(val)
				if err != nil {
					return err
				}
				data.Nodes = append(data.Nodes, entityNode(entity))
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Clear removes all entities, relations and their indexes.
func (r *GraphRepository) Clear(ctx context.Context) error {
	return r.backend.dropPrefix(
		[]byte(entityPrefix+":"),
		[]byte(entityTuplePre+":"),
		[]byte(entityNamePre+":"),
		[]byte(relationPrefix+":"),
		[]byte(relationAdjPre+":"),
	)
}

// resolveEndpoint maps a relation endpoint to a visualization node. When
// the relation carries a type hint the tuple index resolves the exact
// entity; otherwise the first name-index hit wins. Endpoints that resolve
// to no stored entity still get a node so the edge remains drawable.
func resolveEndpoint(tx *badger.Txn, name string, hint core.EntityType) (core.GraphNode, error) {
	if hint != "" {
		id, err := readIndexedID(tx, makeEntityTupleKey(hint, name))
		if err != nil {
			return core.GraphNode{}, err
		}
		if id != 0 {
			entity, err := readEntity(tx, makeEntityKey(id))
			if err != nil {
				return core.GraphNode{}, err
			}
			if entity != nil {
				return entityNode(entity), nil
			}
		}
	}

	opts := badger.DefaultIteratorOptions
	opts.Prefix = makePartialEntityNameKey(name)
	iter := tx.NewIterator(opts)
	defer iter.Close()
	for iter.Rewind(); iter.Valid(); iter.Next() {
		var id core.ID
		if err := iter.Item().Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return core.GraphNode{}, err
		}
		entity, err := readEntity(tx, makeEntityKey(id))
		if err != nil {
			return core.GraphNode{}, err
		}
		if entity != nil {
			return entityNode(entity), nil
		}
	}

	label := hint
	if label == "" {
		label = core.EntityGeneric
	}
	return core.GraphNode{
		Id:    strconv.FormatUint(uint64(core.EntityID(label, name)), 10),
		Name:  name,
		Label: string(label),
	}, nil
}

func entityNode(entity *core.Entity) core.GraphNode {
	return core.GraphNode{
		Id:         strconv.FormatUint(uint64(entity.Id), 10),
		Name:       entity.Name,
		Label:      string(entity.Type),
		Properties: entity.Properties,
	}
}

// readIndexedID reads an entity ID from an index key.
// Returns 0 (no error) when the key does not exist.
func readIndexedID(tx *badger.Txn, key []byte) (core.ID, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, nil
		}
		return 0, err
	}
	var id core.ID
	err = item.Value(func(val []byte) error {
		var err error
		id, err = storage.UnmarshalID(val)
		return err
	})
	return id, err
}

// readEntity reads an entity within a transaction.
// Returns nil (no error) when the key does not exist.
func readEntity(tx *badger.Txn, key []byte) (*core.Entity, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	var entity *core.Entity
	err = item.Value(func(val []byte) error {
		var err error
		entity, err = storage.UnmarshalEntity(val)
		return err
	})
	return entity, err
}

// readRelation reads a relation within a transaction.
// Returns nil (no error) when the key does not exist.
func readRelation(tx *badger.Txn, key []byte) (*core.Relation, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	var relation *core.Relation
	err = item.Value(func(val []byte) error {
		var err error
		relation, err = storage.UnmarshalRelation(val)
		return err
	})
	return relation, err
}

// overlayProperties merges incoming onto existing, incoming values winning.
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
