package badger

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/poiesic/graphit/core"
)

// Key prefixes for different data types
const (
	documentPrefix   = "docrec"
	entityPrefix     = "entrec"
	entityTuplePre   = "enttyna"
	entityNamePre    = "entname"
	relationPrefix   = "relrec"
	relationAdjPre   = "reladj"
	embeddingPrefix  = "vecrec"
)

// makeDocumentKey generates a key for a document by ULID. ULIDs sort by
// creation time, so iterating this prefix in reverse yields newest first.
func makeDocumentKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", documentPrefix, id))
}

// makeEntityKey generates a key for an entity by content ID.
func makeEntityKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", entityPrefix, id))
}

// makeEntityTupleKey generates a composite key for entity lookup by
// (type, lowercase name). Value is the MUS-encoded entity ID.
func makeEntityTupleKey(entityType core.EntityType, name string) []byte {
	prefix := entityTuplePre + ":"
	loName := strings.ToLower(name)
	totalSize := len(prefix) + len(entityType) + 1 + len(loName)
	buf := make([]byte, totalSize)
	offset := copy(buf, []byte(prefix))
	offset += copy(buf[offset:], []byte(entityType))
	buf[offset] = 0
	offset++
	copy(buf[offset:], []byte(loName))
	return buf
}

// makeEntityNameKey generates a composite key for the cross-type name
// index. Format: prefix:loname:id — one key per (name, entity).
func makeEntityNameKey(name string, id core.ID) []byte {
	prefix := entityNamePre + ":"
	loName := strings.ToLower(name)
	totalSize := len(prefix) + len(loName) + 1 + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, []byte(prefix))
	offset += copy(buf[offset:], []byte(loName))
	buf[offset] = 0
	offset++
	// BigEndian so IDs under one name sort deterministically
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialEntityNameKey generates a prefix for name index scans.
func makePartialEntityNameKey(name string) []byte {
	prefix := entityNamePre + ":"
	loName := strings.ToLower(name)
	buf := make([]byte, len(prefix)+len(loName)+1)
	offset := copy(buf, []byte(prefix))
	offset += copy(buf[offset:], []byte(loName))
	buf[offset] = 0
	return buf
}

// makeRelationKey generates a key for a relation by content ID.
func makeRelationKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", relationPrefix, id))
}

// makeRelationAdjKey generates a composite key for the adjacency index.
// Format: prefix:fromEntityID:relationID, BigEndian so scanning a from-ID
// prefix yields that entity's outgoing edges.
func makeRelationAdjKey(fromID, relationID core.ID) []byte {
	prefix := relationAdjPre + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+16)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(fromID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(relationID))
	return buf
}

// makeEmbeddingKey generates a key for an embedding record by entity ID.
func makeEmbeddingKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", embeddingPrefix, id))
}
