package core

// DedupEntities collapses entities that share an identity key, preserving
// first-seen order. The first occurrence is kept; each later duplicate is
// merged into it: its properties overwrite matching keys and add unseen
// ones, and confidence becomes the mean of the kept and incoming values.
// Averaging is pairwise in encounter order, so later duplicates weigh more
// than a true mean would give them.
//
// The operation is idempotent: running it on already-deduplicated input
// changes nothing.
func DedupEntities(entities []*Entity) []*Entity {
	seen := make(map[string]*Entity, len(entities))
	out := make([]*Entity, 0, len(entities))
	for _, e := range entities {
		if e == nil {
			continue
		}
		key := e.Key()
		kept, ok := seen[key]
		if !ok {
			seen[key] = e
			out = append(out, e)
			continue
		}
		kept.Properties = mergeProperties(kept.Properties, e.Properties)
		kept.Confidence = (kept.Confidence + e.Confidence) / 2
	}
	return out
}

// DedupRelations collapses relations that share an identity key with the
// same first-wins merge semantics as DedupEntities.
func DedupRelations(relations []*Relation) []*Relation {
	seen := make(map[string]*Relation, len(relations))
	out := make([]*Relation, 0, len(relations))
	for _, r := range relations {
		if r == nil {
			continue
		}
		key := r.Key()
		kept, ok := seen[key]
		if !ok {
			seen[key] = r
			out = append(out, r)
			continue
		}
		kept.Properties = mergeProperties(kept.Properties, r.Properties)
		kept.Confidence = (kept.Confidence + r.Confidence) / 2
	}
	return out
}

// mergeProperties overlays next onto kept, incoming values winning.
func mergeProperties(kept, next map[string]string) map[string]string {
	if len(next) == 0 {
		return kept
	}
	if kept == nil {
		kept = make(map[string]string, len(next))
	}
	for k, v := range next {
		kept[k] = v
	}
	return kept
}
