package ai

import (
	"strings"

	"github.com/poiesic/graphit/core"
)

// MentionLabels defines the category tags an EntityRecognizer may emit.
// The tags follow the usual NER conventions so that prompts and fixtures
// read naturally.
var MentionLabels = []string{
	"PERSON",
	"ORG",
	"GPE",
	"LOC",
	"FAC",
	"WORK_OF_ART",
	"PRODUCT",
	"EVENT",
	"NORP",
}

var mentionLabelTypes = map[string]core.EntityType{
	"PERSON":      core.EntityPerson,
	"ORG":         core.EntityOrganization,
	"GPE":         core.EntityLocation,
	"LOC":         core.EntityLocation,
	"FAC":         core.EntityLocation,
	"WORK_OF_ART": core.EntityMovie,
	"PRODUCT":     core.EntityConcept,
	"EVENT":       core.EntityConcept,
	"NORP":        core.EntityConcept,
}

// EntityTypeForLabel maps a recognizer label onto the closed entity type
// set. Unknown labels map to core.EntityGeneric.
func EntityTypeForLabel(label string) core.EntityType {
	if t, ok := mentionLabelTypes[strings.ToUpper(strings.TrimSpace(label))]; ok {
		return t
	}
	return core.EntityGeneric
}
