package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/graphit/ai"
	"github.com/poiesic/graphit/core"
)

const entityResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {
            "type": "string"
          },
          "type": {
            "type": "string"
          },
          "properties": {
            "type": "object"
          },
          "confidence": {
            "type": "number",
            "minimum": 0,
            "maximum": 1
          }
        },
        "required": ["name", "type", "confidence"],
        "additionalProperties": false
      }
    }
  },
  "required": ["entities"],
  "additionalProperties": false
}`

const entityPromptTemplate = `Extract the entities mentioned in the given records and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- The input is a JSON array of records; extract entities from every record.
- Name each entity exactly as it appears in the records, preserving capitalization.
- Type field must match exactly one of the listed values: %s.
- Put descriptive attributes from the record (year, role, genre, ...) into "properties".
- Confidence is a number from 0.0 (guess) to 1.0 (stated verbatim in a record).
- Include only entities that are explicitly mentioned in the records. Do not hallucinate.
- If no entities can be identified, return "entities": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: [{"title":"Casablanca","director":"Michael Curtiz","year":"1942"}]
Output:
{
  "entities": [
    {"name":"Casablanca","type":"Movie","properties":{"year":"1942"},"confidence":0.95},
    {"name":"Michael Curtiz","type":"Person","properties":{"role":"director"},"confidence":0.9}
  ]
}`

const relationResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "relations": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "type": {
            "type": "string"
          },
          "from": {
            "type": "string"
          },
          "to": {
            "type": "string"
          },
          "properties": {
            "type": "object"
          },
          "confidence": {
            "type": "number",
            "minimum": 0,
            "maximum": 1
          }
        },
        "required": ["type", "from", "to", "confidence"],
        "additionalProperties": false
      }
    }
  },
  "required": ["relations"],
  "additionalProperties": false
}`

const relationPromptTemplate = `Extract the relationships between known entities from the given records and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- The input is a JSON array of records; extract relationships from every record.
- Type field must match exactly one of the listed values: %s.
- "from" and "to" must each name one of the known entities listed below, spelled exactly as listed.
- Do not invent relationships between entities that are not connected by the records.
- Confidence is a number from 0.0 (guess) to 1.0 (stated verbatim in a record).
- If no relationships can be identified, return "relations": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Known entities:
%s

Example:
Input: [{"title":"Casablanca","director":"Michael Curtiz"}]
Output:
{
  "relations": [
    {"type":"DIRECTED","from":"Michael Curtiz","to":"Casablanca","confidence":0.9}
  ]
}`

const mentionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "mentions": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "text": {
            "type": "string"
          },
          "label": {
            "type": "string"
          },
          "confidence": {
            "type": "number",
            "minimum": 0,
            "maximum": 1
          }
        },
        "required": ["text", "label", "confidence"],
        "additionalProperties": false
      }
    }
  },
  "required": ["mentions"],
  "additionalProperties": false
}`

const mentionPromptTemplate = `Find every named entity mentioned in the given text and return the mentions as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- "text" must quote the mention exactly as it appears in the input, preserving capitalization.
- Label field must match exactly one of the listed values: %s.
- Report each distinct mention once, even if it occurs multiple times.
- Confidence is a number from 0.0 (guess) to 1.0 (unambiguous).
- Include only mentions present in the text. Do not hallucinate.
- If no mentions can be identified, return "mentions": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "Humphrey Bogart starred in Casablanca, filmed at Warner Bros. studios in Burbank."
Output:
{
  "mentions": [
    {"text":"Humphrey Bogart","label":"PERSON","confidence":0.95},
    {"text":"Casablanca","label":"WORK_OF_ART","confidence":0.9},
    {"text":"Warner Bros.","label":"ORG","confidence":0.9},
    {"text":"Burbank","label":"GPE","confidence":0.85}
  ]
}`

// buildEntitySystemPrompt creates the entity extraction prompt with the
// closed entity type set embedded.
func buildEntitySystemPrompt() string {
	return fmt.Sprintf(entityPromptTemplate,
		entityResponseSchema,
		strings.Join(core.EntityTypeNames(), ", "))
}

// buildRelationSystemPrompt creates the relation extraction prompt with the
// closed relation type set and the known entity roster embedded.
func buildRelationSystemPrompt(entities []*core.Entity) string {
	roster := make([]string, 0, len(entities))
	for _, entity := range entities {
		roster = append(roster, fmt.Sprintf("- %s (%s)", entity.Name, entity.Type))
	}
	return fmt.Sprintf(relationPromptTemplate,
		relationResponseSchema,
		strings.Join(core.RelationTypeNames(), ", "),
		strings.Join(roster, "\n"))
}

// buildMentionSystemPrompt creates the mention recognition prompt with the
// recognizer label set embedded.
func buildMentionSystemPrompt() string {
	return fmt.Sprintf(mentionPromptTemplate,
		mentionResponseSchema,
		strings.Join(ai.MentionLabels, ", "))
}
