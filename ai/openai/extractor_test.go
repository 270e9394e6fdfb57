package openai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/graphit/core"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "valid JSON unchanged",
			input:    `{"entities": [{"name": "Casablanca", "type": "Movie"}]}`,
			expected: `{"entities": [{"name": "Casablanca", "type": "Movie"}]}`,
		},
		{
			name:     "missing opening quote on key",
			input:    `{"name": "Casablanca", type": "Movie"}`,
			expected: `{"name": "Casablanca", "type": "Movie"}`,
		},
		{
			name:     "trailing comma in object",
			input:    `{"name": "Casablanca", "type": "Movie",}`,
			expected: `{"name": "Casablanca", "type": "Movie"}`,
		},
		{
			name:     "trailing comma in array",
			input:    `{"entities": [{"name": "a"},]}`,
			expected: `{"entities": [{"name": "a"}]}`,
		},
		{
			name:     "trailing comma before newline",
			input:    "{\"a\": 1,\n}",
			expected: "{\"a\": 1\n}",
		},
		{
			name:     "comma inside string preserved",
			input:    `{"name": "Bogart, Humphrey"}`,
			expected: `{"name": "Bogart, Humphrey"}`,
		},
		{
			name:     "brace inside string preserved",
			input:    `{"note": "uses , } inside"}`,
			expected: `{"note": "uses , } inside"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, repairJSON(tt.input))
		})
	}
}

func TestCleanJSONResponse(t *testing.T) {
	fenced := "```json\n{\"entities\": []}\n```"
	assert.Equal(t, `{"entities": []}`, cleanJSONResponse(fenced))

	bare := "  {\"entities\": []}  "
	assert.Equal(t, `{"entities": []}`, cleanJSONResponse(bare))

	plainFence := "```\n{\"relations\": []}\n```"
	assert.Equal(t, `{"relations": []}`, cleanJSONResponse(plainFence))
}

func TestNormalizeEntity(t *testing.T) {
	e := &Extractor{minConfidence: 0.5}

	t.Run("valid entity", func(t *testing.T) {
		entity := e.normalizeEntity(rawEntity{
			Name:       "  Warner   Bros.  ",
			Type:       "studio",
			Properties: map[string]any{"founded": 1923, "hq": "Burbank"},
			Confidence: 0.9,
		})
		assert.NotNil(t, entity)
		assert.Equal(t, "Warner Bros.", entity.Name)
		assert.Equal(t, core.EntityStudio, entity.Type)
		assert.Equal(t, map[string]string{"founded": "1923", "hq": "Burbank"}, entity.Properties)
		assert.Equal(t, 0.9, entity.Confidence)
	})

	t.Run("unknown type becomes generic", func(t *testing.T) {
		entity := e.normalizeEntity(rawEntity{Name: "Widget", Type: "gadget", Confidence: 0.8})
		assert.NotNil(t, entity)
		assert.Equal(t, core.EntityGeneric, entity.Type)
	})

	t.Run("below threshold dropped", func(t *testing.T) {
		entity := e.normalizeEntity(rawEntity{Name: "Maybe", Type: "Person", Confidence: 0.3})
		assert.Nil(t, entity)
	})

	t.Run("empty name dropped", func(t *testing.T) {
		entity := e.normalizeEntity(rawEntity{Name: "   ", Type: "Person", Confidence: 0.9})
		assert.Nil(t, entity)
	})

	t.Run("overrange confidence clamped", func(t *testing.T) {
		entity := e.normalizeEntity(rawEntity{Name: "Sure", Type: "Person", Confidence: 1.7})
		assert.NotNil(t, entity)
		assert.Equal(t, 1.0, entity.Confidence)
	})
}

func TestNormalizeRelation(t *testing.T) {
	e := &Extractor{minConfidence: 0.5}

	t.Run("valid relation", func(t *testing.T) {
		relation := e.normalizeRelation(rawRelation{
			Type:       "directed",
			From:       "Michael Curtiz",
			To:         "Casablanca",
			Confidence: 0.85,
		})
		assert.NotNil(t, relation)
		assert.Equal(t, core.RelationDirected, relation.Type)
		assert.Equal(t, "Michael Curtiz", relation.FromEntity)
		assert.Equal(t, "Casablanca", relation.ToEntity)
	})

	t.Run("unknown type becomes related_to", func(t *testing.T) {
		relation := e.normalizeRelation(rawRelation{Type: "admires", From: "a", To: "b", Confidence: 0.8})
		assert.NotNil(t, relation)
		assert.Equal(t, core.RelationRelatedTo, relation.Type)
	})

	t.Run("spaces fold to underscores", func(t *testing.T) {
		relation := e.normalizeRelation(rawRelation{Type: "acted in", From: "a", To: "b", Confidence: 0.8})
		assert.NotNil(t, relation)
		assert.Equal(t, core.RelationActedIn, relation.Type)
	})

	t.Run("missing endpoint dropped", func(t *testing.T) {
		relation := e.normalizeRelation(rawRelation{Type: "KNOWS", From: "a", To: "", Confidence: 0.8})
		assert.Nil(t, relation)
	})

	t.Run("below threshold dropped", func(t *testing.T) {
		relation := e.normalizeRelation(rawRelation{Type: "KNOWS", From: "a", To: "b", Confidence: 0.2})
		assert.Nil(t, relation)
	})
}

func TestBuildRecordsPrompt(t *testing.T) {
	records := []core.Record{{"title": "Casablanca"}}

	prompt, err := buildRecordsPrompt(records, "")
	assert.NoError(t, err)
	assert.Equal(t, `[{"title":"Casablanca"}]`, prompt)

	prompt, err = buildRecordsPrompt(records, "Document context: file movies.csv.")
	assert.NoError(t, err)
	assert.Equal(t, "Document context: file movies.csv.\n[{\"title\":\"Casablanca\"}]", prompt)
}

func TestDocumentContext(t *testing.T) {
	assert.Equal(t, "", documentContext(nil))
	assert.Equal(t, "", documentContext(map[string]any{"record_count": 3}))
	assert.Equal(t,
		"Document context: file movies.csv; columns title, director.",
		documentContext(map[string]any{
			"filename": "movies.csv",
			"columns":  []string{"title", "director"},
		}))
}

func TestPromptsEmbedClosedTypeSets(t *testing.T) {
	entityPrompt := buildEntitySystemPrompt()
	for _, name := range core.EntityTypeNames() {
		assert.Contains(t, entityPrompt, name)
	}

	relationPrompt := buildRelationSystemPrompt([]*core.Entity{
		{Name: "Casablanca", Type: core.EntityMovie},
		{Name: "Michael Curtiz", Type: core.EntityPerson},
	})
	for _, name := range core.RelationTypeNames() {
		assert.Contains(t, relationPrompt, name)
	}
	assert.Contains(t, relationPrompt, "- Casablanca (Movie)")
	assert.Contains(t, relationPrompt, "- Michael Curtiz (Person)")

	mentionPrompt := buildMentionSystemPrompt()
	assert.Contains(t, mentionPrompt, "PERSON")
	assert.Contains(t, mentionPrompt, "WORK_OF_ART")
}

func TestLocateMention(t *testing.T) {
	text := "Humphrey Bogart starred in Casablanca."
	lower := strings.ToLower(text)

	start, end := locateMention(lower, "humphrey bogart")
	assert.Equal(t, 0, start)
	assert.Equal(t, 15, end)

	start, end = locateMention(lower, "Casablanca")
	assert.Equal(t, 27, start)
	assert.Equal(t, 37, end)

	start, end = locateMention(lower, "Metropolis")
	assert.Equal(t, -1, start)
	assert.Equal(t, -1, end)
}

func TestStringifyProperties(t *testing.T) {
	assert.Nil(t, stringifyProperties(nil))
	assert.Nil(t, stringifyProperties(map[string]any{"gone": nil}))

	props := stringifyProperties(map[string]any{
		"year":   1942,
		"rating": 8.5,
		"title":  "Casablanca",
		"gone":   nil,
	})
	assert.Equal(t, map[string]string{
		"year":   "1942",
		"rating": "8.5",
		"title":  "Casablanca",
	}, props)
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "Warner Bros.", cleanName("  Warner \n Bros.  "))
	assert.Equal(t, "", cleanName("   "))
	assert.Equal(t, "solo", cleanName("solo"))
}
