// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/graphit/ai"
	"github.com/poiesic/graphit/core"
)

// defaultBatchSize bounds how many records are sent to the model in one
// request when the caller passes a non-positive batch size.
const defaultBatchSize = 50

// errEmptyCompletion signals that the model returned no choices. Callers
// treat the affected batch as yielding nothing.
var errEmptyCompletion = errors.New("model returned no choices")

// Extractor implements ai.EntityExtractor and ai.RelationExtractor using
// OpenAI-compatible chat APIs. Model output is normalized into typed core
// values at this boundary: names are whitespace-cleaned, type labels are
// folded onto the closed sets, property values are stringified, and
// candidates below the confidence threshold are discarded.
type Extractor struct {
	client        llms.Model
	minConfidence float64
	logger        *slog.Logger
}

// rawEntity matches the JSON structure the model is instructed to emit.
type rawEntity struct {
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Confidence float64        `json:"confidence"`
}

// entityAnalysis is the wrapper structure for the model's entity response.
type entityAnalysis struct {
	Entities []rawEntity `json:"entities"`
}

// rawRelation matches the JSON structure the model is instructed to emit.
type rawRelation struct {
	Type       string         `json:"type"`
	From       string         `json:"from"`
	To         string         `json:"to"`
	Properties map[string]any `json:"properties"`
	Confidence float64        `json:"confidence"`
}

// relationAnalysis is the wrapper structure for the model's relation response.
type relationAnalysis struct {
	Relations []rawRelation `json:"relations"`
}

// newExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newExtractor(config *ai.Config) (*Extractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat/extraction
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ExtractorHost),
		openai.WithToken("none"),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}

	return &Extractor{
		client:        client,
		minConfidence: config.MinConfidence,
		logger:        slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewExtractor creates a new extractor using the provided configuration.
// The returned value serves both extraction interfaces.
func NewExtractor(config *ai.Config) (ai.EntityExtractor, error) {
	return newExtractor(config)
}

// NewRelationExtractor creates a new relation extractor using the provided
// configuration.
func NewRelationExtractor(config *ai.Config) (ai.RelationExtractor, error) {
	return newExtractor(config)
}

var (
	_ ai.EntityExtractor   = (*Extractor)(nil)
	_ ai.RelationExtractor = (*Extractor)(nil)
)

// ExtractEntities extracts typed entities from decoded records using an LLM.
// Records are processed in batches; a failure in any batch aborts the whole
// extraction so the caller never sees partial silence.
func (e *Extractor) ExtractEntities(ctx context.Context, records []core.Record, metadata map[string]any, batchSize int) ([]*core.Entity, error) {
	if len(records) == 0 {
		return []*core.Entity{}, nil
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	systemPrompt := buildEntitySystemPrompt()
	contextLine := documentContext(metadata)

	var entities []*core.Entity
	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))

		userPrompt, err := buildRecordsPrompt(records[start:end], contextLine)
		if err != nil {
			return nil, fmt.Errorf("encode records %d-%d: %w", start, end, err)
		}

		var result entityAnalysis
		if err := completeJSON(ctx, e.client, e.logger, systemPrompt, userPrompt, &result); err != nil {
			if errors.Is(err, errEmptyCompletion) {
				continue
			}
			return nil, err
		}

		for _, raw := range result.Entities {
			if entity := e.normalizeEntity(raw); entity != nil {
				entities = append(entities, entity)
			}
		}
	}

	e.logger.Debug("extracted entities",
		"records", len(records),
		"entities", len(entities))

	return entities, nil
}

// ExtractRelations extracts typed relations between the given entities from
// decoded records. With no candidate entities there is nothing to connect,
// so the model is not consulted at all.
func (e *Extractor) ExtractRelations(ctx context.Context, records []core.Record, entities []*core.Entity, metadata map[string]any, batchSize int) ([]*core.Relation, error) {
	if len(records) == 0 || len(entities) == 0 {
		return []*core.Relation{}, nil
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	systemPrompt := buildRelationSystemPrompt(entities)
	contextLine := documentContext(metadata)

	var relations []*core.Relation
	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))

		userPrompt, err := buildRecordsPrompt(records[start:end], contextLine)
		if err != nil {
			return nil, fmt.Errorf("encode records %d-%d: %w", start, end, err)
		}

		var result relationAnalysis
		if err := completeJSON(ctx, e.client, e.logger, systemPrompt, userPrompt, &result); err != nil {
			if errors.Is(err, errEmptyCompletion) {
				continue
			}
			return nil, err
		}

		for _, raw := range result.Relations {
			if relation := e.normalizeRelation(raw); relation != nil {
				relations = append(relations, relation)
			}
		}
	}

	e.logger.Debug("extracted relations",
		"records", len(records),
		"relations", len(relations))

	return relations, nil
}

// normalizeEntity converts a raw model entity into a typed core.Entity.
// Returns nil when the candidate is unusable or below the confidence
// threshold.
func (e *Extractor) normalizeEntity(raw rawEntity) *core.Entity {
	name := cleanName(raw.Name)
	if name == "" {
		return nil
	}
	confidence := clampConfidence(raw.Confidence)
	if confidence < e.minConfidence {
		return nil
	}
	return &core.Entity{
		Type:       core.ParseEntityType(raw.Type),
		Name:       name,
		Properties: stringifyProperties(raw.Properties),
		Confidence: confidence,
	}
}

// normalizeRelation converts a raw model relation into a typed core.Relation.
// Returns nil when either endpoint is missing or the candidate falls below
// the confidence threshold.
func (e *Extractor) normalizeRelation(raw rawRelation) *core.Relation {
	from := cleanName(raw.From)
	to := cleanName(raw.To)
	if from == "" || to == "" {
		return nil
	}
	confidence := clampConfidence(raw.Confidence)
	if confidence < e.minConfidence {
		return nil
	}
	return &core.Relation{
		Type:       core.ParseRelationType(raw.Type),
		FromEntity: from,
		ToEntity:   to,
		Properties: stringifyProperties(raw.Properties),
		Confidence: confidence,
	}
}

// completeJSON sends a system/user prompt pair and unmarshals the model's
// JSON reply into out. Malformed JSON is retried up to 3 times; transport
// errors are not retried here.
func completeJSON(ctx context.Context, client llms.Model, logger *slog.Logger, system, user string, out any) error {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(system),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(user),
			},
		},
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return err
		}

		if len(response.Choices) < 1 {
			logger.Debug("no choices returned from model")
			return errEmptyCompletion
		}

		responseText := cleanJSONResponse(response.Choices[0].Content)

		if err := json.Unmarshal([]byte(responseText), out); err != nil {
			lastErr = err
			logger.Warn("error parsing model response",
				"attempt", attempt+1,
				"response", snippet(responseText, 200),
				"err", err)
			continue
		}

		return nil
	}

	logger.Error("failed to parse model response after retries", "err", lastErr)
	return lastErr
}

// cleanJSONResponse strips markdown code fences and repairs common JSON
// issues in a model reply.
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	return repairJSON(s)
}

// buildRecordsPrompt serializes a record batch as a JSON array, prefixed
// with an optional document context line.
func buildRecordsPrompt(records []core.Record, contextLine string) (string, error) {
	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	if contextLine == "" {
		return string(data), nil
	}
	return contextLine + "\n" + string(data), nil
}

// documentContext renders a short provenance line from document metadata so
// the model can use the filename and column names as extraction hints.
func documentContext(metadata map[string]any) string {
	if len(metadata) == 0 {
		return ""
	}
	var parts []string
	if filename, ok := metadata["filename"].(string); ok && filename != "" {
		parts = append(parts, "file "+filename)
	}
	if columns, ok := metadata["columns"].([]string); ok && len(columns) > 0 {
		parts = append(parts, "columns "+strings.Join(columns, ", "))
	}
	if len(parts) == 0 {
		return ""
	}
	return "Document context: " + strings.Join(parts, "; ") + "."
}

// stringifyProperties flattens model property values into strings. Nil
// values are dropped.
func stringifyProperties(props map[string]any) map[string]string {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]string, len(props))
	for k, v := range props {
		if v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			out[k] = val
		default:
			out[k] = fmt.Sprintf("%v", val)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// clampConfidence forces a model confidence score into [0,1].
func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
