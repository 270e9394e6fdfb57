package openai

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/graphit/ai"
)

// Recognizer implements ai.EntityRecognizer using OpenAI-compatible chat
// APIs. It asks the model for labeled mentions and locates each one in the
// original text by case-insensitive search; mentions the model invented and
// that do not occur in the text keep offsets of -1.
type Recognizer struct {
	client llms.Model
	logger *slog.Logger
}

// rawMention matches the JSON structure the model is instructed to emit.
type rawMention struct {
	Text       string  `json:"text"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// mentionAnalysis is the wrapper structure for the model's mention response.
type mentionAnalysis struct {
	Mentions []rawMention `json:"mentions"`
}

// newRecognizer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newRecognizer(config *ai.Config) (*Recognizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ExtractorHost),
		openai.WithToken("none"),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}

	return &Recognizer{
		client: client,
		logger: slog.Default().With("component", "openai-recognizer"),
	}, nil
}

// NewRecognizer creates a new mention recognizer using the provided
// configuration.
//
// Returns ai.EntityRecognizer interface to enforce abstraction.
func NewRecognizer(config *ai.Config) (ai.EntityRecognizer, error) {
	return newRecognizer(config)
}

var _ ai.EntityRecognizer = (*Recognizer)(nil)

// RecognizeEntities finds labeled entity mentions in free text.
func (r *Recognizer) RecognizeEntities(ctx context.Context, text string) ([]ai.Mention, error) {
	if strings.TrimSpace(text) == "" {
		return []ai.Mention{}, nil
	}

	var result mentionAnalysis
	err := completeJSON(ctx, r.client, r.logger, buildMentionSystemPrompt(), text, &result)
	if err != nil {
		if errors.Is(err, errEmptyCompletion) {
			return []ai.Mention{}, nil
		}
		return nil, err
	}

	lowerText := strings.ToLower(text)
	mentions := make([]ai.Mention, 0, len(result.Mentions))
	for _, raw := range result.Mentions {
		mentionText := strings.TrimSpace(raw.Text)
		if mentionText == "" {
			continue
		}

		start, end := locateMention(lowerText, mentionText)
		mentions = append(mentions, ai.Mention{
			Text:       mentionText,
			Label:      strings.ToUpper(strings.TrimSpace(raw.Label)),
			Start:      start,
			End:        end,
			Confidence: clampConfidence(raw.Confidence),
		})
	}

	r.logger.Debug("recognized mentions", "length", len(text), "mentions", len(mentions))

	return mentions, nil
}

// locateMention finds the first case-insensitive occurrence of mention in
// lowerText (the pre-lowered input). Returns -1,-1 when absent.
func locateMention(lowerText, mention string) (int, int) {
	idx := strings.Index(lowerText, strings.ToLower(mention))
	if idx < 0 {
		return -1, -1
	}
	return idx, idx + len(mention)
}
