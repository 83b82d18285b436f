package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const nerModel = "gemini-2.5-flash"

const nerPrompt = `You are a named-entity recognizer. List every personal name (PERSON entity) that appears in the text below.
Return ONLY a JSON array of strings with the names exactly as written, no other text. Return [] if there are none.

TEXT:
%s`

// GeminiRecognizer detects PERSON entities with a Gemini model. The client
// is shared and safe for concurrent use.
type GeminiRecognizer struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewGeminiRecognizer(client *genai.Client, logger *zap.Logger) *GeminiRecognizer {
	return &GeminiRecognizer{
		client: client,
		model:  nerModel,
		logger: logger,
	}
}

// DetectPersons implements PersonRecognizer. The model returns names, not
// offsets; spans are located by scanning the input for each occurrence.
func (g *GeminiRecognizer) DetectPersons(ctx context.Context, text string) ([]Span, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	temperature := float32(0)
	config := &genai.GenerateContentConfig{Temperature: &temperature}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(fmt.Sprintf(nerPrompt, text)), config)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty NER response", ErrModelUnavailable)
	}

	raw := resp.Text()
	var names []string
	if err := json.Unmarshal([]byte(extractJSON(raw)), &names); err != nil {
		return nil, fmt.Errorf("failed to parse person names: %w", err)
	}

	g.logger.Debug("person detection complete",
		zap.Int("input_length", len(text)),
		zap.Int("names", len(names)),
	)
	return locateSpans(text, names), nil
}

// locateSpans finds every case-insensitive occurrence of each name.
func locateSpans(text string, names []string) []Span {
	lower := strings.ToLower(text)

	var spans []Span
	for _, name := range names {
		needle := strings.ToLower(strings.TrimSpace(name))
		if needle == "" {
			continue
		}
		for idx := 0; idx < len(lower); {
			i := strings.Index(lower[idx:], needle)
			if i < 0 {
				break
			}
			start := idx + i
			spans = append(spans, Span{Start: start, End: start + len(needle)})
			idx = start + len(needle)
		}
	}
	return spans
}

// extractJSON pulls a JSON object or array out of a model response that may
// be wrapped in markdown fences or prose.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startArr != -1 && endArr != -1 && endArr > startArr && (startObj == -1 || startArr < startObj) {
		return text[startArr : endArr+1]
	}
	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	}
	return text
}
