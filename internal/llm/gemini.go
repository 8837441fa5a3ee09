package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// batchSize limits descriptions per request so responses stay within the
// model's output budget.
const batchSize = 50

// Gemini categorizes descriptions with a Gemini model.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini builds a suggester. Returns ErrUnavailable when apiKey is empty
// so callers can degrade to rule-only operation.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrUnavailable
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Suggest(ctx context.Context, descriptions, categories []string) ([]Suggestion, error) {
	var out []Suggestion
	for start := 0; start < len(descriptions); start += batchSize {
		end := start + batchSize
		if end > len(descriptions) {
			end = len(descriptions)
		}
		batch, err := g.suggestBatch(ctx, descriptions[start:end], categories)
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (g *Gemini) suggestBatch(ctx context.Context, descriptions, categories []string) ([]Suggestion, error) {
	txns := make([]map[string]string, 0, len(descriptions))
	for _, d := range descriptions {
		txns = append(txns, map[string]string{"description": d})
	}
	txnJSON, err := json.Marshal(txns)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`You are categorizing Indian bank/credit card transactions.

Categories: %s

Rules:
- UPI payments to individual person names -> Transfers
- If confidence < 0.7 -> use Miscellaneous
- Return ONLY valid JSON, no extra text, no Markdown fences

Transactions:
%s

Return JSON array: [{"description": "...", "category": "...", "confidence": 0.0}]`,
		strings.Join(categories, ", "), txnJSON)

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return nil, errors.New("empty response from model")
	}

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(extractJSONArray(text)), &suggestions); err != nil {
		return nil, fmt.Errorf("parse model response: %w", err)
	}
	return suggestions, nil
}

// extractJSONArray pulls the outermost JSON array out of a model response,
// tolerating Markdown fences and surrounding prose.
func extractJSONArray(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return s
	}
	return s[start : end+1]
}
