// Package llm suggests categories for descriptions the rule engine could
// not place. It is strictly optional: without an API key the rest of the
// system runs unchanged.
package llm

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when no provider is configured.
var ErrUnavailable = errors.New("llm: no api key configured")

// Suggestion is one model-proposed category for a description. Callers
// should ignore suggestions below their confidence threshold.
type Suggestion struct {
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Confidence  float64 `json:"confidence"`
}

// Suggester proposes categories for transaction descriptions.
type Suggester interface {
	Suggest(ctx context.Context, descriptions, categories []string) ([]Suggestion, error)
}
