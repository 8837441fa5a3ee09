package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/karanversation/terminator/internal/database/repository"
	"github.com/karanversation/terminator/internal/llm"
)

// suggestConfidenceFloor is the minimum model confidence to accept.
const suggestConfidenceFloor = 0.7

// CategorySuggester sends rows the rule engine could not categorize to an
// LLM and applies confident suggestions with category_source=llm, which
// shields them from later rule recategorization.
type CategorySuggester struct {
	Transactions *repository.TransactionRepo
	Provider     llm.Suggester
	Categories   []string
	Log          zerolog.Logger
}

// SuggestUncategorized returns the number of rows updated. Descriptions are
// deduplicated before the call so one merchant costs one suggestion.
func (s *CategorySuggester) SuggestUncategorized(ctx context.Context) (int, error) {
	rows, err := s.Transactions.ReadUncategorized(ctx)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	seen := make(map[string]bool, len(rows))
	var descriptions []string
	for _, tx := range rows {
		d := tx.Description()
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		descriptions = append(descriptions, d)
	}
	if len(descriptions) == 0 {
		return 0, nil
	}

	suggestions, err := s.Provider.Suggest(ctx, descriptions, s.Categories)
	if err != nil {
		return 0, err
	}
	byDescription := make(map[string]llm.Suggestion, len(suggestions))
	for _, sg := range suggestions {
		byDescription[sg.Description] = sg
	}

	updated := 0
	for _, tx := range rows {
		sg, ok := byDescription[tx.Description()]
		if !ok || sg.Confidence < suggestConfidenceFloor || sg.Category == repository.CatchAllCategory {
			continue
		}
		err := s.Transactions.UpdateFields(ctx, tx.ID, map[string]any{
			"category":        sg.Category,
			"category_source": string(repository.SourceLLM),
		})
		if err != nil {
			return updated, err
		}
		updated++
	}
	if updated > 0 {
		s.Log.Info().Int("rows", updated).Msg("llm categorization applied")
	}
	return updated, nil
}
