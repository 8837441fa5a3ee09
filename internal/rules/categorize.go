package rules

import (
	"strings"

	"github.com/karanversation/terminator/internal/database/repository"
)

// Categorize scores the description against the credit table for credits and
// the expense table otherwise, returning the best-scoring category.
// Literal keywords score their length, tripled for multi-word phrases and
// boosted by half again when the description starts with them. Regex keywords
// score the matched text length, boosted for matches at position zero and for
// longer (more specific) patterns. Ties go to the category declared first.
func (e *Engine) Categorize(description string, direction repository.Direction) string {
	desc := strings.ToLower(strings.TrimSpace(description))
	if desc == "" {
		return repository.CatchAllCategory
	}

	table := e.expense
	if direction == repository.Credit {
		table = e.income
	}

	best := repository.CatchAllCategory
	bestScore := 0.0
	for _, rule := range table {
		score := 0.0
		for _, kw := range rule.keywords {
			if kw.pattern != nil {
				loc := kw.pattern.FindStringIndex(desc)
				if loc == nil {
					continue
				}
				s := float64(loc[1] - loc[0])
				if loc[0] == 0 {
					s *= 1.5
				}
				s *= 1 + float64(kw.rawLen)/20
				score += s
				continue
			}
			if !strings.Contains(desc, kw.literal) {
				continue
			}
			s := float64(len(kw.literal))
			if strings.Contains(kw.literal, " ") {
				s *= 3
			}
			if strings.HasPrefix(desc, kw.literal) {
				s *= 1.5
			}
			score += s
		}
		if score > bestScore {
			bestScore = score
			best = rule.category
		}
	}
	return best
}
