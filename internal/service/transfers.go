package service

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/karanversation/terminator/internal/database/repository"
)

// Transfer matching tolerances: the credit may land a few days after the
// debit and differ by bank charges up to a rupee.
const (
	transferAmountTolerance = 1.0
	transferDayTolerance    = 5
)

// TransferReconciler pairs savings debits with savings credits that are the
// same money moving between own accounts, and reclassifies both legs so they
// drop out of spending and income totals.
type TransferReconciler struct {
	Transactions *repository.TransactionRepo
	Log          zerolog.Logger
}

// DetectInternalTransfers greedily matches each savings debit, oldest first,
// to the first still-unmatched savings credit in a different account within
// the amount and date tolerances. Both legs get direction Transfer and the
// Internal Transfer category. Rows already categorized as Internal Transfer
// are excluded by the reads, so reruns are no-ops. Returns the pair count.
func (r *TransferReconciler) DetectInternalTransfers(ctx context.Context) (int, error) {
	debits, err := r.Transactions.ReadSavingsByDirection(ctx, repository.Debit)
	if err != nil {
		return 0, err
	}
	credits, err := r.Transactions.ReadSavingsByDirection(ctx, repository.Credit)
	if err != nil {
		return 0, err
	}

	matchedCredits := make(map[string]bool, len(credits))
	var matched []string
	pairs := 0

	for _, debit := range debits {
		for _, credit := range credits {
			if matchedCredits[credit.ID] {
				continue
			}
			if credit.AccountLabel == debit.AccountLabel {
				continue
			}
			if math.Abs(debit.Amount-credit.Amount) > transferAmountTolerance {
				continue
			}
			days := debit.OccurredOn.Sub(credit.OccurredOn).Hours() / 24
			if math.Abs(days) > transferDayTolerance {
				continue
			}
			matchedCredits[credit.ID] = true
			matched = append(matched, debit.ID, credit.ID)
			pairs++
			break // each debit pairs with at most one credit
		}
	}

	for _, id := range matched {
		err := r.Transactions.UpdateFields(ctx, id, map[string]any{
			"direction":       string(repository.Transfer),
			"category":        repository.InternalTransferCategory,
			"category_source": string(repository.SourceRule),
		})
		if err != nil {
			return 0, err
		}
	}
	if pairs > 0 {
		r.Log.Info().Int("pairs", pairs).Msg("internal transfers reconciled")
	}
	return pairs, nil
}
