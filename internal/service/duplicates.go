package service

import (
	"context"
	"math"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/karanversation/terminator/internal/database/repository"
)

// Content-hash identity only catches byte-identical rows. Near-duplicates
// (the same purchase exported with a slightly different narration) need a
// fuzzy pass, and those go to a human, never to automatic deletion.
const (
	duplicateSimilarityFloor = 0.85
	duplicateDayTolerance    = 3
)

// DuplicateScanner queues same-account, same-amount pairs with close dates
// and near-identical descriptions for review.
type DuplicateScanner struct {
	Transactions *repository.TransactionRepo
	Suspects     *repository.SuspectRepo
	Log          zerolog.Logger
}

// Scan returns the number of newly queued suspect pairs. Pairs already in
// the queue are skipped by the unique constraint.
func (d *DuplicateScanner) Scan(ctx context.Context) (int, error) {
	rows, err := d.Transactions.ReadAll(ctx, nil)
	if err != nil {
		return 0, err
	}

	byAccount := make(map[string][]repository.Transaction)
	for _, tx := range rows {
		byAccount[tx.AccountLabel] = append(byAccount[tx.AccountLabel], tx)
	}

	queued := 0
	for _, txs := range byAccount {
		for i := 0; i < len(txs); i++ {
			for j := i + 1; j < len(txs); j++ {
				a, b := txs[i], txs[j]
				if a.Amount != b.Amount {
					continue
				}
				days := a.OccurredOn.Sub(b.OccurredOn).Hours() / 24
				if math.Abs(days) > duplicateDayTolerance {
					continue
				}
				sim := descriptionSimilarity(a.RawDescription, b.RawDescription)
				if sim < duplicateSimilarityFloor {
					continue
				}
				// Stable pair ordering keeps the unique constraint effective
				// across rescans.
				aID, bID := a.ID, b.ID
				if bID < aID {
					aID, bID = bID, aID
				}
				added, err := d.Suspects.Add(ctx, repository.DuplicateSuspect{
					ID:             uuid.NewString(),
					TransactionAID: aID,
					TransactionBID: bID,
					Similarity:     sim,
				})
				if err != nil {
					return queued, err
				}
				if added {
					queued++
				}
			}
		}
	}
	if queued > 0 {
		d.Log.Info().Int("pairs", queued).Msg("duplicate suspects queued")
	}
	return queued, nil
}

// descriptionSimilarity is 1 minus the normalized Levenshtein distance.
// Identical strings score 1; fully different strings score 0.
func descriptionSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
