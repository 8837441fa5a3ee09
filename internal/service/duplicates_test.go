package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/karanversation/terminator/internal/database/repository"
)

func TestDuplicateScan(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openTestDB(t)
	txRepo := repository.NewTransactionRepo(db)
	susRepo := repository.NewSuspectRepo(db)
	scanner := &DuplicateScanner{Transactions: txRepo, Suspects: susRepo, Log: zerolog.Nop()}

	// Same purchase, one-character narration drift: suspect.
	seedTransaction(t, txRepo, 10, "POS 512967 DMART NOIDA", 1450, repository.Debit, "HDFC Savings Account", repository.Savings)
	seedTransaction(t, txRepo, 11, "POS 512967 DMART NOIDA.", 1450, repository.Debit, "HDFC Savings Account", repository.Savings)

	// Same amount and dates but a different account: not a suspect.
	seedTransaction(t, txRepo, 10, "POS 512967 DMART NOIDA", 1450, repository.Debit, "ICICI Savings Account", repository.Savings)

	// Same account and amount but unrelated descriptions: not a suspect.
	seedTransaction(t, txRepo, 10, "NEFT RENT PAYMENT APRIL", 1450, repository.Debit, "HDFC Savings Account", repository.Savings)

	queued, err := scanner.Scan(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, queued)

	pending, err := susRepo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.GreaterOrEqual(t, pending[0].Similarity, duplicateSimilarityFloor)
	require.Less(t, pending[0].TransactionAID, pending[0].TransactionBID)

	// Rescan finds the same pair and queues nothing new.
	queued, err = scanner.Scan(ctx)
	require.NoError(t, err)
	require.Zero(t, queued)
}

func TestDescriptionSimilarity(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1.0, descriptionSimilarity("same", "same"))
	require.Equal(t, 1.0, descriptionSimilarity("", ""))
	require.InDelta(t, 0.95, descriptionSimilarity("POS DMART NOIDA SECTOR", "POS DMART NOIDA SECTOr"), 0.01)
	require.Less(t, descriptionSimilarity("POS DMART NOIDA", "NEFT RENT APRIL"), 0.5)
}
