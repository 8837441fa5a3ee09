package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/karanversation/terminator/internal/database"
	"github.com/karanversation/terminator/internal/identity"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.Migrate(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testTransaction(day int, desc string, amount float64, label string) Transaction {
	on := time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC)
	return Transaction{
		ID:             identity.TransactionID(on, desc, amount, label),
		OccurredOn:     on,
		RawDescription: desc,
		Amount:         amount,
		Direction:      Debit,
		AccountLabel:   label,
		AccountClass:   Savings,
		CategorySource: SourceRule,
		PaymentMethod:  "UPI",
		PeriodKey:      "2025-03",
	}
}

func TestUpsertManyIgnoresDuplicates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewTransactionRepo(openTestDB(t))

	rows := []Transaction{
		testTransaction(1, "UPI-ZOMATO", 459, "HDFC Savings Account"),
		testTransaction(2, "UPI-SWIGGY", 312, "HDFC Savings Account"),
	}
	n, err := repo.UpsertMany(ctx, rows)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	// Re-import plus one new row: only the new row lands.
	rows = append(rows, testTransaction(3, "NEFT-RENT", 25000, "HDFC Savings Account"))
	n, err = repo.UpsertMany(ctx, rows)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	all, err := repo.ReadAll(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestUpdateFieldsWhitelist(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewTransactionRepo(openTestDB(t))

	tx := testTransaction(5, "UPI-ZOMATO", 459, "HDFC Savings Account")
	_, err := repo.UpsertMany(ctx, []Transaction{tx})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateFields(ctx, tx.ID, map[string]any{
		"category":        "Food & Dining",
		"category_source": string(SourceManual),
	}))
	err = repo.UpdateFields(ctx, tx.ID, map[string]any{"amount": 1})
	require.Error(t, err)

	got, err := repo.ReadAll(ctx, map[string]any{"category": "Food & Dining"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, SourceManual, got[0].CategorySource)
	require.Equal(t, tx.Amount, got[0].Amount)
}

func TestReadUncategorized(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewTransactionRepo(openTestDB(t))

	misc := testTransaction(1, "POS 1234 UNKNOWN SHOP", 100, "HDFC Savings Account")
	cat := CatchAllCategory
	misc.Category = &cat
	bare := testTransaction(2, "SOMETHING ELSE", 200, "HDFC Savings Account")
	food := testTransaction(3, "UPI-ZOMATO", 459, "HDFC Savings Account")
	dining := "Food & Dining"
	food.Category = &dining

	_, err := repo.UpsertMany(ctx, []Transaction{misc, bare, food})
	require.NoError(t, err)

	got, err := repo.ReadUncategorized(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, tx := range got {
		require.NotEqual(t, food.ID, tx.ID)
	}
}

func TestReadSavingsByDirectionOrdering(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := NewTransactionRepo(openTestDB(t))

	later := testTransaction(20, "NEFT OUT", 5000, "HDFC Savings Account")
	earlier := testTransaction(10, "IMPS OUT", 3000, "HDFC Savings Account")
	matched := testTransaction(12, "IMPS OUT OLD", 3000, "ICICI Savings Account")
	it := InternalTransferCategory
	matched.Category = &it
	credit := testTransaction(11, "NEFT IN", 5000, "ICICI Savings Account")
	credit.Direction = Credit
	cc := testTransaction(13, "CC SPEND", 900, "HDFC Diners Black Credit Card")
	cc.AccountClass = CreditCard

	_, err := repo.UpsertMany(ctx, []Transaction{later, earlier, matched, credit, cc})
	require.NoError(t, err)

	debits, err := repo.ReadSavingsByDirection(ctx, Debit)
	require.NoError(t, err)
	require.Len(t, debits, 2)
	require.Equal(t, earlier.ID, debits[0].ID)
	require.Equal(t, later.ID, debits[1].ID)

	credits, err := repo.ReadSavingsByDirection(ctx, Credit)
	require.NoError(t, err)
	require.Len(t, credits, 1)
	require.Equal(t, credit.ID, credits[0].ID)
}

func TestSuspectAddIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openTestDB(t)
	txRepo := NewTransactionRepo(db)
	susRepo := NewSuspectRepo(db)

	a := testTransaction(1, "UPI-ZOMATO-ORDER-1", 459, "HDFC Savings Account")
	b := testTransaction(1, "UPI-ZOMATO-ORDER-2", 459, "HDFC Savings Account")
	_, err := txRepo.UpsertMany(ctx, []Transaction{a, b})
	require.NoError(t, err)

	added, err := susRepo.Add(ctx, DuplicateSuspect{
		ID: "s1", TransactionAID: a.ID, TransactionBID: b.ID, Similarity: 0.95,
	})
	require.NoError(t, err)
	require.True(t, added)

	added, err = susRepo.Add(ctx, DuplicateSuspect{
		ID: "s2", TransactionAID: a.ID, TransactionBID: b.ID, Similarity: 0.95,
	})
	require.NoError(t, err)
	require.False(t, added)

	pending, err := susRepo.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, susRepo.Resolve(ctx, "s1", "dismissed"))
	pending, err = susRepo.ListPending(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)
}
