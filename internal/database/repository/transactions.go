package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// TransactionRepo handles the transactions table. Writes are insert-if-absent
// keyed by the content id; corrections go through UpdateFields.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

// UpsertMany inserts rows that are not already present (by id) and reports
// how many were new. Re-importing the same file is a no-op.
func (r *TransactionRepo) UpsertMany(ctx context.Context, rows []Transaction) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT OR IGNORE INTO transactions(
	 id, occurred_on, normalized_description, raw_description, amount, direction,
	 account_label, account_class, category, category_source, payment_method, period_key)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, t := range rows {
		res, err := stmt.ExecContext(ctx,
			t.ID, t.OccurredOn.Format(dateLayout), t.NormalizedDescription, t.RawDescription,
			t.Amount, string(t.Direction), t.AccountLabel, string(t.AccountClass),
			t.Category, string(t.CategorySource), t.PaymentMethod, t.PeriodKey)
		if err != nil {
			return 0, fmt.Errorf("upsert %s: %w", t.ID, err)
		}
		n, _ := res.RowsAffected()
		inserted += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// updatableColumns whitelists the fields reachable through UpdateFields.
var updatableColumns = map[string]bool{
	"normalized_description": true,
	"direction":              true,
	"category":               true,
	"category_source":        true,
	"payment_method":         true,
}

// UpdateFields point-updates a row's classification fields. Used by manual
// and LLM corrections and by the reconciler/dedup rewrites.
func (r *TransactionRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	cols := make([]string, 0, len(fields))
	for col := range fields {
		if !updatableColumns[col] {
			return fmt.Errorf("update field %q not allowed", col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	set := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols)+1)
	for _, col := range cols {
		set = append(set, col+" = ?")
		args = append(args, fields[col])
	}
	args = append(args, id)

	_, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET "+strings.Join(set, ", ")+" WHERE id = ?", args...)
	return err
}

// filterableColumns whitelists equality filters for ReadAll.
var filterableColumns = map[string]bool{
	"direction":       true,
	"account_label":   true,
	"account_class":   true,
	"category":        true,
	"category_source": true,
	"payment_method":  true,
	"period_key":      true,
}

// ReadAll returns all rows, optionally narrowed by equality filters,
// newest first.
func (r *TransactionRepo) ReadAll(ctx context.Context, filters map[string]any) ([]Transaction, error) {
	var where []string
	var args []any
	cols := make([]string, 0, len(filters))
	for col := range filters {
		if !filterableColumns[col] {
			return nil, fmt.Errorf("filter field %q not allowed", col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		where = append(where, col+" = ?")
		args = append(args, filters[col])
	}

	query := selectColumns + " FROM transactions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY occurred_on DESC, id"
	return r.queryTransactions(ctx, query, args...)
}

// ReadUncategorized returns rows with no category or the catch-all.
func (r *TransactionRepo) ReadUncategorized(ctx context.Context) ([]Transaction, error) {
	return r.queryTransactions(ctx,
		selectColumns+" FROM transactions WHERE category IS NULL OR category = ? ORDER BY occurred_on DESC, id",
		CatchAllCategory)
}

// ReadRuleSourced returns the rows eligible for automatic re-categorization.
// Manual and llm rows are never returned here.
func (r *TransactionRepo) ReadRuleSourced(ctx context.Context) ([]Transaction, error) {
	return r.queryTransactions(ctx,
		selectColumns+" FROM transactions WHERE category_source = ? ORDER BY occurred_on, id",
		string(SourceRule))
}

// ReadSavingsByDirection returns savings-class rows with the given direction
// that are not already tagged as internal transfers, in ascending date order.
// The ordering fixes the reconciler's greedy matching.
func (r *TransactionRepo) ReadSavingsByDirection(ctx context.Context, dir Direction) ([]Transaction, error) {
	return r.queryTransactions(ctx,
		selectColumns+` FROM transactions
		 WHERE account_class = ? AND direction = ?
		   AND (category IS NULL OR category != ?)
		 ORDER BY occurred_on, id`,
		string(Savings), string(dir), InternalTransferCategory)
}

// PeriodTotals aggregates amounts per month and direction for the CLI summary.
func (r *TransactionRepo) PeriodTotals(ctx context.Context) ([]PeriodTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT period_key, direction, SUM(amount)
	FROM transactions
	GROUP BY period_key, direction
	ORDER BY period_key DESC, direction`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PeriodTotal
	for rows.Next() {
		var pt PeriodTotal
		var dir string
		if err := rows.Scan(&pt.PeriodKey, &dir, &pt.Total); err != nil {
			return nil, err
		}
		pt.Direction = Direction(dir)
		out = append(out, pt)
	}
	return out, rows.Err()
}

const selectColumns = `SELECT id, occurred_on, normalized_description, raw_description, amount,
 direction, account_label, account_class, category, category_source, payment_method, period_key`

func (r *TransactionRepo) queryTransactions(ctx context.Context, query string, args ...any) ([]Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// scanTransaction handles nullable fields for both Row and Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (Transaction, error) {
	var t Transaction
	var occurred string
	var normalized, category, source sql.NullString
	var direction, class string
	if err := row.Scan(&t.ID, &occurred, &normalized, &t.RawDescription, &t.Amount,
		&direction, &t.AccountLabel, &class, &category, &source, &t.PaymentMethod, &t.PeriodKey); err != nil {
		return Transaction{}, err
	}
	on, err := time.Parse(dateLayout, occurred)
	if err != nil {
		return Transaction{}, fmt.Errorf("scan occurred_on %q: %w", occurred, err)
	}
	t.OccurredOn = on
	t.Direction = Direction(direction)
	t.AccountClass = AccountClass(class)
	if normalized.Valid {
		t.NormalizedDescription = &normalized.String
	}
	if category.Valid {
		t.Category = &category.String
	}
	if source.Valid {
		t.CategorySource = CategorySource(source.String)
	}
	return t, nil
}
