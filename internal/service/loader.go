// Package service wires parsing, enrichment, storage and reconciliation into
// the operations the CLI exposes.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/karanversation/terminator/internal/database/repository"
	"github.com/karanversation/terminator/internal/identity"
	"github.com/karanversation/terminator/internal/ingest"
	"github.com/karanversation/terminator/internal/rules"
)

// Loader runs the full statement refresh: parse every file under the source
// directory, enrich, insert new rows, then re-apply the automatic
// classification passes. Manual and llm categorizations are never touched.
type Loader struct {
	Transactions *repository.TransactionRepo
	Rules        *rules.Engine
	Log          zerolog.Logger
}

// FileError records one statement file that could not be parsed. Parse
// failures never abort the refresh; the remaining files still load.
type FileError struct {
	File string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.File, e.Err)
}

// LoadResult carries the outcome of one refresh run. Transactions holds the
// full enriched dataset after all passes; an empty dataset with no file
// errors means the source tree simply had nothing to load.
type LoadResult struct {
	Parsed       int
	Inserted     int
	FileErrors   []FileError
	Transactions []repository.Transaction
}

// LoadAll parses every recognized statement under dir. Files live in
// per-institution subfolders (hdfc_cc, hdfc_savings, icici_cc,
// icici_savings, sbi); anything else is ignored. An empty or missing source
// tree is not an error, just a zero result.
func (l *Loader) LoadAll(ctx context.Context, dir string) (LoadResult, error) {
	res := LoadResult{}

	for _, group := range ingest.SourceGroups() {
		groupDir := filepath.Join(dir, group)
		entries, err := os.ReadDir(groupDir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return res, fmt.Errorf("read %s: %w", groupDir, err)
		}

		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(e.Name()))
			if ext != ".csv" && ext != ".txt" {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)

		for _, name := range names {
			parser, ok := ingest.ParserFor(group, name)
			if !ok {
				continue
			}
			path := filepath.Join(groupDir, name)
			f, err := os.Open(path)
			if err != nil {
				res.FileErrors = append(res.FileErrors, FileError{File: name, Err: err})
				continue
			}
			raws, err := parser.Parse(f)
			_ = f.Close()
			if err != nil {
				l.Log.Warn().Str("file", name).Err(err).Msg("statement parse failed")
				res.FileErrors = append(res.FileErrors, FileError{File: name, Err: err})
				continue
			}

			rows := make([]repository.Transaction, 0, len(raws))
			for _, raw := range raws {
				rows = append(rows, l.enrich(raw))
			}
			inserted, err := l.Transactions.UpsertMany(ctx, rows)
			if err != nil {
				return res, fmt.Errorf("store %s: %w", name, err)
			}
			res.Parsed += len(rows)
			res.Inserted += inserted
			l.Log.Info().Str("file", name).Int("rows", len(rows)).Int("new", inserted).Msg("statement loaded")
		}
	}

	if err := l.RecategorizeRuleSourced(ctx); err != nil {
		return res, err
	}
	if err := l.RefreshPaymentMethods(ctx); err != nil {
		return res, err
	}
	if err := l.MarkCardPaymentsAsTransfers(ctx); err != nil {
		return res, err
	}

	rows, err := l.Transactions.ReadAll(ctx, nil)
	if err != nil {
		return res, err
	}
	res.Transactions = rows
	return res, nil
}

// enrich turns a parsed statement line into a canonical row: normalized
// merchant, category, payment method and the content-hash id.
func (l *Loader) enrich(raw ingest.RawTransaction) repository.Transaction {
	normalized := rules.Normalize(raw.RawDescription)
	category := l.categorize(normalized, raw.RawDescription, raw.Direction)
	method := rules.PaymentMethod(raw.AccountLabel, raw.RawDescription, "")

	return repository.Transaction{
		ID:                    identity.TransactionID(raw.OccurredOn, raw.RawDescription, raw.Amount, raw.AccountLabel),
		OccurredOn:            raw.OccurredOn,
		NormalizedDescription: &normalized,
		RawDescription:        raw.RawDescription,
		Amount:                raw.Amount,
		Direction:             raw.Direction,
		AccountLabel:          raw.AccountLabel,
		AccountClass:          raw.AccountClass,
		Category:              &category,
		CategorySource:        repository.SourceRule,
		PaymentMethod:         method,
		PeriodKey:             raw.OccurredOn.Format("2006-01"),
	}
}

// categorize tries the normalized description first since it carries the
// cleaner merchant name, then falls back to the raw description, which keeps
// the bank-specific tokens some rules need.
func (l *Loader) categorize(normalized, raw string, dir repository.Direction) string {
	category := l.Rules.Categorize(normalized, dir)
	if category == repository.CatchAllCategory && normalized != raw {
		if catRaw := l.Rules.Categorize(raw, dir); catRaw != repository.CatchAllCategory {
			category = catRaw
		}
	}
	return category
}

// RecategorizeRuleSourced re-normalizes and re-categorizes every rule-sourced
// row, so rule table updates propagate on the next refresh. Manual and llm
// rows are excluded by the read.
func (l *Loader) RecategorizeRuleSourced(ctx context.Context) error {
	rows, err := l.Transactions.ReadRuleSourced(ctx)
	if err != nil {
		return err
	}
	updated := 0
	for _, tx := range rows {
		normalized := rules.Normalize(tx.RawDescription)
		category := l.categorize(normalized, tx.RawDescription, tx.Direction)
		if tx.NormalizedDescription != nil && *tx.NormalizedDescription == normalized &&
			tx.Category != nil && *tx.Category == category {
			continue
		}
		err := l.Transactions.UpdateFields(ctx, tx.ID, map[string]any{
			"normalized_description": normalized,
			"category":               category,
		})
		if err != nil {
			return err
		}
		updated++
	}
	if updated > 0 {
		l.Log.Info().Int("rows", updated).Msg("recategorized rule-sourced rows")
	}
	return nil
}

// RefreshPaymentMethods recomputes the payment method on every row, fixing
// values written before a classifier change.
func (l *Loader) RefreshPaymentMethods(ctx context.Context) error {
	rows, err := l.Transactions.ReadAll(ctx, nil)
	if err != nil {
		return err
	}
	for _, tx := range rows {
		method := rules.PaymentMethod(tx.AccountLabel, tx.RawDescription, "")
		if method == tx.PaymentMethod {
			continue
		}
		err := l.Transactions.UpdateFields(ctx, tx.ID, map[string]any{"payment_method": method})
		if err != nil {
			return err
		}
	}
	return nil
}

// MarkCardPaymentsAsTransfers flips savings debits categorized as credit
// card payments to Transfer direction: the money shows up again as spending
// on the card statement, so counting the bill payment would double it.
func (l *Loader) MarkCardPaymentsAsTransfers(ctx context.Context) error {
	rows, err := l.Transactions.ReadAll(ctx, map[string]any{
		"category":      "Credit Card Payment",
		"account_class": string(repository.Savings),
		"direction":     string(repository.Debit),
	})
	if err != nil {
		return err
	}
	for _, tx := range rows {
		err := l.Transactions.UpdateFields(ctx, tx.ID, map[string]any{
			"direction": string(repository.Transfer),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
