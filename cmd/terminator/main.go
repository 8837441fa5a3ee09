// Command terminator ingests Indian bank and credit card statements into a
// local sqlite store, categorizes them, and reconciles internal transfers.
package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/karanversation/terminator/internal/config"
	"github.com/karanversation/terminator/internal/database"
	"github.com/karanversation/terminator/internal/database/repository"
	"github.com/karanversation/terminator/internal/format"
	"github.com/karanversation/terminator/internal/llm"
	"github.com/karanversation/terminator/internal/logging"
	"github.com/karanversation/terminator/internal/rules"
	"github.com/karanversation/terminator/internal/service"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	debitStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type app struct {
	cfg    config.Config
	db     *sql.DB
	log    zerolog.Logger
	engine *rules.Engine

	transactions *repository.TransactionRepo
	suspects     *repository.SuspectRepo
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.New()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	if err := database.Migrate(cfg.Database.Path); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	a.db = db

	a.engine, err = rules.Load()
	if err != nil {
		return err
	}
	a.transactions = repository.NewTransactionRepo(db)
	a.suspects = repository.NewSuspectRepo(db)
	return nil
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func main() {
	a := &app{}

	root := &cobra.Command{
		Use:           "terminator",
		Short:         "Bank statement ingestion, categorization and reconciliation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	root.AddCommand(
		newRefreshCmd(a),
		newReconcileCmd(a),
		newSuggestCmd(a),
		newDupesCmd(a),
		newSummaryCmd(a),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, debitStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func newRefreshCmd(a *app) *cobra.Command {
	var sourcesDir string
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Parse all statement files and load new transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := sourcesDir
			if dir == "" {
				dir = a.cfg.Sources.Dir
			}
			loader := &service.Loader{Transactions: a.transactions, Rules: a.engine, Log: a.log}
			res, err := loader.LoadAll(cmd.Context(), dir)
			if err != nil {
				return err
			}

			fmt.Println(headerStyle.Render("Refresh complete"))
			fmt.Printf("  parsed:   %d\n  inserted: %s\n", res.Parsed, okStyle.Render(fmt.Sprintf("%d", res.Inserted)))
			for _, fe := range res.FileErrors {
				fmt.Println("  " + warnStyle.Render(fe.Error()))
			}
			if len(res.Transactions) == 0 && len(res.FileErrors) == 0 {
				fmt.Println("  " + warnStyle.Render("nothing loaded: no statement files found under "+dir))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sourcesDir, "sources", "", "statement directory (defaults to config sources.dir)")
	return cmd
}

func newReconcileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Detect internal transfers between savings accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := &service.TransferReconciler{Transactions: a.transactions, Log: a.log}
			pairs, err := rec.DetectInternalTransfers(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%s %d transfer pair(s) reconciled\n", headerStyle.Render("Reconcile:"), pairs)
			return nil
		},
	}
}

func newSuggestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest",
		Short: "Ask the model to categorize what the rules could not",
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := llm.NewGemini(cmd.Context(), a.cfg.ResolveAPIKey(), a.cfg.LLM.Model)
			if errors.Is(err, llm.ErrUnavailable) {
				fmt.Println(warnStyle.Render("no API key configured; skipping model suggestions"))
				return nil
			}
			if err != nil {
				return err
			}
			svc := &service.CategorySuggester{
				Transactions: a.transactions,
				Provider:     provider,
				Categories:   a.engine.Categories(),
				Log:          a.log,
			}
			updated, err := svc.SuggestUncategorized(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%s %d row(s) categorized\n", headerStyle.Render("Suggest:"), updated)
			return nil
		},
	}
}

func newDupesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dupes",
		Short: "Scan for near-duplicate transactions and list pending suspects",
		RunE: func(cmd *cobra.Command, args []string) error {
			scanner := &service.DuplicateScanner{Transactions: a.transactions, Suspects: a.suspects, Log: a.log}
			queued, err := scanner.Scan(cmd.Context())
			if err != nil {
				return err
			}
			pending, err := a.suspects.ListPending(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%s %d new, %d pending review\n", headerStyle.Render("Duplicates:"), queued, len(pending))
			for _, s := range pending {
				fmt.Printf("  %.0f%%  %s / %s\n", s.Similarity*100, s.TransactionAID[:12], s.TransactionBID[:12])
			}
			return nil
		},
	}
}

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show per-month debit and credit totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			totals, err := a.transactions.PeriodTotals(cmd.Context())
			if err != nil {
				return err
			}
			if len(totals) == 0 {
				fmt.Println("no transactions loaded")
				return nil
			}
			fmt.Println(headerStyle.Render("Monthly totals"))
			for _, pt := range totals {
				amount := format.INR(pt.Total)
				switch pt.Direction {
				case repository.Debit:
					amount = debitStyle.Render(amount)
				case repository.Credit:
					amount = okStyle.Render(amount)
				}
				fmt.Printf("  %s  %-8s %s\n", pt.PeriodKey, pt.Direction, amount)
			}
			return nil
		},
	}
}
