// Package ingest parses institution-specific statement exports into raw
// transactions. Each parser is tolerant of junk rows: preamble, totals and
// malformed lines are skipped, and only a missing header or an empty result
// fails the whole file.
package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/karanversation/terminator/internal/database/repository"
)

// Account labels as they appear in statements and the store.
const (
	AccountHDFCDiners  = "HDFC Diners Black CC"
	AccountHDFCRegalia = "HDFC Regalia CC"
	AccountHDFCSavings = "HDFC Savings Account"
	AccountICICISaving = "ICICI Savings Account"
	AccountICICICard   = "ICICI Amazon Pay CC"
	AccountSBI         = "SBI Account"
)

// RawTransaction is one statement line before enrichment. Amount is always
// positive; Direction carries the sign.
type RawTransaction struct {
	OccurredOn     time.Time
	RawDescription string
	Amount         float64
	Direction      repository.Direction
	AccountLabel   string
	AccountClass   repository.AccountClass
}

// Parser converts one statement file into raw transactions.
type Parser interface {
	Parse(r io.Reader) ([]RawTransaction, error)
}

// ParserFor maps a source group (the folder a statement lives in) and the
// filename to a parser. HDFC issues one card export format for two cards, so
// the card is picked off the filename: exports carrying "2508" belong to the
// Diners card.
func ParserFor(group, filename string) (Parser, bool) {
	switch group {
	case "hdfc_cc":
		label := AccountHDFCRegalia
		if strings.Contains(filename, "2508") {
			label = AccountHDFCDiners
		}
		return &HDFCCardParser{AccountLabel: label}, true
	case "hdfc_savings":
		return &HDFCSavingsParser{}, true
	case "icici_cc":
		return &ICICICardParser{}, true
	case "icici_savings":
		return &ICICISavingsParser{}, true
	case "sbi":
		return &SBISavingsParser{}, true
	}
	return nil, false
}

// SourceGroups lists the recognized folder names in load order.
func SourceGroups() []string {
	return []string{"hdfc_cc", "hdfc_savings", "icici_cc", "icici_savings", "sbi"}
}

var dayFirstLayouts = []string{
	"02/01/2006",
	"02/01/06",
	"02-01-2006",
	"02-01-06",
	"2/1/2006",
	"2/1/06",
	"02 Jan 2006",
	"2 Jan 2006",
	"2006-01-02",
}

// parseDayFirstDate parses the day-first date formats Indian banks emit.
func parseDayFirstDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseAmount parses a statement amount, tolerating thousands separators and
// stray quotes. Returns 0 for blank input.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(s, ",", ""), `"`, ""))
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func readLines(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n"), nil
}
