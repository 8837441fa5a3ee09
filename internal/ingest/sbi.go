package ingest

import (
	"errors"
	"io"
	"strings"

	"github.com/karanversation/terminator/internal/database/repository"
)

// SBISavingsParser reads the SBI savings CSV export. The statement opens
// with several rows of account metadata; the transaction header is the row
// carrying "Txn Date". Amount columns are matched loosely by name since the
// export wording varies ("Debit", "        Debit", "Credit" vs the interest
// credit column which is excluded).
type SBISavingsParser struct{}

func (p *SBISavingsParser) Parse(r io.Reader) ([]RawTransaction, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	headerIdx := -1
	for i, line := range lines {
		if strings.Contains(line, "Txn Date") {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, errors.New("header not found")
	}

	records, header, err := csvRecords(strings.Join(lines[headerIdx:], "\n"))
	if err != nil {
		return nil, err
	}

	dateCol := columnIndex(header, func(c string) bool {
		return strings.Contains(strings.ToLower(c), "txn date")
	})
	descCol := columnIndex(header, func(c string) bool {
		return strings.Contains(strings.ToLower(c), "description")
	})
	debitCol := columnIndex(header, func(c string) bool {
		return strings.Contains(strings.ToLower(c), "debit")
	})
	creditCol := columnIndex(header, func(c string) bool {
		lc := strings.ToLower(c)
		return strings.Contains(lc, "credit") && !strings.Contains(lc, "interest")
	})
	if dateCol == -1 || descCol == -1 {
		return nil, errors.New("required columns not found")
	}

	var out []RawTransaction
	for _, rec := range records {
		dateStr := cell(rec, dateCol)
		if dateStr == "" || dateStr == "Txn Date" {
			continue
		}
		date, err := parseDayFirstDate(dateStr)
		if err != nil {
			continue
		}
		debit, _ := parseAmount(cell(rec, debitCol))
		credit, _ := parseAmount(cell(rec, creditCol))
		// Adjustment rows carry negative values; neither direction may yield
		// a non-positive amount.
		if debit <= 0 && credit <= 0 {
			continue
		}

		amount, direction := debit, repository.Debit
		if debit <= 0 {
			amount, direction = credit, repository.Credit
		}
		out = append(out, RawTransaction{
			OccurredOn:     date,
			RawDescription: cell(rec, descCol),
			Amount:         amount,
			Direction:      direction,
			AccountLabel:   AccountSBI,
			AccountClass:   repository.Savings,
		})
	}
	if len(out) == 0 {
		return nil, errors.New("no valid transactions found")
	}
	return out, nil
}

var _ Parser = (*SBISavingsParser)(nil)
