package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/karanversation/terminator/internal/database/repository"
)

// ICICISavingsParser reads the savings account CSV export. The file opens
// with account preamble; the transaction header is the row carrying both
// "S No." and "Transaction Date".
type ICICISavingsParser struct{}

func (p *ICICISavingsParser) Parse(r io.Reader) ([]RawTransaction, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	headerIdx := -1
	for i, line := range lines {
		if strings.Contains(line, "S No.") && strings.Contains(line, "Transaction Date") {
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

	sNoCol := columnIndex(header, func(c string) bool { return strings.Contains(c, "S No.") })
	dateCol := columnIndex(header, func(c string) bool { return strings.Contains(c, "Transaction Date") })
	remarksCol := columnIndex(header, func(c string) bool { return strings.Contains(c, "Transaction Remarks") })
	withdrawalCol := columnIndex(header, func(c string) bool {
		lc := strings.ToLower(c)
		return strings.Contains(lc, "withdrawal") && strings.Contains(lc, "inr")
	})
	depositCol := columnIndex(header, func(c string) bool {
		lc := strings.ToLower(c)
		return strings.Contains(lc, "deposit") && strings.Contains(lc, "inr")
	})
	if sNoCol == -1 || dateCol == -1 {
		return nil, errors.New("required columns not found")
	}

	var out []RawTransaction
	for _, rec := range records {
		if cell(rec, sNoCol) == "" || cell(rec, dateCol) == "" {
			continue
		}
		date, err := parseDayFirstDate(cell(rec, dateCol))
		if err != nil {
			continue
		}
		withdrawal, _ := parseAmount(cell(rec, withdrawalCol))
		deposit, _ := parseAmount(cell(rec, depositCol))
		// Reversal rows carry negative values; neither direction may yield a
		// non-positive amount.
		if withdrawal <= 0 && deposit <= 0 {
			continue
		}

		amount, direction := withdrawal, repository.Debit
		if withdrawal <= 0 {
			amount, direction = deposit, repository.Credit
		}
		out = append(out, RawTransaction{
			OccurredOn:     date,
			RawDescription: cell(rec, remarksCol),
			Amount:         amount,
			Direction:      direction,
			AccountLabel:   AccountICICISaving,
			AccountClass:   repository.Savings,
		})
	}
	if len(out) == 0 {
		return nil, errors.New("no valid transactions found")
	}
	return out, nil
}

// ICICICardParser reads the Amazon Pay credit card CSV. The row after the
// header repeats the masked card number in the Date column and is skipped.
// An empty BillingAmountSign means spend; "CR" means payment or refund.
type ICICICardParser struct{}

func (p *ICICICardParser) Parse(r io.Reader) ([]RawTransaction, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	headerIdx := -1
	for i, line := range lines {
		if strings.Contains(line, `"Date"`) &&
			strings.Contains(line, `"Transaction Details"`) &&
			strings.Contains(line, `"Amount(in Rs)"`) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, errors.New("credit card header not found")
	}

	records, header, err := csvRecords(strings.Join(lines[headerIdx:], "\n"))
	if err != nil {
		return nil, err
	}
	dateCol := columnIndex(header, func(c string) bool { return c == "Date" })
	detailsCol := columnIndex(header, func(c string) bool { return strings.Contains(c, "Transaction Details") })
	amountCol := columnIndex(header, func(c string) bool { return strings.Contains(c, "Amount(in Rs)") })
	signCol := columnIndex(header, func(c string) bool { return strings.Contains(c, "BillingAmountSign") })
	if dateCol == -1 || detailsCol == -1 || amountCol == -1 {
		return nil, errors.New("required columns not found")
	}

	var out []RawTransaction
	for _, rec := range records {
		dateStr := cell(rec, dateCol)
		if dateStr == "" || strings.Contains(dateStr, "XXXX") {
			continue
		}
		date, err := parseDayFirstDate(dateStr)
		if err != nil {
			continue
		}
		description := cell(rec, detailsCol)
		if description == "" {
			continue
		}
		amount, err := parseAmount(cell(rec, amountCol))
		if err != nil || amount <= 0 {
			continue
		}

		direction := repository.Debit
		if strings.EqualFold(cell(rec, signCol), "CR") {
			direction = repository.Credit
		}
		out = append(out, RawTransaction{
			OccurredOn:     date,
			RawDescription: description,
			Amount:         amount,
			Direction:      direction,
			AccountLabel:   AccountICICICard,
			AccountClass:   repository.CreditCard,
		})
	}
	if len(out) == 0 {
		return nil, errors.New("no valid transactions found")
	}
	return out, nil
}

// csvRecords parses CSV text whose first row is the header. Malformed rows
// are dropped rather than failing the file.
func csvRecords(text string) ([][]string, []string, error) {
	csvr := csv.NewReader(bufio.NewReader(strings.NewReader(text)))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1
	csvr.LazyQuotes = true

	header, err := csvr.Read()
	if err != nil {
		return nil, nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records [][]string
	for {
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, header, nil
}

func columnIndex(header []string, match func(string) bool) int {
	for i, c := range header {
		if match(c) {
			return i
		}
	}
	return -1
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
