package ingest

import (
	"errors"
	"io"
	"regexp"
	"strings"

	"github.com/karanversation/terminator/internal/database/repository"
)

// HDFCCardParser reads the tilde-delimited credit card export HDFC issues
// for both the Diners and Regalia cards.
type HDFCCardParser struct {
	AccountLabel string
}

const hdfcCardHeaderPrefix = "Transaction type~Primary"

func (p *HDFCCardParser) Parse(r io.Reader) ([]RawTransaction, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	headerIdx := -1
	for i, line := range lines {
		if strings.HasPrefix(line, hdfcCardHeaderPrefix) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return nil, errors.New("header not found")
	}

	headers := strings.Split(strings.TrimSpace(lines[headerIdx]), "~")
	col := make(map[string]int, len(headers))
	for i, h := range headers {
		col[h] = i
	}
	field := func(cols []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(cols) {
			return ""
		}
		return strings.TrimSpace(cols[i])
	}

	var out []RawTransaction
	for _, line := range lines[headerIdx+1:] {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Opening Bal") || strings.HasPrefix(line, "Programms") {
			continue
		}
		cols := strings.Split(line, "~")
		if len(cols) < len(headers) {
			continue
		}

		dateStr := field(cols, "DATE")
		amtStr := field(cols, "AMT")
		if dateStr == "" || amtStr == "" {
			continue
		}
		// The DATE column sometimes carries a time component.
		if idx := strings.IndexByte(dateStr, ' '); idx > 0 {
			dateStr = dateStr[:idx]
		}
		date, err := parseDayFirstDate(dateStr)
		if err != nil {
			continue
		}
		amount, err := parseAmount(amtStr)
		if err != nil || amount <= 0 {
			continue
		}

		direction := repository.Debit
		if strings.EqualFold(field(cols, "Debit / Credit"), "cr") {
			direction = repository.Credit
		}
		out = append(out, RawTransaction{
			OccurredOn:     date,
			RawDescription: field(cols, "Description"),
			Amount:         amount,
			Direction:      direction,
			AccountLabel:   p.AccountLabel,
			AccountClass:   repository.CreditCard,
		})
	}
	return out, nil
}

// HDFCSavingsParser reads the fixed-width TXT savings statement. Column
// boundaries for the amount fields come from the dash ruler under the header;
// when the ruler is missing the usual export widths are assumed.
type HDFCSavingsParser struct{}

var hdfcDatePrefix = regexp.MustCompile(`^\d{2}/\d{2}/\d{2,4}`)

func (p *HDFCSavingsParser) Parse(r io.Reader) ([]RawTransaction, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	// Defaults match the common export layout.
	wStart, wEnd := 80, 98
	dStart, dEnd := 100, 118
	for _, line := range lines {
		if strings.Contains(line, "--------") && !strings.Contains(line, "Withdrawal") {
			// The last three dash groups underline Withdrawal, Deposit, Balance.
			groups := dashGroups(line)
			if len(groups) >= 3 {
				wStart, wEnd = groups[len(groups)-3][0], groups[len(groups)-3][1]
				dStart, dEnd = groups[len(groups)-2][0], groups[len(groups)-2][1]
			}
			break
		}
	}

	var out []RawTransaction
	for _, line := range lines {
		if !hdfcDatePrefix.MatchString(strings.TrimSpace(line)) {
			continue
		}
		date, err := parseDayFirstDate(slice(line, 0, 8))
		if err != nil {
			continue
		}
		narration := slice(line, 10, 52)

		withdrawal := fixedWidthAmount(line, wStart, wEnd)
		deposit := fixedWidthAmount(line, dStart, dEnd)

		var amount float64
		var direction repository.Direction
		switch {
		case withdrawal > 0 && deposit == 0:
			amount, direction = withdrawal, repository.Debit
		case deposit > 0 && withdrawal == 0:
			amount, direction = deposit, repository.Credit
		case withdrawal > 0 && deposit > 0:
			// Both populated is malformed; keep the larger value.
			if withdrawal >= deposit {
				amount, direction = withdrawal, repository.Debit
			} else {
				amount, direction = deposit, repository.Credit
			}
		default:
			continue
		}

		out = append(out, RawTransaction{
			OccurredOn:     date,
			RawDescription: narration,
			Amount:         amount,
			Direction:      direction,
			AccountLabel:   AccountHDFCSavings,
			AccountClass:   repository.Savings,
		})
	}
	return out, nil
}

// dashGroups returns the [start, end) spans of consecutive dashes in line.
func dashGroups(line string) [][2]int {
	var groups [][2]int
	start, inDash := 0, false
	for i := 0; i < len(line); i++ {
		if line[i] == '-' {
			if !inDash {
				start, inDash = i, true
			}
		} else if inDash {
			groups = append(groups, [2]int{start, i})
			inDash = false
		}
	}
	if inDash {
		groups = append(groups, [2]int{start, len(line)})
	}
	return groups
}

// slice returns the trimmed substring of line between byte positions,
// clamped to the line length.
func slice(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return strings.TrimSpace(line[start:end])
}

// fixedWidthAmount extracts an amount column, requiring the line to extend
// past the column and the content to be purely numeric.
func fixedWidthAmount(line string, start, end int) float64 {
	if len(line) <= end {
		return 0
	}
	s := strings.ReplaceAll(slice(line, start, end), ",", "")
	if s == "" || !isNumeric(s) {
		return 0
	}
	v, err := parseAmount(s)
	if err != nil {
		return 0
	}
	return v
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c == '.' || c == '-' {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
