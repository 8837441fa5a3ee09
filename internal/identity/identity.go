// Package identity derives the stable content hash used as the primary key
// and dedup token for transactions. The key format is fixed: changing the
// amount precision or the field separator changes every id and silently
// duplicates the whole store on the next import.
package identity

import (
	"crypto/sha256"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// TransactionID hashes (date, raw description, amount to 4 decimal places,
// account label) with a pipe separator. Deterministic across runs.
func TransactionID(occurredOn time.Time, rawDescription string, amount float64, accountLabel string) string {
	key := fmt.Sprintf("%s|%s|%.4f|%s", occurredOn.Format(dateLayout), rawDescription, amount, accountLabel)
	sum := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", sum[:])
}
