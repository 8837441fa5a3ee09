package repository

import "time"

// Direction of money movement. Transfer marks internal movement excluded
// from expense/income totals; the Debit -> Transfer transition is one-way.
type Direction string

const (
	Debit    Direction = "Debit"
	Credit   Direction = "Credit"
	Transfer Direction = "Transfer"
)

// AccountClass determines which reconciliation and dedup rules apply.
type AccountClass string

const (
	Savings    AccountClass = "savings"
	CreditCard AccountClass = "credit_card"
)

// CategorySource records the provenance of a category assignment. Only
// rule-sourced rows are eligible for automatic re-categorization.
type CategorySource string

const (
	SourceRule   CategorySource = "rule"
	SourceManual CategorySource = "manual"
	SourceLLM    CategorySource = "llm"
)

// CatchAllCategory is assigned when no rule matches.
const CatchAllCategory = "Miscellaneous"

// InternalTransferCategory tags both legs of a matched transfer pair.
const InternalTransferCategory = "Internal Transfer"

// Transaction is the persisted canonical record. The id is a content hash of
// (occurred_on, raw_description, amount, account_label); see identity.TransactionID.
type Transaction struct {
	ID                    string
	OccurredOn            time.Time
	NormalizedDescription *string
	RawDescription        string
	Amount                float64
	Direction             Direction
	AccountLabel          string
	AccountClass          AccountClass
	Category              *string
	CategorySource        CategorySource
	PaymentMethod         string
	PeriodKey             string
}

// Description returns the normalized description, falling back to raw.
func (t Transaction) Description() string {
	if t.NormalizedDescription != nil && *t.NormalizedDescription != "" {
		return *t.NormalizedDescription
	}
	return t.RawDescription
}

// DuplicateSuspect is a same-account pair whose descriptions are close but
// whose content ids differ, queued for human review.
type DuplicateSuspect struct {
	ID             string
	TransactionAID string
	TransactionBID string
	Similarity     float64
	Status         string
	CreatedAt      time.Time
}

// PeriodTotal is a per-month aggregate used by the CLI summary.
type PeriodTotal struct {
	PeriodKey string
	Direction Direction
	Total     float64
}
