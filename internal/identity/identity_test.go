package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTransactionIDDeterministic(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	a := TransactionID(date, "UPI-ZOMATO-zomato@hdfcbank", 459.00, "HDFC Savings Account")
	b := TransactionID(date, "UPI-ZOMATO-zomato@hdfcbank", 459.00, "HDFC Savings Account")
	require.Equal(t, a, b)
	require.Len(t, a, 64)
}

func TestTransactionIDSensitivity(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	base := TransactionID(date, "UPI-ZOMATO", 459.00, "HDFC Savings Account")

	require.NotEqual(t, base, TransactionID(date.AddDate(0, 0, 1), "UPI-ZOMATO", 459.00, "HDFC Savings Account"))
	require.NotEqual(t, base, TransactionID(date, "UPI-SWIGGY", 459.00, "HDFC Savings Account"))
	require.NotEqual(t, base, TransactionID(date, "UPI-ZOMATO", 459.01, "HDFC Savings Account"))
	require.NotEqual(t, base, TransactionID(date, "UPI-ZOMATO", 459.00, "ICICI Savings Account"))
}

func TestTransactionIDIgnoresTimeOfDay(t *testing.T) {
	t.Parallel()

	morning := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 14, 21, 0, 0, 0, time.UTC)
	require.Equal(t,
		TransactionID(morning, "ATW-512967XXXXXX1234", 10000, "HDFC Savings Account"),
		TransactionID(evening, "ATW-512967XXXXXX1234", 10000, "HDFC Savings Account"),
	)
}
