package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestINR(t *testing.T) {
	t.Parallel()

	cases := map[float64]string{
		0:          "₹0.00",
		459:        "₹459.00",
		1459:       "₹1,459.00",
		123456:     "₹1,23,456.00",
		1234567.89: "₹12,34,567.89",
		12345678:   "₹1,23,45,678.00",
		-5000:      "-₹5,000.00",
	}
	for amount, want := range cases {
		require.Equal(t, want, INR(amount), "amount %v", amount)
	}
}
