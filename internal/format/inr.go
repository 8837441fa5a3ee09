// Package format renders amounts in the Indian numbering system.
package format

import (
	"fmt"
	"strings"
)

// INR formats an amount as rupees with lakh/crore grouping: the last three
// digits form one group, everything above groups in twos (₹12,34,567.89).
func INR(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	s := fmt.Sprintf("%.2f", amount)
	intPart, decPart, _ := strings.Cut(s, ".")

	var grouped string
	if len(intPart) <= 3 {
		grouped = intPart
	} else {
		lastThree := intPart[len(intPart)-3:]
		remaining := intPart[:len(intPart)-3]
		var groups []string
		for len(remaining) > 2 {
			groups = append([]string{remaining[len(remaining)-2:]}, groups...)
			remaining = remaining[:len(remaining)-2]
		}
		if remaining != "" {
			groups = append([]string{remaining}, groups...)
		}
		grouped = strings.Join(groups, ",") + "," + lastThree
	}

	out := "₹" + grouped + "." + decPart
	if negative {
		return "-" + out
	}
	return out
}
