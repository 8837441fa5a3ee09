package rules

import "strings"

// PaymentMethod identifies how a transaction was paid, from the account
// label, the raw description, and optionally the statement filename.
// Card accounts are decided first; everything else falls through a keyword
// waterfall ending at "Other".
func PaymentMethod(accountLabel, description, fileName string) string {
	desc := strings.ToLower(description)
	label := strings.ToLower(accountLabel)
	file := strings.ToLower(fileName)

	switch {
	case strings.Contains(label, "diners") || strings.Contains(file, "2508"):
		return "HDFC Diners Black CC"
	case strings.Contains(label, "regalia") || strings.Contains(file, "6598"):
		return "HDFC Regalia CC"
	case strings.Contains(label, "icici amazon pay") || strings.Contains(file, "creditcardstatement"):
		return "ICICI Amazon Pay CC"
	}

	if strings.Contains(desc, "upi-") || strings.Contains(desc, "upi ") {
		return "UPI"
	}
	if strings.Contains(desc, "nwd-") || strings.Contains(desc, "atm") || strings.Contains(desc, "cash withdrawal") {
		return "ATM Withdrawal"
	}
	for _, kw := range []string{"neft", "imps", "rtgs"} {
		if strings.Contains(desc, kw) {
			return "Direct Transfer"
		}
	}
	if strings.Contains(desc, "debit card") {
		switch {
		case strings.Contains(label, "hdfc"):
			return "HDFC Debit Card"
		case strings.Contains(label, "icici"):
			return "ICICI Debit Card"
		case strings.Contains(label, "sbi"):
			return "SBI Debit Card"
		}
		return "Debit Card"
	}
	if strings.Contains(desc, "chq") || strings.Contains(desc, "cheque") || strings.Contains(desc, "clearing") {
		return "Cheque"
	}
	return "Other"
}
