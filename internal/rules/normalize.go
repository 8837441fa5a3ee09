package rules

import (
	"regexp"
	"strings"
	"unicode"
)

// cleanRules strip transaction plumbing (UPI/NEFT/IMPS prefixes, VPA and
// bank-code suffixes, reference numbers) before merchant matching. Applied
// in order; each rule rewrites the working string.
var cleanRules = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)^upi[-/\s]+`), ""},
	{regexp.MustCompile(`@\w+$`), ""},
	{regexp.MustCompile(`\*\w+$`), ""},
	{regexp.MustCompile(`\s+\d{6,}.*$`), ""},
	{regexp.MustCompile(`(?i)^(neft|rtgs)\s*(dr|cr)?[-\s/]+[\w\d][-\w\d]*[-/\s]+`), ""},
	{regexp.MustCompile(`(?i)^imps[-/\s]*\d*[-/\s]*`), ""},
	{regexp.MustCompile(`(?i)^(imps|neft|rtgs)\s*$`), ""},
	{regexp.MustCompile(`(?i)^(dr|cr)[-/\s]+[\w\d]+[-/\s]+`), ""},
	{regexp.MustCompile(`-\d{8,}-.*$`), ""},
}

// merchantRules map descriptions to canonical merchant names. First match
// wins, so narrower patterns sit above the broader ones they overlap
// (Amazon Pay before Amazon, JioMart before Jio).
var merchantRules = []struct {
	pattern *regexp.Regexp
	name    string
}{
	{regexp.MustCompile(`(?i)nwd[-\s].*|atw[-\s].*|cash\s*withdrawal.*|atm\s*with.*|cash\s*wdl.*`), "ATM Withdrawal"},
	{regexp.MustCompile(`(?i)zomato`), "Zomato"},
	{regexp.MustCompile(`(?i)eternal\s*(limited|ltd)?`), "Eternal (Zomato/Blinkit)"},
	{regexp.MustCompile(`(?i)swiggy`), "Swiggy"},
	{regexp.MustCompile(`(?i)blinkit`), "Blinkit"},
	{regexp.MustCompile(`(?i)zepto`), "Zepto"},
	{regexp.MustCompile(`(?i)bigbasket`), "BigBasket"},
	{regexp.MustCompile(`(?i)dunzo`), "Dunzo"},
	{regexp.MustCompile(`(?i)avenue\s*supermarts`), "DMart (Avenue Supermarts)"},
	{regexp.MustCompile(`(?i)truffles\s*hospitality`), "Truffles Hospitality"},
	{regexp.MustCompile(`(?i)blue\s*tokai`), "Blue Tokai"},
	{regexp.MustCompile(`(?i)bikanervala`), "Bikanervala"},
	{regexp.MustCompile(`(?i)costa\s*coffee|costa\s*dt`), "Costa Coffee"},
	{regexp.MustCompile(`(?i)mcdonald`), "McDonald's"},
	{regexp.MustCompile(`(?i)domino`), "Domino's"},
	{regexp.MustCompile(`(?i)starbucks`), "Starbucks"},
	{regexp.MustCompile(`(?i)kfc`), "KFC"},
	{regexp.MustCompile(`(?i)carnatic\s*cafe`), "Carnatic Cafe"},
	{regexp.MustCompile(`(?i)jio\s*mart`), "JioMart"},
	{regexp.MustCompile(`(?i)dmart|d[\s-]?mart`), "DMart"},
	{regexp.MustCompile(`(?i)reliance\s*(fresh|smart)`), "Reliance Retail"},
	{regexp.MustCompile(`(?i)amazon\s*pay`), "Amazon Pay"},
	{regexp.MustCompile(`(?i)amazon`), "Amazon"},
	{regexp.MustCompile(`(?i)flipkart`), "Flipkart"},
	{regexp.MustCompile(`(?i)myntra`), "Myntra"},
	{regexp.MustCompile(`(?i)ajio`), "AJIO"},
	{regexp.MustCompile(`(?i)meesho`), "Meesho"},
	{regexp.MustCompile(`(?i)nykaa`), "Nykaa"},
	{regexp.MustCompile(`(?i)ubertrip|uber\s*trip`), "Uber"},
	{regexp.MustCompile(`(?i)uber`), "Uber"},
	{regexp.MustCompile(`(?i)olacabs|ola\s*cabs`), "Ola"},
	{regexp.MustCompile(`(?i)rapido`), "Rapido"},
	{regexp.MustCompile(`(?i)blu\s*smart`), "BluSmart"},
	{regexp.MustCompile(`(?i)fastag`), "FASTag"},
	{regexp.MustCompile(`(?i)netflix`), "Netflix"},
	{regexp.MustCompile(`(?i)hotstar|disney\s*\+`), "Hotstar"},
	{regexp.MustCompile(`(?i)spotify`), "Spotify"},
	{regexp.MustCompile(`(?i)youtube`), "YouTube"},
	{regexp.MustCompile(`(?i)prime\s*video|amazon\s*prime`), "Amazon Prime"},
	{regexp.MustCompile(`(?i)apple\s*services?|appleservi`), "Apple Services"},
	{regexp.MustCompile(`(?i)google\s*play|googleplay|playstore`), "Google Play"},
	{regexp.MustCompile(`(?i)noida\s*power|npcl`), "Noida Power (NPCL)"},
	{regexp.MustCompile(`(?i)indraprastha\s*gas`), "Indraprastha Gas"},
	{regexp.MustCompile(`(?i)tata\s*play`), "Tata Play"},
	{regexp.MustCompile(`(?i)airtel`), "Airtel"},
	{regexp.MustCompile(`(?i)jio`), "Jio"},
	{regexp.MustCompile(`(?i)irctc`), "IRCTC"},
	{regexp.MustCompile(`(?i)makemytrip`), "MakeMyTrip"},
	{regexp.MustCompile(`(?i)goibibo`), "Goibibo"},
	{regexp.MustCompile(`(?i)cleartrip`), "Cleartrip"},
	{regexp.MustCompile(`(?i)ease\s*my\s*trip|easemytrip`), "EaseMyTrip"},
	{regexp.MustCompile(`(?i)zerodha`), "Zerodha"},
	{regexp.MustCompile(`(?i)groww`), "Groww"},
	{regexp.MustCompile(`(?i)ppfas`), "PPFAS MF"},
	{regexp.MustCompile(`(?i)credclub|cred\.club`), "CRED"},
	{regexp.MustCompile(`(?i)hdfc\s*ergo`), "HDFC Ergo"},
	{regexp.MustCompile(`(?i)hdfc\s*life`), "HDFC Life"},
	{regexp.MustCompile(`(?i)star\s*health`), "Star Health"},
	{regexp.MustCompile(`(?i)acko`), "Acko"},
	{regexp.MustCompile(`(?i)alyve\s*health`), "Alyve Health"},
}

// Normalize cleans a raw bank description into a readable merchant name.
// Merchant patterns are tried against both the raw and the cleaned string
// since cleaning can strip the very token a pattern needs. When no merchant
// matches, the cleaned string is title-cased.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	cleaned := strings.TrimSpace(raw)
	for _, rule := range cleanRules {
		cleaned = rule.pattern.ReplaceAllString(cleaned, rule.replacement)
	}
	cleaned = strings.TrimSpace(cleaned)

	for _, rule := range merchantRules {
		if rule.pattern.MatchString(raw) || rule.pattern.MatchString(cleaned) {
			return rule.name
		}
	}

	if cleaned != "" {
		return titleCase(cleaned)
	}
	return titleCase(raw)
}

// titleCase capitalizes the first letter of every word, where a word starts
// after any non-letter.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
