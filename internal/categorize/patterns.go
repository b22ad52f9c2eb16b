package categorize

import (
	"strings"
)

// Pattern extraction pulls generic merchant tokens out of a description so
// user feedback can generalize to future transactions. Descriptions that do
// not look like a business produce no patterns at all: learning a person's
// name from a Venmo/Zelle style transfer would poison the overlay.

// businessSuffixes are legal-entity markers that identify a description as a
// business rather than a person.
var businessSuffixes = []string{
	" llc", " inc", " corp", " ltd", " plc", " co.", " company", " gmbh",
}

// brandTokens are merchant names recognized as businesses on their own.
var brandTokens = map[string]bool{
	"netflix": true, "amazon": true, "spotify": true, "starbucks": true,
	"uber": true, "lyft": true, "walmart": true, "target": true,
	"costco": true, "apple": true, "google": true, "microsoft": true,
	"shell": true, "chevron": true, "comcast": true, "verizon": true,
	"hulu": true, "disney": true, "paypal": true, "airbnb": true,
	"doordash": true, "grubhub": true, "instacart": true, "chipotle": true,
}

// stopTokens are processor noise that carries no merchant signal.
var stopTokens = map[string]bool{
	"the": true, "and": true, "for": true, "pos": true, "debit": true,
	"credit": true, "card": true, "purchase": true, "payment": true,
	"from": true, "with": true, "online": true, "web": true, "via": true,
	"pending": true, "recurring": true, "auth": true,
}

// extractPatterns returns the candidate pattern tokens for a description,
// or nil when the description does not pass the business-indicator check.
func extractPatterns(description string) []string {
	desc := strings.ToLower(strings.TrimSpace(description))
	if desc == "" || !looksLikeBusiness(desc) {
		return nil
	}

	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return ' '
	}, desc)

	var out []string
	seen := make(map[string]bool)
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) < 3 || stopTokens[tok] || isNumeric(tok) || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}

	// A two-token prefix keeps multi-word merchants distinguishable from
	// their individual tokens ("whole foods" vs "foods").
	if len(out) >= 2 {
		bigram := out[0] + " " + out[1]
		if !seen[bigram] {
			out = append(out, bigram)
		}
	}

	return out
}

// looksLikeBusiness reports whether a description plausibly names a business:
// a legal-entity suffix, a recognized brand token, or card-processor
// artifacts (digits, "*" separators) qualify; bare personal names do not.
func looksLikeBusiness(desc string) bool {
	for _, s := range businessSuffixes {
		if strings.Contains(desc, s) || strings.HasSuffix(desc, strings.TrimRight(s, " .")) {
			return true
		}
	}
	for _, tok := range strings.Fields(desc) {
		if brandTokens[strings.Trim(tok, "*#.,")] {
			return true
		}
	}
	if strings.ContainsAny(desc, "*#") {
		return true
	}
	for _, r := range desc {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
