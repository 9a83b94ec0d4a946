package extract

import (
	"regexp"
	"strings"
)

// Only the first few lines of a receipt name the merchant.
const vendorScanLines = 8

var knownChains = regexp.MustCompile(`(?i)(WALMART|TARGET|STARBUCKS|DOMINO'S|MCDONALD'S|SUBWAY|AMAZON|COSTCO|HOME DEPOT|SHELL|EXXON|BP|CVS|WALGREENS|KROGER|SAFEWAY)`)

// vendorPatterns run in order; the first match on a qualifying line wins.
var vendorPatterns = []*regexp.Regexp{
	knownChains,
	regexp.MustCompile(`^([A-Z][A-Z\s&'.-]+[A-Z])$`),         // all-caps header line
	regexp.MustCompile(`^([A-Z][A-Za-z\s&'.-]{2,30})$`),      // title-case name
	regexp.MustCompile(`(?i)^([A-Za-z\s&'.-]+(?:LLC|INC|CORP|CO|LTD))$`),
	regexp.MustCompile(`^([A-Za-z\s&'.-]+)\s*#?\d+$`),        // "STORE NAME #1234"
}

var vendorSkip = regexp.MustCompile(`(?i)^\d+$|^[\d\s\-.]+$|^(RECEIPT|INVOICE|BILL|THANK YOU)`)

var vendorStrip = regexp.MustCompile(`[^\w\s&'.-]`)

// ExtractVendor scans the top of the corrected text for a merchant name.
// Returns "" when nothing plausible is found; the caller decides what a
// missing vendor means.
func ExtractVendor(corrected string) string {
	var lines []string
	for _, line := range strings.Split(corrected, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	limit := vendorScanLines
	if len(lines) < limit {
		limit = len(lines)
	}

	for i := 0; i < limit; i++ {
		line := lines[i]
		if vendorSkip.MatchString(line) {
			continue
		}
		for _, p := range vendorPatterns {
			m := p.FindStringSubmatch(line)
			if m == nil || len(m[1]) <= 2 {
				continue
			}
			return cleanVendor(m[1])
		}
	}
	return ""
}

func cleanVendor(vendor string) string {
	vendor = strings.TrimSpace(vendorStrip.ReplaceAllString(vendor, ""))

	words := strings.Fields(vendor)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
