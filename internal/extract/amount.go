package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Amounts above this are treated as OCR noise, never surfaced.
const maxAmount = 999999

// AmountCandidate is one scored match found in the corrected text.
type AmountCandidate struct {
	Value      float64
	SourceLine string
	Priority   int
}

type amountPattern struct {
	re     *regexp.Regexp
	global bool
}

// amountPatterns mix currency-anchored, keyword-anchored, and bare-decimal
// matchers, ordered from most to least specific. Group 1 is always the value.
var amountPatterns = []amountPattern{
	{re: regexp.MustCompile(`(?i)(?:TOTAL|AMOUNT|BALANCE|GRAND\s*TOTAL|SUBTOTAL|AMOUNT\s*DUE|PAYABLE)[:\s]*(?:Rs|₹|INR)?\s*(\d+[.,]\d{2})`)},
	{re: regexp.MustCompile(`(?i)(?:Rs|₹)\s*(\d+[.,]\d{2})`)},
	{re: regexp.MustCompile(`(?i)(\d+[.,]\d{2})\s*(?:Rs|₹|INR)?\s*(?:TOTAL|AMOUNT|BALANCE|$)`)},
	{re: regexp.MustCompile(`(?i)[FR][s5]\s*(\d+[.,]\d{2})`), global: true},
	{re: regexp.MustCompile(`(?i)R[s58]\s*(\d+[.,]\d{2})`), global: true},
	{re: regexp.MustCompile(`(?i)INR\s*(\d+[.,]\d{2})`), global: true},
	{re: regexp.MustCompile(`(?i)(?:TOTAL|AMOUNT|BALANCE|GRAND\s*TOTAL|SUBTOTAL|AMOUNT\s*DUE|PAYABLE)[:\s]*[$£€¥₹₨₽¢]*\s*(\d+[.,]\d{2})`)},
	{re: regexp.MustCompile(`(?i)[$£€¥₹₨₽¢]\s*(\d+[.,]\d{2})`)},
	{re: regexp.MustCompile(`(?i)(\d+[.,]\d{2})\s*[$£€¥₹₨₽¢]?\s*(?:TOTAL|AMOUNT|BALANCE|$)`)},
	{re: regexp.MustCompile(`[S8B§5]\s*(\d+[.,]\d{2})`), global: true},
	{re: regexp.MustCompile(`(?i)(?:TOTAL|AMOUNT|BALANCE)[:\s]*(\d+,\d{2})`)},
	{re: regexp.MustCompile(`(?i)(?:TOTAL|AMOUNT|BALANCE)[:\s]*(\d+\.\d{2})`)},
	{re: regexp.MustCompile(`\$\s*(\d+[.,]\d{2})`), global: true},
	{re: regexp.MustCompile(`(\d+[.,]\d{2})`), global: true},
}

// CollectAmountCandidates scans corrected text line by line (deduplicating
// lines case-insensitively) and returns every in-band candidate in encounter
// order. Pure; decoupled from OCR and image code so synthetic receipts can
// exercise it directly.
func CollectAmountCandidates(corrected string) []AmountCandidate {
	var candidates []AmountCandidate
	seen := make(map[string]struct{})

	for _, line := range strings.Split(corrected, "\n") {
		key := strings.ToLower(strings.TrimSpace(line))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		for _, p := range amountPatterns {
			if p.global {
				for _, m := range p.re.FindAllStringSubmatch(line, -1) {
					candidates = appendCandidate(candidates, line, m[1])
				}
			} else {
				if m := p.re.FindStringSubmatch(line); m != nil {
					candidates = appendCandidate(candidates, line, m[1])
				}
			}
		}
	}
	return candidates
}

func appendCandidate(candidates []AmountCandidate, line, raw string) []AmountCandidate {
	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || value <= 0 || value >= maxAmount {
		return candidates
	}
	return append(candidates, AmountCandidate{
		Value:      value,
		SourceLine: strings.TrimSpace(line),
		Priority:   PriorityScore(line),
	})
}

// PriorityScore ranks a line by total/balance-like keywords. Additive over
// whichever keywords the line contains.
func PriorityScore(line string) int {
	score := 0
	lower := strings.ToLower(line)

	if strings.Contains(lower, "total") {
		score += 10
	}
	if strings.Contains(lower, "amount due") {
		score += 9
	}
	if strings.Contains(lower, "balance") {
		score += 8
	}
	if strings.Contains(lower, "subtotal") {
		score += 7
	}
	if strings.Contains(lower, "amount") {
		score += 6
	}

	if strings.Contains(lower, "tax") {
		score -= 3
	}
	if strings.Contains(lower, "tip") {
		score -= 3
	}
	if strings.Contains(lower, "change") {
		score -= 5
	}
	return score
}

// ExtractAmount picks the highest-priority candidate; ties go to the one
// encountered first. 0 means no amount was found.
func ExtractAmount(corrected string) float64 {
	candidates := CollectAmountCandidates(corrected)
	if len(candidates) == 0 {
		return 0
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Priority > best.Priority {
			best = c
		}
	}
	return best.Value
}
