package extract

import (
	"regexp"
	"strings"
)

// OCR error correction runs in two ordered passes:
//
//  1. vocabulary pass: keyword and currency-symbol misreads are fixed while
//     the letters are still intact ("TOTAI" -> "TOTAL", "R5 " -> "Rs ");
//  2. digit pass: letter/digit confusions and decimal-separator noise are
//     normalized, but only inside amount-shaped runs that already contain a
//     real digit ("4S.5O" -> "45.50").
//
// The digit pass never touches ordinary words, so applying the corrector a
// second time is a no-op.

type substitution struct {
	pattern *regexp.Regexp
	repl    string
}

// vocabSubs apply in order, case-insensitively, on word boundaries.
var vocabSubs = []substitution{
	{regexp.MustCompile(`(?i)\bSUBTO[TI]A[I1l]?\b`), "SUBTOTAL"},
	{regexp.MustCompile(`(?i)\bTO[TI]A[I1l]?\b`), "TOTAL"},
	{regexp.MustCompile(`(?i)\bAMOUN[7T]?\b`), "AMOUNT"},
	{regexp.MustCompile(`(?i)\bBA[I1l]ANCE\b`), "BALANCE"},
	{regexp.MustCompile(`(?i)\bPAYAB[I1l]E\b`), "PAYABLE"},

	// rupee prefix misreads collapse onto the canonical "Rs "
	{regexp.MustCompile(`(?i)\b(?:R5|R8|FB|F5|Fs|INR|Rs)\s+`), "Rs "},
	{regexp.MustCompile(`₹\s+`), "₹ "},

	// dollar sign misreads
	{regexp.MustCompile(`[S8B5]\$`), "$"},
	{regexp.MustCompile(`§`), "$"},
}

// amountish matches decimal-shaped runs whose characters are digits or
// digit-confusable letters. The mandatory [0-9] keeps plain words out.
var amountish = regexp.MustCompile(`[0-9OoIiLlSsZzGgTtBb]*[0-9][0-9OoIiLlSsZzGgTtBb]*(?:[.,;:][0-9OoIiLlSsZzGgTtBb]{2})?`)

var digitConfusions = strings.NewReplacer(
	"O", "0", "o", "0",
	"I", "1", "i", "1",
	"L", "1", "l", "1",
	"Z", "2", "z", "2",
	"S", "5", "s", "5",
	"G", "6", "g", "6",
	"T", "7", "t", "7",
	"B", "8", "b", "8",
	",", ".", ";", ".", ":", ".",
)

// CorrectText counteracts systematic OCR misreads. Pure; idempotent.
func CorrectText(text string) string {
	for _, s := range vocabSubs {
		text = s.pattern.ReplaceAllString(text, s.repl)
	}
	return amountish.ReplaceAllStringFunc(text, digitConfusions.Replace)
}
