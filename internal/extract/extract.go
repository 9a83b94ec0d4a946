// Package extract turns corrected OCR text into structured receipt fields
// using prioritized regular-expression heuristics. Everything here is pure:
// no network, no shared state.
package extract

import (
	"time"
)

// BasicResult is the deterministic extraction outcome. Absent fields degrade
// to their documented defaults instead of failing: empty vendor, zero amount,
// today's date.
type BasicResult struct {
	Vendor string
	Amount float64
	Date   string // YYYY-MM-DD
}

// ExtractBasic corrects the raw OCR text once and runs the three independent
// sub-extractors over it. Always total; never errors.
func ExtractBasic(text string, now time.Time) BasicResult {
	corrected := CorrectText(text)
	return BasicResult{
		Vendor: ExtractVendor(corrected),
		Amount: ExtractAmount(corrected),
		Date:   ExtractDate(corrected, now),
	}
}
