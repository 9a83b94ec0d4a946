package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// datePatterns cover slash/dash numeric dates, spelled-out months, two-digit
// years, and optional trailing times. Group 1 is the date portion.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2}[/\-]\d{1,2}[/\-]\d{4})`),
	regexp.MustCompile(`(\d{4}[/\-]\d{1,2}[/\-]\d{1,2})`),
	regexp.MustCompile(`(?i)(\d{1,2}\s+[A-Za-z]{3,9}\s+\d{4})`),
	regexp.MustCompile(`(?i)([A-Za-z]{3,9}\s+\d{1,2},?\s+\d{4})`),
	regexp.MustCompile(`(\d{1,2}[/\-]\d{1,2}[/\-]\d{2})\b`),
	regexp.MustCompile(`(\d{1,2}[/\-]\d{1,2}[/\-]\d{4})\s+\d{1,2}[.:]\d{2}`),
	regexp.MustCompile(`(\d{4}[/\-]\d{1,2}[/\-]\d{1,2})\s+\d{1,2}[.:]\d{2}`),
}

var monthLayouts = []string{
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
}

// ExtractDate finds the first recognizable date in the corrected text and
// returns it as YYYY-MM-DD. Falls back to now when no line parses.
func ExtractDate(corrected string, now time.Time) string {
	for _, line := range strings.Split(corrected, "\n") {
		for _, p := range datePatterns {
			m := p.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if iso, ok := parseDateString(m[1]); ok {
				return iso
			}
		}
	}
	return now.Format("2006-01-02")
}

// parseDateString disambiguates numeric dates heuristically: a first
// component above 31 is a year, above 12 a day, otherwise a month.
func parseDateString(s string) (string, bool) {
	if strings.ContainsAny(s, "/-") {
		parts := regexp.MustCompile(`[/\-]`).Split(s, -1)
		if len(parts) != 3 {
			return "", false
		}
		p0, err0 := strconv.Atoi(parts[0])
		p1, err1 := strconv.Atoi(parts[1])
		p2, err2 := strconv.Atoi(parts[2])
		if err0 != nil || err1 != nil || err2 != nil {
			return "", false
		}

		var year, month, day int
		switch {
		case p0 > 31:
			year, month, day = p0, p1, p2
		case p0 > 12:
			day, month, year = p0, p1, p2
		default:
			month, day, year = p0, p1, p2
		}
		if year < 100 {
			year += 2000
		}

		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if t.Year() != year || int(t.Month()) != month || t.Day() != day {
			return "", false
		}
		return t.Format("2006-01-02"), true
	}

	normalized := strings.Join(strings.Fields(s), " ")
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
