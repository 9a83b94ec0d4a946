// Package currency renders amounts for display. Indian-style grouping puts
// the rightmost three digits together and groups by two after that
// (1234567.89 -> "₹12,34,567.89").
package currency

import (
	"fmt"
	"math"
	"strings"
)

// FormatINR formats an amount as rupees with lakh/crore digit grouping.
// Non-finite or non-positive-representable input renders as "₹0.00".
func FormatINR(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "₹0.00"
	}

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	whole := fmt.Sprintf("%.2f", amount)
	dot := strings.Index(whole, ".")
	intPart, fracPart := whole[:dot], whole[dot+1:]

	return sign + "₹" + groupIndian(intPart) + "." + fracPart
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	groups = append(groups, tail)
	return strings.Join(groups, ",")
}
