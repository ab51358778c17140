// Package cli provides the command-line interface for the rental client.
package cli

import (
	"fmt"
	"strings"

	"staymate/internal/models"
)

// FormatMoney formats an amount as dollars with thousands separators.
func FormatMoney(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(str, ".")
	intPart := groupThousands(parts[0])

	result := "$" + intPart + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var groups []string
	for n > 3 {
		groups = append([]string{s[n-3:]}, groups...)
		s = s[:n-3]
		n = len(s)
	}
	return s + "," + strings.Join(groups, ",")
}

// FormatRange formats a date range for display.
func FormatRange(r models.DateRange) string {
	nights := r.Nights()
	unit := "nights"
	if nights == 1 {
		unit = "night"
	}
	return fmt.Sprintf("%s → %s (%d %s)", r.Start, r.End, nights, unit)
}

// FormatStars renders a star rating like "★★★★☆ 4.2".
func FormatStars(rating float64) string {
	if rating <= 0 {
		return "no reviews"
	}
	full := int(rating + 0.5)
	if full > 5 {
		full = 5
	}
	return strings.Repeat("★", full) + strings.Repeat("☆", 5-full) + fmt.Sprintf(" %.1f", rating)
}
