package cli

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatDate formats a date for table display.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02-Jan-2006")
}

// FormatDateTime formats a datetime.
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02-Jan-2006 15:04")
}

// FormatPrice formats a price with appropriate decimal places.
func FormatPrice(price float64) string {
	if price >= 10 {
		return fmt.Sprintf("%.2f", price)
	}
	return fmt.Sprintf("%.4f", price)
}

// FormatRatio formats a profit-factor style ratio.
func FormatRatio(value float64) string {
	if math.IsInf(value, 1) {
		return "∞"
	}
	return fmt.Sprintf("%.2f", value)
}

// TruncateString shortens a string to max characters with an ellipsis.
func TruncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// FormatStreak renders a signed streak as "3W", "2L" or "-".
func FormatStreak(streak int) string {
	if streak > 0 {
		return fmt.Sprintf("%dW", streak)
	}
	if streak < 0 {
		return fmt.Sprintf("%dL", -streak)
	}
	return "-"
}

// FormatMonth renders a month for headings.
func FormatMonth(t time.Time) string {
	return t.Format("January 2006")
}

// joinOrDash joins a string slice or returns "-" when empty.
func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
