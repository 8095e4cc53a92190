package utils

import (
	"math"
	"regexp"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// For any amount, FormatIndianCurrency should produce a ₹-prefixed value
// with two decimal places and Indian digit grouping (3 digits from the
// right, then groups of 2), and parsing it back should preserve the value.
func TestProperty_IndianCurrencyFormatting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	indianPattern := regexp.MustCompile(`^(\d{1,2},)*\d{1,3}$`)

	properties.Property("FormatIndianCurrency produces valid Indian format", prop.ForAll(
		func(amount float64) bool {
			if math.IsNaN(amount) || math.IsInf(amount, 0) {
				return true
			}

			formatted := FormatIndianCurrency(amount)

			if amount >= 0 {
				if !strings.HasPrefix(formatted, "₹") {
					t.Logf("Expected ₹ prefix for %f, got %s", amount, formatted)
					return false
				}
			} else if !strings.HasPrefix(formatted, "-₹") {
				t.Logf("Expected -₹ prefix for %f, got %s", amount, formatted)
				return false
			}

			parts := strings.Split(formatted, ".")
			if len(parts) != 2 || len(parts[1]) != 2 {
				t.Logf("Expected 2 decimal places for %f, got %s", amount, formatted)
				return false
			}

			numPart := strings.TrimPrefix(formatted, "-")
			numPart = strings.TrimPrefix(numPart, "₹")
			numPart = strings.Split(numPart, ".")[0]
			if !indianPattern.MatchString(numPart) {
				t.Logf("Invalid Indian grouping for %f: %s", amount, formatted)
				return false
			}

			return true
		},
		gen.Float64Range(-1e12, 1e12),
	))

	properties.Property("FormatIndianCurrency preserves value", prop.ForAll(
		func(amount float64) bool {
			if math.IsNaN(amount) || math.IsInf(amount, 0) {
				return true
			}

			formatted := FormatIndianCurrency(amount)
			parsed := parseIndianCurrency(formatted)

			rounded := math.Round(amount*100) / 100
			if math.Abs(parsed-rounded) > 0.01 {
				t.Logf("Value not preserved: original=%f, formatted=%s, parsed=%f", amount, formatted, parsed)
				return false
			}
			return true
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.Property("FormatPnL signs gains explicitly", prop.ForAll(
		func(pnl float64) bool {
			formatted := FormatPnL(pnl)
			switch {
			case pnl > 0:
				return strings.HasPrefix(formatted, "+₹")
			case pnl < 0:
				return strings.HasPrefix(formatted, "-₹")
			default:
				return strings.HasPrefix(formatted, "₹")
			}
		},
		gen.Float64Range(-1e9, 1e9),
	))

	properties.Property("FormatCompact uses correct units", prop.ForAll(
		func(amount float64) bool {
			if math.IsNaN(amount) || math.IsInf(amount, 0) {
				return true
			}

			formatted := FormatCompact(amount)
			abs := math.Abs(amount)

			switch {
			case abs >= 10000000:
				return strings.Contains(formatted, "Cr")
			case abs >= 100000:
				return strings.Contains(formatted, "L")
			default:
				return strings.HasPrefix(formatted, "₹") || strings.HasPrefix(formatted, "-₹")
			}
		},
		gen.Float64Range(-1e10, 1e10),
	))

	properties.TestingRun(t)
}

// parseIndianCurrency parses an Indian currency formatted string back to float64
func parseIndianCurrency(s string) float64 {
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "₹")
	s = strings.ReplaceAll(s, ",", "")

	var parsed float64
	for i, c := range s {
		if c == '.' {
			decPart := s[i+1:]
			for j, d := range decPart {
				if d >= '0' && d <= '9' {
					parsed += float64(d-'0') / math.Pow(10, float64(j+1))
				}
			}
			break
		}
		if c >= '0' && c <= '9' {
			parsed = parsed*10 + float64(c-'0')
		}
	}

	if negative {
		parsed = -parsed
	}
	return parsed
}

func TestIndianNumberFormatExamples(t *testing.T) {
	testCases := []struct {
		amount   float64
		expected string
	}{
		{0, "₹0.00"},
		{1, "₹1.00"},
		{100, "₹100.00"},
		{1000, "₹1,000.00"},
		{100000, "₹1,00,000.00"},      // 1 lakh
		{1000000, "₹10,00,000.00"},    // 10 lakhs
		{10000000, "₹1,00,00,000.00"}, // 1 crore
		{-1234.56, "-₹1,234.56"},
		{12345678.90, "₹1,23,45,678.90"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			result := FormatIndianCurrency(tc.amount)
			if result != tc.expected {
				t.Errorf("FormatIndianCurrency(%f) = %s, want %s", tc.amount, result, tc.expected)
			}
		})
	}
}

func TestFormatPercentExamples(t *testing.T) {
	testCases := []struct {
		value    float64
		signed   bool
		expected string
	}{
		{0, false, "0.00%"},
		{62.5, false, "62.50%"},
		{-2.5, false, "-2.50%"},
		{0, true, "0.00%"},
		{1.5, true, "+1.50%"},
		{-2.5, true, "-2.50%"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			result := FormatPercent(tc.value)
			if tc.signed {
				result = FormatSignedPercent(tc.value)
			}
			if result != tc.expected {
				t.Errorf("format(%f) = %s, want %s", tc.value, result, tc.expected)
			}
		})
	}
}

func TestFormatRatio(t *testing.T) {
	if got := FormatRatio(1.5); got != "1.50" {
		t.Errorf("FormatRatio(1.5) = %s, want 1.50", got)
	}
	if got := FormatRatio(math.Inf(1)); got != "∞" {
		t.Errorf("FormatRatio(+Inf) = %s, want ∞", got)
	}
	if got := FormatRatio(0); got != "0.00" {
		t.Errorf("FormatRatio(0) = %s, want 0.00", got)
	}
}
