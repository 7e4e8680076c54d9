package util

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice extracts a price from display text such as "300.00 ر.ق" or
// "$12.50". Everything but digits and dots is dropped and the longest
// leading number is read. Unparseable input yields 0.
func ParsePrice(text string) float64 {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return leadingFloat(b.String())
}

func leadingFloat(s string) float64 {
	end := 0
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c == '.' {
			if seenDot {
				break
			}
			seenDot = true
		} else if c < '0' || c > '9' {
			break
		}
		end++
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseQuantity reads a leading integer from s (" 3 pcs" -> 3).
// Anything unparseable yields fallback.
func ParseQuantity(s string, fallback int) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return fallback
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return fallback
	}
	return v
}

// FormatMoney renders an amount the way the storefront shows totals: "$20.00".
func FormatMoney(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
