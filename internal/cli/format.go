// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Masked stands in for amounts hidden by the privacy settings.
const Masked = "••••"

// FormatMoney formats an amount with thousands separators and two decimals.
// e.g., 2450 -> "$2,450.00", -12.5 -> "-$12.50"
func FormatMoney(symbol string, d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)

	whole, frac, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err == nil {
		whole = FormatNumber(n)
	}

	out := symbol + whole + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

// FormatMoneyShort drops the cents for whole amounts.
// e.g., 1200 -> "$1,200", 12.5 -> "$12.50"
func FormatMoneyShort(symbol string, d decimal.Decimal) string {
	full := FormatMoney(symbol, d)
	return strings.TrimSuffix(full, ".00")
}

// FormatBalance formats a balance unless hidden.
func FormatBalance(symbol string, d decimal.Decimal, show bool) string {
	if !show {
		return Masked
	}
	return FormatMoney(symbol, d)
}

// FormatDuration formats seconds into a human-readable duration.
// e.g., 3725 -> "1h 2m", 125 -> "2m", 45 -> "45s"
func FormatDuration(secs int64) string {
	if secs <= 0 {
		return "0s"
	}

	hours := secs / 3600
	mins := (secs % 3600) / 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	if mins > 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%ds", secs)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-100 value with one decimal.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatRate formats a decimal percentage with one decimal.
func FormatRate(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

// FormatDelta formats a points change with its sign.
func FormatDelta(delta int64) string {
	if delta >= 0 {
		return "+" + FormatNumber(delta)
	}
	return FormatNumber(delta)
}

// Title capitalizes the first letter of a category key.
func Title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
