// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money describes how amounts are labelled, e.g. "₹" + "L" renders
// "₹ 17.25 L".
type Money struct {
	Currency string
	Unit     string
}

// DefaultMoney is the reporting unit used when none is configured.
var DefaultMoney = Money{Currency: "₹", Unit: "L"}

// Format renders an amount with two decimals and the currency labels.
func (m Money) Format(v float64) string {
	s := FormatAmount(v)
	if m.Currency != "" {
		s = m.Currency + " " + s
	}
	if m.Unit != "" {
		s += " " + m.Unit
	}
	return s
}

// FormatAmount formats a signed amount with two decimals and thousands
// separators on the integer part.
// e.g., 1234.5 -> "1,234.50", -0.5 -> "-0.50"
func FormatAmount(v float64) string {
	neg := v < 0
	abs := math.Abs(v)
	cents := int64(math.Round(abs * 100))
	whole := cents / 100
	frac := cents % 100

	s := fmt.Sprintf("%s.%02d", FormatNumber(whole), frac)
	if neg && cents != 0 {
		return "-" + s
	}
	return s
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

// FormatPercent formats a value already expressed in percent.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatSignedPercent formats a percent value with an explicit sign.
func FormatSignedPercent(pct float64) string {
	if pct > 0 {
		return "+" + FormatPercent(pct)
	}
	return FormatPercent(pct)
}

// FormatMonth formats a 1-indexed month number.
func FormatMonth(m int) string {
	return fmt.Sprintf("M%02d", m)
}

// FormatParam renders a parameter value using the precision its step needs.
func FormatParam(v, step float64) string {
	switch {
	case step >= 1:
		return FormatNumber(int64(math.Round(v)))
	case step >= 0.5:
		return strconv.FormatFloat(v, 'f', 1, 64)
	default:
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
}
