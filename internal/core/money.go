// Package core provides money parsing and handling utilities.
//
// Amounts are stored as float64 on transactions. Parsing and rounding go
// through shopspring/decimal so user input such as "12.30" or "12,30" is
// read exactly before it is converted.
package core

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to a non-negative amount.
//
// Both dot (12.34) and comma (12,34) decimal separators are accepted.
// Signs, exponents and anything that is not a plain decimal number are rejected.
//
// Examples:
//
//	ParseAmount("1000000") -> 1000000, nil
//	ParseAmount("12,5")    -> 12.5, nil
//	ParseAmount("-1")      -> 0, error
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ValidationError{Field: "amount", Reason: "must not be empty"}
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return 0, &ValidationError{Field: "amount", Reason: "not a decimal number"}
	}
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r != '.':
			return 0, &ValidationError{Field: "amount", Reason: "not a decimal number"}
		}
	}
	if digits == 0 {
		return 0, &ValidationError{Field: "amount", Reason: "not a decimal number"}
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, &ValidationError{Field: "amount", Reason: "not a decimal number"}
	}
	return d.InexactFloat64(), nil
}

// FormatAmount renders an amount in its shortest exact decimal form, as used in the flat-file export.
func FormatAmount(a float64) string {
	return strconv.FormatFloat(a, 'f', -1, 64)
}

// FormatRupiah formats an amount for display, rounded to whole rupiah with
// dot thousands separators (e.g. "Rp1.500.000", "-Rp50.000").
func FormatRupiah(a float64) string {
	units := decimal.NewFromFloat(a).Round(0).IntPart()
	neg := units < 0
	if neg {
		units = -units
	}
	digits := strconv.FormatInt(units, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-Rp" + b.String()
	}
	return "Rp" + b.String()
}
