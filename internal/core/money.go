// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from user input
// and JSON, and converting between cents and dollar representations.
package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a currency amount in cents.
type Money struct {
	Cents int64
}

// maxAmount bounds accepted amounts to ten trillion so cents always fit in int64.
var maxAmount = decimal.New(1, 13)

// maxAmountCents is maxAmount in cents; it also bounds budget totals.
const maxAmountCents int64 = 1e15

// Parsed numbers must stay inside these limits before any arithmetic:
// decimal rescales to the exponent on compare and multiply.
const (
	minExponent = -20
	maxExponent = 20
	maxDigits   = 40
)

var errNotANumber = errors.New("not a number")

// ParseAmount parses user-typed numeric input such as "3000", "12.5",
// "$1,200.00" or "2e3". Thousands separators and a leading dollar sign
// are ignored.
//
// Examples:
//
//	ParseAmount("12.34")     -> 12.34, nil
//	ParseAmount("$1,200")    -> 1200, nil
//	ParseAmount("abc")       -> 0, error
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, errNotANumber
	}
	return parseDecimal(s)
}

// parseDecimal rejects numbers with huge exponents or coefficients.
func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errNotANumber
	}
	if exp := d.Exponent(); exp < minExponent || exp > maxExponent || d.NumDigits() > maxDigits {
		return decimal.Zero, errNotANumber
	}
	return d, nil
}

// ParseJSONNumber coerces a raw JSON value to a decimal. Numbers and
// numeric strings are accepted; null, booleans, objects and arrays are not.
func ParseJSONNumber(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, errNotANumber
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, errNotANumber
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return decimal.Zero, errNotANumber
		}
		return parseDecimal(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return decimal.Zero, errNotANumber
	}
	return parseDecimal(n.String())
}

// MoneyFromDecimal rounds d half-to-even to the cent.
//
//	0.125 -> 0.12
//	0.135 -> 0.14
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	if d.Abs().GreaterThan(maxAmount) {
		return Money{}, ErrInvalidValue
	}
	return Money{Cents: d.Shift(2).RoundBank(0).IntPart()}, nil
}

// Decimal returns the exact dollar value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }

func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

func (m Money) IsNegative() bool { return m.Cents < 0 }

// String formats the amount with exactly two decimals, e.g. "1200.00".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON encodes the amount as a bare JSON number with trailing zeros
// trimmed, so 1200.00 becomes 1200 and 12.50 becomes 12.5.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	d, err := ParseJSONNumber(data)
	if err != nil {
		return ErrInvalidValue
	}
	v, err := MoneyFromDecimal(d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
