// Package core provides price parsing and handling utilities.
//
// This file contains functions for parsing gift prices from form strings
// and converting between cents and decimal representations.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice converts a form value to a price rounded to two decimals.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and rounds
// half away from zero on the third decimal place. An empty string yields a
// nil price. Negative values and values too large to store as int64 cents
// are rejected.
//
// Examples:
//
//	ParsePrice("12.34")  -> 12.34
//	ParsePrice("12,345") -> 12.35
//	ParsePrice("")       -> nil
func ParsePrice(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") {
		return nil, ErrInvalidPrice
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, ErrInvalidPrice
	}
	if d.IsNegative() {
		return nil, ErrInvalidPrice
	}
	d = d.Round(2)
	if d.Shift(2).GreaterThan(maxCents) {
		return nil, ErrInvalidPrice
	}
	return &d, nil
}

var maxCents = decimal.NewFromInt(math.MaxInt64)

// PriceFromCents builds a price from its stored integer cents.
func PriceFromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Cents returns the price in integer cents for storage.
func Cents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}
