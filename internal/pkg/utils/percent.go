package utils

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Percentage returns count/total*100 rounded half-up to two decimals.
// A non-positive total yields 0.
func Percentage(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromInt(int64(count)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(hundred).
		Round(2).
		InexactFloat64()
}

// Share is Percentage for values that are already fractional, e.g. a
// percentage being re-normalized against a row total.
func Share(value float64, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return decimal.NewFromFloat(value).
		Div(decimal.NewFromFloat(total)).
		Mul(hundred).
		Round(2).
		InexactFloat64()
}
