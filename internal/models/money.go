package models

import (
	"errors"
	"fmt"
)

// Money is an amount in whole PKR. The ledger never stores fractions;
// every split is resolved to integers at the point of distribution.
type Money int64

var ErrNegativeAmount = errors.New("amount must not be negative")

// NewMoney validates an amount arriving from the outside boundary.
func NewMoney(v int64) (Money, error) {
	if v < 0 {
		return 0, ErrNegativeAmount
	}
	return Money(v), nil
}

func (m Money) Int64() int64 { return int64(m) }

func (m Money) String() string { return fmt.Sprintf("PKR %d", int64(m)) }

// Percent is a whole-number percentage in [0, 100].
type Percent int

func NewPercent(v int) (Percent, error) {
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("percent %d out of range [0,100]", v)
	}
	return Percent(v), nil
}

// Share computes round-half-up of m*p/100 on the scaled integer.
// The complement must always be taken by subtraction, never by an
// independent rounding of (100-p).
func (p Percent) Share(m Money) Money {
	return Money((int64(m)*int64(p) + 50) / 100)
}
