package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when an amount is not a finite number or is out of range.
var ErrInvalidAmount = errors.New("amount must be a finite number")

// maxAmountCents bounds amounts well below the int64 range so sums over many
// rows cannot overflow.
const maxAmountCents = 100_000_000_000_000

const (
	// maxIntegerDigits is checked before any rescaling; it is one digit wider
	// than maxAmountCents allows in currency units.
	maxIntegerDigits = 13
	// maxFractionDigits caps the precision accepted before rounding to cents.
	maxFractionDigits = 20
	// maxAmountText bounds the textual form so parsing stays cheap.
	maxAmountText = 64
)

// Amount is a signed monetary value in cents.
// Positive values are income, negative values are expenses; the sign is carried by the caller.
type Amount int64

// ParseAmount parses a decimal string ("12.34", "-40", "1e2") into an Amount.
// Values are rounded to two decimal places, half away from zero.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if len(s) > maxAmountText {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return AmountFromDecimal(d)
}

// AmountFromDecimal converts a decimal value into cents.
// The magnitude is bounded from the digit count and exponent alone, since
// rounding rescales by a power of ten taken from the exponent.
func AmountFromDecimal(d decimal.Decimal) (Amount, error) {
	exp := int64(d.Exponent())
	if exp < -maxFractionDigits {
		return 0, ErrInvalidAmount
	}
	if !d.IsZero() && int64(d.NumDigits())+exp > maxIntegerDigits {
		return 0, ErrInvalidAmount
	}
	if d.IsZero() {
		return 0, nil
	}
	cents := d.Round(2).Shift(2)
	if cents.Abs().GreaterThan(decimal.NewFromInt(maxAmountCents)) {
		return 0, ErrInvalidAmount
	}
	return Amount(cents.IntPart()), nil
}

// Cents returns the raw number of cents.
func (a Amount) Cents() int64 {
	return int64(a)
}

// Decimal returns the amount in currency units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// String renders the amount in currency units without trailing zeros (e.g. "-40.5").
func (a Amount) String() string {
	return a.Decimal().String()
}

// MarshalJSON renders the amount as a bare JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}
