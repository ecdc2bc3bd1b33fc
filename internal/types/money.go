// Package types provides the value types shared by the ledger, its storage
// models and its transports.
package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places every amount is kept at.
const MoneyScale = 2

const (
	// maxIntDigits is how many digits fit left of the point in a
	// numeric(12,2) column.
	maxIntDigits = 12 - MoneyScale
	// maxAmountLen caps the text ParseMoney looks at.
	maxAmountLen = 32
)

// ErrInvalidAmount is returned for amounts that are malformed, carry more
// than two decimal places or do not fit the storage range.
var ErrInvalidAmount = errors.New("invalid amount")

// MaxMoney is the largest amount the ledger stores; -MaxMoney the smallest.
var MaxMoney = Money{d: decimal.New(999999999999, -MoneyScale)}

// Money is a signed amount with exactly two decimal places.
// All arithmetic is decimal; binary floating point is never involved.
type Money struct {
	d decimal.Decimal
}

// NewMoneyFromCents builds an amount from its smallest unit.
func NewMoneyFromCents(cents int64) Money {
	return Money{d: decimal.New(cents, -MoneyScale)}
}

// ParseMoney parses a decimal string such as "12.3", "-4.05" or "1.5e3".
// Trailing zeros past the cents are fine ("7.500"); any other third decimal
// is rejected, as is anything outside ±MaxMoney. An empty string is zero.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}.norm(), nil
	}
	if len(s) > maxAmountLen {
		return Money{}, fmt.Errorf("%w: longer than %d characters", ErrInvalidAmount, maxAmountLen)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w %q", ErrInvalidAmount, s)
	}
	if err := checkAmount(d); err != nil {
		return Money{}, fmt.Errorf("%w %q: %s", ErrInvalidAmount, s, err)
	}
	return Money{d: d}.norm(), nil
}

// checkAmount works on the coefficient and exponent only. Rounding or
// comparing a value like 1e200000000 would first build its power of ten.
func checkAmount(d decimal.Decimal) error {
	if d.IsZero() {
		return nil
	}
	coef := d.Coefficient()
	digits := int64(len(coef.Abs(coef).String()))
	exp := int64(d.Exponent())

	if digits+exp > maxIntDigits {
		return fmt.Errorf("must be within ±%s", MaxMoney)
	}
	if exp < -MoneyScale {
		// every significant digit sits below the cent
		if -exp-MoneyScale >= digits {
			return errors.New("more than two decimal places")
		}
		if !d.Equal(d.Truncate(MoneyScale)) {
			return errors.New("more than two decimal places")
		}
	}
	return nil
}

// MustMoney is ParseMoney that panics on malformed input.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) norm() Money {
	return Money{d: m.d.Round(MoneyScale)}
}

func (m Money) Add(other Money) Money { return Money{d: m.d.Add(other.d)}.norm() }

func (m Money) Sub(other Money) Money { return Money{d: m.d.Sub(other.d)}.norm() }

func (m Money) Neg() Money { return Money{d: m.d.Neg()}.norm() }

func (m Money) IsZero() bool { return m.d.IsZero() }

func (m Money) IsNegative() bool { return m.d.IsNegative() }

// InRange reports whether the amount lies within ±MaxMoney. Results of
// arithmetic are not checked; callers that store them ask here first.
func (m Money) InRange() bool { return m.d.Abs().Cmp(MaxMoney.d) <= 0 }

// Cmp returns -1, 0 or +1.
func (m Money) Cmp(other Money) int { return m.d.Cmp(other.d) }

func (m Money) Equal(other Money) bool { return m.d.Equal(other.d) }

func (m Money) GreaterThan(other Money) bool { return m.d.GreaterThan(other.d) }

// Cents returns the amount in its smallest unit. Only amounts that are
// InRange are guaranteed to fit.
func (m Money) Cents() int64 {
	return m.d.Shift(MoneyScale).Round(0).IntPart()
}

// Decimal exposes the underlying value, rounded to two places.
func (m Money) Decimal() decimal.Decimal { return m.norm().d }

// String formats the amount with exactly two decimals: "49.00".
func (m Money) String() string {
	return m.d.StringFixed(MoneyScale)
}

// Allocate splits the amount into n shares that add up to it exactly.
// The shares differ by at most one cent; the first shares carry the
// leftover cents. Amounts outside ±MaxMoney are not split.
func (m Money) Allocate(n int) []Money {
	if n <= 0 || !m.InRange() {
		return nil
	}
	total := m.Cents()
	base := total / int64(n)
	rest := total % int64(n)

	shares := make([]Money, n)
	for i := range shares {
		c := base
		switch {
		case rest > 0 && int64(i) < rest:
			c++
		case rest < 0 && int64(i) < -rest:
			c--
		}
		shares[i] = NewMoneyFromCents(c)
	}
	return shares
}

// Sum adds up values; the sum of nothing is zero.
func Sum(values ...Money) Money {
	total := NewMoneyFromCents(0)
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Value implements driver.Valuer. Amounts travel to the database as text.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner.
func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = NewMoneyFromCents(0)
	case string:
		parsed, err := ParseMoney(v)
		if err != nil {
			return err
		}
		*m = parsed
	case []byte:
		parsed, err := ParseMoney(string(v))
		if err != nil {
			return err
		}
		*m = parsed
	case int64:
		*m = Money{d: decimal.NewFromInt(v)}.norm()
	case float64:
		*m = Money{d: decimal.NewFromFloat(v)}.norm()
	default:
		return fmt.Errorf("cannot scan %T into Money", src)
	}
	return nil
}

// MarshalJSON writes the amount as a decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a decimal string or a bare JSON number. Numbers are
// parsed from their literal text.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = NewMoneyFromCents(0)
		return nil
	}
	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
	}
	parsed, err := ParseMoney(text)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
