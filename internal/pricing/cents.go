// Package pricing holds the money type used across the booking engine and
// the pure price validator.  Amounts are integer cents so totals are exact;
// decimal inputs are rounded half-up to two places when they are parsed.
package pricing

import (
    "database/sql/driver"
    "errors"
    "fmt"
    "math"
    "strings"

    "github.com/shopspring/decimal"
)

// Cents is an amount of currency in hundredths.
type Cents int64

// ErrInvalidAmount is returned when a decimal amount cannot be parsed or
// does not fit in Cents.
var ErrInvalidAmount = errors.New("invalid amount")

var (
    maxCents = decimal.NewFromInt(math.MaxInt64)
    minCents = decimal.NewFromInt(math.MinInt64)
)

// ParseCents parses a decimal string such as "199", "199.5", "199.999" or
// "1.5e2" into cents.  Digits beyond the second decimal place are rounded
// half away from zero.
func ParseCents(s string) (Cents, error) {
    s = strings.TrimSpace(s)
    if !strings.ContainsAny(s, "0123456789") {
        return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
    }
    d, err := decimal.NewFromString(s)
    if err != nil {
        return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
    }
    return FromDecimal(d)
}

// FromDecimal rounds d to two places and converts it to cents.
func FromDecimal(d decimal.Decimal) (Cents, error) {
    c := d.Round(2).Shift(2)
    if c.GreaterThan(maxCents) || c.LessThan(minCents) {
        return 0, fmt.Errorf("%w: %s out of range", ErrInvalidAmount, d.String())
    }
    return Cents(c.IntPart()), nil
}

// Decimal returns the amount as an exact decimal with two places.
func (c Cents) Decimal() decimal.Decimal {
    return decimal.New(int64(c), -2)
}

// Mul multiplies a unit price by a quantity.
func (c Cents) Mul(q uint32) Cents { return c * Cents(q) }

// Abs returns the absolute value.
func (c Cents) Abs() Cents {
    if c < 0 {
        return -c
    }
    return c
}

// String formats the amount with exactly two decimals, e.g. "200.00".
func (c Cents) String() string {
    return c.Decimal().StringFixed(2)
}

// MarshalJSON writes the amount as a JSON number with two decimals.
func (c Cents) MarshalJSON() ([]byte, error) {
    return []byte(c.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (c *Cents) UnmarshalJSON(b []byte) error {
    s := strings.TrimSpace(string(b))
    if s == "null" {
        return nil
    }
    v, err := ParseCents(strings.Trim(s, `"`))
    if err != nil {
        return err
    }
    *c = v
    return nil
}

// Value stores the amount as a DECIMAL literal.
func (c Cents) Value() (driver.Value, error) {
    return c.Decimal().StringFixed(2), nil
}

// Scan reads DECIMAL columns, which the MySQL driver returns as []byte.
func (c *Cents) Scan(src any) error {
    if src == nil {
        *c = 0
        return nil
    }
    var d decimal.Decimal
    if err := d.Scan(src); err != nil {
        return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
    }
    v, err := FromDecimal(d)
    if err != nil {
        return err
    }
    *c = v
    return nil
}
