// Package money keeps amounts as integer minor units so fee arithmetic never
// drifts the way float64 does.
package money

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Cents is an amount in minor units (1.00 == 100).
type Cents int64

const bpsDenominator = 10000

// MaxAmount is the largest amount accepted from input (9,999,999,999.99).
const MaxAmount Cents = 999_999_999_999

var (
	ErrPrecision  = fmt.Errorf("amount has more than 2 decimal places")
	ErrOutOfRange = fmt.Errorf("amount exceeds %s", MaxAmount)
)

// Percent returns amount*bps/10000 rounded half away from zero to the cent.
// bps must be within [0, 10000]; the split into whole and remainder parts keeps
// every intermediate product inside int64 for any amount.
func Percent(amount Cents, bps int64) Cents {
	if amount < 0 {
		return -Percent(-amount, bps)
	}
	whole := int64(amount) / bpsDenominator
	rest := int64(amount) % bpsDenominator
	return Cents(whole*bps + (rest*bps+bpsDenominator/2)/bpsDenominator)
}

// InRange reports whether c is within [-MaxAmount, MaxAmount].
func (c Cents) InRange() bool {
	return c >= -MaxAmount && c <= MaxAmount
}

// Mul multiplies c by n, failing when the result leaves the accepted range.
func (c Cents) Mul(n int64) (Cents, error) {
	if n == 0 || c == 0 {
		return 0, nil
	}
	abs, absN := int64(c), n
	if abs < 0 {
		abs = -abs
	}
	if absN < 0 {
		absN = -absN
	}
	if abs > int64(MaxAmount)/absN {
		return 0, ErrOutOfRange
	}
	return c * Cents(n), nil
}

// Parse reads a decimal string such as "105", "105.5" or "-3.20". Amounts
// beyond MaxAmount are rejected with ErrOutOfRange.
func Parse(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	negative := false
	switch s[0] {
	case '-':
		negative = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && (!hasFrac || frac == "") {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if len(frac) > 2 {
		return 0, ErrPrecision
	}
	if whole == "" {
		whole = "0"
	}
	for len(frac) < 2 {
		frac += "0"
	}

	if strings.ContainsAny(whole, "+-") {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, ErrOutOfRange
	}
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil || strings.ContainsAny(frac, "+-") {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if units > int64(MaxAmount)/100 || units*100+cents > int64(MaxAmount) {
		return 0, ErrOutOfRange
	}

	total := units*100 + cents
	if negative {
		total = -total
	}
	return Cents(total), nil
}

func MustParse(s string) Cents {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (c Cents) IsPositive() bool {
	return c > 0
}

// MarshalJSON writes a two decimal JSON number.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (c *Cents) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	raw = strings.Trim(raw, `"`)

	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Cents) Value() (driver.Value, error) {
	return int64(c), nil
}

func (c *Cents) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		*c = Cents(v)
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return err
		}
		*c = Cents(n)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		*c = Cents(n)
	case nil:
		*c = 0
	default:
		return fmt.Errorf("cannot scan %T into money.Cents", src)
	}
	return nil
}
