package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Cents is a monetary amount in integer minor units. All split arithmetic is
// done on this type so totals reconcile exactly; it marshals as a two-decimal
// string ("120.00") to match the wire format.
type Cents int64

// maxWholeDigits caps the integer part of a parsed amount.
const maxWholeDigits = 8

// ParseCents parses a decimal string with at most two fraction digits.
func ParseCents(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	whole := s
	frac := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		whole = s[:idx]
		frac = s[idx+1:]
	}

	if whole == "" || len(frac) > 2 {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	// Amounts are DECIMAL(10,2) on the wire: at most 8 integer digits.
	if len(strings.TrimLeft(whole, "0")) > maxWholeDigits {
		return 0, fmt.Errorf("amount %q exceeds %d digits", s, maxWholeDigits)
	}
	// Pad to exactly two fraction digits
	for len(frac) < 2 {
		frac += "0"
	}

	var total int64
	for _, digits := range []string{whole, frac} {
		for _, ch := range digits {
			if ch < '0' || ch > '9' {
				return 0, fmt.Errorf("invalid amount %q", s)
			}
			total = total*10 + int64(ch-'0')
		}
	}

	if negative {
		total = -total
	}
	return Cents(total), nil
}

// String formats the amount with two decimal places.
func (c Cents) String() string {
	v := int64(c)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON renders the amount as a decimal string.
func (c Cents) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts either a decimal string or a JSON number.
func (c *Cents) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Fall back to a raw number literal such as 120 or 120.5
		s = string(data)
	}
	parsed, err := ParseCents(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value implements driver.Valuer; amounts are stored as BIGINT minor units.
func (c Cents) Value() (driver.Value, error) {
	return int64(c), nil
}

// Scan implements sql.Scanner.
func (c *Cents) Scan(value interface{}) error {
	switch v := value.(type) {
	case int64:
		*c = Cents(v)
		return nil
	case []byte:
		// Some drivers hand BIGINT columns back as raw digits.
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("cannot scan %q into Cents: %v", v, err)
		}
		*c = Cents(n)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Cents", value)
	}
}
