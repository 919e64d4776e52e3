// Package numeral converts integers written in positional numeral systems to
// and from arbitrary-precision values.
//
// Digits are 0-9 followed by letters. Up to base 36 letters are
// case-insensitive; above it lower-case letters stand for 10..35 and
// upper-case letters for 36..61, the same alphabet math/big uses.
package numeral

import (
	"errors"
	"fmt"
	"math/big"
)

const (
	MinBase = 2
	MaxBase = big.MaxBase
)

var (
	ErrInvalidBase  = errors.New("numeral: invalid base")
	ErrInvalidDigit = errors.New("numeral: invalid digit")
)

// DigitError describes a character that is not a digit of the base.
type DigitError struct {
	Value string
	Base  int
	Pos   int  // byte offset of Char in Value, -1 when Value has no digits
	Char  rune // zero when Value has no digits
}

func (e *DigitError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("numeral: no digits in %q (base %d)", e.Value, e.Base)
	}
	return fmt.Sprintf("numeral: invalid digit %q at position %d in %q (base %d)", e.Char, e.Pos, e.Value, e.Base)
}

func (e *DigitError) Unwrap() error { return ErrInvalidDigit }

func checkBase(base int) error {
	if base < MinBase || base > MaxBase {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidBase, base, MinBase, MaxBase)
	}
	return nil
}

// digitValue returns the value of c in the given base, or -1.
func digitValue(c rune, base int) int {
	var d int
	switch {
	case '0' <= c && c <= '9':
		d = int(c - '0')
	case 'a' <= c && c <= 'z':
		d = int(c-'a') + 10
	case 'A' <= c && c <= 'Z':
		d = int(c-'A') + 10
		if base > 36 {
			d += 26
		}
	default:
		return -1
	}
	if d >= base {
		return -1
	}
	return d
}

// Decode returns the integer that value represents in base. A single leading
// '+' or '-' is accepted.
func Decode(value string, base int) (*big.Int, error) {
	if err := checkBase(base); err != nil {
		return nil, err
	}

	digits := value
	if len(digits) > 0 && (digits[0] == '+' || digits[0] == '-') {
		digits = digits[1:]
	}
	if digits == "" {
		return nil, &DigitError{Value: value, Base: base, Pos: -1}
	}

	offset := len(value) - len(digits)
	for i, c := range digits {
		if digitValue(c, base) < 0 {
			return nil, &DigitError{Value: value, Base: base, Pos: offset + i, Char: c}
		}
	}

	v, ok := new(big.Int).SetString(value, base)
	if !ok {
		return nil, &DigitError{Value: value, Base: base, Pos: -1}
	}
	return v, nil
}

// Encode renders v in base using lower-case letters up to base 36.
func Encode(v *big.Int, base int) (string, error) {
	if err := checkBase(base); err != nil {
		return "", err
	}
	return v.Text(base), nil
}
