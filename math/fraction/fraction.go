// Package fraction implements exact rational numbers over arbitrary-precision
// integers.
//
// A Fraction is always in lowest terms with a positive denominator. Values
// are immutable: every operation allocates its result and never aliases the
// operands or the integers passed in.
package fraction

import (
	"errors"
	"math/big"
)

var ErrDivisionByZero = errors.New("fraction: division by zero")

var one = big.NewInt(1)

type Fraction struct {
	num, den *big.Int
}

// New returns num/den reduced to lowest terms.
func New(num, den *big.Int) (Fraction, error) {
	if den.Sign() == 0 {
		return Fraction{}, ErrDivisionByZero
	}
	return reduce(new(big.Int).Set(num), new(big.Int).Set(den)), nil
}

// MustNew is like New but panics on a zero denominator.
func MustNew(num, den int64) Fraction {
	f, err := New(big.NewInt(num), big.NewInt(den))
	if err != nil {
		panic(err)
	}
	return f
}

// FromInt returns v/1.
func FromInt(v *big.Int) Fraction {
	return Fraction{new(big.Int).Set(v), big.NewInt(1)}
}

func Zero() Fraction { return Fraction{new(big.Int), big.NewInt(1)} }

// reduce takes ownership of num and den, den must be non-zero.
func reduce(num, den *big.Int) Fraction {
	if den.Sign() < 0 {
		num.Neg(num)
		den.Neg(den)
	}
	if num.Sign() == 0 {
		return Fraction{num, den.SetInt64(1)}
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(num), den)
	if g.Cmp(one) != 0 {
		num.Quo(num, g)
		den.Quo(den, g)
	}
	return Fraction{num, den}
}

// The zero Fraction is 0/1.
func (a Fraction) parts() (num, den *big.Int) {
	if a.den == nil {
		return new(big.Int), one
	}
	return a.num, a.den
}

// Num returns a copy of the numerator.
func (a Fraction) Num() *big.Int {
	n, _ := a.parts()
	return new(big.Int).Set(n)
}

// Den returns a copy of the denominator, always positive.
func (a Fraction) Den() *big.Int {
	_, d := a.parts()
	return new(big.Int).Set(d)
}

// Add returns a+b.
func (a Fraction) Add(b Fraction) Fraction {
	an, ad := a.parts()
	bn, bd := b.parts()
	num := new(big.Int).Mul(an, bd)
	num.Add(num, new(big.Int).Mul(bn, ad))
	return reduce(num, new(big.Int).Mul(ad, bd))
}

// Mul returns a*b.
func (a Fraction) Mul(b Fraction) Fraction {
	an, ad := a.parts()
	bn, bd := b.parts()
	return reduce(new(big.Int).Mul(an, bn), new(big.Int).Mul(ad, bd))
}

// MulInt returns a*v.
func (a Fraction) MulInt(v *big.Int) Fraction {
	an, ad := a.parts()
	return reduce(new(big.Int).Mul(an, v), new(big.Int).Set(ad))
}

// Neg returns -a.
func (a Fraction) Neg() Fraction {
	an, ad := a.parts()
	return Fraction{new(big.Int).Neg(an), new(big.Int).Set(ad)}
}

// IsInt reports whether the denominator is 1.
func (a Fraction) IsInt() bool {
	_, ad := a.parts()
	return ad.Cmp(one) == 0
}

// Int returns num/den truncated toward zero. It is exact when IsInt.
func (a Fraction) Int() *big.Int {
	an, ad := a.parts()
	return new(big.Int).Quo(an, ad)
}

func (a Fraction) Cmp(b Fraction) int {
	an, ad := a.parts()
	bn, bd := b.parts()
	return new(big.Int).Mul(an, bd).Cmp(new(big.Int).Mul(bn, ad))
}

func (a Fraction) Equal(b Fraction) bool { return a.Cmp(b) == 0 }

// Rat returns a as a big.Rat.
func (a Fraction) Rat() *big.Rat {
	an, ad := a.parts()
	return new(big.Rat).SetFrac(an, ad)
}

// String formats a as "num/den", or "num" when it is an integer.
func (a Fraction) String() string {
	an, ad := a.parts()
	if ad.Cmp(one) == 0 {
		return an.String()
	}
	return an.String() + "/" + ad.String()
}
