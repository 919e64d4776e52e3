package group

import (
	"math/big"

	r255 "github.com/bwesterb/go-ristretto"
)

// l = 2^252 + 27742317777372353535851937790883648493
var ristrettoOrder, _ = new(big.Int).SetString(
	"7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)

type ristretto255 struct{}

func (ristretto255) String() string    { return "ristretto255" }
func (ristretto255) Order() *big.Int   { return new(big.Int).Set(ristrettoOrder) }
func (ristretto255) NewScalar() Scalar { return new(ristrettoScalar) }

type ristrettoScalar struct {
	s r255.Scalar
}

func (z *ristrettoScalar) cast(a Scalar) *ristrettoScalar {
	s, ok := a.(*ristrettoScalar)
	if !ok {
		panic("group: scalars from different groups")
	}
	return s
}

func (z *ristrettoScalar) Set(a Scalar) Scalar {
	z.s = z.cast(a).s
	return z
}

func (z *ristrettoScalar) SetUint64(x uint64) Scalar {
	return z.SetBigInt(new(big.Int).SetUint64(x))
}

func (z *ristrettoScalar) SetBigInt(x *big.Int) Scalar {
	z.s.SetBigInt(new(big.Int).Mod(x, ristrettoOrder))
	return z
}

func (z *ristrettoScalar) BigInt() *big.Int { return z.s.BigInt() }

func (z *ristrettoScalar) Add(a, b Scalar) Scalar {
	z.s.Add(&z.cast(a).s, &z.cast(b).s)
	return z
}

func (z *ristrettoScalar) Sub(a, b Scalar) Scalar {
	z.s.Sub(&z.cast(a).s, &z.cast(b).s)
	return z
}

func (z *ristrettoScalar) Mul(a, b Scalar) Scalar {
	z.s.Mul(&z.cast(a).s, &z.cast(b).s)
	return z
}

func (z *ristrettoScalar) Neg(a Scalar) Scalar {
	z.s.Neg(&z.cast(a).s)
	return z
}

func (z *ristrettoScalar) Inv(a Scalar) Scalar {
	s := z.cast(a)
	if s.IsZero() {
		z.s.SetZero()
		return z
	}
	z.s.Inverse(&s.s)
	return z
}

func (z *ristrettoScalar) IsZero() bool {
	var zero r255.Scalar
	return z.s.Equals(zero.SetZero())
}

func (z *ristrettoScalar) IsEqual(a Scalar) bool { return z.s.Equals(&z.cast(a).s) }

func (z *ristrettoScalar) Copy() Scalar { return &ristrettoScalar{s: z.s} }
