package group

import (
	"math/big"
)

type primeField struct {
	name string
	p    *big.Int
}

func (f *primeField) String() string    { return f.name }
func (f *primeField) Order() *big.Int   { return new(big.Int).Set(f.p) }
func (f *primeField) NewScalar() Scalar { return &primeScalar{f: f, v: new(big.Int)} }

type primeScalar struct {
	f *primeField
	v *big.Int
}

func (z *primeScalar) cast(a Scalar) *primeScalar {
	s, ok := a.(*primeScalar)
	if !ok || s.f != z.f {
		panic("group: scalars from different groups")
	}
	return s
}

func (z *primeScalar) reduce() Scalar {
	z.v.Mod(z.v, z.f.p)
	return z
}

func (z *primeScalar) Set(a Scalar) Scalar {
	z.v.Set(z.cast(a).v)
	return z
}

func (z *primeScalar) SetUint64(x uint64) Scalar {
	z.v.SetUint64(x)
	return z.reduce()
}

func (z *primeScalar) SetBigInt(x *big.Int) Scalar {
	z.v.Set(x)
	return z.reduce()
}

func (z *primeScalar) BigInt() *big.Int { return new(big.Int).Set(z.v) }

func (z *primeScalar) Add(a, b Scalar) Scalar {
	z.v.Add(z.cast(a).v, z.cast(b).v)
	return z.reduce()
}

func (z *primeScalar) Sub(a, b Scalar) Scalar {
	z.v.Sub(z.cast(a).v, z.cast(b).v)
	return z.reduce()
}

func (z *primeScalar) Mul(a, b Scalar) Scalar {
	z.v.Mul(z.cast(a).v, z.cast(b).v)
	return z.reduce()
}

func (z *primeScalar) Neg(a Scalar) Scalar {
	z.v.Neg(z.cast(a).v)
	return z.reduce()
}

func (z *primeScalar) Inv(a Scalar) Scalar {
	av := z.cast(a).v
	if av.Sign() == 0 {
		z.v.SetInt64(0)
		return z
	}
	z.v.ModInverse(av, z.f.p)
	return z
}

func (z *primeScalar) IsZero() bool { return z.v.Sign() == 0 }

func (z *primeScalar) IsEqual(a Scalar) bool { return z.v.Cmp(z.cast(a).v) == 0 }

func (z *primeScalar) Copy() Scalar { return &primeScalar{f: z.f, v: new(big.Int).Set(z.v)} }
