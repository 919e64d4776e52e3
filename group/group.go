// Package group provides prime-order scalar fields used to reconstruct
// secrets that were shared modulo a group order rather than over the
// integers.
package group

import (
	"crypto/elliptic"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

var ErrInvalidModulus = errors.New("group: modulus is not an odd prime")

// Group is a prime-order group seen through its scalar field.
type Group interface {
	fmt.Stringer
	// Order returns a copy of the prime order of the group.
	Order() *big.Int
	NewScalar() Scalar
}

// Scalar is an element of the scalar field of a Group. Arithmetic methods
// store their result in the receiver and return it. Mixing scalars of
// different groups panics.
type Scalar interface {
	Set(a Scalar) Scalar
	SetUint64(x uint64) Scalar
	// SetBigInt sets the receiver to x reduced modulo the group order;
	// negative values wrap around.
	SetBigInt(x *big.Int) Scalar
	BigInt() *big.Int
	Add(a, b Scalar) Scalar
	Sub(a, b Scalar) Scalar
	Mul(a, b Scalar) Scalar
	Neg(a Scalar) Scalar
	// Inv sets the receiver to the multiplicative inverse of a, or to zero
	// when a is zero.
	Inv(a Scalar) Scalar
	IsZero() bool
	IsEqual(a Scalar) bool
	Copy() Scalar
}

var (
	Secp256k1 Group = &primeField{name: "secp256k1", p: crypto.S256().Params().N}
	P256      Group = &primeField{name: "P-256", p: elliptic.P256().Params().N}
	P384      Group = &primeField{name: "P-384", p: elliptic.P384().Params().N}
	// Ristretto255 uses the scalar arithmetic of go-ristretto.
	Ristretto255 Group = ristretto255{}
)

var byName = map[string]Group{
	"secp256k1":    Secp256k1,
	"p256":         P256,
	"p-256":        P256,
	"p384":         P384,
	"p-384":        P384,
	"ristretto255": Ristretto255,
}

// ByName looks up one of the predefined groups, case-insensitively.
func ByName(name string) (Group, error) {
	g, ok := byName[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("group: unknown group %q", name)
	}
	return g, nil
}

// NewPrimeField returns the integers modulo p. p must be an odd prime.
func NewPrimeField(name string, p *big.Int) (Group, error) {
	if p == nil || p.Cmp(big.NewInt(2)) <= 0 || p.Bit(0) == 0 || !p.ProbablyPrime(20) {
		return nil, ErrInvalidModulus
	}
	return &primeField{name: name, p: new(big.Int).Set(p)}, nil
}
