// Package secretsharing reconstructs the secret of a threshold sharing, the
// constant term of a polynomial, from points on it.
//
// Reconstruction over the integers is exact: Lagrange interpolation at zero is
// carried out with fractions of arbitrary-precision integers. Sharings done
// modulo a group order are reconstructed in the scalar field of that group.
package secretsharing

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/blake2b"

	"github.com/eluv-io/shamir-recover/group"
	"github.com/eluv-io/shamir-recover/math/fraction"
	"github.com/eluv-io/shamir-recover/math/numeral"
)

var (
	ErrInsufficientPoints = errors.New("secretsharing: insufficient points")
	ErrDuplicateX         = errors.New("secretsharing: duplicate x coordinate")
	ErrInvalidThreshold   = errors.New("secretsharing: invalid threshold")
	ErrTooManyShares      = errors.New("secretsharing: too many shares")
	ErrNonIntegral        = errors.New("secretsharing: interpolated value is not an integer")
)

// NonIntegralError reports a reconstruction whose exact value has a
// denominator other than 1, which integer-valued shares of an integer
// polynomial never produce.
type NonIntegralError struct {
	Value fraction.Fraction
}

func (e *NonIntegralError) Error() string {
	return fmt.Sprintf("secretsharing: interpolated value %v is not an integer", e.Value)
}

func (e *NonIntegralError) Unwrap() error { return ErrNonIntegral }

// Share is an encoded point: the y coordinate is Value written in Base.
type Share struct {
	X     *big.Int
	Base  int
	Value string
}

// Decode returns the point the share encodes.
func (s Share) Decode() (Point, error) {
	y, err := numeral.Decode(s.Value, s.Base)
	if err != nil {
		return Point{}, fmt.Errorf("secretsharing: share x = %v: %w", s.X, err)
	}
	return Point{X: new(big.Int).Set(s.X), Y: y}, nil
}

// DecodeShares decodes every share, stopping at the first failure.
func DecodeShares(shares []Share) ([]Point, error) {
	points := make([]Point, len(shares))
	for i := range shares {
		p, err := shares[i].Decode()
		if err != nil {
			return nil, err
		}
		points[i] = p
	}
	return points, nil
}

// Reconstructor recovers secrets shared with threshold K among at most N
// holders. A nil G reconstructs over the integers.
type Reconstructor struct {
	G    group.Group
	K, N int
	_    struct{}
}

func New(k, n int) (*Reconstructor, error) {
	return NewModular(nil, k, n)
}

// NewModular returns a Reconstructor working in the scalar field of g.
func NewModular(g group.Group, k, n int) (*Reconstructor, error) {
	if !(0 < k && k <= n) {
		return nil, fmt.Errorf("%w: k = %v, n = %v", ErrInvalidThreshold, k, n)
	}
	return &Reconstructor{G: g, K: k, N: n}, nil
}

// RecoverSecret decodes the shares and interpolates the K with the smallest x
// at zero. All shares must have distinct x.
func (r Reconstructor) RecoverSecret(shares []Share) (*big.Int, error) {
	if l := len(shares); l < r.K {
		return nil, fmt.Errorf("%w: do not met threshold %v with %v shares", ErrInsufficientPoints, r.K, l)
	} else if l > r.N {
		return nil, fmt.Errorf("%w: %v shares above max number of shares %v", ErrTooManyShares, l, r.N)
	}

	points, err := DecodeShares(shares)
	if err != nil {
		return nil, err
	}
	if err := checkDistinct(points); err != nil {
		return nil, err
	}

	if r.G == nil {
		return InterpolateAtZero(points, r.K)
	}
	return InterpolateAtZeroIn(r.G, points, r.K)
}

// ShareSet is the content of a share file: the declared share count N, the
// threshold K and the shares themselves.
type ShareSet struct {
	N, K   int
	Shares []Share
}

// Reconstructor returns a Reconstructor for the set. The declared N is only
// an upper bound when it covers every share present.
func (s ShareSet) Reconstructor(g group.Group) (*Reconstructor, error) {
	n := s.N
	if n < len(s.Shares) {
		n = len(s.Shares)
	}
	return NewModular(g, s.K, n)
}

// Recover reconstructs the secret of the set, over the integers when g is nil.
func (s ShareSet) Recover(g group.Group) (*big.Int, error) {
	r, err := s.Reconstructor(g)
	if err != nil {
		return nil, err
	}
	return r.RecoverSecret(s.Shares)
}

// Selected returns the decoded points a reconstruction of the set uses.
func (s ShareSet) Selected() ([]Point, error) {
	points, err := DecodeShares(s.Shares)
	if err != nil {
		return nil, err
	}
	return Select(points, s.K)
}

// Fingerprint identifies the points a reconstruction of the set uses, as a
// hex BLAKE2b-256 digest. Sets that differ only in unused shares or in how
// values are encoded share a fingerprint.
func (s ShareSet) Fingerprint() (string, error) {
	selected, err := s.Selected()
	if err != nil {
		return "", err
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	for i := range selected {
		fmt.Fprintf(h, "%x:%x\n", selected[i].X, selected[i].Y)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
