package secretsharing

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/eluv-io/shamir-recover/group"
	"github.com/eluv-io/shamir-recover/math/fraction"
)

// Point is a decoded share, an evaluation (X, P(X)) of the polynomial.
type Point struct {
	X, Y *big.Int
}

func xCoords(points []Point) []*big.Int {
	xs := make([]*big.Int, len(points))
	for i := range points {
		xs[i] = points[i].X
	}
	return xs
}

func checkDistinct(points []Point) error {
	seen := make(map[string]struct{}, len(points))
	for i := range points {
		key := points[i].X.String()
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: x = %v", ErrDuplicateX, points[i].X)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Select returns the k points with the smallest x coordinates, in ascending
// order of x. Points with equal x keep their input order. The input slice is
// not modified.
func Select(points []Point, k int) ([]Point, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThreshold, k)
	}
	if len(points) < k {
		return nil, fmt.Errorf("%w: need %v, got %v", ErrInsufficientPoints, k, len(points))
	}

	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X.Cmp(sorted[j].X) < 0 })

	selected := sorted[:k:k]
	if err := checkDistinct(selected); err != nil {
		return nil, err
	}
	return selected, nil
}

// LagrangeBasisAtZero returns the i-th Lagrange basis polynomial for the nodes
// xs evaluated at zero: prod_{j != i} (0 - xs[j]) / (xs[i] - xs[j]).
//
// It returns an error if xs[i] appears twice in xs.
func LagrangeBasisAtZero(xs []*big.Int, i int) (fraction.Fraction, error) {
	if i < 0 || i >= len(xs) {
		panic("invalid parameter")
	}

	num := big.NewInt(1)
	den := big.NewInt(1)
	tmp := new(big.Int)

	for j, xj := range xs {
		if j == i {
			continue
		}
		num.Mul(num, tmp.Neg(xj))
		den.Mul(den, tmp.Sub(xs[i], xj))
	}

	li, err := fraction.New(num, den)
	if err != nil {
		return fraction.Fraction{}, fmt.Errorf("%w: x = %v", ErrDuplicateX, xs[i])
	}
	return li, nil
}

// InterpolateRational returns P(0) exactly, where P is the polynomial of least
// degree through all the given points.
func InterpolateRational(points []Point) (fraction.Fraction, error) {
	if len(points) == 0 {
		return fraction.Fraction{}, fmt.Errorf("%w: need 1, got 0", ErrInsufficientPoints)
	}
	if err := checkDistinct(points); err != nil {
		return fraction.Fraction{}, err
	}

	xs := xCoords(points)
	sum := fraction.Zero()
	for i := range points {
		li, err := LagrangeBasisAtZero(xs, i)
		if err != nil {
			return fraction.Fraction{}, err
		}
		sum = sum.Add(li.MulInt(points[i].Y))
	}
	return sum, nil
}

// InterpolateAtZero selects k points as Select does and returns the constant
// term of the polynomial through them.
//
// If the interpolated value is not an integer the truncated quotient is
// returned together with a *NonIntegralError.
func InterpolateAtZero(points []Point, k int) (*big.Int, error) {
	selected, err := Select(points, k)
	if err != nil {
		return nil, err
	}

	p0, err := InterpolateRational(selected)
	if err != nil {
		return nil, err
	}
	if !p0.IsInt() {
		return p0.Int(), &NonIntegralError{Value: p0}
	}
	return p0.Int(), nil
}

// LagrangeCoefficient returns the index-th Lagrange basis polynomial for the
// nodes x evaluated at zero, in the scalar field of g.
func LagrangeCoefficient(g group.Group, x []group.Scalar, index uint) group.Scalar {
	if int(index) >= len(x) {
		panic("invalid parameter")
	}

	num := g.NewScalar()
	num.SetUint64(1)
	den := g.NewScalar()
	den.SetUint64(1)
	tmp := g.NewScalar()

	for j := range x {
		if j != int(index) {
			num.Mul(num, x[j])
			den.Mul(den, tmp.Sub(x[j], x[index]))
		}
	}

	return num.Mul(num, tmp.Inv(den))
}

// LagrangeInterpolate returns P(0) in the scalar field of g, where P passes
// through the points (x[i], px[i]).
func LagrangeInterpolate(g group.Group, x, px []group.Scalar) (group.Scalar, error) {
	if len(x) != len(px) {
		return nil, errors.New("secretsharing: bad input length")
	}

	for i := range x {
		for j := i + 1; j < len(x); j++ {
			if x[i].IsEqual(x[j]) {
				return nil, fmt.Errorf("%w: x = %v (mod order of %v)", ErrDuplicateX, x[i].BigInt(), g)
			}
		}
	}

	pol0 := g.NewScalar()
	delta := g.NewScalar()
	for i := range x {
		pol0.Add(pol0, delta.Mul(px[i], LagrangeCoefficient(g, x, uint(i))))
	}

	return pol0, nil
}

// InterpolateAtZeroIn is InterpolateAtZero over the scalar field of g. The
// result is in [0, order).
func InterpolateAtZeroIn(g group.Group, points []Point, k int) (*big.Int, error) {
	selected, err := Select(points, k)
	if err != nil {
		return nil, err
	}

	x := make([]group.Scalar, len(selected))
	px := make([]group.Scalar, len(selected))
	for i := range selected {
		x[i] = g.NewScalar().SetBigInt(selected[i].X)
		px[i] = g.NewScalar().SetBigInt(selected[i].Y)
	}

	pol0, err := LagrangeInterpolate(g, x, px)
	if err != nil {
		return nil, err
	}
	return pol0.BigInt(), nil
}
