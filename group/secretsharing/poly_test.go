package secretsharing

import (
	"fmt"
	"math/big"
	"math/rand"
	"testing"

	"github.com/eluv-io/shamir-recover/group"
	"github.com/eluv-io/shamir-recover/internal/test"
	"github.com/eluv-io/shamir-recover/math/fraction"
)

type polynomial struct {
	coeff []*big.Int
}

// randomPolynomial returns a polynomial of degree deg with signed coefficients
// of up to bits bits.
func randomPolynomial(rnd *rand.Rand, deg, bits uint) (p polynomial) {
	p.coeff = make([]*big.Int, deg+1)
	limit := new(big.Int).Lsh(big.NewInt(1), bits)
	for i := range p.coeff {
		p.coeff[i] = new(big.Int).Rand(rnd, limit)
		if rnd.Intn(2) == 0 {
			p.coeff[i].Neg(p.coeff[i])
		}
	}
	return
}

func (p polynomial) evaluate(x *big.Int) *big.Int {
	px := new(big.Int).Set(p.coeff[len(p.coeff)-1])
	for i := len(p.coeff) - 2; i >= 0; i-- {
		px.Mul(px, x)
		px.Add(px, p.coeff[i])
	}
	return px
}

func (p polynomial) points(xs ...int64) []Point {
	points := make([]Point, len(xs))
	for i, x := range xs {
		bx := big.NewInt(x)
		points[i] = Point{X: bx, Y: p.evaluate(bx)}
	}
	return points
}

func pts(xy ...int64) []Point {
	points := make([]Point, len(xy)/2)
	for i := range points {
		points[i] = Point{X: big.NewInt(xy[2*i]), Y: big.NewInt(xy[2*i+1])}
	}
	return points
}

func TestPolyEval(t *testing.T) {
	p := polynomial{[]*big.Int{big.NewInt(5), big.NewInt(5), big.NewInt(2)}}

	got := p.evaluate(big.NewInt(10))
	want := big.NewInt(255)
	if got.Cmp(want) != 0 {
		test.ReportError(t, got, want)
	}
}

func TestLagrange(t *testing.T) {
	for _, v := range []struct {
		points []Point
		k      int
		want   int64
	}{
		{pts(1, 4, 2, 7, 3, 10), 2, 1},
		{pts(1, 1, 2, 4, 3, 9), 3, 0},
		{pts(2, 1942, 4, 3402, 5, 4414), 3, 1234},
		{pts(3, 12, 1, 4, 6, 39, 2, 7), 3, 3},
		{pts(0, 42, 7, -1), 2, 42},
		{pts(-1, 2, 1, 2), 2, 2},
		{pts(5, -3), 1, -3},
	} {
		got, err := InterpolateAtZero(v.points, v.k)
		test.CheckNoErr(t, err, "failed interpolation")
		if got.Int64() != v.want {
			test.ReportError(t, got, v.want, v.points, v.k)
		}
	}
}

func TestLagrangeBasisAtZero(t *testing.T) {
	xs := []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)}
	for i, want := range []fraction.Fraction{
		fraction.MustNew(3, 1),
		fraction.MustNew(-3, 1),
		fraction.MustNew(1, 1),
	} {
		got, err := LagrangeBasisAtZero(xs, i)
		test.CheckNoErr(t, err, "basis")
		if !got.Equal(want) {
			test.ReportError(t, got, want, i)
		}
	}

	xs = []*big.Int{big.NewInt(1), big.NewInt(3)}
	got, err := LagrangeBasisAtZero(xs, 1)
	test.CheckNoErr(t, err, "basis")
	if want := fraction.MustNew(-1, 2); !got.Equal(want) {
		test.ReportError(t, got, want)
	}

	err = test.CheckPanic(func() { _, _ = LagrangeBasisAtZero(xs, 2) })
	test.CheckNoErr(t, err, "out of range index")
}

func TestSelect(t *testing.T) {
	points := pts(6, 39, 2, 7, 3, 12, 1, 4)
	orig := append([]Point(nil), points...)

	selected, err := Select(points, 3)
	test.CheckNoErr(t, err, "select")
	test.CheckOk(len(selected) == 3 && cap(selected) == 3, "bad selection size", t)
	for i, want := range []int64{1, 2, 3} {
		if got := selected[i].X.Int64(); got != want {
			test.ReportError(t, got, want, i)
		}
	}
	for i := range points {
		test.CheckOk(points[i].X == orig[i].X, "input reordered", t)
	}

	_, err = Select(points, 5)
	test.CheckErrIs(t, err, ErrInsufficientPoints, "k > n")
	_, err = Select(points, 0)
	test.CheckErrIs(t, err, ErrInvalidThreshold, "k = 0")
}

func TestDuplicateX(t *testing.T) {
	_, err := InterpolateAtZero(pts(2, 5, 2, 7, 3, 9), 3)
	test.CheckErrIs(t, err, ErrDuplicateX, "duplicate x")

	// The duplicate sits outside the selected prefix.
	got, err := InterpolateAtZero(pts(1, 4, 2, 7, 9, 1, 9, 2), 2)
	test.CheckNoErr(t, err, "duplicate outside prefix")
	test.CheckOk(got.Int64() == 1, "bad secret", t)

	_, err = InterpolateRational(pts(4, 1, 4, 1))
	test.CheckErrIs(t, err, ErrDuplicateX, "identical points")

	_, err = LagrangeBasisAtZero([]*big.Int{big.NewInt(4), big.NewInt(4)}, 0)
	test.CheckErrIs(t, err, ErrDuplicateX, "basis")
}

func TestNonIntegral(t *testing.T) {
	got, err := InterpolateAtZero(pts(1, 0, 3, 1), 2)
	test.CheckErrIs(t, err, ErrNonIntegral, "non-integral result")

	nie, ok := err.(*NonIntegralError)
	test.CheckOk(ok, "not a NonIntegralError", t)
	if want := fraction.MustNew(-1, 2); !nie.Value.Equal(want) {
		test.ReportError(t, nie.Value, want)
	}
	test.CheckOk(got != nil && got.Sign() == 0, "truncated value should be 0", t)
}

func TestRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for deg := uint(0); deg < 12; deg++ {
		p := randomPolynomial(rnd, deg, 521)

		xs := rnd.Perm(40)[:deg+1]
		xv := make([]int64, len(xs))
		for i := range xs {
			xv[i] = int64(xs[i]) - 20
		}

		got, err := InterpolateAtZero(p.points(xv...), int(deg+1))
		test.CheckNoErr(t, err, "failed interpolation")
		if want := p.coeff[0]; got.Cmp(want) != 0 {
			test.ReportError(t, got, want, deg, xv)
		}
	}
}

func TestPermutationInvariance(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	p := randomPolynomial(rnd, 5, 256)
	points := p.points(1, 2, 3, 4, 5, 6)

	want, err := InterpolateRational(points)
	test.CheckNoErr(t, err, "interpolation")
	for i := 0; i < 20; i++ {
		rnd.Shuffle(len(points), func(a, b int) { points[a], points[b] = points[b], points[a] })
		got, err := InterpolateRational(points)
		test.CheckNoErr(t, err, "interpolation")
		if !got.Equal(want) {
			test.ReportError(t, got, want, i)
		}
	}
}

func TestSubsetInvariance(t *testing.T) {
	rnd := rand.New(rand.NewSource(5))
	const n, k = 9, 4
	p := randomPolynomial(rnd, k-1, 300)
	all := p.points(1, 2, 3, 4, 5, 6, 7, 8, 9)

	// every 4-subset of the 9 points
	for mask := 0; mask < 1<<n; mask++ {
		var subset []Point
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				subset = append(subset, all[i])
			}
		}
		if len(subset) != k {
			continue
		}
		got, err := InterpolateRational(subset)
		test.CheckNoErr(t, err, "interpolation")
		test.CheckOk(got.IsInt(), "non-integral subset result", t)
		if got.Int().Cmp(p.coeff[0]) != 0 {
			test.ReportError(t, got, p.coeff[0], mask)
		}
	}
}

func TestLagrangeInGroup(t *testing.T) {
	groups := []group.Group{group.Secp256k1, group.P256, group.P384, group.Ristretto255}
	rnd := rand.New(rand.NewSource(11))

	for _, g := range groups {
		p := randomPolynomial(rnd, 4, 400)
		points := p.points(3, 1, 5, 2, 4, 9)

		got, err := InterpolateAtZeroIn(g, points, 5)
		test.CheckNoErr(t, err, "failed interpolation in "+g.String())

		want := new(big.Int).Mod(p.coeff[0], g.Order())
		if got.Cmp(want) != 0 {
			test.ReportError(t, got, want, g)
		}
	}
}

func TestLagrangeInGroupDuplicate(t *testing.T) {
	g := group.P256
	order := g.Order()

	// x and x + order collide in the field.
	points := []Point{
		{X: big.NewInt(1), Y: big.NewInt(1)},
		{X: new(big.Int).Add(order, big.NewInt(1)), Y: big.NewInt(2)},
	}
	_, err := InterpolateAtZeroIn(g, points, 2)
	test.CheckErrIs(t, err, ErrDuplicateX, "x = 1 mod order")

	x := []group.Scalar{g.NewScalar()}
	_, err = LagrangeInterpolate(g, x, nil)
	test.CheckIsErr(t, err, "length mismatch")

	err = test.CheckPanic(func() { LagrangeCoefficient(g, x, 1) })
	test.CheckNoErr(t, err, "out of range index")
}

func BenchmarkInterpolateAtZero(b *testing.B) {
	rnd := rand.New(rand.NewSource(1))
	for _, k := range []uint{3, 10, 30} {
		p := randomPolynomial(rnd, k-1, 256)
		xs := make([]int64, k)
		for i := range xs {
			xs[i] = int64(i + 1)
		}
		points := p.points(xs...)

		b.Run(fmt.Sprintf("rational/k=%v", k), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = InterpolateAtZero(points, int(k))
			}
		})
		b.Run(fmt.Sprintf("secp256k1/k=%v", k), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = InterpolateAtZeroIn(group.Secp256k1, points, int(k))
			}
		})
	}
}
