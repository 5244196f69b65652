package ecc

import "math/big"

// Point is a point on the curve y^2 = x^3 + a*x + b over a generic
// FieldElement. A nil x (with y also nil) represents the point at
// infinity, the group identity.
type Point struct {
	x, y *FieldElement
	a, b FieldElement
}

// NewPoint constructs a Point on the curve defined by a and b. Passing
// nil for both x and y constructs the point at infinity. NewPoint
// returns ErrNotOnCurve if the coordinates do not satisfy the curve
// equation.
func NewPoint(x, y *FieldElement, a, b FieldElement) (Point, error) {
	if x == nil && y == nil {
		return Point{a: a, b: b}, nil
	}
	if x == nil || y == nil {
		return Point{}, ErrNotOnCurve
	}
	left := y.Mul2(*y)
	right := x.Mul2(*x).Mul2(*x)
	ax, err := a.Mul(*x)
	if err != nil {
		return Point{}, err
	}
	right, err = right.Add(ax)
	if err != nil {
		return Point{}, err
	}
	right, err = right.Add(b)
	if err != nil {
		return Point{}, err
	}
	if !left.Equal(right) {
		return Point{}, ErrNotOnCurve
	}
	xc, yc := *x, *y
	return Point{x: &xc, y: &yc, a: a, b: b}, nil
}

// Mul2 is Mul without an error return, for contexts (like the curve-equation
// check above) where the operands are known to share a field.
func (f FieldElement) Mul2(other FieldElement) FieldElement {
	r, _ := f.Mul(other)
	return r
}

// IsInfinity reports whether p is the point at infinity.
func (p Point) IsInfinity() bool {
	return p.x == nil && p.y == nil
}

// XY returns p's affine coordinates. Calling XY on the point at infinity
// returns (nil, nil).
func (p Point) XY() (*FieldElement, *FieldElement) {
	return p.x, p.y
}

func (p Point) sameCurve(other Point) error {
	if !p.a.Equal(other.a) || !p.b.Equal(other.b) {
		return ErrNotOnCurve
	}
	return nil
}

// Equal reports whether p and other are the same point on the same curve.
func (p Point) Equal(other Point) bool {
	if p.sameCurve(other) != nil {
		return false
	}
	if p.IsInfinity() || other.IsInfinity() {
		return p.IsInfinity() == other.IsInfinity()
	}
	return p.x.Equal(*other.x) && p.y.Equal(*other.y)
}

// Add returns p + other per the standard three-case elliptic-curve group
// law: identity handling, vertical-line inverses, tangent doubling, and
// the general chord case.
func (p Point) Add(other Point) (Point, error) {
	if err := p.sameCurve(other); err != nil {
		return Point{}, err
	}
	if p.IsInfinity() {
		return other, nil
	}
	if other.IsInfinity() {
		return p, nil
	}

	// Case: same x, different y (or the same point with y == 0) — the
	// line through them is vertical, sum is the point at infinity.
	if p.x.Equal(*other.x) {
		if !p.y.Equal(*other.y) {
			return Point{a: p.a, b: p.b}, nil
		}
		if p.y.IsZero() {
			return Point{a: p.a, b: p.b}, nil
		}
		return p.double()
	}

	// General case: distinct x coordinates, slope through the two points.
	num, err := other.y.Sub(*p.y)
	if err != nil {
		return Point{}, err
	}
	den, err := other.x.Sub(*p.x)
	if err != nil {
		return Point{}, err
	}
	slope, err := num.Div(den)
	if err != nil {
		return Point{}, err
	}
	x3 := slope.Mul2(slope)
	x3, err = x3.Sub(*p.x)
	if err != nil {
		return Point{}, err
	}
	x3, err = x3.Sub(*other.x)
	if err != nil {
		return Point{}, err
	}
	xDiff, err := p.x.Sub(x3)
	if err != nil {
		return Point{}, err
	}
	y3 := slope.Mul2(xDiff)
	y3, err = y3.Sub(*p.y)
	if err != nil {
		return Point{}, err
	}
	return Point{x: &x3, y: &y3, a: p.a, b: p.b}, nil
}

func (p Point) double() (Point, error) {
	two := big.NewInt(2)
	three := big.NewInt(3)
	xSq := p.x.Pow(two)
	num := xSq.MulScalar(three)
	num, err := num.Add(p.a)
	if err != nil {
		return Point{}, err
	}
	den := p.y.MulScalar(two)
	slope, err := num.Div(den)
	if err != nil {
		return Point{}, err
	}
	x3 := slope.Mul2(slope)
	twiceX, err := p.x.Add(*p.x)
	if err != nil {
		return Point{}, err
	}
	x3, err = x3.Sub(twiceX)
	if err != nil {
		return Point{}, err
	}
	xDiff, err := p.x.Sub(x3)
	if err != nil {
		return Point{}, err
	}
	y3 := slope.Mul2(xDiff)
	y3, err = y3.Sub(*p.y)
	if err != nil {
		return Point{}, err
	}
	return Point{x: &x3, y: &y3, a: p.a, b: p.b}, nil
}

// ScalarMul returns coefficient*p via double-and-add.
func (p Point) ScalarMul(coefficient *big.Int) (Point, error) {
	result := Point{a: p.a, b: p.b}
	current := p
	c := new(big.Int).Set(coefficient)
	zero := big.NewInt(0)
	for c.Cmp(zero) > 0 {
		if c.Bit(0) == 1 {
			var err error
			result, err = result.Add(current)
			if err != nil {
				return Point{}, err
			}
		}
		var err error
		current, err = current.Add(current)
		if err != nil {
			return Point{}, err
		}
		c.Rsh(c, 1)
	}
	return result, nil
}
