package ecc

import (
	"math/big"

	"github.com/bitcoinecho/node/pkg/addr"
	"github.com/bitcoinecho/node/pkg/bhash"
)

// A and B are secp256k1's curve coefficients: y^2 = x^3 + 7.
var (
	A = NewS256Field(big.NewInt(0))
	B = NewS256Field(big.NewInt(7))
)

// N is the order of the base point G, i.e. the size of the group.
var N = mustHex("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141")

// gx, gy are the coordinates of the secp256k1 generator point.
var (
	gx = mustHex("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	gy = mustHex("483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8")
)

// G is the secp256k1 generator point.
var G = S256Point{x: &s256x0, y: &s256y0, hasCoords: true}

var s256x0 = NewS256Field(gx)
var s256y0 = NewS256Field(gy)

// S256Point is a point on secp256k1, fixed to curve parameters A, B. The
// point at infinity is represented by hasCoords == false.
type S256Point struct {
	x, y      *S256Field
	hasCoords bool
}

// InfinityS256Point is the secp256k1 group identity.
var InfinityS256Point = S256Point{}

// NewS256Point constructs a point from affine coordinates and verifies it
// lies on the curve.
func NewS256Point(x, y *big.Int) (S256Point, error) {
	if x == nil && y == nil {
		return InfinityS256Point, nil
	}
	if x == nil || y == nil {
		return S256Point{}, ErrNotOnCurve
	}
	xf := NewS256Field(x)
	yf := NewS256Field(y)
	left := yf.Mul(yf)
	right := xf.Mul(xf).Mul(xf).Add(B)
	if !left.Equal(right) {
		return S256Point{}, ErrNotOnCurve
	}
	return S256Point{x: &xf, y: &yf, hasCoords: true}, nil
}

// IsInfinity reports whether p is the point at infinity.
func (p S256Point) IsInfinity() bool { return !p.hasCoords }

// XY returns p's affine coordinates, or (nil, nil) at infinity.
func (p S256Point) XY() (*S256Field, *S256Field) { return p.x, p.y }

// Equal reports whether p and other are the same point.
func (p S256Point) Equal(other S256Point) bool {
	if p.IsInfinity() || other.IsInfinity() {
		return p.IsInfinity() == other.IsInfinity()
	}
	return p.x.Equal(*other.x) && p.y.Equal(*other.y)
}

// Add returns p + other.
func (p S256Point) Add(other S256Point) S256Point {
	if p.IsInfinity() {
		return other
	}
	if other.IsInfinity() {
		return p
	}
	if p.x.Equal(*other.x) {
		if !p.y.Equal(*other.y) || p.y.IsZero() {
			return InfinityS256Point
		}
		return p.double()
	}
	slope := other.y.Sub(*p.y).Div(other.x.Sub(*p.x))
	x3 := slope.Mul(slope).Sub(*p.x).Sub(*other.x)
	y3 := slope.Mul(p.x.Sub(x3)).Sub(*p.y)
	return S256Point{x: &x3, y: &y3, hasCoords: true}
}

func (p S256Point) double() S256Point {
	two := big.NewInt(2)
	three := big.NewInt(3)
	num := p.x.Pow(two).MulScalar(three).Add(A)
	den := p.y.MulScalar(two)
	slope := num.Div(den)
	x3 := slope.Mul(slope).Sub(*p.x).Sub(*p.x)
	y3 := slope.Mul(p.x.Sub(x3)).Sub(*p.y)
	return S256Point{x: &x3, y: &y3, hasCoords: true}
}

// ScalarMul returns coefficient*p, reducing coefficient mod N first since
// N*G == infinity.
func (p S256Point) ScalarMul(coefficient *big.Int) S256Point {
	c := new(big.Int).Mod(coefficient, N)
	result := InfinityS256Point
	current := p
	zero := big.NewInt(0)
	for c.Cmp(zero) > 0 {
		if c.Bit(0) == 1 {
			result = result.Add(current)
		}
		current = current.Add(current)
		c.Rsh(c, 1)
	}
	return result
}

// Verify reports whether sig is a valid ECDSA signature of hash z under
// the public key p.
//
//	u = z / s, v = r / s, and uG + vP must have x-coordinate r.
func (p S256Point) Verify(z *big.Int, sig Signature) bool {
	sInv := new(big.Int).Exp(sig.S, new(big.Int).Sub(N, big.NewInt(2)), N)
	u := new(big.Int).Mul(z, sInv)
	u.Mod(u, N)
	v := new(big.Int).Mul(sig.R, sInv)
	v.Mod(v, N)
	total := G.ScalarMul(u).Add(p.ScalarMul(v))
	if total.IsInfinity() {
		return false
	}
	return total.x.Num().Cmp(sig.R) == 0
}

// SEC serializes p in the Standards for Efficient Cryptography point
// format: compressed (33 bytes, 0x02/0x03 prefix) or uncompressed
// (65 bytes, 0x04 prefix).
func (p S256Point) SEC(compressed bool) []byte {
	if compressed {
		prefix := byte(0x02)
		if new(big.Int).Mod(p.y.Num(), big.NewInt(2)).Sign() != 0 {
			prefix = 0x03
		}
		out := make([]byte, 33)
		out[0] = prefix
		copy(out[1:], bhash.BigIntToBE32(p.x.Num()))
		return out
	}
	out := make([]byte, 65)
	out[0] = 0x04
	copy(out[1:33], bhash.BigIntToBE32(p.x.Num()))
	copy(out[33:], bhash.BigIntToBE32(p.y.Num()))
	return out
}

// ParseSEC parses a point from its SEC encoding, compressed or
// uncompressed.
func ParseSEC(data []byte) (S256Point, error) {
	if len(data) == 0 {
		return S256Point{}, ErrNotOnCurve
	}
	if data[0] == 0x04 {
		if len(data) != 65 {
			return S256Point{}, ErrNotOnCurve
		}
		x := bhash.BigIntFromBE(data[1:33])
		y := bhash.BigIntFromBE(data[33:65])
		return NewS256Point(x, y)
	}
	if data[0] != 0x02 && data[0] != 0x03 {
		return S256Point{}, ErrNotOnCurve
	}
	if len(data) != 33 {
		return S256Point{}, ErrNotOnCurve
	}
	x := NewS256Field(bhash.BigIntFromBE(data[1:33]))
	// alpha = x^3 + 7, beta = sqrt(alpha); pick the root with the
	// requested parity.
	alpha := x.Mul(x).Mul(x).Add(B)
	beta := alpha.Sqrt()
	var evenBeta, oddBeta S256Field
	if new(big.Int).Mod(beta.Num(), big.NewInt(2)).Sign() == 0 {
		evenBeta = beta
		oddBeta = NewS256Field(new(big.Int).Sub(P, beta.Num()))
	} else {
		oddBeta = beta
		evenBeta = NewS256Field(new(big.Int).Sub(P, beta.Num()))
	}
	var y S256Field
	if data[0] == 0x02 {
		y = evenBeta
	} else {
		y = oddBeta
	}
	return S256Point{x: &x, y: &y, hasCoords: true}, nil
}

// Hash160 returns HASH160 of p's SEC encoding, the basis of a P2PKH
// address.
func (p S256Point) Hash160(compressed bool) [bhash.Hash160Size]byte {
	return bhash.Hash160(p.SEC(compressed))
}

// Address returns p's Base58Check P2PKH address.
func (p S256Point) Address(compressed, testnet bool) string {
	h160 := p.Hash160(compressed)
	return addr.EncodeP2PKHAddress(h160[:], testnet)
}
