package ecc

import "math/big"

// P is the secp256k1 field prime, 2^256 - 2^32 - 977.
var P = mustHex("fffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f")

// S256Field is a FieldElement fixed to the secp256k1 prime. It does not
// wrap or embed the generic FieldElement: secp256k1 arithmetic is
// performance- and constant-sensitive enough that this module keeps it
// as its own type family rather than threading the prime through a
// generic one, matching how the curve's G, N, A, B are fixed constants
// rather than parameters.
type S256Field struct {
	num *big.Int
}

// NewS256Field returns num reduced modulo P.
func NewS256Field(num *big.Int) S256Field {
	n := new(big.Int).Mod(num, P)
	return S256Field{num: n}
}

// Num returns the element's residue mod P.
func (f S256Field) Num() *big.Int { return new(big.Int).Set(f.num) }

// Equal reports whether f and other hold the same residue.
func (f S256Field) Equal(other S256Field) bool {
	return f.num.Cmp(other.num) == 0
}

// IsZero reports whether f is the additive identity.
func (f S256Field) IsZero() bool { return f.num.Sign() == 0 }

// Add returns f + other mod P.
func (f S256Field) Add(other S256Field) S256Field {
	r := new(big.Int).Add(f.num, other.num)
	r.Mod(r, P)
	return S256Field{num: r}
}

// Sub returns f - other mod P.
func (f S256Field) Sub(other S256Field) S256Field {
	r := new(big.Int).Sub(f.num, other.num)
	r.Mod(r, P)
	return S256Field{num: r}
}

// Mul returns f * other mod P.
func (f S256Field) Mul(other S256Field) S256Field {
	r := new(big.Int).Mul(f.num, other.num)
	r.Mod(r, P)
	return S256Field{num: r}
}

// MulScalar returns f multiplied by a plain integer coefficient, mod P.
func (f S256Field) MulScalar(coefficient *big.Int) S256Field {
	r := new(big.Int).Mul(f.num, coefficient)
	r.Mod(r, P)
	return S256Field{num: r}
}

// Pow raises f to exponent mod P, wrapping negative exponents into the
// multiplicative group order P-1.
func (f S256Field) Pow(exponent *big.Int) S256Field {
	order := new(big.Int).Sub(P, big.NewInt(1))
	e := new(big.Int).Mod(exponent, order)
	r := new(big.Int).Exp(f.num, e, P)
	return S256Field{num: r}
}

// Div returns f / other mod P, via Fermat's little theorem.
func (f S256Field) Div(other S256Field) S256Field {
	inv := other.Pow(new(big.Int).Sub(P, big.NewInt(2)))
	return f.Mul(inv)
}

// Sqrt returns a square root of f. It relies on P % 4 == 3, which holds
// for secp256k1's prime, so w = f^((P+1)/4) satisfies w^2 == f whenever f
// is a quadratic residue.
func (f S256Field) Sqrt() S256Field {
	exp := new(big.Int).Add(P, big.NewInt(1))
	exp.Rsh(exp, 2)
	return f.Pow(exp)
}

func mustHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("ecc: invalid hex constant: " + s)
	}
	return n
}
