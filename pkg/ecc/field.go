package ecc

import "math/big"

// FieldElement is an integer modulo a prime, the generic building block
// the book's Point type is defined over. Production code in this module
// uses the secp256k1-specialized S256Field/S256Point instead (see
// DESIGN.md); FieldElement and Point exist so the generic curve math can
// be exercised and tested independently of secp256k1's specific constants.
type FieldElement struct {
	num   *big.Int
	prime *big.Int
}

// NewFieldElement returns num reduced modulo prime. The invariant that num
// is always in [0, prime) is enforced here, not by the caller.
func NewFieldElement(num, prime *big.Int) FieldElement {
	n := new(big.Int).Mod(num, prime)
	return FieldElement{num: n, prime: new(big.Int).Set(prime)}
}

// Num returns the element's residue.
func (f FieldElement) Num() *big.Int { return new(big.Int).Set(f.num) }

// Prime returns the field's modulus.
func (f FieldElement) Prime() *big.Int { return new(big.Int).Set(f.prime) }

// Equal reports whether f and other represent the same residue in the
// same field.
func (f FieldElement) Equal(other FieldElement) bool {
	return f.num.Cmp(other.num) == 0 && f.prime.Cmp(other.prime) == 0
}

func (f FieldElement) samePrime(other FieldElement) error {
	if f.prime.Cmp(other.prime) != 0 {
		return ErrOutOfField
	}
	return nil
}

// Add returns f + other in the field.
func (f FieldElement) Add(other FieldElement) (FieldElement, error) {
	if err := f.samePrime(other); err != nil {
		return FieldElement{}, err
	}
	sum := new(big.Int).Add(f.num, other.num)
	sum.Mod(sum, f.prime)
	return FieldElement{num: sum, prime: f.prime}, nil
}

// Sub returns f - other in the field.
func (f FieldElement) Sub(other FieldElement) (FieldElement, error) {
	if err := f.samePrime(other); err != nil {
		return FieldElement{}, err
	}
	diff := new(big.Int).Sub(f.num, other.num)
	diff.Mod(diff, f.prime)
	return FieldElement{num: diff, prime: f.prime}, nil
}

// Mul returns f * other in the field.
func (f FieldElement) Mul(other FieldElement) (FieldElement, error) {
	if err := f.samePrime(other); err != nil {
		return FieldElement{}, err
	}
	prod := new(big.Int).Mul(f.num, other.num)
	prod.Mod(prod, f.prime)
	return FieldElement{num: prod, prime: f.prime}, nil
}

// Pow returns f raised to exponent, which may be negative (handled via
// Fermat's little theorem: a^-1 == a^(p-2)).
func (f FieldElement) Pow(exponent *big.Int) FieldElement {
	// p - 1 is the multiplicative group order; reduce the exponent into
	// [0, p-1) so negative exponents work without a special case.
	order := new(big.Int).Sub(f.prime, big.NewInt(1))
	e := new(big.Int).Mod(exponent, order)
	result := new(big.Int).Exp(f.num, e, f.prime)
	return FieldElement{num: result, prime: f.prime}
}

// Div returns f / other in the field, computed as f * other^(p-2).
func (f FieldElement) Div(other FieldElement) (FieldElement, error) {
	if err := f.samePrime(other); err != nil {
		return FieldElement{}, err
	}
	inv := other.Pow(new(big.Int).Sub(other.prime, big.NewInt(2)))
	return f.Mul(inv)
}

// MulScalar returns f multiplied by a plain (non-field) integer coefficient,
// used internally by Point addition when doubling requires small multiples.
func (f FieldElement) MulScalar(coefficient *big.Int) FieldElement {
	prod := new(big.Int).Mul(f.num, coefficient)
	prod.Mod(prod, f.prime)
	return FieldElement{num: prod, prime: f.prime}
}

// Neg returns -f in the field.
func (f FieldElement) Neg() FieldElement {
	n := new(big.Int).Neg(f.num)
	n.Mod(n, f.prime)
	return FieldElement{num: n, prime: f.prime}
}

// IsZero reports whether f is the additive identity.
func (f FieldElement) IsZero() bool {
	return f.num.Sign() == 0
}
