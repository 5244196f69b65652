package ecc

import "github.com/pkg/errors"

// ErrOutOfField is returned when a FieldElement operation is attempted
// between operands defined over different primes.
var ErrOutOfField = errors.New("ecc: operands are not in the same field")

// ErrNotOnCurve is returned when a Point is constructed with coordinates
// that do not satisfy the curve equation.
var ErrNotOnCurve = errors.New("ecc: point is not on the curve")

// ErrBadSignature is returned by DER decoding when the input is malformed.
var ErrBadSignature = errors.New("ecc: malformed DER signature")
