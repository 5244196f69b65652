package ecc

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFieldElementArithmetic(t *testing.T) {
	prime := big.NewInt(31)
	a := NewFieldElement(big.NewInt(17), prime)
	b := NewFieldElement(big.NewInt(21), prime)

	sum, err := a.Add(b)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(7), sum.Num()) // (17+21) mod 31 == 7

	diff, err := a.Sub(b)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(27), diff.Num()) // (17-21) mod 31 == 27

	prod, err := a.Mul(b)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(16), prod.Num()) // (17*21) mod 31 == 16
}

func TestFieldElementDivIsMulInverse(t *testing.T) {
	prime := big.NewInt(31)
	a := NewFieldElement(big.NewInt(3), prime)
	b := NewFieldElement(big.NewInt(24), prime)

	q, err := a.Div(b)
	require.NoError(t, err)
	back, err := q.Mul(b)
	require.NoError(t, err)
	require.True(t, back.Equal(a))
}

func TestFieldElementOutOfFieldError(t *testing.T) {
	a := NewFieldElement(big.NewInt(1), big.NewInt(7))
	b := NewFieldElement(big.NewInt(1), big.NewInt(11))
	_, err := a.Add(b)
	require.ErrorIs(t, err, ErrOutOfField)
}

func TestFieldElementPowNegativeExponent(t *testing.T) {
	prime := big.NewInt(13)
	a := NewFieldElement(big.NewInt(7), prime)
	inv := a.Pow(big.NewInt(-1))
	prod, err := a.Mul(inv)
	require.NoError(t, err)
	require.True(t, prod.Equal(NewFieldElement(big.NewInt(1), prime)))
}
