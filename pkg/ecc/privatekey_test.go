package ecc

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrivateKeySignIsDeterministic(t *testing.T) {
	pk := NewPrivateKey(big.NewInt(888))
	z := big.NewInt(12345)
	sig1 := pk.Sign(z)
	sig2 := pk.Sign(z)
	require.Equal(t, 0, sig1.R.Cmp(sig2.R))
	require.Equal(t, 0, sig1.S.Cmp(sig2.S))
}

func TestPrivateKeySignIsLowS(t *testing.T) {
	pk := NewPrivateKey(big.NewInt(7))
	sig := pk.Sign(big.NewInt(99))
	half := new(big.Int).Rsh(N, 1)
	require.True(t, sig.S.Cmp(half) <= 0)
}

func TestPrivateKeyWIFRoundTrip(t *testing.T) {
	pk := NewPrivateKey(big.NewInt(5003))
	wif := pk.WIF(true, true)
	require.Equal(t, "cMahea7zqjxrtgAbB7LSGbcQUr1uX1ojuat9jZodMN8rFTv2sfUK", wif)
}

func TestPrivateKeySignRFC6979Vector(t *testing.T) {
	pk := NewPrivateKey(big.NewInt(12345))
	z, ok := new(big.Int).SetString("7c076ff316692a3d7eb3c3bb0f8b1488cf72e1afcd929e29307032997a838a3d", 16)
	require.True(t, ok)

	sig := pk.Sign(z)
	wantR, _ := new(big.Int).SetString("1c09b254eabd31b6d4202373e9f5dd4301907fd31b1bc8695037881d0836659", 16)
	wantS, _ := new(big.Int).SetString("75ba0c9e59e763b3f4daf686c732cb8dad5eea25f4c2c8aeb98c20804e954c5a", 16)
	require.Equal(t, 0, sig.R.Cmp(wantR))
	require.Equal(t, 0, sig.S.Cmp(wantS))
	require.True(t, pk.Point().Verify(z, sig))

	again := pk.Sign(z)
	require.Equal(t, 0, sig.R.Cmp(again.R))
	require.Equal(t, 0, sig.S.Cmp(again.S))
}

func TestPrivateKeyWIFMainnetUncompressedPrefix(t *testing.T) {
	pk := NewPrivateKey(big.NewInt(1))
	wif := pk.WIF(false, false)
	require.Equal(t, byte('5'), wif[0]) // mainnet + uncompressed WIFs start with '5'
}
