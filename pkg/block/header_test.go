package block

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitcoinecho/node/pkg/bhash"
)

const sampleMainnetHeaderHex = "020000208ec39428b17323fa0ddec8e887b4a7c53b8c0a0a220cfd0000000000000000005b0750fce0a889502d40508d39576821155e9c9e3f5c3157f961db38fd8b25be1e77a759e93c0118a4ffd71d"

func parseSampleMainnetHeader(t *testing.T) *Header {
	t.Helper()
	raw, err := hex.DecodeString(sampleMainnetHeaderHex)
	require.NoError(t, err)
	h, err := ParseHeader(bytes.NewReader(raw))
	require.NoError(t, err)
	return h
}

func TestHeaderVectorHashAndSignaling(t *testing.T) {
	h := parseSampleMainnetHeader(t)
	require.Equal(t, "0000000000000000007e9e4c586439b0cdbe13b1370bdd9435d76a644d047523", h.Hash().String())

	wantTarget, ok := new(big.Int).SetString("13ce9000000000000000000000000000000000000000000", 16)
	require.True(t, ok)
	require.Equal(t, 0, h.Target().Cmp(wantTarget))

	diffInt, _ := h.Difficulty().Int(nil)
	require.Equal(t, "888171856257", diffInt.String())

	require.True(t, h.BIP9())
	require.False(t, h.BIP91())
	require.True(t, h.BIP141())
}

func sampleHeader() *Header {
	return &Header{
		Version:    0x20000002,
		PrevBlock:  bhash.DoubleSHA256([]byte("prev")),
		MerkleRoot: bhash.DoubleSHA256([]byte("root")),
		Timestamp:  1500000000,
		Bits:       0x18013ce9,
		Nonce:      12345,
	}
}

func TestHeaderSerializeParseRoundTrip(t *testing.T) {
	h := sampleHeader()
	raw := h.Serialize()
	require.Len(t, raw, HeaderSize)

	parsed, err := ParseHeader(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, h.Version, parsed.Version)
	require.Equal(t, h.PrevBlock, parsed.PrevBlock)
	require.Equal(t, h.MerkleRoot, parsed.MerkleRoot)
	require.Equal(t, h.Timestamp, parsed.Timestamp)
	require.Equal(t, h.Bits, parsed.Bits)
	require.Equal(t, h.Nonce, parsed.Nonce)
}

func TestBitsToTargetToBitsRoundTrip(t *testing.T) {
	for _, bits := range []uint32{0x18013ce9, 0x1d00ffff, 0x1b0404cb} {
		target := BitsToTarget(bits)
		back := TargetToBits(target)
		require.Equal(t, bits, back, "bits %x", bits)
	}
}

func TestTargetToBitsToTargetRoundTrip(t *testing.T) {
	target := new(big.Int).Lsh(big.NewInt(0x7fffff), 8*20)
	bits := TargetToBits(target)
	back := BitsToTarget(bits)
	require.Equal(t, 0, target.Cmp(back))
}

func TestVersionBitSignaling(t *testing.T) {
	h := &Header{Version: 0x20000002}
	require.True(t, h.BIP9())
	require.True(t, h.BIP141())
	require.False(t, h.BIP91())

	h2 := &Header{Version: 0x20000010}
	require.True(t, h2.BIP91())
	require.False(t, h2.BIP141())
}

func TestRetargetClampsExtremes(t *testing.T) {
	bits := uint32(0x18013ce9)
	// A wildly short timespan should clamp to TwoWeeks/4.
	clampedShort := Retarget(bits, 1)
	unclamped := Retarget(bits, TwoWeeks/4)
	require.Equal(t, unclamped, clampedShort)

	clampedLong := Retarget(bits, TwoWeeks*100)
	unclampedLong := Retarget(bits, TwoWeeks*4)
	require.Equal(t, unclampedLong, clampedLong)
}
