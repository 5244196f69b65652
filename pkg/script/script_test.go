package script

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitcoinecho/node/pkg/bhash"
	"github.com/bitcoinecho/node/pkg/ecc"
)

func TestScriptSerializeParseRoundTrip(t *testing.T) {
	h160 := bytes.Repeat([]byte{0xab}, 20)
	s := P2PKHScript(h160)

	encoded, err := s.Serialize()
	require.NoError(t, err)

	parsed, err := Parse(bytes.NewReader(encoded))
	require.NoError(t, err)
	require.Equal(t, s, parsed)
}

func TestScriptPushDataBoundary(t *testing.T) {
	// A 75-byte push uses the direct length byte; a 76-byte push
	// requires OP_PUSHDATA1, per the corrected §4.3 boundary.
	s75 := Script{DataCommand(bytes.Repeat([]byte{0x01}, 75))}
	raw75, err := s75.rawSerialize()
	require.NoError(t, err)
	require.Equal(t, byte(75), raw75[0])

	s76 := Script{DataCommand(bytes.Repeat([]byte{0x01}, 76))}
	raw76, err := s76.rawSerialize()
	require.NoError(t, err)
	require.Equal(t, byte(OPPUSHDATA1), raw76[0])
	require.Equal(t, byte(76), raw76[1])
}

func TestTemplatePredicates(t *testing.T) {
	h160 := bytes.Repeat([]byte{0x11}, 20)
	require.True(t, P2PKHScript(h160).IsP2PKH())
	require.True(t, P2SHScript(h160).IsP2SH())
	require.True(t, P2WPKHScript(h160).IsP2WPKH())

	h256 := bytes.Repeat([]byte{0x22}, 32)
	require.True(t, P2WSHScript(h256).IsP2WSH())
}

func TestEvaluateP2PKH(t *testing.T) {
	secret := big.NewInt(42)
	pk := ecc.NewPrivateKey(secret)
	z := big.NewInt(99)
	sig := pk.Sign(z)
	sigBytes := append(sig.DER(), 0x01)
	pubKeyBytes := pk.Point().SEC(true)
	h160 := pk.Point().Hash160(true)

	scriptSig := Script{DataCommand(sigBytes), DataCommand(pubKeyBytes)}
	scriptPubKey := P2PKHScript(h160[:])
	combined := scriptSig.Combine(scriptPubKey)

	require.True(t, Evaluate(combined, z, nil))
}

func TestEvaluateP2SH(t *testing.T) {
	// A trivial redeem script: <pubkey> OP_CHECKSIG, wrapped in P2SH.
	secret := big.NewInt(7)
	pk := ecc.NewPrivateKey(secret)
	z := big.NewInt(55)
	sig := pk.Sign(z)
	sigBytes := append(sig.DER(), 0x01)
	pubKeyBytes := pk.Point().SEC(true)

	redeem := Script{DataCommand(pubKeyBytes), OpCommand(OPCHECKSIG)}
	redeemRaw, err := redeem.rawSerialize()
	require.NoError(t, err)
	h160 := bhash.Hash160(redeemRaw)

	scriptSig := Script{DataCommand(sigBytes), DataCommand(redeemRaw)}
	scriptPubKey := P2SHScript(h160[:])
	combined := scriptSig.Combine(scriptPubKey)

	require.True(t, Evaluate(combined, z, nil))
}

func TestEvaluateFailsOnOpReturn(t *testing.T) {
	require.False(t, Evaluate(Script{OpCommand(OPRETURN)}, nil, nil))
}
