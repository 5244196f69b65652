package tx

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitcoinecho/node/pkg/bhash"
	"github.com/bitcoinecho/node/pkg/ecc"
	"github.com/bitcoinecho/node/pkg/script"
)

func p2pkhTx(t *testing.T, pk ecc.PrivateKey, prevValue int64) (*Transaction, PrevoutLookup) {
	t.Helper()
	h160 := pk.Point().Hash160(true)
	prevHash := bhash.DoubleSHA256([]byte("prev"))
	outpoint := OutPoint{Hash: prevHash, Index: 0}

	transaction := &Transaction{
		Version: 1,
		Inputs: []TxIn{
			{PreviousOutput: outpoint, Sequence: 0xffffffff},
		},
		Outputs: []TxOut{
			{Value: prevValue - 1000, ScriptPubKey: script.P2PKHScript(h160[:])},
		},
		LockTime: 0,
	}

	prevScriptPubKey := script.P2PKHScript(h160[:])
	z, err := transaction.LegacySigHash(0, prevScriptPubKey, SighashAll)
	require.NoError(t, err)
	sig := pk.Sign(z)
	sigBytes := append(sig.DER(), byte(SighashAll))
	pubKeyBytes := pk.Point().SEC(true)
	transaction.Inputs[0].ScriptSig = script.Script{script.DataCommand(sigBytes), script.DataCommand(pubKeyBytes)}

	lookup := func(op OutPoint) (TxOut, bool) {
		if op == outpoint {
			return TxOut{Value: prevValue, ScriptPubKey: prevScriptPubKey}, true
		}
		return TxOut{}, false
	}
	return transaction, lookup
}

func TestTransactionSerializeParseRoundTrip(t *testing.T) {
	pk := ecc.NewPrivateKey(big.NewInt(321))
	transaction, _ := p2pkhTx(t, pk, 50000)

	raw, err := transaction.Serialize()
	require.NoError(t, err)

	parsed, err := Parse(bytes.NewReader(raw), false)
	require.NoError(t, err)
	require.Equal(t, transaction.Version, parsed.Version)
	require.Equal(t, transaction.LockTime, parsed.LockTime)
	require.Len(t, parsed.Inputs, 1)
	require.Len(t, parsed.Outputs, 1)
}

func TestTransactionVerifyInputP2PKH(t *testing.T) {
	pk := ecc.NewPrivateKey(big.NewInt(555))
	transaction, lookup := p2pkhTx(t, pk, 100000)

	ok, err := transaction.VerifyInput(0, lookup)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestTransactionVerifyInputFailsOnWrongKey(t *testing.T) {
	pk := ecc.NewPrivateKey(big.NewInt(555))
	transaction, lookup := p2pkhTx(t, pk, 100000)

	wrongPk := ecc.NewPrivateKey(big.NewInt(556))
	z, err := transaction.LegacySigHash(0, transaction.Inputs[0].ScriptSig, SighashAll)
	require.NoError(t, err)
	sig := wrongPk.Sign(z)
	transaction.Inputs[0].ScriptSig = script.Script{
		script.DataCommand(append(sig.DER(), byte(SighashAll))),
		script.DataCommand(wrongPk.Point().SEC(true)),
	}

	ok, err := transaction.VerifyInput(0, lookup)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTransactionFee(t *testing.T) {
	pk := ecc.NewPrivateKey(big.NewInt(777))
	transaction, lookup := p2pkhTx(t, pk, 50000)

	fee, err := transaction.Fee(func(op OutPoint) (int64, bool) {
		out, ok := lookup(op)
		return out.Value, ok
	})
	require.NoError(t, err)
	require.Equal(t, int64(1000), fee)
}

// rawScript serializes s and strips its varint length prefix, giving the
// bytes a P2SH scriptSig pushes as its redeem-script data element (the
// single-byte-length case covers every redeem script built in this file).
func rawScript(t *testing.T, s script.Script) []byte {
	t.Helper()
	raw, err := s.Serialize()
	require.NoError(t, err)
	require.Less(t, raw[0], byte(0xfd))
	return raw[1:]
}

// p2shP2PKHTx builds a P2SH input whose redeem script is an ordinary P2PKH
// script, exercising the literal spec vector: scriptSig [sig, pubkey,
// redeemScript] against scriptPubKey [OP_HASH160 <h160(redeem)> OP_EQUAL]
// must evaluate to true iff the inner redeem script does.
func p2shP2PKHTx(t *testing.T, pk ecc.PrivateKey, prevValue int64) (*Transaction, PrevoutLookup) {
	t.Helper()
	h160 := pk.Point().Hash160(true)
	redeem := script.P2PKHScript(h160[:])
	redeemRaw := rawScript(t, redeem)
	redeemHash := bhash.Hash160(redeemRaw)

	prevHash := bhash.DoubleSHA256([]byte("p2sh-prev"))
	outpoint := OutPoint{Hash: prevHash, Index: 0}
	scriptPubKey := script.P2SHScript(redeemHash[:])

	transaction := &Transaction{
		Version: 1,
		Inputs: []TxIn{
			{PreviousOutput: outpoint, Sequence: 0xffffffff},
		},
		Outputs: []TxOut{
			{Value: prevValue - 1000, ScriptPubKey: script.P2PKHScript(h160[:])},
		},
	}

	z, err := transaction.LegacySigHash(0, redeem, SighashAll)
	require.NoError(t, err)
	sig := pk.Sign(z)
	sigBytes := append(sig.DER(), byte(SighashAll))
	pubKeyBytes := pk.Point().SEC(true)
	transaction.Inputs[0].ScriptSig = script.Script{
		script.DataCommand(sigBytes),
		script.DataCommand(pubKeyBytes),
		script.DataCommand(redeemRaw),
	}

	lookup := func(op OutPoint) (TxOut, bool) {
		if op == outpoint {
			return TxOut{Value: prevValue, ScriptPubKey: scriptPubKey}, true
		}
		return TxOut{}, false
	}
	return transaction, lookup
}

func TestTransactionVerifyInputP2SH(t *testing.T) {
	pk := ecc.NewPrivateKey(big.NewInt(909))
	transaction, lookup := p2shP2PKHTx(t, pk, 100000)

	ok, err := transaction.VerifyInput(0, lookup)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestTransactionVerifyInputP2SHRejectsWrongKey(t *testing.T) {
	pk := ecc.NewPrivateKey(big.NewInt(909))
	transaction, lookup := p2shP2PKHTx(t, pk, 100000)

	wrongPk := ecc.NewPrivateKey(big.NewInt(910))
	redeemRaw := transaction.Inputs[0].ScriptSig[2].Data
	redeem, err := script.Parse(bytes.NewReader(append(bhash.EncodeVarInt(uint64(len(redeemRaw))), redeemRaw...)))
	require.NoError(t, err)
	z, err := transaction.LegacySigHash(0, redeem, SighashAll)
	require.NoError(t, err)
	sig := wrongPk.Sign(z)
	transaction.Inputs[0].ScriptSig[0] = script.DataCommand(append(sig.DER(), byte(SighashAll)))

	ok, err := transaction.VerifyInput(0, lookup)
	require.NoError(t, err)
	require.False(t, ok)
}

// p2shP2WPKHTx builds a P2SH-wrapped P2WPKH input: the scriptPubKey is a
// plain P2SH script hashing a P2WPKH witness program, the scriptSig pushes
// only that witness program, and the real signature lives in the witness
// stack. This is the exact shape that a scriptSig/witness-program combine
// bug can make verify unconditionally, regardless of signature validity.
func p2shP2WPKHTx(t *testing.T, pk ecc.PrivateKey, prevValue int64) (*Transaction, PrevoutLookup) {
	t.Helper()
	h160 := pk.Point().Hash160(true)
	witnessProgram := script.P2WPKHScript(h160[:])
	programRaw := rawScript(t, witnessProgram)
	programHash := bhash.Hash160(programRaw)

	prevHash := bhash.DoubleSHA256([]byte("p2sh-p2wpkh-prev"))
	outpoint := OutPoint{Hash: prevHash, Index: 0}
	scriptPubKey := script.P2SHScript(programHash[:])

	transaction := &Transaction{
		Version: 1,
		Inputs: []TxIn{
			{
				PreviousOutput: outpoint,
				Sequence:       0xffffffff,
				ScriptSig:      script.Script{script.DataCommand(programRaw)},
			},
		},
		Outputs: []TxOut{
			{Value: prevValue - 1000, ScriptPubKey: script.P2PKHScript(h160[:])},
		},
	}

	scriptCode := script.P2PKHScript(h160[:])
	z, err := transaction.BIP143SigHash(0, scriptCode, prevValue, SighashAll)
	require.NoError(t, err)
	sig := pk.Sign(z)
	sigBytes := append(sig.DER(), byte(SighashAll))
	pubKeyBytes := pk.Point().SEC(true)
	transaction.Inputs[0].Witness = [][]byte{sigBytes, pubKeyBytes}

	lookup := func(op OutPoint) (TxOut, bool) {
		if op == outpoint {
			return TxOut{Value: prevValue, ScriptPubKey: scriptPubKey}, true
		}
		return TxOut{}, false
	}
	return transaction, lookup
}

func TestTransactionVerifyInputP2SHWrappedP2WPKH(t *testing.T) {
	pk := ecc.NewPrivateKey(big.NewInt(4242))
	transaction, lookup := p2shP2WPKHTx(t, pk, 100000)

	ok, err := transaction.VerifyInput(0, lookup)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestTransactionVerifyInputP2SHWrappedP2WPKHRejectsWrongKey(t *testing.T) {
	pk := ecc.NewPrivateKey(big.NewInt(4242))
	transaction, lookup := p2shP2WPKHTx(t, pk, 100000)

	wrongPk := ecc.NewPrivateKey(big.NewInt(4243))
	scriptCode := script.P2PKHScript(pk.Point().Hash160(true)[:])
	z, err := transaction.BIP143SigHash(0, scriptCode, 100000, SighashAll)
	require.NoError(t, err)
	sig := wrongPk.Sign(z)
	transaction.Inputs[0].Witness = [][]byte{
		append(sig.DER(), byte(SighashAll)),
		wrongPk.Point().SEC(true),
	}

	ok, err := transaction.VerifyInput(0, lookup)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIsCoinbase(t *testing.T) {
	transaction := &Transaction{
		Inputs: []TxIn{{PreviousOutput: OutPoint{Hash: bhash.ZeroHash, Index: 0xffffffff}}},
	}
	require.True(t, transaction.IsCoinbase())
}
