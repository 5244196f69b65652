package tx

import (
	"bytes"
	"math/big"

	"github.com/bitcoinecho/node/pkg/bhash"
	"github.com/bitcoinecho/node/pkg/script"
)

// PrevoutLookup resolves an outpoint to the TxOut it references, the
// caller-supplied substitute for a full UTXO set.
type PrevoutLookup func(OutPoint) (TxOut, bool)

// LegacySigHash computes the pre-segwit SIGHASH_ALL digest for input
// inputIndex: every other input's scriptSig is blanked, the signed
// input's scriptSig is replaced by the prevout's scriptPubKey, and the
// sighash type is appended before double-hashing.
func (t *Transaction) LegacySigHash(inputIndex int, scriptPubKey script.Script, hashType SigHashType) (*big.Int, error) {
	if hashType != SighashAll {
		return nil, ErrSighashUnsupported
	}
	var buf bytes.Buffer
	buf.Write(bhash.PutLEUint32(t.Version))
	buf.Write(bhash.EncodeVarInt(uint64(len(t.Inputs))))
	for i, in := range t.Inputs {
		buf.Write(bhash.ReverseBytes(in.PreviousOutput.Hash.Bytes()))
		buf.Write(bhash.PutLEUint32(in.PreviousOutput.Index))
		var sigScript script.Script
		if i == inputIndex {
			sigScript = scriptPubKey
		}
		raw, err := sigScript.Serialize()
		if err != nil {
			return nil, err
		}
		buf.Write(raw)
		buf.Write(bhash.PutLEUint32(in.Sequence))
	}
	if err := writeOutputs(&buf, t.Outputs); err != nil {
		return nil, err
	}
	buf.Write(bhash.PutLEUint32(t.LockTime))
	buf.Write(bhash.PutLEUint32(uint32(hashType)))

	digest := bhash.DoubleSHA256(buf.Bytes())
	return big256(digest), nil
}

// BIP143SigHash computes the witness v0 sighash digest for input
// inputIndex, over the given scriptCode (the equivalent P2PKH script
// for a P2WPKH prevout, or the witness script itself for P2WSH) and the
// prevout's amount.
func (t *Transaction) BIP143SigHash(inputIndex int, scriptCode script.Script, amount int64, hashType SigHashType) (*big.Int, error) {
	if hashType != SighashAll {
		return nil, ErrSighashUnsupported
	}
	in := t.Inputs[inputIndex]

	var prevouts bytes.Buffer
	var sequences bytes.Buffer
	for _, txin := range t.Inputs {
		prevouts.Write(bhash.ReverseBytes(txin.PreviousOutput.Hash.Bytes()))
		prevouts.Write(bhash.PutLEUint32(txin.PreviousOutput.Index))
		sequences.Write(bhash.PutLEUint32(txin.Sequence))
	}
	hashPrevouts := bhash.DoubleSHA256(prevouts.Bytes())
	hashSequence := bhash.DoubleSHA256(sequences.Bytes())

	var outputsBuf bytes.Buffer
	if err := writeOutputs(&outputsBuf, t.Outputs); err != nil {
		return nil, err
	}
	hashOutputs := bhash.DoubleSHA256(outputsBuf.Bytes())

	var buf bytes.Buffer
	buf.Write(bhash.PutLEUint32(t.Version))
	buf.Write(hashPrevouts.Bytes())
	buf.Write(hashSequence.Bytes())
	buf.Write(bhash.ReverseBytes(in.PreviousOutput.Hash.Bytes()))
	buf.Write(bhash.PutLEUint32(in.PreviousOutput.Index))
	scriptCodeRaw, err := scriptCode.Serialize()
	if err != nil {
		return nil, err
	}
	buf.Write(scriptCodeRaw)
	buf.Write(bhash.PutLEUint64(uint64(amount)))
	buf.Write(bhash.PutLEUint32(in.Sequence))
	buf.Write(hashOutputs.Bytes())
	buf.Write(bhash.PutLEUint32(t.LockTime))
	buf.Write(bhash.PutLEUint32(uint32(hashType)))

	digest := bhash.DoubleSHA256(buf.Bytes())
	return big256(digest), nil
}

// VerifyInput resolves the prevout for input inputIndex, determines
// whether it is P2SH/P2WPKH/P2WSH, computes the correct sighash, and
// drives the combined script through the evaluator.
func (t *Transaction) VerifyInput(inputIndex int, lookup PrevoutLookup) (bool, error) {
	in := t.Inputs[inputIndex]
	prevout, ok := lookup(in.PreviousOutput)
	if !ok {
		return false, ErrMissingPrevout
	}
	scriptPubKey := prevout.ScriptPubKey
	witness := in.Witness

	witnessProgram := scriptPubKey
	scriptSig := in.ScriptSig

	if scriptPubKey.IsP2SH() {
		if len(in.ScriptSig) == 0 {
			return false, nil
		}
		last := in.ScriptSig[len(in.ScriptSig)-1]
		if !last.IsData() {
			return false, nil
		}
		redeemRaw := last.Data
		redeem, err := script.Parse(bytes.NewReader(append(bhash.EncodeVarInt(uint64(len(redeemRaw))), redeemRaw...)))
		if err != nil {
			return false, nil
		}
		if !redeem.IsP2WPKH() && !redeem.IsP2WSH() {
			z, err := t.LegacySigHash(inputIndex, redeem, SighashAll)
			if err != nil {
				return false, err
			}
			combined := scriptSig.Combine(scriptPubKey)
			return script.Evaluate(combined, z, witness), nil
		}
		witnessProgram = redeem
	} else if !scriptPubKey.IsP2WPKH() && !scriptPubKey.IsP2WSH() {
		z, err := t.LegacySigHash(inputIndex, scriptPubKey, SighashAll)
		if err != nil {
			return false, err
		}
		combined := scriptSig.Combine(scriptPubKey)
		return script.Evaluate(combined, z, witness), nil
	}

	scriptCode, err := scriptCodeFor(witnessProgram, witness)
	if err != nil {
		return false, err
	}
	z, err := t.BIP143SigHash(inputIndex, scriptCode, prevout.Value, SighashAll)
	if err != nil {
		return false, err
	}
	combined := scriptSig.Combine(scriptPubKey)
	return script.Evaluate(combined, z, witness), nil
}

// scriptCodeFor returns the BIP143 scriptCode for a v0 witness program:
// the synthesized P2PKH script for P2WPKH, or the witness script itself
// (the last witness stack item) for P2WSH.
func scriptCodeFor(program script.Script, witness [][]byte) (script.Script, error) {
	if program.IsP2WPKH() {
		return script.P2PKHScript(program[1].Data), nil
	}
	if len(witness) == 0 {
		return nil, ErrMissingPrevout
	}
	witnessScriptRaw := witness[len(witness)-1]
	return script.Parse(bytes.NewReader(append(bhash.EncodeVarInt(uint64(len(witnessScriptRaw))), witnessScriptRaw...)))
}
