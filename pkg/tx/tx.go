// Package tx implements Bitcoin transactions: the TxIn/TxOut/OutPoint
// data model, the legacy and BIP143 wire codecs, sighash computation,
// and per-input verification through the script package's evaluator.
package tx

import (
	"bytes"
	"math/big"

	"github.com/pkg/errors"

	"github.com/bitcoinecho/node/pkg/bhash"
	"github.com/bitcoinecho/node/pkg/script"
)

// ErrSighashUnsupported is returned for sighash types other than
// SIGHASH_ALL, the only type this module computes.
var ErrSighashUnsupported = errors.New("tx: unsupported sighash type")

// SigHashType enumerates the sighash flag byte. Only SighashAll is
// exercised by sighash computation; the others are named so callers can
// inspect a parsed scriptSig's trailing byte.
type SigHashType byte

const (
	SighashAll          SigHashType = 0x01
	SighashNone         SigHashType = 0x02
	SighashSingle       SigHashType = 0x03
	SighashAnyoneCanPay SigHashType = 0x80
)

// MaxMoney is the maximum number of satoshis that can ever exist.
const MaxMoney = 21_000_000 * 100_000_000

// OutPoint references a transaction output by transaction id and index.
type OutPoint struct {
	Hash  bhash.Hash256
	Index uint32
}

// IsNull reports whether op is the coinbase outpoint marker.
func (op OutPoint) IsNull() bool {
	return op.Hash.IsZero() && op.Index == 0xffffffff
}

// TxIn is a transaction input.
type TxIn struct {
	PreviousOutput OutPoint
	ScriptSig      script.Script
	Sequence       uint32
	Witness        [][]byte
}

// TxOut is a transaction output.
type TxOut struct {
	Value        int64
	ScriptPubKey script.Script
}

// Transaction is a Bitcoin transaction, with optional per-input witness
// data. Testnet is carried only to pick the right prevout-fetching
// endpoint; it has no bearing on serialization.
type Transaction struct {
	Version  uint32
	Inputs   []TxIn
	Outputs  []TxOut
	LockTime uint32
	Testnet  bool
}

// HasWitness reports whether any input carries witness data.
func (t *Transaction) HasWitness() bool {
	for _, in := range t.Inputs {
		if len(in.Witness) > 0 {
			return true
		}
	}
	return false
}

// IsCoinbase reports whether t is a coinbase transaction: exactly one
// input, pointing at the null outpoint.
func (t *Transaction) IsCoinbase() bool {
	return len(t.Inputs) == 1 && t.Inputs[0].PreviousOutput.IsNull()
}

// Fee returns the transaction fee given a lookup from outpoint to the
// referenced TxOut's value; it errors if any prevout is missing.
func (t *Transaction) Fee(prevoutValue func(OutPoint) (int64, bool)) (int64, error) {
	var in int64
	for _, txin := range t.Inputs {
		v, ok := prevoutValue(txin.PreviousOutput)
		if !ok {
			return 0, errors.Wrapf(ErrMissingPrevout, "%x:%d", txin.PreviousOutput.Hash[:], txin.PreviousOutput.Index)
		}
		in += v
	}
	var out int64
	for _, txout := range t.Outputs {
		out += txout.Value
	}
	return in - out, nil
}

// Hash returns the transaction id: double-SHA256 of the non-witness
// serialization, in natural (hashing) byte order. Callers wanting the
// conventional display order call String() on the result.
func (t *Transaction) Hash() bhash.Hash256 {
	raw := t.serializeLegacy()
	return bhash.DoubleSHA256(raw)
}

// WitnessHash returns the witness transaction id: double-SHA256 of the
// full serialization (including marker/flag/witness when present), in
// natural (hashing) byte order.
func (t *Transaction) WitnessHash() bhash.Hash256 {
	raw, err := t.Serialize()
	if err != nil {
		return bhash.ZeroHash
	}
	return bhash.DoubleSHA256(raw)
}

// Serialize encodes t per §6: version, optional segwit marker/flag,
// inputs, outputs, optional witnesses, locktime.
func (t *Transaction) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(bhash.PutLEUint32(t.Version))

	hasWitness := t.HasWitness()
	if hasWitness {
		buf.Write([]byte{0x00, 0x01})
	}

	if err := writeInputs(&buf, t.Inputs); err != nil {
		return nil, err
	}
	if err := writeOutputs(&buf, t.Outputs); err != nil {
		return nil, err
	}

	if hasWitness {
		for _, in := range t.Inputs {
			buf.Write(bhash.EncodeVarInt(uint64(len(in.Witness))))
			for _, item := range in.Witness {
				buf.Write(bhash.EncodeVarInt(uint64(len(item))))
				buf.Write(item)
			}
		}
	}

	buf.Write(bhash.PutLEUint32(t.LockTime))
	return buf.Bytes(), nil
}

// serializeLegacy encodes t without any witness data, the form used to
// compute the transaction id regardless of whether the tx is segwit.
func (t *Transaction) serializeLegacy() []byte {
	var buf bytes.Buffer
	buf.Write(bhash.PutLEUint32(t.Version))
	_ = writeInputs(&buf, t.Inputs)
	_ = writeOutputs(&buf, t.Outputs)
	buf.Write(bhash.PutLEUint32(t.LockTime))
	return buf.Bytes()
}

func writeInputs(buf *bytes.Buffer, inputs []TxIn) error {
	buf.Write(bhash.EncodeVarInt(uint64(len(inputs))))
	for _, in := range inputs {
		buf.Write(bhash.ReverseBytes(in.PreviousOutput.Hash.Bytes()))
		buf.Write(bhash.PutLEUint32(in.PreviousOutput.Index))
		raw, err := in.ScriptSig.Serialize()
		if err != nil {
			return err
		}
		buf.Write(raw)
		buf.Write(bhash.PutLEUint32(in.Sequence))
	}
	return nil
}

func writeOutputs(buf *bytes.Buffer, outputs []TxOut) error {
	buf.Write(bhash.EncodeVarInt(uint64(len(outputs))))
	for _, out := range outputs {
		buf.Write(bhash.PutLEUint64(uint64(out.Value)))
		raw, err := out.ScriptPubKey.Serialize()
		if err != nil {
			return err
		}
		buf.Write(raw)
	}
	return nil
}

// big256 interprets a 32-byte digest as a big-endian unsigned integer,
// the form sighash digests are signed as.
func big256(h bhash.Hash256) *big.Int {
	return new(big.Int).SetBytes(h.Bytes())
}
