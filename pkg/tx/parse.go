package tx

import (
	"bytes"
	"io"

	"github.com/bitcoinecho/node/pkg/bhash"
	"github.com/bitcoinecho/node/pkg/script"
)

// Parse decodes a Transaction from its wire serialization, including
// the optional segwit marker/flag and per-input witness stacks.
func Parse(r io.Reader, testnet bool) (*Transaction, error) {
	var versionBuf [4]byte
	if _, err := io.ReadFull(r, versionBuf[:]); err != nil {
		return nil, err
	}
	version := bhash.LEUint32(versionBuf[:])

	peek := make([]byte, 2)
	n, err := io.ReadFull(r, peek)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	hasWitness := n == 2 && peek[0] == 0x00 && peek[1] == 0x01
	if !hasWitness {
		// Not a marker/flag pair; the bytes we peeked are actually the
		// start of the input-count varint. Put them back so
		// DecodeVarInt sees them in order.
		r = io.MultiReader(bytes.NewReader(peek[:n]), r)
	}

	inputs, err := readInputs(r)
	if err != nil {
		return nil, err
	}
	outputs, err := readOutputs(r)
	if err != nil {
		return nil, err
	}

	if hasWitness {
		for i := range inputs {
			count, err := bhash.DecodeVarInt(r)
			if err != nil {
				return nil, err
			}
			items := make([][]byte, count)
			for j := range items {
				l, err := bhash.DecodeVarInt(r)
				if err != nil {
					return nil, err
				}
				item := make([]byte, l)
				if _, err := io.ReadFull(r, item); err != nil {
					return nil, err
				}
				items[j] = item
			}
			inputs[i].Witness = items
		}
	}

	var lockBuf [4]byte
	if _, err := io.ReadFull(r, lockBuf[:]); err != nil {
		return nil, err
	}

	return &Transaction{
		Version:  version,
		Inputs:   inputs,
		Outputs:  outputs,
		LockTime: bhash.LEUint32(lockBuf[:]),
		Testnet:  testnet,
	}, nil
}

func readInputs(r io.Reader) ([]TxIn, error) {
	count, err := bhash.DecodeVarInt(r)
	if err != nil {
		return nil, err
	}
	inputs := make([]TxIn, count)
	for i := range inputs {
		var hashBuf [32]byte
		if _, err := io.ReadFull(r, hashBuf[:]); err != nil {
			return nil, err
		}
		hash, err := bhash.NewHash256(bhash.ReverseBytes(hashBuf[:]))
		if err != nil {
			return nil, err
		}
		var idxBuf [4]byte
		if _, err := io.ReadFull(r, idxBuf[:]); err != nil {
			return nil, err
		}
		sigScript, err := script.Parse(r)
		if err != nil {
			return nil, err
		}
		var seqBuf [4]byte
		if _, err := io.ReadFull(r, seqBuf[:]); err != nil {
			return nil, err
		}
		inputs[i] = TxIn{
			PreviousOutput: OutPoint{Hash: hash, Index: bhash.LEUint32(idxBuf[:])},
			ScriptSig:      sigScript,
			Sequence:       bhash.LEUint32(seqBuf[:]),
		}
	}
	return inputs, nil
}

func readOutputs(r io.Reader) ([]TxOut, error) {
	count, err := bhash.DecodeVarInt(r)
	if err != nil {
		return nil, err
	}
	outputs := make([]TxOut, count)
	for i := range outputs {
		var valBuf [8]byte
		if _, err := io.ReadFull(r, valBuf[:]); err != nil {
			return nil, err
		}
		pubKeyScript, err := script.Parse(r)
		if err != nil {
			return nil, err
		}
		outputs[i] = TxOut{Value: int64(bhash.LEUint64(valBuf[:])), ScriptPubKey: pubKeyScript}
	}
	return outputs, nil
}
