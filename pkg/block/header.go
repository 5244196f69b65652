// Package block implements Bitcoin block headers: the 80-byte wire
// codec, proof-of-work checking, bits/target/difficulty conversions,
// the 2016-block retarget, and BIP9/91/141 version-bit signaling.
package block

import (
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/bitcoinecho/node/pkg/bhash"
)

// ErrShortHeader is returned when fewer than 80 bytes are available to
// parse a header.
var ErrShortHeader = errors.New("block: short header")

// HeaderSize is the fixed wire size of a block header.
const HeaderSize = 80

// Header is a Bitcoin block header. TxHashes, when populated, holds the
// block's committed transaction ids for callers that also carry a full
// block body; it plays no part in header serialization.
type Header struct {
	Version    uint32
	PrevBlock  bhash.Hash256
	MerkleRoot bhash.Hash256
	Timestamp  uint32
	Bits       uint32
	Nonce      uint32
	TxHashes   []bhash.Hash256
}

// Serialize encodes h as the 80-byte wire format.
func (h *Header) Serialize() []byte {
	buf := make([]byte, 0, HeaderSize)
	buf = append(buf, bhash.PutLEUint32(h.Version)...)
	buf = append(buf, bhash.ReverseBytes(h.PrevBlock.Bytes())...)
	buf = append(buf, bhash.ReverseBytes(h.MerkleRoot.Bytes())...)
	buf = append(buf, bhash.PutLEUint32(h.Timestamp)...)
	buf = append(buf, bhash.PutLEUint32(h.Bits)...)
	buf = append(buf, bhash.PutLEUint32(h.Nonce)...)
	return buf
}

// ParseHeader reads an 80-byte header from r.
func ParseHeader(r io.Reader) (*Header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, ErrShortHeader
	}
	prevBlock, err := bhash.NewHash256(bhash.ReverseBytes(buf[4:36]))
	if err != nil {
		return nil, err
	}
	merkleRoot, err := bhash.NewHash256(bhash.ReverseBytes(buf[36:68]))
	if err != nil {
		return nil, err
	}
	return &Header{
		Version:    bhash.LEUint32(buf[0:4]),
		PrevBlock:  prevBlock,
		MerkleRoot: merkleRoot,
		Timestamp:  bhash.LEUint32(buf[68:72]),
		Bits:       bhash.LEUint32(buf[72:76]),
		Nonce:      bhash.LEUint32(buf[76:80]),
	}, nil
}

// Hash returns the block hash: double-SHA256 of the serialized header,
// in natural (hashing) byte order. Callers wanting the conventional
// display order call String() on the result.
func (h *Header) Hash() bhash.Hash256 {
	return bhash.DoubleSHA256(h.Serialize())
}

// Target returns the full proof-of-work target decoded from h.Bits.
func (h *Header) Target() *big.Int {
	return BitsToTarget(h.Bits)
}

// Difficulty returns the block's difficulty relative to the
// minimum-difficulty target (bits = 0x1d00ffff, the genesis target).
func (h *Header) Difficulty() *big.Float {
	lowest := BitsToTarget(0x1d00ffff)
	target := h.Target()
	if target.Sign() == 0 {
		return big.NewFloat(0)
	}
	num := new(big.Float).SetInt(lowest)
	den := new(big.Float).SetInt(target)
	return new(big.Float).Quo(num, den)
}

// CheckPoW reports whether h's hash, interpreted as a little-endian
// integer, is strictly below its target.
func (h *Header) CheckPoW() bool {
	digest := bhash.DoubleSHA256(h.Serialize())
	hashInt := new(big.Int).SetBytes(bhash.ReverseBytes(digest.Bytes()))
	return hashInt.Cmp(h.Target()) < 0
}

// BIP9 reports whether the top three bits of version are 001, the
// signal that this block is using BIP9 versionbits.
func (h *Header) BIP9() bool {
	return h.Version>>29 == 0b001
}

// BIP91 reports whether bit 4 of version is set.
func (h *Header) BIP91() bool {
	return h.Version>>4&1 == 1
}

// BIP141 reports whether bit 1 of version is set.
func (h *Header) BIP141() bool {
	return h.Version>>1&1 == 1
}
