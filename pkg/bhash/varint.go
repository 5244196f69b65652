package bhash

import (
	"encoding/binary"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

// ErrShortRead is returned when a reader does not hold enough bytes to
// satisfy a decode.
var ErrShortRead = errors.New("bhash: short read")

// EncodeVarInt encodes value as a Bitcoin variable-length integer.
//
// The boundaries are 0xFD, 0x10000, and 0x100000000, matching mainline
// Bitcoin. pmuens/pybtc's encode_varint mistypes the second boundary as
// 0x1000; this port uses the correct one.
func EncodeVarInt(value uint64) []byte {
	switch {
	case value < 0xfd:
		return []byte{byte(value)}
	case value < 0x10000:
		buf := make([]byte, 3)
		buf[0] = 0xfd
		binary.LittleEndian.PutUint16(buf[1:], uint16(value))
		return buf
	case value < 0x100000000:
		buf := make([]byte, 5)
		buf[0] = 0xfe
		binary.LittleEndian.PutUint32(buf[1:], uint32(value))
		return buf
	default:
		buf := make([]byte, 9)
		buf[0] = 0xff
		binary.LittleEndian.PutUint64(buf[1:], value)
		return buf
	}
}

// DecodeVarInt reads a Bitcoin variable-length integer from r.
func DecodeVarInt(r io.Reader) (uint64, error) {
	var prefix [1]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return 0, errors.Wrap(ErrShortRead, err.Error())
	}
	switch prefix[0] {
	case 0xfd:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, errors.Wrap(ErrShortRead, err.Error())
		}
		return uint64(binary.LittleEndian.Uint16(buf[:])), nil
	case 0xfe:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, errors.Wrap(ErrShortRead, err.Error())
		}
		return uint64(binary.LittleEndian.Uint32(buf[:])), nil
	case 0xff:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, errors.Wrap(ErrShortRead, err.Error())
		}
		return binary.LittleEndian.Uint64(buf[:]), nil
	default:
		return uint64(prefix[0]), nil
	}
}

// LEUint32 decodes a little-endian uint32.
func LEUint32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

// LEUint64 decodes a little-endian uint64.
func LEUint64(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

// PutLEUint32 encodes v as a 4-byte little-endian slice.
func PutLEUint32(v uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, v)
	return buf
}

// PutLEUint64 encodes v as an 8-byte little-endian slice.
func PutLEUint64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, v)
	return buf
}

// BigIntFromBE interprets b as a big-endian unsigned integer.
func BigIntFromBE(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// BigIntToBE32 encodes n as a 32-byte big-endian integer, zero-padded on
// the left.
func BigIntToBE32(n *big.Int) []byte {
	out := make([]byte, 32)
	b := n.Bytes()
	copy(out[32-len(b):], b)
	return out
}

// ReverseBytes returns a copy of b with its bytes in reverse order.
func ReverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
