// Package bloom implements a BIP37 bloom filter: per-item insertion via
// k seeded MurmurHash3 hashes, and the filterload wire payload.
package bloom

import (
	"bytes"

	"github.com/spaolacci/murmur3"

	"github.com/bitcoinecho/node/pkg/bhash"
)

// bip37Tweak is the constant BIP37 mixes into each seed so that
// independent filters with the same tweak still diverge per function
// index.
const bip37Tweak = 0xfba4c795

// BloomFilterFlag is the filterload update-behavior flag (BIP37 §filter
// matching flags). Only MatchAll is used by this library.
type BloomFilterFlag byte

// MatchAll is the BIP37 BLOOM_UPDATE_ALL flag: the filter is updated
// with the outpoint of every output that matches it.
const MatchAll BloomFilterFlag = 1

// Filter is a BIP37 bloom filter over a fixed-size bit array.
type Filter struct {
	size          uint32
	functionCount uint32
	tweak         uint32
	bits          []byte
}

// New returns an empty filter with sizeBytes bytes (sizeBytes*8 bits) of storage,
// functionCount hash functions, and tweak mixed into every seed.
func New(sizeBytes, functionCount, tweak uint32) *Filter {
	return &Filter{
		size:          sizeBytes,
		functionCount: functionCount,
		tweak:         tweak,
		bits:          make([]byte, sizeBytes),
	}
}

// Add inserts item into the filter by setting one bit per hash function.
func (f *Filter) Add(item []byte) {
	for i := uint32(0); i < f.functionCount; i++ {
		seed := i*bip37Tweak + f.tweak
		h := murmur3.Sum32WithSeed(item, seed)
		bitIndex := h % (f.size * 8)
		f.bits[bitIndex/8] |= 1 << (bitIndex % 8)
	}
}

// Contains reports whether every bit item would set is already set. A
// true result may be a false positive; false is always exact.
func (f *Filter) Contains(item []byte) bool {
	for i := uint32(0); i < f.functionCount; i++ {
		seed := i*bip37Tweak + f.tweak
		h := murmur3.Sum32WithSeed(item, seed)
		bitIndex := h % (f.size * 8)
		if f.bits[bitIndex/8]&(1<<(bitIndex%8)) == 0 {
			return false
		}
	}
	return true
}

// Serialize encodes the filterload payload: varint(size) || bits ||
// u32_le(function_count) || u32_le(tweak) || u8(flag).
func (f *Filter) Serialize(flag BloomFilterFlag) []byte {
	var buf bytes.Buffer
	buf.Write(bhash.EncodeVarInt(uint64(len(f.bits))))
	buf.Write(f.bits)
	buf.Write(bhash.PutLEUint32(f.functionCount))
	buf.Write(bhash.PutLEUint32(f.tweak))
	buf.WriteByte(byte(flag))
	return buf.Bytes()
}

// Command returns the wire command name for a filterload message.
func (f *Filter) Command() string { return "filterload" }
