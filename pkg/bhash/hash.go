// Package bhash collects the hash and binary-codec primitives shared by
// every other package in this module: double-SHA256, HASH160, varints, and
// little/big-endian integer conversions.
package bhash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // RIPEMD160 is required by the Bitcoin wire format, not a security choice
)

// Hash256Size is the length in bytes of a double-SHA256 digest.
const Hash256Size = 32

// Hash256 is a 32-byte digest, stored in the byte order it was produced by
// hashing. Bitcoin displays block and transaction hashes byte-reversed;
// callers that need display order use Reversed or String.
type Hash256 [Hash256Size]byte

// ZeroHash is the all-zero Hash256, used as a coinbase's previous-output hash.
var ZeroHash = Hash256{}

// NewHash256 copies b into a Hash256. b must be exactly 32 bytes.
func NewHash256(b []byte) (Hash256, error) {
	if len(b) != Hash256Size {
		return ZeroHash, errInvalidLength(Hash256Size, len(b))
	}
	var h Hash256
	copy(h[:], b)
	return h, nil
}

// Hash256FromHex decodes a reversed-display hex string into a Hash256 in
// natural (hashing) byte order.
func Hash256FromHex(s string) (Hash256, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return ZeroHash, err
	}
	h, err := NewHash256(b)
	if err != nil {
		return ZeroHash, err
	}
	return h.Reversed(), nil
}

// Bytes returns the hash as a byte slice in natural (hashing) order.
func (h Hash256) Bytes() []byte {
	out := make([]byte, Hash256Size)
	copy(out, h[:])
	return out
}

// Reversed returns the hash with its bytes reversed, the order Bitcoin
// displays block and transaction hashes in.
func (h Hash256) Reversed() Hash256 {
	var out Hash256
	for i := range h {
		out[i] = h[Hash256Size-1-i]
	}
	return out
}

// String renders the hash in display (reversed) order, as hex.
func (h Hash256) String() string {
	r := h.Reversed()
	return hex.EncodeToString(r[:])
}

// IsZero reports whether h is the all-zero hash.
func (h Hash256) IsZero() bool {
	return h == ZeroHash
}

// DoubleSHA256 hashes data with SHA-256 twice.
func DoubleSHA256(data []byte) Hash256 {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return Hash256(second)
}

// Hash160Size is the length in bytes of a HASH160 digest.
const Hash160Size = 20

// Hash160 computes RIPEMD160(SHA256(data)), Bitcoin's public-key-hash
// function.
func Hash160(data []byte) [Hash160Size]byte {
	sha := sha256.Sum256(data)
	ripemd := ripemd160.New()
	ripemd.Write(sha[:])
	sum := ripemd.Sum(nil)
	var out [Hash160Size]byte
	copy(out[:], sum)
	return out
}

// HMACSHA256 computes HMAC-SHA256(key, msg), used by RFC 6979 deterministic
// nonce generation.
func HMACSHA256(key, msg []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	return mac.Sum(nil)
}

func errInvalidLength(want, got int) error {
	return fmt.Errorf("bhash: invalid length: want %d, got %d", want, got)
}
