package ecc

import (
	"math/big"

	"github.com/bitcoinecho/node/pkg/addr"
	"github.com/bitcoinecho/node/pkg/bhash"
)

// PrivateKey is a secp256k1 scalar, together with its cached public point.
type PrivateKey struct {
	secret *big.Int
	point  S256Point
}

// NewPrivateKey derives the public point for secret and returns a
// PrivateKey. secret must be in [1, N).
func NewPrivateKey(secret *big.Int) PrivateKey {
	return PrivateKey{
		secret: new(big.Int).Set(secret),
		point:  G.ScalarMul(secret),
	}
}

// Point returns the public key corresponding to this private key.
func (pk PrivateKey) Point() S256Point { return pk.point }

// Sign produces a deterministic (RFC 6979) low-S ECDSA signature over the
// hash z.
func (pk PrivateKey) Sign(z *big.Int) Signature {
	k := pk.deterministicK(z)
	r := G.ScalarMul(k).x.Num()

	kInv := new(big.Int).Exp(k, new(big.Int).Sub(N, big.NewInt(2)), N)
	s := new(big.Int).Mul(r, pk.secret)
	s.Add(s, z)
	s.Mul(s, kInv)
	s.Mod(s, N)

	// Bitcoin requires the low-S form: if s > N/2, use N - s instead.
	half := new(big.Int).Rsh(N, 1)
	if s.Cmp(half) > 0 {
		s.Sub(N, s)
	}
	return NewSignature(r, s)
}

// deterministicK generates a per-message nonce per RFC 6979, using
// HMAC-SHA256 as the underlying PRF.
func (pk PrivateKey) deterministicK(z *big.Int) *big.Int {
	zCopy := new(big.Int).Set(z)
	if zCopy.Cmp(N) > 0 {
		zCopy.Sub(zCopy, N)
	}
	zBytes := bhash.BigIntToBE32(zCopy)
	secretBytes := bhash.BigIntToBE32(pk.secret)

	k := make([]byte, 32)
	v := make([]byte, 32)
	for i := range v {
		v[i] = 0x01
	}

	k = bhash.HMACSHA256(k, append(append(append(append([]byte{}, v...), 0x00), secretBytes...), zBytes...))
	v = bhash.HMACSHA256(k, v)
	k = bhash.HMACSHA256(k, append(append(append(append([]byte{}, v...), 0x01), secretBytes...), zBytes...))
	v = bhash.HMACSHA256(k, v)

	for {
		v = bhash.HMACSHA256(k, v)
		candidate := bhash.BigIntFromBE(v)
		if candidate.Sign() > 0 && candidate.Cmp(N) < 0 {
			return candidate
		}
		k = bhash.HMACSHA256(k, append(append([]byte{}, v...), 0x00))
		v = bhash.HMACSHA256(k, v)
	}
}

// WIF encodes the private key in Wallet Import Format.
func (pk PrivateKey) WIF(compressed, testnet bool) string {
	prefix := byte(0x80)
	if testnet {
		prefix = 0xef
	}
	payload := append([]byte{prefix}, bhash.BigIntToBE32(pk.secret)...)
	if compressed {
		payload = append(payload, 0x01)
	}
	return addr.EncodeBase58Check(payload)
}
