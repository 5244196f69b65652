package ecc

import "math/big"

// Signature is an ECDSA signature pair (r, s).
type Signature struct {
	R, S *big.Int
}

// NewSignature returns a Signature over r and s.
func NewSignature(r, s *big.Int) Signature {
	return Signature{R: new(big.Int).Set(r), S: new(big.Int).Set(s)}
}

// DER encodes the signature in the Distinguished Encoding Rules format
// Bitcoin uses on the wire: a SEQUENCE of two INTEGERs, each minimally
// encoded with a leading zero byte prepended whenever the high bit of
// the first byte would otherwise be set.
func (sig Signature) DER() []byte {
	rBytes := derMarker(sig.R)
	sBytes := derMarker(sig.S)

	out := make([]byte, 0, 6+len(rBytes)+len(sBytes))
	out = append(out, 0x02, byte(len(rBytes)))
	out = append(out, rBytes...)
	out = append(out, 0x02, byte(len(sBytes)))
	out = append(out, sBytes...)

	result := make([]byte, 0, len(out)+2)
	result = append(result, 0x30, byte(len(out)))
	result = append(result, out...)
	return result
}

// derMarker returns the minimal big-endian encoding of n with leading
// zero bytes stripped, then a single 0x00 prepended if the top bit is
// set (so the value is never misread as negative).
func derMarker(n *big.Int) []byte {
	b := n.Bytes()
	for len(b) > 1 && b[0] == 0x00 {
		b = b[1:]
	}
	if len(b) == 0 {
		b = []byte{0x00}
	}
	if b[0]&0x80 != 0 {
		out := make([]byte, len(b)+1)
		copy(out[1:], b)
		return out
	}
	return b
}

// ParseDER decodes a DER-encoded signature.
func ParseDER(data []byte) (Signature, error) {
	if len(data) < 6 || data[0] != 0x30 {
		return Signature{}, ErrBadSignature
	}
	totalLen := int(data[1])
	if totalLen != len(data)-2 {
		return Signature{}, ErrBadSignature
	}
	if data[2] != 0x02 {
		return Signature{}, ErrBadSignature
	}
	rLen := int(data[3])
	if 4+rLen > len(data) {
		return Signature{}, ErrBadSignature
	}
	r := new(big.Int).SetBytes(data[4 : 4+rLen])

	rest := data[4+rLen:]
	if len(rest) < 2 || rest[0] != 0x02 {
		return Signature{}, ErrBadSignature
	}
	sLen := int(rest[1])
	if 2+sLen != len(rest) {
		return Signature{}, ErrBadSignature
	}
	s := new(big.Int).SetBytes(rest[2 : 2+sLen])

	return Signature{R: r, S: s}, nil
}
