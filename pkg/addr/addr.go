// Package addr implements Bitcoin's Base58Check encoding and the
// P2PKH address format built on top of it.
package addr

import (
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/pkg/errors"

	"github.com/bitcoinecho/node/pkg/bhash"
)

// ErrBadAddress is returned when a Base58Check payload fails its
// checksum or has an unexpected length.
var ErrBadAddress = errors.New("addr: invalid base58check payload")

// EncodeBase58Check base58-encodes payload with a 4-byte double-SHA256
// checksum appended, Bitcoin's standard address/WIF wrapper.
func EncodeBase58Check(payload []byte) string {
	checksum := bhash.DoubleSHA256(payload)
	full := append(append([]byte{}, payload...), checksum.Bytes()[:4]...)
	return base58.Encode(full)
}

// DecodeBase58Check decodes s and verifies its checksum, returning the
// payload with the checksum stripped but the version prefix kept —
// callers that expect a version byte slice it off themselves.
func DecodeBase58Check(s string) ([]byte, error) {
	full := base58.Decode(s)
	if len(full) < 5 {
		return nil, ErrBadAddress
	}
	payload := full[:len(full)-4]
	checksum := full[len(full)-4:]
	want := bhash.DoubleSHA256(payload)
	if string(want.Bytes()[:4]) != string(checksum) {
		return nil, ErrBadAddress
	}
	return payload, nil
}

// EncodeP2PKHAddress encodes a HASH160 as a pay-to-pubkey-hash address.
func EncodeP2PKHAddress(h160 []byte, testnet bool) string {
	prefix := byte(0x00)
	if testnet {
		prefix = 0x6f
	}
	payload := append([]byte{prefix}, h160...)
	return EncodeBase58Check(payload)
}

// EncodeP2SHAddress encodes a HASH160 as a pay-to-script-hash address.
func EncodeP2SHAddress(h160 []byte, testnet bool) string {
	prefix := byte(0x05)
	if testnet {
		prefix = 0xc4
	}
	payload := append([]byte{prefix}, h160...)
	return EncodeBase58Check(payload)
}

// DecodeAddress decodes a Base58Check address and returns its HASH160
// payload and whether it is a P2SH address.
func DecodeAddress(s string) (h160 []byte, isP2SH bool, err error) {
	payload, err := DecodeBase58Check(s)
	if err != nil {
		return nil, false, err
	}
	if len(payload) != 21 {
		return nil, false, ErrBadAddress
	}
	version := payload[0]
	switch version {
	case 0x00, 0x6f:
		return payload[1:], false, nil
	case 0x05, 0xc4:
		return payload[1:], true, nil
	default:
		return nil, false, ErrBadAddress
	}
}
