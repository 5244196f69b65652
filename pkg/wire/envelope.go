// Package wire implements the Bitcoin P2P network envelope and the
// message types this library's node client exchanges with peers.
package wire

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/bitcoinecho/node/pkg/bhash"
)

// Network selects which magic bytes an envelope uses.
type Network uint32

const (
	// Mainnet is Bitcoin mainnet's magic.
	Mainnet Network = 0xd9b4bef9
	// Testnet is Bitcoin testnet3's magic.
	Testnet Network = 0x0709110b
)

const commandSize = 12

var (
	// ErrBadMagic is returned when an envelope's magic bytes don't match
	// the expected network.
	ErrBadMagic = errors.New("wire: bad magic bytes")
	// ErrBadChecksum is returned when an envelope's checksum doesn't
	// match its payload.
	ErrBadChecksum = errors.New("wire: bad checksum")
	// ErrShortRead is returned when a reader runs out of bytes mid-envelope.
	ErrShortRead = errors.New("wire: short read")
)

// Message is anything that can travel inside an Envelope.
type Message interface {
	Command() string
	Serialize() []byte
}

// Envelope is a parsed or to-be-sent P2P message frame: magic, a
// 12-byte NUL-padded command, the payload length, its checksum, and the
// payload itself.
type Envelope struct {
	Network Network
	Command string
	Payload []byte
}

// NewEnvelope wraps msg for the given network.
func NewEnvelope(network Network, msg Message) *Envelope {
	return &Envelope{Network: network, Command: msg.Command(), Payload: msg.Serialize()}
}

// Serialize encodes e in wire format.
func (e *Envelope) Serialize() []byte {
	var buf bytes.Buffer
	buf.Write(bhash.PutLEUint32(uint32(e.Network)))
	cmd := make([]byte, commandSize)
	copy(cmd, e.Command)
	buf.Write(cmd)
	buf.Write(bhash.PutLEUint32(uint32(len(e.Payload))))
	checksum := bhash.DoubleSHA256(e.Payload)
	buf.Write(checksum.Bytes()[:4])
	buf.Write(e.Payload)
	return buf.Bytes()
}

// ParseEnvelope reads one envelope from r, validating magic and checksum.
func ParseEnvelope(r io.Reader, network Network) (*Envelope, error) {
	var head [24]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, errors.Wrap(ErrShortRead, err.Error())
	}
	magic := bhash.LEUint32(head[0:4])
	if Network(magic) != network {
		return nil, ErrBadMagic
	}
	command := string(bytes.TrimRight(head[4:16], "\x00"))
	payloadLen := bhash.LEUint32(head[16:20])
	wantChecksum := head[20:24]

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, errors.Wrap(ErrShortRead, err.Error())
	}
	gotChecksum := bhash.DoubleSHA256(payload)
	if !bytes.Equal(gotChecksum.Bytes()[:4], wantChecksum) {
		return nil, ErrBadChecksum
	}
	return &Envelope{Network: network, Command: command, Payload: payload}, nil
}
