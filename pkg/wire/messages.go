package wire

import (
	"bytes"
	"crypto/rand"
	"io"

	"github.com/bitcoinecho/node/pkg/bhash"
	"github.com/bitcoinecho/node/pkg/merkle"
)

// VersionMessage is the handshake-opening "version" message, including
// the trailing relay flag. It is only serialized; Parse does not decode
// incoming version payloads.
type VersionMessage struct {
	Version      int32
	Services     uint64
	Timestamp    int64
	ReceiverIP   [16]byte
	ReceiverPort uint16
	SenderIP     [16]byte
	SenderPort   uint16
	Nonce        uint64
	UserAgent    string
	StartHeight  int32
	Relay        bool
}

// Command implements Message.
func (m *VersionMessage) Command() string { return "version" }

// Serialize implements Message.
func (m *VersionMessage) Serialize() []byte {
	var buf bytes.Buffer
	buf.Write(bhash.PutLEUint32(uint32(m.Version)))
	buf.Write(bhash.PutLEUint64(m.Services))
	buf.Write(bhash.PutLEUint64(uint64(m.Timestamp)))

	buf.Write(bhash.PutLEUint64(m.Services))
	buf.Write(m.ReceiverIP[:])
	buf.Write([]byte{byte(m.ReceiverPort >> 8), byte(m.ReceiverPort)})

	buf.Write(bhash.PutLEUint64(m.Services))
	buf.Write(m.SenderIP[:])
	buf.Write([]byte{byte(m.SenderPort >> 8), byte(m.SenderPort)})

	buf.Write(bhash.PutLEUint64(m.Nonce))
	buf.Write(bhash.EncodeVarInt(uint64(len(m.UserAgent))))
	buf.WriteString(m.UserAgent)
	buf.Write(bhash.PutLEUint32(uint32(m.StartHeight)))
	if m.Relay {
		buf.WriteByte(0x01)
	} else {
		buf.WriteByte(0x00)
	}
	return buf.Bytes()
}

// NewVersionMessage builds an outgoing version message for a handshake,
// using a fresh random nonce.
func NewVersionMessage(userAgent string, startHeight int32) *VersionMessage {
	var nonceBuf [8]byte
	_, _ = rand.Read(nonceBuf[:])
	loopback := [16]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff, 127, 0, 0, 1}
	return &VersionMessage{
		Version:      70015,
		Services:     0,
		ReceiverIP:   loopback,
		ReceiverPort: 8333,
		SenderIP:     loopback,
		SenderPort:   8333,
		Nonce:        bhash.LEUint64(nonceBuf[:]),
		UserAgent:    userAgent,
		StartHeight:  startHeight,
		Relay:        false,
	}
}

// VerAckMessage acknowledges a handshake's version exchange.
type VerAckMessage struct{}

func (m *VerAckMessage) Command() string   { return "verack" }
func (m *VerAckMessage) Serialize() []byte { return nil }

// PingMessage carries a nonce the peer must echo back in a pong.
type PingMessage struct{ Nonce uint64 }

func (m *PingMessage) Command() string   { return "ping" }
func (m *PingMessage) Serialize() []byte { return bhash.PutLEUint64(m.Nonce) }

// PongMessage echoes a ping's nonce.
type PongMessage struct{ Nonce uint64 }

func (m *PongMessage) Command() string   { return "pong" }
func (m *PongMessage) Serialize() []byte { return bhash.PutLEUint64(m.Nonce) }

func parsePingPong(payload []byte) uint64 {
	if len(payload) < 8 {
		return 0
	}
	return bhash.LEUint64(payload)
}

// ParsePing decodes a ping payload.
func ParsePing(payload []byte) *PingMessage { return &PingMessage{Nonce: parsePingPong(payload)} }

// ParsePong decodes a pong payload.
func ParsePong(payload []byte) *PongMessage { return &PongMessage{Nonce: parsePingPong(payload)} }

// GetHeadersMessage requests block headers starting after one of the
// supplied locator hashes, up to stopHash (zero hash meaning "as many
// as the peer will send").
type GetHeadersMessage struct {
	Version  uint32
	Locator  []bhash.Hash256
	StopHash bhash.Hash256
}

func (m *GetHeadersMessage) Command() string { return "getheaders" }

func (m *GetHeadersMessage) Serialize() []byte {
	var buf bytes.Buffer
	buf.Write(bhash.PutLEUint32(m.Version))
	buf.Write(bhash.EncodeVarInt(uint64(len(m.Locator))))
	for _, h := range m.Locator {
		buf.Write(bhash.ReverseBytes(h.Bytes()))
	}
	stop := m.StopHash
	buf.Write(bhash.ReverseBytes(stop.Bytes()))
	return buf.Bytes()
}

// HeadersMessage is a peer's reply to getheaders: block headers each
// followed by a transaction-count varint that is always zero on the
// wire (headers-only, per BIP).
type HeadersMessage struct {
	Headers []HeaderEntry
}

// HeaderEntry is one block header as it appears inside a headers
// message, without the full block body.
type HeaderEntry struct {
	Raw [80]byte
}

func (m *HeadersMessage) Command() string { return "headers" }

func (m *HeadersMessage) Serialize() []byte {
	var buf bytes.Buffer
	buf.Write(bhash.EncodeVarInt(uint64(len(m.Headers))))
	for _, h := range m.Headers {
		buf.Write(h.Raw[:])
		buf.Write(bhash.EncodeVarInt(0))
	}
	return buf.Bytes()
}

// ParseHeaders decodes a headers message payload.
func ParseHeaders(payload []byte) (*HeadersMessage, error) {
	r := bytes.NewReader(payload)
	count, err := bhash.DecodeVarInt(r)
	if err != nil {
		return nil, err
	}
	out := &HeadersMessage{Headers: make([]HeaderEntry, 0, count)}
	for i := uint64(0); i < count; i++ {
		var entry HeaderEntry
		if _, err := io.ReadFull(r, entry.Raw[:]); err != nil {
			return nil, err
		}
		if _, err := bhash.DecodeVarInt(r); err != nil {
			return nil, err
		}
		out.Headers = append(out.Headers, entry)
	}
	return out, nil
}

// InventoryType identifies the kind of object an inventory vector names.
type InventoryType uint32

// Inventory types used by getdata.
const (
	InvTx            InventoryType = 1
	InvBlock         InventoryType = 2
	InvFilteredBlock InventoryType = 3
)

// InventoryVector names one object a getdata message requests.
type InventoryVector struct {
	Type InventoryType
	Hash bhash.Hash256
}

// GetDataMessage requests specific objects by inventory vector.
type GetDataMessage struct {
	Items []InventoryVector
}

func (m *GetDataMessage) Command() string { return "getdata" }

func (m *GetDataMessage) Serialize() []byte {
	var buf bytes.Buffer
	buf.Write(bhash.EncodeVarInt(uint64(len(m.Items))))
	for _, item := range m.Items {
		buf.Write(bhash.PutLEUint32(uint32(item.Type)))
		buf.Write(bhash.ReverseBytes(item.Hash.Bytes()))
	}
	return buf.Bytes()
}

// MerkleBlockMessage wraps a BIP37 partial-tree proof for the wire.
type MerkleBlockMessage struct {
	Block *merkle.Block
}

func (m *MerkleBlockMessage) Command() string   { return "merkleblock" }
func (m *MerkleBlockMessage) Serialize() []byte { return m.Block.Serialize() }

// ParseMerkleBlock decodes a merkleblock message payload.
func ParseMerkleBlock(payload []byte) (*MerkleBlockMessage, error) {
	mb, err := merkle.Parse(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	return &MerkleBlockMessage{Block: mb}, nil
}

// FilterLoadMessage carries a bloom filter payload, already serialized
// by pkg/bloom.
type FilterLoadMessage struct {
	Payload []byte
}

func (m *FilterLoadMessage) Command() string   { return "filterload" }
func (m *FilterLoadMessage) Serialize() []byte { return m.Payload }
