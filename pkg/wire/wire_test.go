package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	ping := &PingMessage{Nonce: 0xdeadbeef}
	env := NewEnvelope(Mainnet, ping)
	raw := env.Serialize()

	parsed, err := ParseEnvelope(bytes.NewReader(raw), Mainnet)
	require.NoError(t, err)
	require.Equal(t, "ping", parsed.Command)

	msg, err := Parse(parsed)
	require.NoError(t, err)
	require.Equal(t, ping.Nonce, msg.(*PingMessage).Nonce)
}

func TestEnvelopeRejectsBadMagic(t *testing.T) {
	env := NewEnvelope(Mainnet, &VerAckMessage{})
	raw := env.Serialize()
	_, err := ParseEnvelope(bytes.NewReader(raw), Testnet)
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestEnvelopeRejectsBadChecksum(t *testing.T) {
	env := NewEnvelope(Mainnet, &PingMessage{Nonce: 1})
	raw := env.Serialize()
	raw[len(raw)-1] ^= 0xff
	_, err := ParseEnvelope(bytes.NewReader(raw), Mainnet)
	require.ErrorIs(t, err, ErrBadChecksum)
}

func TestPingPongSerialize(t *testing.T) {
	ping := &PingMessage{Nonce: 42}
	pong := ParsePong(ping.Serialize())
	require.Equal(t, uint64(42), pong.Nonce)
}
