package node

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitcoinecho/node/pkg/wire"
)

func pipePeer(t *testing.T) (*Peer, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	p := New("pipe", wire.Mainnet, nil)
	p.conn = client
	return p, server
}

func TestHandshakeCompletesOnVerack(t *testing.T) {
	p, server := pipePeer(t)
	defer server.Close()

	done := make(chan error, 1)
	go func() { done <- p.Handshake("bitcoin-echo:0.1", 0) }()

	env, err := wire.ParseEnvelope(server, wire.Mainnet)
	require.NoError(t, err)
	require.Equal(t, "version", env.Command)

	_, err = server.Write(wire.NewEnvelope(wire.Mainnet, &wire.VerAckMessage{}).Serialize())
	require.NoError(t, err)

	require.NoError(t, <-done)
}

func TestWaitForAnswersPingWithPong(t *testing.T) {
	p, server := pipePeer(t)
	defer server.Close()

	result := make(chan wire.Message, 1)
	errc := make(chan error, 1)
	go func() {
		msg, err := p.WaitFor("pong")
		if err != nil {
			errc <- err
			return
		}
		result <- msg
	}()

	_, err := server.Write(wire.NewEnvelope(wire.Mainnet, &wire.PingMessage{Nonce: 7}).Serialize())
	require.NoError(t, err)

	pongEnv, err := wire.ParseEnvelope(server, wire.Mainnet)
	require.NoError(t, err)
	require.Equal(t, "pong", pongEnv.Command)

	_, err = server.Write(wire.NewEnvelope(wire.Mainnet, &wire.PongMessage{Nonce: 9}).Serialize())
	require.NoError(t, err)

	select {
	case err := <-errc:
		t.Fatalf("WaitFor failed: %v", err)
	case msg := <-result:
		require.Equal(t, uint64(9), msg.(*wire.PongMessage).Nonce)
	}
}
