// Package node implements a synchronous Bitcoin P2P peer client: connect,
// handshake, and wait for a reply matching one of a set of commands,
// answering ping/version bookkeeping messages along the way.
package node

import (
	"net"
	"time"

	"github.com/btcsuite/btclog"
	"github.com/pkg/errors"

	"github.com/bitcoinecho/node/pkg/wire"
)

// ErrUnexpectedClose is returned when the peer connection closes before
// a handshake or wait completes.
var ErrUnexpectedClose = errors.New("node: connection closed")

// Peer is a synchronous TCP connection to one Bitcoin node.
type Peer struct {
	addr    string
	network wire.Network
	conn    net.Conn
	log     btclog.Logger
}

// New returns a Peer for addr (host:port) on the given network. log may
// be nil, in which case logging is disabled.
func New(addr string, network wire.Network, log btclog.Logger) *Peer {
	if log == nil {
		log = btclog.Disabled
	}
	return &Peer{addr: addr, network: network, log: log}
}

// Connect dials the peer with a bounded timeout.
func (p *Peer) Connect(timeout time.Duration) error {
	conn, err := net.DialTimeout("tcp", p.addr, timeout)
	if err != nil {
		return errors.Wrapf(err, "node: dial %s", p.addr)
	}
	p.conn = conn
	p.log.Debugf("connected to %s", p.addr)
	return nil
}

// Close closes the underlying connection.
func (p *Peer) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

// Send writes msg to the peer wrapped in a network envelope.
func (p *Peer) Send(msg wire.Message) error {
	env := wire.NewEnvelope(p.network, msg)
	_, err := p.conn.Write(env.Serialize())
	return err
}

// Read blocks for the next envelope on the wire.
func (p *Peer) Read() (*wire.Envelope, error) {
	return wire.ParseEnvelope(p.conn, p.network)
}

// Handshake performs the version/verack exchange: sends a version
// message, then waits for verack, replying to the peer's own version
// with verack along the way.
func (p *Peer) Handshake(userAgent string, startHeight int32) error {
	if err := p.Send(wire.NewVersionMessage(userAgent, startHeight)); err != nil {
		return err
	}
	_, err := p.WaitFor("verack")
	return err
}

// WaitFor loops over incoming envelopes, transparently answering
// version (with verack) and ping (with pong), until it sees one of the
// requested commands, which it parses and returns.
func (p *Peer) WaitFor(classes ...string) (wire.Message, error) {
	wanted := make(map[string]bool, len(classes))
	for _, c := range classes {
		wanted[c] = true
	}
	for {
		env, err := p.Read()
		if err != nil {
			return nil, err
		}
		p.log.Debugf("recv %s (%d bytes)", env.Command, len(env.Payload))

		switch env.Command {
		case "version":
			if err := p.Send(&wire.VerAckMessage{}); err != nil {
				return nil, err
			}
		case "ping":
			ping := wire.ParsePing(env.Payload)
			if err := p.Send(&wire.PongMessage{Nonce: ping.Nonce}); err != nil {
				return nil, err
			}
		}

		if wanted[env.Command] {
			if env.Command == "verack" {
				return &wire.VerAckMessage{}, nil
			}
			return wire.Parse(env)
		}
	}
}
