package wire

import "github.com/pkg/errors"

// ErrUnknownCommand is returned by Parse for a command this library
// doesn't model.
var ErrUnknownCommand = errors.New("wire: unknown command")

// Parse decodes e's payload into the Message its command names.
func Parse(e *Envelope) (Message, error) {
	switch e.Command {
	case "verack":
		return &VerAckMessage{}, nil
	case "ping":
		return ParsePing(e.Payload), nil
	case "pong":
		return ParsePong(e.Payload), nil
	case "headers":
		return ParseHeaders(e.Payload)
	case "merkleblock":
		return ParseMerkleBlock(e.Payload)
	default:
		return nil, errors.Wrap(ErrUnknownCommand, e.Command)
	}
}
