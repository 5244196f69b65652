// Package script implements Bitcoin's Script command language: the
// command sequence type, its serializer/parser, the stack-based
// evaluation engine, and output-script template recognition.
package script

import "github.com/pkg/errors"

// ErrBadScript is returned when a script's serialized form is malformed
// (length mismatch, overlong push, or truncated stream).
var ErrBadScript = errors.New("script: malformed script")

// Command is a single element of a Script: either a 1-byte opcode or an
// opaque data push of 1-520 bytes. This is the tagged-variant
// replacement for a heterogeneous int-or-bytes sequence.
type Command struct {
	Op     Opcode
	Data   []byte
	isData bool
}

// OpCommand wraps an opcode as a Command.
func OpCommand(op Opcode) Command {
	return Command{Op: op}
}

// DataCommand wraps a data push as a Command.
func DataCommand(data []byte) Command {
	return Command{Data: data, isData: true}
}

// IsData reports whether c is a data push rather than an opcode.
func (c Command) IsData() bool { return c.isData }

// Script is an ordered sequence of commands. Two Scripts may be
// concatenated (via Combine) to form the combined script the evaluator
// consumes for a single transaction input.
type Script []Command

// Combine appends other's commands after s's, returning a new Script.
func (s Script) Combine(other Script) Script {
	out := make(Script, 0, len(s)+len(other))
	out = append(out, s...)
	out = append(out, other...)
	return out
}
