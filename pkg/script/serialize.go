package script

import (
	"bytes"
	"io"

	"github.com/bitcoinecho/node/pkg/bhash"
)

// rawSerialize encodes s's commands without the length-prefix varint:
// opcodes as a single byte, data pushes length-prefixed per §4.3
// (1-75 direct, 76-255 OP_PUSHDATA1, 256-520 OP_PUSHDATA2).
func (s Script) rawSerialize() ([]byte, error) {
	var buf bytes.Buffer
	for _, cmd := range s {
		if !cmd.IsData() {
			buf.WriteByte(byte(cmd.Op))
			continue
		}
		n := len(cmd.Data)
		switch {
		case n <= maxDirectPush:
			buf.WriteByte(byte(n))
		case n <= 255:
			buf.WriteByte(byte(OPPUSHDATA1))
			buf.WriteByte(byte(n))
		case n <= 520:
			buf.WriteByte(byte(OPPUSHDATA2))
			buf.Write(bhash.PutLEUint32(uint32(n))[:2])
		default:
			return nil, ErrBadScript
		}
		buf.Write(cmd.Data)
	}
	return buf.Bytes(), nil
}

// Serialize encodes s as varint(len) || rawSerialize().
func (s Script) Serialize() ([]byte, error) {
	raw, err := s.rawSerialize()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(raw)+9)
	out = append(out, bhash.EncodeVarInt(uint64(len(raw)))...)
	out = append(out, raw...)
	return out, nil
}

// Parse reads a length-prefixed Script from r.
func Parse(r io.Reader) (Script, error) {
	length, err := bhash.DecodeVarInt(r)
	if err != nil {
		return nil, err
	}
	lr := io.LimitReader(r, int64(length))
	var cmds Script
	consumed := 0
	for consumed < int(length) {
		var opByte [1]byte
		if _, err := io.ReadFull(lr, opByte[:]); err != nil {
			return nil, ErrBadScript
		}
		consumed++
		b := opByte[0]

		switch {
		case b >= 1 && int(b) <= maxDirectPush:
			data := make([]byte, b)
			if _, err := io.ReadFull(lr, data); err != nil {
				return nil, ErrBadScript
			}
			consumed += int(b)
			cmds = append(cmds, DataCommand(data))
		case Opcode(b) == OPPUSHDATA1:
			var lenByte [1]byte
			if _, err := io.ReadFull(lr, lenByte[:]); err != nil {
				return nil, ErrBadScript
			}
			consumed++
			n := int(lenByte[0])
			data := make([]byte, n)
			if _, err := io.ReadFull(lr, data); err != nil {
				return nil, ErrBadScript
			}
			consumed += n
			cmds = append(cmds, DataCommand(data))
		case Opcode(b) == OPPUSHDATA2:
			var lenBytes [2]byte
			if _, err := io.ReadFull(lr, lenBytes[:]); err != nil {
				return nil, ErrBadScript
			}
			consumed += 2
			n := int(lenBytes[0]) | int(lenBytes[1])<<8
			data := make([]byte, n)
			if _, err := io.ReadFull(lr, data); err != nil {
				return nil, ErrBadScript
			}
			consumed += n
			cmds = append(cmds, DataCommand(data))
		default:
			cmds = append(cmds, OpCommand(Opcode(b)))
		}
	}
	if consumed != int(length) {
		return nil, ErrBadScript
	}
	return cmds, nil
}
