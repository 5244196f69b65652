package script

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // OP_SHA1 is part of the Script opcode set, not a security choice
	"crypto/sha256"
	"math/big"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // required by OP_RIPEMD160/OP_HASH160

	"github.com/bitcoinecho/node/pkg/bhash"
	"github.com/bitcoinecho/node/pkg/ecc"
)

// Context is the mutable evaluation state handed to every opcode
// function. Individual opcodes read or mutate only the fields they
// need; this is the uniform interface that replaces the four distinct
// opcode call signatures (stack-only, altstack, command-queue,
// sighash) found in less idiomatic ports.
type Context struct {
	Stack    [][]byte
	AltStack [][]byte
	Cmds     []Command
	Z        *big.Int
	Witness  [][]byte
}

func (c *Context) pop() ([]byte, bool) {
	if len(c.Stack) == 0 {
		return nil, false
	}
	top := c.Stack[len(c.Stack)-1]
	c.Stack = c.Stack[:len(c.Stack)-1]
	return top, true
}

func (c *Context) push(data []byte) {
	c.Stack = append(c.Stack, data)
}

// opFunc is the uniform opcode signature: mutate ctx, report success.
type opFunc func(ctx *Context) bool

var opTable = map[Opcode]opFunc{
	OP0:       func(c *Context) bool { c.push([]byte{}); return true },
	OP1NEGATE: func(c *Context) bool { c.push(encodeNum(-1)); return true },
	OPNOP:     func(c *Context) bool { return true },
	OPVERIFY:  opVerify,
	OPRETURN:  func(c *Context) bool { return false },

	OPTOALTSTACK:   opToAltStack,
	OPFROMALTSTACK: opFromAltStack,
	OPDUP:          opDup,
	OPDROP:         opDrop,
	OP2DROP:        op2Drop,
	OPSWAP:         opSwap,
	OPNIP:          opNip,
	OPOVER:         opOver,
	OPDEPTH:        opDepth,

	OPEQUAL:       opEqual,
	OPEQUALVERIFY: opEqualVerify,

	OP1ADD:   opArith1(func(a int64) int64 { return a + 1 }),
	OP1SUB:   opArith1(func(a int64) int64 { return a - 1 }),
	OPNEGATE: opArith1(func(a int64) int64 { return -a }),
	OPABS: opArith1(func(a int64) int64 {
		if a < 0 {
			return -a
		}
		return a
	}),
	OPNOT: opArith1(func(a int64) int64 {
		if a == 0 {
			return 1
		}
		return 0
	}),
	OP0NOTEQUAL: opArith1(func(a int64) int64 {
		if a != 0 {
			return 1
		}
		return 0
	}),

	OPADD: opArith2(func(a, b int64) int64 { return a + b }),
	OPSUB: opArith2(func(a, b int64) int64 { return a - b }),
	OPBOOLAND: opArith2(func(a, b int64) int64 {
		if a != 0 && b != 0 {
			return 1
		}
		return 0
	}),
	OPBOOLOR: opArith2(func(a, b int64) int64 {
		if a != 0 || b != 0 {
			return 1
		}
		return 0
	}),
	OPNUMEQUAL: opArith2(func(a, b int64) int64 {
		if a == b {
			return 1
		}
		return 0
	}),
	OPNUMNOTEQUAL: opArith2(func(a, b int64) int64 {
		if a != b {
			return 1
		}
		return 0
	}),
	OPLESSTHAN: opArith2(func(a, b int64) int64 {
		if a < b {
			return 1
		}
		return 0
	}),
	OPGREATERTHAN: opArith2(func(a, b int64) int64 {
		if a > b {
			return 1
		}
		return 0
	}),
	OPMIN: opArith2(func(a, b int64) int64 {
		if a < b {
			return a
		}
		return b
	}),
	OPMAX: opArith2(func(a, b int64) int64 {
		if a > b {
			return a
		}
		return b
	}),

	OPRIPEMD160: opHash(func(b []byte) []byte {
		h := ripemd160.New()
		h.Write(b)
		return h.Sum(nil)
	}),
	OPSHA1: opHash(func(b []byte) []byte {
		h := sha1.Sum(b) //nolint:gosec
		return h[:]
	}),
	OPSHA256: opHash(func(b []byte) []byte {
		h := sha256.Sum256(b)
		return h[:]
	}),
	OPHASH160: opHash(func(b []byte) []byte {
		h := bhash.Hash160(b)
		return h[:]
	}),
	OPHASH256: opHash(func(b []byte) []byte {
		h := bhash.DoubleSHA256(b)
		return h[:]
	}),

	OPCHECKSIG:       opCheckSig,
	OPCHECKSIGVERIFY: opCheckSigVerify,
	OPCHECKMULTISIG:  opCheckMultiSig,

	OPIF:    opIf,
	OPNOTIF: opNotIf,
}

func init() {
	// OP1..OP16 push their literal value; OP_RESERVED (0x50) is invalid
	// and intentionally left out of the table so it falls through as
	// unimplemented.
	for i := 1; i <= 16; i++ {
		n := int64(i)
		opTable[Opcode(0x50+i)] = func(c *Context) bool {
			c.push(encodeNum(n))
			return true
		}
	}
}

func opVerify(c *Context) bool {
	top, ok := c.pop()
	if !ok {
		return false
	}
	return isTruthy(top)
}

func opToAltStack(c *Context) bool {
	top, ok := c.pop()
	if !ok {
		return false
	}
	c.AltStack = append(c.AltStack, top)
	return true
}

func opFromAltStack(c *Context) bool {
	if len(c.AltStack) == 0 {
		return false
	}
	top := c.AltStack[len(c.AltStack)-1]
	c.AltStack = c.AltStack[:len(c.AltStack)-1]
	c.push(top)
	return true
}

func opDup(c *Context) bool {
	if len(c.Stack) == 0 {
		return false
	}
	top := c.Stack[len(c.Stack)-1]
	c.push(append([]byte{}, top...))
	return true
}

func opDrop(c *Context) bool {
	_, ok := c.pop()
	return ok
}

func op2Drop(c *Context) bool {
	if _, ok := c.pop(); !ok {
		return false
	}
	_, ok := c.pop()
	return ok
}

func opSwap(c *Context) bool {
	n := len(c.Stack)
	if n < 2 {
		return false
	}
	c.Stack[n-1], c.Stack[n-2] = c.Stack[n-2], c.Stack[n-1]
	return true
}

func opNip(c *Context) bool {
	n := len(c.Stack)
	if n < 2 {
		return false
	}
	c.Stack = append(c.Stack[:n-2], c.Stack[n-1])
	return true
}

func opOver(c *Context) bool {
	n := len(c.Stack)
	if n < 2 {
		return false
	}
	c.push(append([]byte{}, c.Stack[n-2]...))
	return true
}

func opDepth(c *Context) bool {
	c.push(encodeNum(int64(len(c.Stack))))
	return true
}

func opEqual(c *Context) bool {
	a, ok1 := c.pop()
	b, ok2 := c.pop()
	if !ok1 || !ok2 {
		return false
	}
	if bytes.Equal(a, b) {
		c.push(encodeNum(1))
	} else {
		c.push(encodeNum(0))
	}
	return true
}

func opEqualVerify(c *Context) bool {
	return opEqual(c) && opVerify(c)
}

func opHash(fn func([]byte) []byte) opFunc {
	return func(c *Context) bool {
		top, ok := c.pop()
		if !ok {
			return false
		}
		c.push(fn(top))
		return true
	}
}

func opArith1(fn func(int64) int64) opFunc {
	return func(c *Context) bool {
		top, ok := c.pop()
		if !ok {
			return false
		}
		c.push(encodeNum(fn(decodeNum(top))))
		return true
	}
}

func opArith2(fn func(a, b int64) int64) opFunc {
	return func(c *Context) bool {
		b, ok1 := c.pop()
		a, ok2 := c.pop()
		if !ok1 || !ok2 {
			return false
		}
		c.push(encodeNum(fn(decodeNum(a), decodeNum(b))))
		return true
	}
}

func opCheckSig(c *Context) bool {
	if c.Z == nil {
		return false
	}
	pubKeyBytes, ok1 := c.pop()
	sigBytes, ok2 := c.pop()
	if !ok1 || !ok2 {
		return false
	}
	ok := verifyECDSA(pubKeyBytes, sigBytes, c.Z)
	if ok {
		c.push(encodeNum(1))
	} else {
		c.push(encodeNum(0))
	}
	return true
}

func opCheckSigVerify(c *Context) bool {
	return opCheckSig(c) && opVerify(c)
}

// opCheckMultiSig implements the classic (non-null-dummy-checked) m-of-n
// multisig check: pop n pubkeys, m sigs, and the extra OP_CHECKMULTISIG
// stack-off-by-one dummy element, then verify each signature in order
// against some subset of the pubkeys.
func opCheckMultiSig(c *Context) bool {
	if c.Z == nil {
		return false
	}
	top, ok := c.pop()
	if !ok {
		return false
	}
	n := int(decodeNum(top))
	if n < 0 || n > len(c.Stack) {
		return false
	}
	pubkeys := make([][]byte, n)
	for i := n - 1; i >= 0; i-- {
		pk, ok := c.pop()
		if !ok {
			return false
		}
		pubkeys[i] = pk
	}
	top, ok = c.pop()
	if !ok {
		return false
	}
	m := int(decodeNum(top))
	if m < 0 || m > len(c.Stack) {
		return false
	}
	sigs := make([][]byte, m)
	for i := m - 1; i >= 0; i-- {
		sig, ok := c.pop()
		if !ok {
			return false
		}
		sigs[i] = sig
	}
	// off-by-one dummy element consumed by the original CHECKMULTISIG bug
	if _, ok := c.pop(); !ok {
		return false
	}

	pkIdx := 0
	for _, sig := range sigs {
		matched := false
		for pkIdx < len(pubkeys) {
			if verifyECDSA(pubkeys[pkIdx], sig, c.Z) {
				pkIdx++
				matched = true
				break
			}
			pkIdx++
		}
		if !matched {
			c.push(encodeNum(0))
			return true
		}
	}
	c.push(encodeNum(1))
	return true
}

func verifyECDSA(pubKeyBytes, sigBytes []byte, z *big.Int) bool {
	if len(sigBytes) == 0 {
		return false
	}
	// strip the trailing sighash-type byte Bitcoin appends to DER sigs
	der := sigBytes[:len(sigBytes)-1]
	sig, err := ecc.ParseDER(der)
	if err != nil {
		return false
	}
	point, err := ecc.ParseSEC(pubKeyBytes)
	if err != nil {
		return false
	}
	return point.Verify(z, sig)
}

// opIf and opNotIf consume their branch directly from the remaining
// command queue, matching §4.3's description of the control-flow
// opcodes as receiving the remaining commands rather than the stack.
func opIf(c *Context) bool { return runIf(c, false) }

func opNotIf(c *Context) bool { return runIf(c, true) }

func runIf(c *Context, invert bool) bool {
	top, ok := c.pop()
	if !ok {
		return false
	}
	cond := isTruthy(top)
	if invert {
		cond = !cond
	}

	trueBranch, falseBranch, rest, ok := splitBranches(c.Cmds)
	if !ok {
		return false
	}
	c.Cmds = rest
	var branch []Command
	if cond {
		branch = trueBranch
	} else {
		branch = falseBranch
	}
	c.Cmds = append(append([]Command{}, branch...), c.Cmds...)
	return true
}

// splitBranches scans cmds for the matching OP_ELSE/OP_ENDIF at depth 0,
// returning the true branch, the false branch (possibly empty), and the
// commands following OP_ENDIF.
func splitBranches(cmds []Command) (trueBranch, falseBranch, rest []Command, ok bool) {
	depth := 0
	elseIdx := -1
	for i, cmd := range cmds {
		if cmd.IsData() {
			continue
		}
		switch cmd.Op {
		case OPIF, OPNOTIF:
			depth++
		case OPELSE:
			if depth == 0 && elseIdx == -1 {
				elseIdx = i
			}
		case OPENDIF:
			if depth == 0 {
				if elseIdx == -1 {
					return cmds[:i], nil, cmds[i+1:], true
				}
				return cmds[:elseIdx], cmds[elseIdx+1 : i], cmds[i+1:], true
			}
			depth--
		}
	}
	return nil, nil, nil, false
}

func isTruthy(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	for i := 0; i < len(data)-1; i++ {
		if data[i] != 0 {
			return true
		}
	}
	last := data[len(data)-1]
	return last != 0 && last != 0x80
}

func encodeNum(n int64) []byte {
	if n == 0 {
		return []byte{}
	}
	negative := n < 0
	abs := n
	if negative {
		abs = -abs
	}
	var out []byte
	for abs > 0 {
		out = append(out, byte(abs&0xff))
		abs >>= 8
	}
	if out[len(out)-1]&0x80 != 0 {
		if negative {
			out = append(out, 0x80)
		} else {
			out = append(out, 0x00)
		}
	} else if negative {
		out[len(out)-1] |= 0x80
	}
	return out
}

func decodeNum(data []byte) int64 {
	if len(data) == 0 {
		return 0
	}
	var result int64
	for i, b := range data {
		if i == len(data)-1 {
			result |= int64(b&0x7f) << (8 * uint(i))
			if b&0x80 != 0 {
				return -result
			}
			return result
		}
		result |= int64(b) << (8 * uint(i))
	}
	return result
}
