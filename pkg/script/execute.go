package script

import (
	"bytes"
	"crypto/sha256"
	"math/big"

	"github.com/bitcoinecho/node/pkg/bhash"
)

// Evaluate runs the combined scriptSig+scriptPubKey command sequence
// against sighash z and witness, and reports whether the script
// accepts. Evaluation succeeds iff it runs to completion with a
// nonempty stack whose top element is not the empty byte string.
func Evaluate(combined Script, z *big.Int, witness [][]byte) bool {
	ctx := &Context{Cmds: append(Script{}, combined...), Z: z, Witness: witness}

	for len(ctx.Cmds) > 0 {
		cmd := ctx.Cmds[0]
		ctx.Cmds = ctx.Cmds[1:]

		if cmd.IsData() {
			ctx.push(cmd.Data)
			if !applyPostPushPatterns(ctx) {
				return false
			}
			continue
		}

		fn, known := opTable[cmd.Op]
		if !known {
			return false
		}
		if !fn(ctx) {
			return false
		}
	}

	if len(ctx.Stack) == 0 {
		return false
	}
	top := ctx.Stack[len(ctx.Stack)-1]
	return len(top) != 0
}

// applyPostPushPatterns inspects the command queue and stack after every
// data push for the BIP16/BIP141 rewrite patterns, per §4.3. Each
// pattern either rewrites the remaining command queue or fails
// evaluation outright; an unmatched push is a no-op.
func applyPostPushPatterns(ctx *Context) bool {
	if matchP2SH(ctx.Cmds) {
		return applyP2SH(ctx)
	}
	if matchP2WPKH(ctx.Stack) {
		return applyP2WPKH(ctx)
	}
	if matchP2WSH(ctx.Stack) {
		return applyP2WSH(ctx)
	}
	return true
}

// matchP2SH reports whether the remaining commands are exactly
// OP_HASH160 <20-byte blob> OP_EQUAL.
func matchP2SH(cmds []Command) bool {
	if len(cmds) != 3 {
		return false
	}
	return !cmds[0].IsData() && cmds[0].Op == OPHASH160 &&
		cmds[1].IsData() && len(cmds[1].Data) == 20 &&
		!cmds[2].IsData() && cmds[2].Op == OPEQUAL
}

func applyP2SH(ctx *Context) bool {
	h160 := ctx.Cmds[1].Data
	ctx.Cmds = nil

	top, ok := ctx.pop()
	if !ok {
		return false
	}
	got := bhash.Hash160(top)
	if !bytes.Equal(got[:], h160) {
		return false
	}

	redeem, err := Parse(bytes.NewReader(append(bhash.EncodeVarInt(uint64(len(top))), top...)))
	if err != nil {
		return false
	}
	ctx.Cmds = append(append(Script{}, redeem...), ctx.Cmds...)
	return true
}

// matchP2WPKH reports whether the whole stack is exactly
// [<empty>, <20-byte blob>] (empty pushed first, hash pushed last).
func matchP2WPKH(stack [][]byte) bool {
	if len(stack) != 2 {
		return false
	}
	return len(stack[0]) == 0 && len(stack[1]) == 20
}

func applyP2WPKH(ctx *Context) bool {
	h160, _ := ctx.pop()
	_, _ = ctx.pop() // discard the empty marker

	var synth Script
	synth = append(synth, OpCommand(OPDUP), OpCommand(OPHASH160), DataCommand(h160), OpCommand(OPEQUALVERIFY), OpCommand(OPCHECKSIG))

	var witCmds Script
	for _, item := range ctx.Witness {
		witCmds = append(witCmds, DataCommand(item))
	}
	ctx.Cmds = append(append(append(Script{}, witCmds...), synth...), ctx.Cmds...)
	return true
}

// matchP2WSH reports whether the whole stack is exactly
// [<empty>, <32-byte blob>].
func matchP2WSH(stack [][]byte) bool {
	if len(stack) != 2 {
		return false
	}
	return len(stack[0]) == 0 && len(stack[1]) == 32
}

func applyP2WSH(ctx *Context) bool {
	scriptHash, _ := ctx.pop()
	_, _ = ctx.pop()

	if len(ctx.Witness) == 0 {
		return false
	}
	witnessScriptBytes := ctx.Witness[len(ctx.Witness)-1]
	items := ctx.Witness[:len(ctx.Witness)-1]

	got := sha256.Sum256(witnessScriptBytes)
	if !bytes.Equal(got[:], scriptHash) {
		return false
	}

	var itemCmds Script
	for _, item := range items {
		itemCmds = append(itemCmds, DataCommand(item))
	}
	inner, err := Parse(bytes.NewReader(append(bhash.EncodeVarInt(uint64(len(witnessScriptBytes))), witnessScriptBytes...)))
	if err != nil {
		return false
	}
	ctx.Cmds = append(append(append(Script{}, itemCmds...), inner...), ctx.Cmds...)
	return true
}
