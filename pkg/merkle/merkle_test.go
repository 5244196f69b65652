package merkle

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitcoinecho/node/pkg/bhash"
	"github.com/bitcoinecho/node/pkg/block"
)

// sampleMerkleBlockHex is a literal BIP37 merkleblock payload: total =
// 3519, 10 partial hashes, flags b55635.
const sampleMerkleBlockHex = "00000020df3b053dc46f162a9b00c7f0d5124e2676d47bbe7c5d0793a500000000000000ef445fef2ed495c275892206ca533e7411907971013ab83e3b47bd0d692d14d4dc7c835b67d8001ac157e670bf0d00000aba412a0d1480e370173072c9562becffe87aa661c1e4a6dbc305d38ec5dc088a7cf92e6458aca7b32edae818f9c2c98c37e06bf72ae0ce80649a38655ee1e27d34d9421d940b16732f24b94023e9d572a7f9ab8023434a4feb532d2adfc8c2c2158785d1bd04eb99df2e86c54bc13e139862897217400def5d72c280222c4cbaee7261831e1550dbb8fa82853e9fe506fc5fda3f7b919d8fe74b6282f92763cef8e625f977af7c8619c32a369b832bc2d051ecd9c73c51e76370ceabd4f25097c256597fa898d404ed53425de608ac6bfe426f6e2bb457f1c554866eb69dcb8d6bf6f880e9a59b3cd053e6c7060eeacaacf4dac6697dac20e4bd3f38a2ea2543d1ab7953e3430790a9f81e1c67f5b58c825acf46bd02848384eebe9af917274cdfbb1a28a5d58a23a17977def0de10d644258d9c54f886d47d293a411cb6226103b55635"

func TestMerkleBlockVectorParsesAndValidates(t *testing.T) {
	raw, err := hex.DecodeString(sampleMerkleBlockHex)
	require.NoError(t, err)

	mb, err := Parse(bytes.NewReader(raw))
	require.NoError(t, err)

	require.EqualValues(t, 0x20000000, mb.Header.Version)
	require.EqualValues(t, 3519, mb.Total)
	require.Len(t, mb.Hashes, 10)
	require.Equal(t, []byte{0xb5, 0x56, 0x35}, mb.Flags)
	require.Equal(t, "ef445fef2ed495c275892206ca533e7411907971013ab83e3b47bd0d692d14d4", mb.Header.MerkleRoot.String())

	valid, err := mb.IsValid()
	require.NoError(t, err)
	require.True(t, valid)

	require.Equal(t, raw, mb.Serialize())
}

// stubHeader stores root byte-reversed, the order ParseHeader uses.
func stubHeader(root bhash.Hash256) *block.Header {
	return &block.Header{MerkleRoot: root.Reversed()}
}

func hexLeaf(t *testing.T, s string) bhash.Hash256 {
	t.Helper()
	h, err := bhash.Hash256FromHex(s)
	require.NoError(t, err)
	return h
}

func TestParentMatchesDoubleSHA256(t *testing.T) {
	left := bhash.DoubleSHA256([]byte("left"))
	right := bhash.DoubleSHA256([]byte("right"))
	want := bhash.DoubleSHA256(append(left.Bytes(), right.Bytes()...))
	require.Equal(t, want, Parent(left, right))
}

func TestParentLevelDuplicatesOddTail(t *testing.T) {
	a := bhash.DoubleSHA256([]byte("a"))
	b := bhash.DoubleSHA256([]byte("b"))
	c := bhash.DoubleSHA256([]byte("c"))
	level := ParentLevel([]bhash.Hash256{a, b, c})
	require.Len(t, level, 2)
	require.Equal(t, Parent(a, b), level[0])
	require.Equal(t, Parent(c, c), level[1])
}

func TestRootOfSingleLeafIsItself(t *testing.T) {
	leaf := bhash.DoubleSHA256([]byte("solo"))
	require.Equal(t, leaf, Root([]bhash.Hash256{leaf}))
}

func TestRootOfEmptyIsZeroHash(t *testing.T) {
	require.Equal(t, bhash.ZeroHash, Root(nil))
}

func TestRootFourLeaves(t *testing.T) {
	leaves := []bhash.Hash256{
		bhash.DoubleSHA256([]byte("tx1")),
		bhash.DoubleSHA256([]byte("tx2")),
		bhash.DoubleSHA256([]byte("tx3")),
		bhash.DoubleSHA256([]byte("tx4")),
	}
	level1 := ParentLevel(leaves)
	want := Parent(level1[0], level1[1])
	require.Equal(t, want, Root(leaves))
}

// buildProof reconstructs the flags/hashes a full node would emit for a
// merkleblock proving every leaf of a small, fully-known tree, so the
// round trip below exercises the real recursive-descent consumer without
// hand-picking an external test vector. Hashes are returned byte-reversed,
// the order Parse stores them in.
func buildProof(leaves []bhash.Hash256) (flags []int, hashes []bhash.Hash256) {
	total := len(leaves)
	tree := NewTree(total)
	for i, leaf := range leaves {
		tree.curDepth = tree.maxDepth
		tree.curIndex = i
		tree.setCurrentNode(leaf)
	}
	tree.curDepth, tree.curIndex = 0, 0

	var walk func()
	walk = func() {
		if tree.isLeaf() {
			flags = append(flags, 1)
			hashes = append(hashes, tree.getCurrentNode().Reversed())
			return
		}
		flags = append(flags, 1)
		tree.left()
		walk()
		tree.up()
		if tree.rightExists() {
			tree.right()
			walk()
			tree.up()
		}
	}
	walk()
	return flags, hashes
}

func packFlags(bits []int) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b == 1 {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

func TestPartialTreeFullProofReconstructsRoot(t *testing.T) {
	leaves := []bhash.Hash256{
		bhash.DoubleSHA256([]byte("tx1")),
		bhash.DoubleSHA256([]byte("tx2")),
		bhash.DoubleSHA256([]byte("tx3")),
		bhash.DoubleSHA256([]byte("tx4")),
		bhash.DoubleSHA256([]byte("tx5")),
	}
	root := Root(leaves)
	bits, hashes := buildProof(leaves)

	mb := &Block{
		Header: stubHeader(root),
		Total:  uint32(len(leaves)),
		Hashes: hashes,
		Flags:  packFlags(bits),
	}
	valid, err := mb.IsValid()
	require.NoError(t, err)
	require.True(t, valid)
}

func TestPartialTreeRejectsTruncatedHashStream(t *testing.T) {
	leaves := []bhash.Hash256{
		bhash.DoubleSHA256([]byte("tx1")),
		bhash.DoubleSHA256([]byte("tx2")),
		bhash.DoubleSHA256([]byte("tx3")),
	}
	root := Root(leaves)
	bits, hashes := buildProof(leaves)

	mb := &Block{
		Header: stubHeader(root),
		Total:  uint32(len(leaves)),
		Hashes: hashes[:len(hashes)-1],
		Flags:  packFlags(bits),
	}
	_, err := mb.IsValid()
	require.ErrorIs(t, err, ErrProofMalformed)
}
