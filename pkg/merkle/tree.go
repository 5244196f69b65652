// Package merkle builds full merkle roots from transaction hashes and
// reconstructs BIP37 partial merkle trees from a flag-bit stream plus a
// hash stream.
package merkle

import (
	"math"

	"github.com/bitcoinecho/node/pkg/bhash"
)

// Parent computes the merkle parent of two child hashes:
// dSHA256(left || right).
func Parent(left, right bhash.Hash256) bhash.Hash256 {
	return bhash.DoubleSHA256(append(left.Bytes(), right.Bytes()...))
}

// ParentLevel computes the parent hashes for one level of the tree,
// duplicating the final hash if the level has odd length.
func ParentLevel(level []bhash.Hash256) []bhash.Hash256 {
	if len(level)%2 == 1 {
		level = append(append([]bhash.Hash256{}, level...), level[len(level)-1])
	}
	parents := make([]bhash.Hash256, 0, len(level)/2)
	for i := 0; i < len(level); i += 2 {
		parents = append(parents, Parent(level[i], level[i+1]))
	}
	return parents
}

// Root computes the full merkle root over leaves, repeatedly pairing
// levels until a single hash remains. Root of an empty leaf set is the
// zero hash.
func Root(leaves []bhash.Hash256) bhash.Hash256 {
	if len(leaves) == 0 {
		return bhash.ZeroHash
	}
	level := leaves
	for len(level) > 1 {
		level = ParentLevel(level)
	}
	return level[0]
}

// Tree is a binary merkle tree over `total` leaves, grown bottom-up,
// used as the scaffold for partial-tree (BIP37) reconstruction. Nodes
// are filled lazily as flags and hashes are consumed.
type Tree struct {
	total    int
	maxDepth int
	nodes    [][]*bhash.Hash256 // nodes[depth][index]
	curDepth int
	curIndex int
}

// NewTree returns a Tree scaffold sized for total leaves.
func NewTree(total int) *Tree {
	maxDepth := int(math.Ceil(log2(float64(total))))
	nodes := make([][]*bhash.Hash256, maxDepth+1)
	for depth := 0; depth <= maxDepth; depth++ {
		numItems := int(math.Ceil(float64(total) / math.Pow(2, float64(maxDepth-depth))))
		nodes[depth] = make([]*bhash.Hash256, numItems)
	}
	return &Tree{total: total, maxDepth: maxDepth, nodes: nodes}
}

func log2(x float64) float64 {
	if x <= 1 {
		return 0
	}
	return math.Log(x) / math.Log(2)
}

func (t *Tree) isLeaf() bool { return t.curDepth == t.maxDepth }

func (t *Tree) rightExists() bool {
	return len(t.nodes[t.curDepth+1]) > t.curIndex*2+1
}

func (t *Tree) up() {
	t.curDepth--
	t.curIndex /= 2
}

func (t *Tree) left() {
	t.curDepth++
	t.curIndex *= 2
}

func (t *Tree) right() {
	t.curDepth++
	t.curIndex = t.curIndex*2 + 1
}

func (t *Tree) setCurrentNode(h bhash.Hash256) {
	t.nodes[t.curDepth][t.curIndex] = &h
}

func (t *Tree) getCurrentNode() *bhash.Hash256 {
	return t.nodes[t.curDepth][t.curIndex]
}

func (t *Tree) getLeftNode() *bhash.Hash256 {
	return t.nodes[t.curDepth+1][t.curIndex*2]
}

func (t *Tree) getRightNode() *bhash.Hash256 {
	return t.nodes[t.curDepth+1][t.curIndex*2+1]
}
