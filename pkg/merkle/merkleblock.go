package merkle

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/bitcoinecho/node/pkg/bhash"
	"github.com/bitcoinecho/node/pkg/block"
)

// ErrProofMalformed is returned when a partial merkle tree proof runs
// out of flag bits or hashes, leaves hashes unused, or leaves a set bit
// unused. A reconstructed root that does not match the header is not an
// error: IsValid then returns false.
var ErrProofMalformed = errors.New("merkle: malformed partial tree proof")

// Block is a BIP37 merkleblock: a block header plus a partial merkle
// tree proof of transaction inclusion.
type Block struct {
	Header *block.Header
	Total  uint32
	Hashes []bhash.Hash256
	Flags  []byte
}

// Parse decodes a merkleblock message body.
func Parse(r io.Reader) (*Block, error) {
	header, err := block.ParseHeader(r)
	if err != nil {
		return nil, err
	}
	var totalBuf [4]byte
	if _, err := io.ReadFull(r, totalBuf[:]); err != nil {
		return nil, err
	}
	total := bhash.LEUint32(totalBuf[:])

	numHashes, err := bhash.DecodeVarInt(r)
	if err != nil {
		return nil, err
	}
	hashes := make([]bhash.Hash256, numHashes)
	for i := range hashes {
		var h [32]byte
		if _, err := io.ReadFull(r, h[:]); err != nil {
			return nil, err
		}
		hash, err := bhash.NewHash256(bhash.ReverseBytes(h[:]))
		if err != nil {
			return nil, err
		}
		hashes[i] = hash
	}

	flagLen, err := bhash.DecodeVarInt(r)
	if err != nil {
		return nil, err
	}
	flagBytes := make([]byte, flagLen)
	if _, err := io.ReadFull(r, flagBytes); err != nil {
		return nil, err
	}

	return &Block{Header: header, Total: total, Hashes: hashes, Flags: flagBytes}, nil
}

// Serialize encodes mb as a merkleblock message body.
func (mb *Block) Serialize() []byte {
	var buf bytes.Buffer
	buf.Write(mb.Header.Serialize())
	buf.Write(bhash.PutLEUint32(mb.Total))
	buf.Write(bhash.EncodeVarInt(uint64(len(mb.Hashes))))
	for _, h := range mb.Hashes {
		buf.Write(bhash.ReverseBytes(h.Bytes()))
	}
	buf.Write(bhash.EncodeVarInt(uint64(len(mb.Flags))))
	buf.Write(mb.Flags)
	return buf.Bytes()
}

// flagBits expands the byte-packed flag field into individual bits,
// LSB-first within each byte, as BIP37 specifies.
func flagBits(flags []byte) []int {
	bits := make([]int, 0, len(flags)*8)
	for _, b := range flags {
		for i := 0; i < 8; i++ {
			bits = append(bits, int(b&1))
			b >>= 1
		}
	}
	return bits
}

// proofCursor drives the recursive descent described in §4.6, consuming
// flag bits and hashes from shared cursors as it walks the tree
// scaffold.
type proofCursor struct {
	tree    *Tree
	bits    []int
	bitIdx  int
	hashes  []bhash.Hash256
	hashIdx int
}

func (c *proofCursor) nextBit() (int, error) {
	if c.bitIdx >= len(c.bits) {
		return 0, ErrProofMalformed
	}
	b := c.bits[c.bitIdx]
	c.bitIdx++
	return b, nil
}

func (c *proofCursor) nextHash() (bhash.Hash256, error) {
	if c.hashIdx >= len(c.hashes) {
		return bhash.ZeroHash, ErrProofMalformed
	}
	h := c.hashes[c.hashIdx]
	c.hashIdx++
	return h, nil
}

func (c *proofCursor) populate() error {
	t := c.tree
	if t.isLeaf() {
		if _, err := c.nextBit(); err != nil {
			return err
		}
		h, err := c.nextHash()
		if err != nil {
			return err
		}
		t.setCurrentNode(h)
		return nil
	}

	bit, err := c.nextBit()
	if err != nil {
		return err
	}
	if bit == 0 {
		h, err := c.nextHash()
		if err != nil {
			return err
		}
		t.setCurrentNode(h)
		return nil
	}

	t.left()
	if err := c.populate(); err != nil {
		return err
	}
	left := *t.getCurrentNode()
	t.up()

	var right bhash.Hash256
	if t.rightExists() {
		t.right()
		if err := c.populate(); err != nil {
			return err
		}
		right = *t.getCurrentNode()
		t.up()
	} else {
		right = left
	}

	t.setCurrentNode(Parent(left, right))
	return nil
}

// IsValid reconstructs the partial merkle tree from mb's flags and
// hashes and reports whether the result matches the header's committed
// merkle root, and whether the proof consumed every hash and every flag
// bit apart from the zero padding of the last flag byte. mb.Hashes and
// the header's root are held byte-reversed, as Parse and ParseHeader
// store them.
func (mb *Block) IsValid() (bool, error) {
	tree := NewTree(int(mb.Total))
	hashes := make([]bhash.Hash256, len(mb.Hashes))
	for i, h := range mb.Hashes {
		hashes[i] = h.Reversed()
	}
	cursor := &proofCursor{tree: tree, bits: flagBits(mb.Flags), hashes: hashes}

	if err := cursor.populate(); err != nil {
		return false, err
	}
	if cursor.hashIdx != len(cursor.hashes) {
		return false, ErrProofMalformed
	}
	for _, b := range cursor.bits[cursor.bitIdx:] {
		if b != 0 {
			return false, ErrProofMalformed
		}
	}

	root := *tree.getCurrentNode()
	return root.Reversed() == mb.Header.MerkleRoot, nil
}
