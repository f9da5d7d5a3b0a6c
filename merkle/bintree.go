package merkle

import (
	"fmt"

	"github.com/frankonly/merklekit/crypto"
)

const binaryKind = "binary"

// BinaryNode is a node of a binary Merkle tree. The nil *BinaryNode is the
// empty subtree.
type BinaryNode struct {
	digest crypto.Digest
	value  crypto.Hashable
	left   *BinaryNode
	right  *BinaryNode
}

// EmptyBinary is the canonical empty subtree
var EmptyBinary *BinaryNode

// NewBinary builds a binary node with the default builder
func NewBinary(value crypto.Hashable, left, right *BinaryNode) (*BinaryNode, error) {
	return defaultBuilder.Binary(value, left, right)
}

// Binary builds a node over value and two subtrees, either of which may be
// empty. Both subtrees are rehashed first and an inconsistent one fails the
// construction with ErrIntegrity. The node keeps its own copy of value.
func (b *Builder) Binary(value crypto.Hashable, left, right *BinaryNode) (*BinaryNode, error) {
	value, err := crypto.Freeze(value)
	if err != nil {
		return nil, err
	}

	if err := b.checkBinary(left); err != nil {
		return nil, fmt.Errorf("left child: %w", err)
	}
	if err := b.checkBinary(right); err != nil {
		return nil, fmt.Errorf("right child: %w", err)
	}

	node := &BinaryNode{value: value, left: left, right: right}
	digest, err := b.seal(value, node.childDigests())
	if err != nil {
		return nil, err
	}

	node.digest = digest
	return node, nil
}

func (b *Builder) checkBinary(n *BinaryNode) error {
	if n.IsEmpty() {
		return nil
	}

	return b.check(binaryKind, n.digest, n.value, n.childDigests())
}

// IsEmpty reports whether n is the empty subtree
func (n *BinaryNode) IsEmpty() bool {
	return n == nil
}

// Digest returns the digest of n, or "" for the empty subtree
func (n *BinaryNode) Digest() crypto.Digest {
	if n.IsEmpty() {
		return ""
	}
	return n.digest
}

// Value returns the payload of n
func (n *BinaryNode) Value() crypto.Hashable {
	if n.IsEmpty() {
		return nil
	}
	return exposed(n.value)
}

// Left returns the left subtree
func (n *BinaryNode) Left() *BinaryNode {
	if n.IsEmpty() {
		return nil
	}
	return n.left
}

// Right returns the right subtree
func (n *BinaryNode) Right() *BinaryNode {
	if n.IsEmpty() {
		return nil
	}
	return n.right
}

// childDigests collects the digests of non-empty children, left first
func (n *BinaryNode) childDigests() []crypto.Digest {
	var digests []crypto.Digest
	if !n.left.IsEmpty() {
		digests = append(digests, n.left.digest)
	}
	if !n.right.IsEmpty() {
		digests = append(digests, n.right.digest)
	}

	return digests
}
