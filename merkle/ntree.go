package merkle

import (
	"fmt"

	"github.com/frankonly/merklekit/crypto"
)

const treeKind = "tree"

// TreeNode is a node of an N-ary Merkle tree
type TreeNode struct {
	digest   crypto.Digest
	value    crypto.Hashable
	children []*TreeNode
}

// NewLeaf builds a childless node with the default builder
func NewLeaf(value crypto.Hashable) (*TreeNode, error) {
	return defaultBuilder.Leaf(value)
}

// NewTree builds a node with the default builder
func NewTree(value crypto.Hashable, children ...*TreeNode) (*TreeNode, error) {
	return defaultBuilder.Tree(value, children...)
}

// Leaf builds a node without children, its digest is H(value)
func (b *Builder) Leaf(value crypto.Hashable) (*TreeNode, error) {
	return b.Tree(value)
}

// Tree builds a node over value and the ordered children. Swapping two
// children changes the digest. Every child is rehashed before it is attached
// and the node keeps its own copy of value.
func (b *Builder) Tree(value crypto.Hashable, children ...*TreeNode) (*TreeNode, error) {
	value, err := crypto.Freeze(value)
	if err != nil {
		return nil, err
	}

	digests := make([]crypto.Digest, len(children))
	for i, child := range children {
		if child == nil {
			return nil, fmt.Errorf("%w: child %d", ErrNilChild, i)
		}
		if err := b.checkTree(child); err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		digests[i] = child.digest
	}

	digest, err := b.seal(value, digests)
	if err != nil {
		return nil, err
	}

	owned := make([]*TreeNode, len(children))
	copy(owned, children)

	return &TreeNode{digest: digest, value: value, children: owned}, nil
}

func (b *Builder) checkTree(n *TreeNode) error {
	return b.check(treeKind, n.digest, n.value, n.childDigests())
}

// Digest returns the digest of n
func (n *TreeNode) Digest() crypto.Digest {
	return n.digest
}

// Value returns the payload of n
func (n *TreeNode) Value() crypto.Hashable {
	return exposed(n.value)
}

// Len returns the number of children
func (n *TreeNode) Len() int {
	return len(n.children)
}

// Child returns the i-th child
func (n *TreeNode) Child(i int) (*TreeNode, error) {
	if i < 0 || i >= len(n.children) {
		return nil, fmt.Errorf("%w: child %d of %d", ErrPath, i, len(n.children))
	}
	return n.children[i], nil
}

// Children returns a copy of the ordered children
func (n *TreeNode) Children() []*TreeNode {
	children := make([]*TreeNode, len(n.children))
	copy(children, n.children)
	return children
}

func (n *TreeNode) childDigests() []crypto.Digest {
	digests := make([]crypto.Digest, len(n.children))
	for i, child := range n.children {
		digests[i] = child.digest
	}
	return digests
}
