package merkle

import (
	"fmt"
)

// VerifyBinary rehashes a whole binary tree with the default builder
func VerifyBinary(root *BinaryNode) error {
	return defaultBuilder.VerifyBinary(root)
}

// VerifyTree rehashes a whole N-ary tree with the default builder
func VerifyTree(root *TreeNode) error {
	return defaultBuilder.VerifyTree(root)
}

// VerifyList rehashes a whole chain with the default builder
func VerifyList(head *ListNode) error {
	return defaultBuilder.VerifyList(head)
}

// VerifyBinary checks every node reachable from root, children before
// parents. Shared subtrees are checked once.
func (b *Builder) VerifyBinary(root *BinaryNode) error {
	return b.verifyBinary(root, make(map[*BinaryNode]struct{}))
}

func (b *Builder) verifyBinary(n *BinaryNode, seen map[*BinaryNode]struct{}) error {
	if n.IsEmpty() {
		return nil
	}
	if _, ok := seen[n]; ok {
		return nil
	}

	if err := b.verifyBinary(n.left, seen); err != nil {
		return err
	}
	if err := b.verifyBinary(n.right, seen); err != nil {
		return err
	}
	if err := b.checkBinary(n); err != nil {
		return err
	}

	seen[n] = struct{}{}
	return nil
}

// VerifyTree checks every node reachable from root, children before parents.
// Shared subtrees are checked once.
func (b *Builder) VerifyTree(root *TreeNode) error {
	if root == nil {
		return fmt.Errorf("%w: root", ErrNilChild)
	}
	return b.verifyTree(root, make(map[*TreeNode]struct{}))
}

func (b *Builder) verifyTree(n *TreeNode, seen map[*TreeNode]struct{}) error {
	if _, ok := seen[n]; ok {
		return nil
	}

	for i, child := range n.children {
		if err := b.verifyTree(child, seen); err != nil {
			return fmt.Errorf("child %d: %w", i, err)
		}
	}
	if err := b.checkTree(n); err != nil {
		return err
	}

	seen[n] = struct{}{}
	return nil
}

// VerifyList checks every element of the chain headed by head
func (b *Builder) VerifyList(head *ListNode) error {
	for cur, depth := head, 0; cur != nil; cur, depth = cur.prev, depth+1 {
		if err := b.checkList(cur); err != nil {
			return fmt.Errorf("element %d from head: %w", depth, err)
		}
	}

	return nil
}
