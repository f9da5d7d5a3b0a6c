package merkle

import (
	"fmt"

	"github.com/frankonly/merklekit/crypto"
)

const listKind = "list"

// ListNode is an element of a value-carrying hash chain. Each element links
// backward to its predecessor, nil terminates the chain.
type ListNode struct {
	digest crypto.Digest
	value  crypto.Hashable
	prev   *ListNode
	length int
}

// Append appends value to the chain headed by prior with the default builder
func Append(value crypto.Hashable, prior *ListNode) (*ListNode, error) {
	return defaultBuilder.Append(value, prior)
}

// Append returns a new head over value and prior. The digest is H(value) on
// an empty chain, H(H(value) ++ prior.digest) otherwise. prior is rehashed
// from its stored value and its own predecessor first. The node keeps its own
// copy of value.
func (b *Builder) Append(value crypto.Hashable, prior *ListNode) (*ListNode, error) {
	value, err := crypto.Freeze(value)
	if err != nil {
		return nil, err
	}

	if prior != nil {
		if err := b.checkList(prior); err != nil {
			return nil, fmt.Errorf("prior head: %w", err)
		}
	}

	node := &ListNode{value: value, prev: prior, length: prior.Len() + 1}
	digest, err := b.seal(value, node.prevDigests())
	if err != nil {
		return nil, err
	}

	node.digest = digest
	return node, nil
}

func (b *Builder) checkList(n *ListNode) error {
	return b.check(listKind, n.digest, n.value, n.prevDigests())
}

// Digest returns the digest of n, or "" for the empty chain
func (n *ListNode) Digest() crypto.Digest {
	if n == nil {
		return ""
	}
	return n.digest
}

// Value returns the payload of n
func (n *ListNode) Value() crypto.Hashable {
	if n == nil {
		return nil
	}
	return exposed(n.value)
}

// Prev returns the predecessor of n
func (n *ListNode) Prev() *ListNode {
	if n == nil {
		return nil
	}
	return n.prev
}

// Len returns the number of elements reachable from n, n included
func (n *ListNode) Len() int {
	if n == nil {
		return 0
	}
	return n.length
}

// Values returns the payloads of the chain, oldest first
func (n *ListNode) Values() []crypto.Hashable {
	values := make([]crypto.Hashable, n.Len())
	for i, cur := len(values)-1, n; cur != nil; i, cur = i-1, cur.prev {
		values[i] = exposed(cur.value)
	}
	return values
}

func (n *ListNode) prevDigests() []crypto.Digest {
	if n.prev == nil {
		return nil
	}
	return []crypto.Digest{n.prev.digest}
}

// Link is an element of a digest-only hash chain. It keeps no value, so a
// predecessor cannot be rechecked and is trusted as given.
type Link struct {
	digest crypto.Digest
	prev   *Link
	length int
}

// NewLink appends value to the chain headed by prior with the default builder
func NewLink(value crypto.Hashable, prior *Link) (*Link, error) {
	return defaultBuilder.Link(value, prior)
}

// Link returns a new head over value and prior
func (b *Builder) Link(value crypto.Hashable, prior *Link) (*Link, error) {
	var prev []crypto.Digest
	if prior != nil {
		prev = []crypto.Digest{prior.digest}
	}

	digest, err := b.seal(value, prev)
	if err != nil {
		return nil, err
	}

	return &Link{digest: digest, prev: prior, length: prior.Len() + 1}, nil
}

// Digest returns the digest of l, or "" for the empty chain
func (l *Link) Digest() crypto.Digest {
	if l == nil {
		return ""
	}
	return l.digest
}

// Prev returns the predecessor of l
func (l *Link) Prev() *Link {
	if l == nil {
		return nil
	}
	return l.prev
}

// Len returns the number of links reachable from l, l included
func (l *Link) Len() int {
	if l == nil {
		return 0
	}
	return l.length
}
