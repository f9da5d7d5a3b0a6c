package merkle

import (
	"fmt"

	"github.com/frankonly/merklekit/crypto"
)

// Side selects a child of a binary node
type Side int

const (
	Left Side = iota
	Right
)

// ProofStep is one ancestor on the way from a target node to the root: the
// ancestor's value digest and the digests of the siblings before and after
// the path.
type ProofStep struct {
	Value  crypto.Digest   `json:"value" yaml:"value"`
	Before []crypto.Digest `json:"before,omitempty" yaml:"before,omitempty"`
	After  []crypto.Digest `json:"after,omitempty" yaml:"after,omitempty"`
}

// Proof shows that a node with digest Target is included under a root.
// Steps run from the target's parent up to the root.
type Proof struct {
	Target crypto.Digest `json:"target" yaml:"target"`
	Steps  []ProofStep   `json:"steps" yaml:"steps"`
}

// Root folds the proof into the root digest it commits to
func (p *Proof) Root(h crypto.Hasher) crypto.Digest {
	cur := p.Target
	for _, step := range p.Steps {
		children := make([]crypto.Digest, 0, len(step.Before)+len(step.After)+1)
		children = append(children, step.Before...)
		children = append(children, cur)
		children = append(children, step.After...)
		cur = crypto.Compose(h, step.Value, children...)
	}

	return cur
}

// Verify checks that every digest of the proof is well formed for h and that
// the proof leads to root. A malformed digest would let digest boundaries
// shift inside the hashed concatenation.
func (p *Proof) Verify(h crypto.Hasher, root crypto.Digest) error {
	if err := p.checkDigests(h.Size()); err != nil {
		return err
	}

	if computed := p.Root(h); computed != root {
		return fmt.Errorf("%w: proof leads to %s, expected %s", ErrProof, computed, root)
	}

	return nil
}

func (p *Proof) checkDigests(size int) error {
	if !p.Target.IsValid(size) {
		return fmt.Errorf("%w: malformed target %q", ErrProof, p.Target)
	}

	for i, step := range p.Steps {
		if !step.Value.IsValid(size) {
			return fmt.Errorf("%w: malformed value digest %q in step %d", ErrProof, step.Value, i)
		}
		for _, sibling := range append(append([]crypto.Digest(nil), step.Before...), step.After...) {
			if !sibling.IsValid(size) {
				return fmt.Errorf("%w: malformed sibling digest %q in step %d", ErrProof, sibling, i)
			}
		}
	}

	return nil
}

// ProveTree returns the inclusion proof of the node reached from root by
// following the child indexes in path. An empty path proves root itself.
func (b *Builder) ProveTree(root *TreeNode, path ...int) (*Proof, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: root", ErrNilChild)
	}

	steps := make([]ProofStep, 0, len(path))
	cur := root
	for depth, i := range path {
		child, err := cur.Child(i)
		if err != nil {
			return nil, fmt.Errorf("at depth %d: %w", depth, err)
		}

		valueDigest, err := b.valueDigest(cur.value)
		if err != nil {
			return nil, err
		}

		digests := cur.childDigests()
		steps = append(steps, ProofStep{
			Value:  valueDigest,
			Before: digests[:i:i],
			After:  digests[i+1:],
		})
		cur = child
	}

	return newProof(cur.digest, steps), nil
}

// ProveBinary returns the inclusion proof of the node reached from root by
// following sides in path
func (b *Builder) ProveBinary(root *BinaryNode, path ...Side) (*Proof, error) {
	if root.IsEmpty() {
		return nil, fmt.Errorf("%w: empty root", ErrPath)
	}

	steps := make([]ProofStep, 0, len(path))
	cur := root
	for depth, side := range path {
		valueDigest, err := b.valueDigest(cur.value)
		if err != nil {
			return nil, err
		}

		step := ProofStep{Value: valueDigest}
		var next *BinaryNode
		switch side {
		case Left:
			next = cur.left
			if !cur.right.IsEmpty() {
				step.After = []crypto.Digest{cur.right.digest}
			}
		case Right:
			next = cur.right
			if !cur.left.IsEmpty() {
				step.Before = []crypto.Digest{cur.left.digest}
			}
		default:
			return nil, fmt.Errorf("%w: unknown side %d at depth %d", ErrPath, side, depth)
		}

		if next.IsEmpty() {
			return nil, fmt.Errorf("%w: empty subtree at depth %d", ErrPath, depth)
		}

		steps = append(steps, step)
		cur = next
	}

	return newProof(cur.digest, steps), nil
}

// ProveList returns the inclusion proof of the element depth positions behind
// head, 0 being head itself
func (b *Builder) ProveList(head *ListNode, depth int) (*Proof, error) {
	if depth < 0 || depth >= head.Len() {
		return nil, fmt.Errorf("%w: depth %d of %d", ErrPath, depth, head.Len())
	}

	steps := make([]ProofStep, 0, depth)
	cur := head
	for i := 0; i < depth; i++ {
		valueDigest, err := b.valueDigest(cur.value)
		if err != nil {
			return nil, err
		}

		steps = append(steps, ProofStep{Value: valueDigest})
		cur = cur.prev
	}

	return newProof(cur.digest, steps), nil
}

// newProof reverses steps collected from the root downward
func newProof(target crypto.Digest, steps []ProofStep) *Proof {
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}

	return &Proof{Target: target, Steps: steps}
}
