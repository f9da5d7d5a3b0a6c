package merkle

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/frankonly/merklekit/crypto"
)

func TestProveTree(t *testing.T) {
	r := require.New(t)
	h := defaultBuilder.Hasher()

	a, err := NewLeaf(crypto.Text("a"))
	r.NoError(err)
	b, err := NewLeaf(crypto.Text("b"))
	r.NoError(err)
	c, err := NewLeaf(crypto.Text("c"))
	r.NoError(err)
	mid, err := NewTree(crypto.Text("mid"), a, b, c)
	r.NoError(err)
	root, err := NewTree(crypto.Text("root"), c, mid)
	r.NoError(err)

	proof, err := defaultBuilder.ProveTree(root)
	r.NoError(err)
	r.Empty(proof.Steps)
	r.NoError(proof.Verify(h, root.Digest()))

	proof, err = defaultBuilder.ProveTree(root, 1, 1)
	r.NoError(err)
	r.Equal(b.Digest(), proof.Target)
	r.Len(proof.Steps, 2)
	r.Equal([]crypto.Digest{a.Digest()}, proof.Steps[0].Before)
	r.Equal([]crypto.Digest{c.Digest()}, proof.Steps[0].After)
	r.Equal(mustHash(t, "root"), proof.Steps[1].Value)
	r.NoError(proof.Verify(h, root.Digest()))

	err = proof.Verify(h, mid.Digest())
	r.True(errors.Is(err, ErrProof))

	proof.Target = c.Digest()
	r.True(errors.Is(proof.Verify(h, root.Digest()), ErrProof))

	_, err = defaultBuilder.ProveTree(root, 1, 3)
	r.True(errors.Is(err, ErrPath))
	_, err = defaultBuilder.ProveTree(root, 0, 0)
	r.True(errors.Is(err, ErrPath))
	_, err = defaultBuilder.ProveTree(nil)
	r.True(errors.Is(err, ErrNilChild))
}

func TestProveBinary(t *testing.T) {
	r := require.New(t)
	h := defaultBuilder.Hasher()

	a, err := NewBinary(crypto.Text("a"), nil, nil)
	r.NoError(err)
	b, err := NewBinary(crypto.Text("b"), nil, a)
	r.NoError(err)
	root, err := NewBinary(crypto.Text("root"), b, a)
	r.NoError(err)

	paths := [][]Side{{}, {Left}, {Right}, {Left, Right}}
	targets := []*BinaryNode{root, b, a, a}
	for i, path := range paths {
		proof, err := defaultBuilder.ProveBinary(root, path...)
		r.NoError(err)
		r.Equal(targets[i].Digest(), proof.Target)
		r.Len(proof.Steps, len(path))
		r.NoError(proof.Verify(h, root.Digest()))
	}

	_, err = defaultBuilder.ProveBinary(root, Left, Left)
	r.True(errors.Is(err, ErrPath))
	_, err = defaultBuilder.ProveBinary(root, Side(7))
	r.True(errors.Is(err, ErrPath))
	_, err = defaultBuilder.ProveBinary(EmptyBinary)
	r.True(errors.Is(err, ErrPath))
}

func TestProveList(t *testing.T) {
	r := require.New(t)
	rand.Seed(time.Now().UnixNano())
	h := defaultBuilder.Hasher()

	var head *ListNode
	nodes := make([]*ListNode, 65)
	for i := range nodes {
		value := make([]byte, 32)
		rand.Read(value)

		next, err := Append(crypto.Raw(value), head)
		r.NoError(err)
		nodes[i] = next
		head = next
	}

	for k := 0; k < 16; k++ {
		depth := rand.Intn(len(nodes))
		proof, err := defaultBuilder.ProveList(head, depth)
		r.NoError(err)
		r.Equal(nodes[len(nodes)-1-depth].Digest(), proof.Target)
		r.Len(proof.Steps, depth)
		r.NoError(proof.Verify(h, head.Digest()))
	}

	_, err := defaultBuilder.ProveList(head, len(nodes))
	r.True(errors.Is(err, ErrPath))
	_, err = defaultBuilder.ProveList(nil, 0)
	r.True(errors.Is(err, ErrPath))
}

func TestProofMalformedDigests(t *testing.T) {
	r := require.New(t)
	h := defaultBuilder.Hasher()

	a, err := NewLeaf(crypto.Text("a"))
	r.NoError(err)
	b, err := NewLeaf(crypto.Text("b"))
	r.NoError(err)
	root, err := NewTree(crypto.Text("root"), a, b)
	r.NoError(err)

	valueDigest := mustHash(t, "root")
	ad, bd := a.Digest(), b.Digest()

	// each forgery folds to the real root by moving digest boundaries
	forgeries := []*Proof{
		{Target: "", Steps: []ProofStep{{Value: valueDigest + ad + bd}}},
		{Target: bd[10:], Steps: []ProofStep{{Value: valueDigest, Before: []crypto.Digest{ad + bd[:10]}}}},
		{Target: ad + bd, Steps: []ProofStep{{Value: valueDigest}}},
	}
	for _, forged := range forgeries {
		r.Equal(root.Digest(), forged.Root(h))

		err := forged.Verify(h, root.Digest())
		r.Error(err)
		r.True(errors.Is(err, ErrProof))
	}

	upper := &Proof{Target: crypto.Digest(strings.ToUpper(string(bd))), Steps: []ProofStep{{Value: valueDigest, Before: []crypto.Digest{ad}}}}
	r.True(errors.Is(upper.Verify(h, root.Digest()), ErrProof))

	proof, err := defaultBuilder.ProveTree(root, 1)
	r.NoError(err)
	r.NoError(proof.Verify(h, root.Digest()))

	proof.Steps[0].Before = append(proof.Steps[0].Before, "")
	r.True(errors.Is(proof.Verify(h, root.Digest()), ErrProof))
}
