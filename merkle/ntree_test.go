package merkle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/frankonly/merklekit/crypto"
)

func TestNewLeaf(t *testing.T) {
	r := require.New(t)

	root, err := NewLeaf(crypto.Text(""))
	r.NoError(err)
	r.Equal(emptyDigest, root.Digest())
	r.Equal(crypto.Text(""), root.Value())
	r.Zero(root.Len())
}

func TestTreeOneChild(t *testing.T) {
	r := require.New(t)

	child, err := NewLeaf(crypto.Text(""))
	r.NoError(err)

	root, err := NewTree(crypto.Text(""), child)
	r.NoError(err)
	r.Equal(oneChild, root.Digest())
	r.Equal(1, root.Len())

	c, err := root.Child(0)
	r.NoError(err)
	r.Equal(emptyDigest, c.Digest())
	r.Zero(c.Len())
}

func TestTreeTwoChildren(t *testing.T) {
	r := require.New(t)

	child, err := NewLeaf(crypto.Text(""))
	r.NoError(err)

	root, err := NewTree(crypto.Text(""), child, child)
	r.NoError(err)
	r.Equal(twoChildren, root.Digest())

	// the binary and N-ary trees agree on the same shape
	leaf, err := NewBinary(crypto.Text(""), nil, nil)
	r.NoError(err)
	bin, err := NewBinary(crypto.Text(""), leaf, leaf)
	r.NoError(err)
	r.Equal(bin.Digest(), root.Digest())
}

func TestTreeOrder(t *testing.T) {
	r := require.New(t)

	a, err := NewLeaf(crypto.Text("a"))
	r.NoError(err)
	b, err := NewLeaf(crypto.Text("b"))
	r.NoError(err)
	c, err := NewLeaf(crypto.Text("c"))
	r.NoError(err)

	abc, err := NewTree(crypto.Text("v"), a, b, c)
	r.NoError(err)
	acb, err := NewTree(crypto.Text("v"), a, c, b)
	r.NoError(err)
	r.NotEqual(abc.Digest(), acb.Digest())

	expected := crypto.Compose(crypto.NewSha256Hasher(), mustHash(t, "v"), a.Digest(), b.Digest(), c.Digest())
	r.Equal(expected, abc.Digest())
}

func TestTreeChildrenImmutable(t *testing.T) {
	r := require.New(t)

	a, err := NewLeaf(crypto.Text("a"))
	r.NoError(err)
	b, err := NewLeaf(crypto.Text("b"))
	r.NoError(err)

	children := []*TreeNode{a, b}
	root, err := NewTree(crypto.Text("v"), children...)
	r.NoError(err)

	children[0] = b
	got := root.Children()
	r.Same(a, got[0])

	got[1] = a
	second, err := root.Child(1)
	r.NoError(err)
	r.Same(b, second)
	r.NoError(VerifyTree(root))

	_, err = root.Child(2)
	r.True(errors.Is(err, ErrPath))
}

func TestTreeRawBuffer(t *testing.T) {
	r := require.New(t)

	buf := []byte("leaf")
	leaf, err := NewLeaf(crypto.Raw(buf))
	r.NoError(err)
	mid, err := NewTree(crypto.Text("mid"), leaf)
	r.NoError(err)

	// the caller reuses its buffer after the leaf is built
	buf[0] = 'X'
	root, err := NewTree(crypto.Text("root"), mid)
	r.NoError(err)
	r.NoError(VerifyTree(root))

	leaf.Value().(crypto.Raw)[0] = 'Z'
	r.NoError(VerifyTree(root))
	r.Equal(crypto.Raw("leaf"), leaf.Value())
	r.Equal(mustHash(t, "leaf"), leaf.Digest())
}

func TestTreeTamper(t *testing.T) {
	r := require.New(t)

	leaf, err := NewLeaf(crypto.Text("leaf"))
	r.NoError(err)
	mid, err := NewTree(crypto.Text("mid"), leaf)
	r.NoError(err)

	_, err = NewTree(crypto.Text("root"), mid, leaf)
	r.NoError(err)

	mid.value = crypto.Text("forged")
	_, err = NewTree(crypto.Text("root"), leaf, mid)
	r.Error(err)
	r.True(errors.Is(err, ErrIntegrity))
	r.Contains(err.Error(), "child 1")
}

func TestTreeNilChild(t *testing.T) {
	r := require.New(t)

	leaf, err := NewLeaf(crypto.Text("leaf"))
	r.NoError(err)

	_, err = NewTree(crypto.Text("root"), leaf, nil)
	r.True(errors.Is(err, ErrNilChild))
}

func TestTreeWithHasher(t *testing.T) {
	r := require.New(t)

	blake := NewBuilder(WithHasher(crypto.NewBlake2bHasher()))
	leaf, err := blake.Leaf(crypto.Text(""))
	r.NoError(err)
	r.NotEqual(emptyDigest, leaf.Digest())

	_, err = blake.Tree(crypto.Text(""), leaf)
	r.NoError(err)

	// a node built with another hasher does not rehash to its stored digest
	_, err = NewTree(crypto.Text(""), leaf)
	r.True(errors.Is(err, ErrIntegrity))
}

func mustHash(t *testing.T, value string) crypto.Digest {
	digest, err := crypto.Hash(crypto.Text(value))
	require.NoError(t, err)
	return digest
}
