package merkle

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/frankonly/merklekit/crypto"
)

// Shape describes a tree to build. A nil child marks an empty binary subtree.
type Shape struct {
	Value    string   `json:"value" yaml:"value"`
	Children []*Shape `json:"children,omitempty" yaml:"children,omitempty"`
}

// Build constructs the N-ary tree described by s. Sibling subtrees in the
// top levels are built concurrently and joined at their parent.
func (b *Builder) Build(ctx context.Context, s *Shape) (*TreeNode, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil root", ErrShape)
	}

	root, err := b.build(ctx, s, 0)
	if err != nil {
		return nil, err
	}

	b.logger.Debugw("tree built", "digest", root.digest, "hasher", b.hasher.Name())
	return root, nil
}

func (b *Builder) build(ctx context.Context, s *Shape, depth int) (*TreeNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	children := make([]*TreeNode, len(s.Children))
	err := b.fanOut(ctx, len(s.Children), depth, func(ctx context.Context, i int) error {
		if s.Children[i] == nil {
			return fmt.Errorf("%w: empty child %d", ErrShape, i)
		}

		child, err := b.build(ctx, s.Children[i], depth+1)
		if err != nil {
			return err
		}

		children[i] = child
		return nil
	})
	if err != nil {
		return nil, err
	}

	return b.Tree(crypto.Text(s.Value), children...)
}

// BuildBinary constructs the binary tree described by s. A shape may have at
// most two children, the first is the left subtree and the second the right.
func (b *Builder) BuildBinary(ctx context.Context, s *Shape) (*BinaryNode, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil root", ErrShape)
	}

	root, err := b.buildBinary(ctx, s, 0)
	if err != nil {
		return nil, err
	}

	b.logger.Debugw("binary tree built", "digest", root.digest, "hasher", b.hasher.Name())
	return root, nil
}

func (b *Builder) buildBinary(ctx context.Context, s *Shape, depth int) (*BinaryNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.Children) > 2 {
		return nil, fmt.Errorf("%w: %d children under binary node %q", ErrShape, len(s.Children), s.Value)
	}

	var children [2]*BinaryNode
	err := b.fanOut(ctx, len(s.Children), depth, func(ctx context.Context, i int) error {
		if s.Children[i] == nil {
			return nil
		}

		child, err := b.buildBinary(ctx, s.Children[i], depth+1)
		if err != nil {
			return err
		}

		children[i] = child
		return nil
	})
	if err != nil {
		return nil, err
	}

	return b.Binary(crypto.Text(s.Value), children[0], children[1])
}

// fanOut runs fn for each of n children, in parallel above the configured
// depth and sequentially below it. At most GOMAXPROCS children of one node
// run at a time.
func (b *Builder) fanOut(ctx context.Context, n, depth int, fn func(context.Context, int) error) error {
	if n < 2 || depth >= b.parallelDepth {
		for i := 0; i < n; i++ {
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return fn(gctx, i)
		})
	}

	return g.Wait()
}
