// Package merkle builds and verifies Merkle hash structures: binary trees,
// N-ary trees and hash chains.
//
// All three share one composition rule. A node without children or
// predecessor has digest H(value); otherwise its digest is
// H(H(value) ++ d1 ++ d2 ...) where d1, d2 ... are the hex digests of its
// children (or its predecessor) in order. Nodes are immutable once built and
// may be shared under several parents.
package merkle

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/frankonly/merklekit/crypto"
	"github.com/frankonly/merklekit/log"
)

const defaultParallelDepth = 4

// Builder constructs nodes with a fixed hasher. A Builder holds no mutable
// state and can be used from many goroutines.
type Builder struct {
	hasher        crypto.Hasher
	logger        *zap.SugaredLogger
	parallelDepth int
}

// Option configures a Builder
type Option func(*Builder)

// WithHasher replaces the default SHA-256 hasher
func WithHasher(h crypto.Hasher) Option {
	return func(b *Builder) {
		b.hasher = h
	}
}

// WithLogger injects a logger for integrity diagnostics, nil keeps the
// silent default
func WithLogger(l *zap.SugaredLogger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithParallelDepth limits how many levels of Build fan out to goroutines
func WithParallelDepth(depth int) Option {
	return func(b *Builder) {
		b.parallelDepth = depth
	}
}

// NewBuilder returns a builder using SHA-256 unless configured otherwise
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		hasher:        crypto.NewSha256Hasher(),
		logger:        log.Nop(),
		parallelDepth: defaultParallelDepth,
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Hasher returns the hasher of b
func (b *Builder) Hasher() crypto.Hasher {
	return b.hasher
}

var defaultBuilder = NewBuilder()

// seal computes the digest of value folded with the ordered child digests
func (b *Builder) seal(value crypto.Hashable, children []crypto.Digest) (crypto.Digest, error) {
	valueDigest, err := b.valueDigest(value)
	if err != nil {
		return "", err
	}

	if len(children) == 0 {
		return valueDigest, nil
	}

	return crypto.Compose(b.hasher, valueDigest, children...), nil
}

// exposed returns a stored value the caller may modify without touching the
// node. Stored values are frozen, so only Raw needs a copy.
func exposed(value crypto.Hashable) crypto.Hashable {
	if raw, ok := value.(crypto.Raw); ok {
		return append(crypto.Raw(nil), raw...)
	}
	return value
}

func (b *Builder) valueDigest(value crypto.Hashable) (crypto.Digest, error) {
	if value == nil {
		return "", fmt.Errorf("%w: nil value", crypto.ErrEncoding)
	}

	return crypto.HashWith(b.hasher, value)
}

// check recomputes a node digest from its value and the stored digests of
// its direct children
func (b *Builder) check(kind string, stored crypto.Digest, value crypto.Hashable, children []crypto.Digest) error {
	computed, err := b.seal(value, children)
	if err != nil {
		return fmt.Errorf("failed to rehash %s node: %w", kind, err)
	}

	if computed != stored {
		b.logger.Warnw("digest mismatch", "kind", kind, "stored", stored, "computed", computed)
		return &IntegrityError{Kind: kind, Stored: stored, Computed: computed}
	}

	return nil
}
