package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

var (
	ErrEncoding      = fmt.Errorf("invalid encoding")
	ErrUnknownHasher = fmt.Errorf("unknown hasher")
)

// Digest is the lowercase hex encoding of a 256-bit hash
type Digest string

// Hashable is anything with a canonical byte representation
type Hashable interface {
	Bytes() ([]byte, error)
}

// Text is UTF-8 text, hashed as its encoded bytes
type Text string

// Bytes returns the UTF-8 bytes of t
func (t Text) Bytes() ([]byte, error) {
	if !utf8.ValidString(string(t)) {
		return nil, fmt.Errorf("%w: text is not valid UTF-8", ErrEncoding)
	}

	return []byte(t), nil
}

// Raw is a byte sequence hashed unchanged
type Raw []byte

// Bytes returns a copy of r
func (r Raw) Bytes() ([]byte, error) {
	return append([]byte(nil), r...), nil
}

// Freeze returns a value whose bytes no longer change with the caller's
// buffers. Text is kept as is, Raw is copied and any other Hashable is
// snapshotted into a Raw of its current bytes.
func Freeze(value Hashable) (Hashable, error) {
	switch v := value.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil value", ErrEncoding)
	case Text:
		return v, nil
	case Raw:
		return append(Raw(nil), v...), nil
	default:
		data, err := v.Bytes()
		if err != nil {
			return nil, err
		}
		return append(Raw(nil), data...), nil
	}
}

// IsValid reports whether d is the lowercase hex encoding of size bytes
func (d Digest) IsValid(size int) bool {
	if len(d) != 2*size {
		return false
	}

	for i := 0; i < len(d); i++ {
		c := d[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}

	return true
}

// Hasher hashes bytes into a digest
type Hasher interface {
	Sum(data []byte) Digest
	Name() string
	Size() int
}

const (
	Sha256  = "sha256"
	Blake2b = "blake2b"
	Sha3    = "sha3"
)

type stdHasher struct {
	name string
	new  func() hash.Hash
}

// NewSha256Hasher returns the default SHA-256 hasher
func NewSha256Hasher() Hasher {
	return stdHasher{name: Sha256, new: sha256.New}
}

// NewBlake2bHasher returns a BLAKE2b-256 hasher
func NewBlake2bHasher() Hasher {
	return stdHasher{name: Blake2b, new: func() hash.Hash {
		h, err := blake2b.New256(nil)
		if err != nil {
			panic(fmt.Sprintf("failed to create BLAKE2b hasher: %v", err))
		}
		return h
	}}
}

// NewSha3Hasher returns a SHA3-256 hasher
func NewSha3Hasher() Hasher {
	return stdHasher{name: Sha3, new: sha3.New256}
}

// HasherByName resolves a hasher from its configured name
func HasherByName(name string) (Hasher, error) {
	switch strings.ToLower(name) {
	case "", Sha256:
		return NewSha256Hasher(), nil
	case Blake2b:
		return NewBlake2bHasher(), nil
	case Sha3:
		return NewSha3Hasher(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownHasher, name)
	}
}

func (s stdHasher) Sum(data []byte) Digest {
	h := s.new()
	h.Write(data)
	return Digest(hex.EncodeToString(h.Sum(nil)))
}

func (s stdHasher) Name() string {
	return s.name
}

// Size returns the digest length in bytes
func (s stdHasher) Size() int {
	return s.new().Size()
}

var defaultHasher = NewSha256Hasher()

// Hash hashes a value with SHA-256
func Hash(value Hashable) (Digest, error) {
	return HashWith(defaultHasher, value)
}

// HashWith hashes a value with h
func HashWith(h Hasher, value Hashable) (Digest, error) {
	data, err := value.Bytes()
	if err != nil {
		return "", err
	}

	return h.Sum(data), nil
}

// Compose hashes the concatenated hex encodings of a value digest and the
// ordered child digests
func Compose(h Hasher, value Digest, children ...Digest) Digest {
	var b strings.Builder
	b.Grow(len(value) * (len(children) + 1))
	b.WriteString(string(value))
	for _, child := range children {
		b.WriteString(string(child))
	}

	return h.Sum([]byte(b.String()))
}
