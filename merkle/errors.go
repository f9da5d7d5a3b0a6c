package merkle

import (
	"fmt"

	"github.com/frankonly/merklekit/crypto"
)

var (
	ErrIntegrity = fmt.Errorf("structural integrity violation")
	ErrNilChild  = fmt.Errorf("nil child")
	ErrShape     = fmt.Errorf("invalid shape")
	ErrPath      = fmt.Errorf("invalid path")
	ErrProof     = fmt.Errorf("proof mismatch")
)

// IntegrityError reports a node whose stored digest differs from the digest
// recomputed from its own content. It matches ErrIntegrity with errors.Is.
type IntegrityError struct {
	Kind     string
	Stored   crypto.Digest
	Computed crypto.Digest
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: %s node stores %s but content hashes to %s", ErrIntegrity, e.Kind, e.Stored, e.Computed)
}

func (e *IntegrityError) Unwrap() error {
	return ErrIntegrity
}
