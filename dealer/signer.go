package dealer

import (
	"io"
	"sync"

	"github.com/f3rmion/frostd/frost"
)

// Signer holds one participant's key package and its single-use nonce
// slot.
type Signer struct {
	mu     sync.Mutex
	frost  *frost.FROST
	key    *frost.KeyPackage
	nonces *frost.SigningNonces
}

// NewSigner returns a signer for kp with an empty nonce slot.
func NewSigner(f *frost.FROST, kp *frost.KeyPackage) *Signer {
	return &Signer{frost: f, key: kp}
}

// Identifier returns the signer's identifier.
func (s *Signer) Identifier() frost.Identifier { return s.key.Identifier }

// KeyPackage returns the signer's key package.
func (s *Signer) KeyPackage() *frost.KeyPackage { return s.key }

// Commit generates fresh nonces, stores them in the slot and returns the
// commitments to publish. Nonces from an earlier unused Commit are
// discarded.
func (s *Signer) Commit(rng io.Reader) (*frost.SigningCommitments, error) {
	nonces, commitments, err := s.frost.Commit(rng, s.key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.zeroNonces()
	s.nonces = nonces
	return commitments, nil
}

// Sign produces a signature share over sp with the stored nonces. The slot
// is emptied whether or not signing succeeds.
func (s *Signer) Sign(sp *frost.SigningPackage) (*frost.SignatureShare, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nonces == nil {
		return nil, ErrNonceConsumed
	}
	defer s.zeroNonces()

	return s.frost.Sign(sp, s.nonces, s.key)
}

// HasNonces reports whether the slot holds unused nonces.
func (s *Signer) HasNonces() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nonces != nil
}

// zeroNonces overwrites and drops the stored nonces. Callers hold s.mu.
func (s *Signer) zeroNonces() {
	if s.nonces == nil {
		return
	}
	zero := s.frost.Group().NewScalar()
	s.nonces.Hiding.Set(zero)
	s.nonces.Binding.Set(zero)
	s.nonces = nil
}
