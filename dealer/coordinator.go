package dealer

import (
	"errors"
	"fmt"
	"io"

	"github.com/f3rmion/frostd/frost"
	"github.com/rs/zerolog"
)

var (
	// ErrNonceConsumed is returned when a signer is asked to sign without
	// fresh nonces.
	ErrNonceConsumed = errors.New("dealer: signing nonces already consumed")

	// ErrVerificationFailure means an aggregated signature did not verify
	// against the group key although every share did. It indicates a bug,
	// not bad input, and is never retried.
	ErrVerificationFailure = errors.New("dealer: aggregated signature failed verification")

	// ErrUnknownSigner is returned by SignWith for an identifier the
	// coordinator does not hold.
	ErrUnknownSigner = errors.New("dealer: unknown signer")

	// ErrKeyMismatch is returned by NewCoordinator for a key package that
	// belongs to another group key.
	ErrKeyMismatch = errors.New("dealer: key package does not match group key")
)

// Coordinator drives two-round signing over a set of local signers.
type Coordinator struct {
	frost   *frost.FROST
	rng     io.Reader
	pub     *frost.PublicKeyPackage
	signers map[frost.Identifier]*Signer

	// Log receives one line per signature. Defaults to a disabled logger.
	Log zerolog.Logger
}

// Generate splits a fresh group key among identifiers 1..maxSigners and
// returns a coordinator holding every share.
func Generate(f *frost.FROST, rng io.Reader, maxSigners, minSigners uint16) (*Coordinator, error) {
	shares, pub, err := f.DealerSplit(rng, maxSigners, minSigners)
	if err != nil {
		return nil, err
	}

	keys := make(map[frost.Identifier]*frost.KeyPackage, len(shares))
	for id, share := range shares {
		kp, err := f.NewKeyPackage(share)
		if err != nil {
			return nil, err
		}
		keys[id] = kp
	}
	return NewCoordinator(f, rng, pub, keys)
}

// NewCoordinator returns a coordinator over existing key packages, for
// example the output of a distributed key generation.
func NewCoordinator(f *frost.FROST, rng io.Reader, pub *frost.PublicKeyPackage, keys map[frost.Identifier]*frost.KeyPackage) (*Coordinator, error) {
	signers := make(map[frost.Identifier]*Signer, len(keys))
	for id, kp := range keys {
		if kp.Identifier != id || !kp.VerifyingKey.Equal(pub.VerifyingKey) {
			return nil, fmt.Errorf("%w: participant %s", ErrKeyMismatch, id)
		}
		share, ok := pub.VerifyingShares[id]
		if !ok || !share.Equal(kp.VerifyingShare) {
			return nil, fmt.Errorf("%w: participant %s", ErrKeyMismatch, id)
		}
		signers[id] = NewSigner(f, kp)
	}

	return &Coordinator{
		frost:   f,
		rng:     rng,
		pub:     pub,
		signers: signers,
		Log:     zerolog.Nop(),
	}, nil
}

// PublicKeyPackage returns the group's public key package.
func (c *Coordinator) PublicKeyPackage() *frost.PublicKeyPackage { return c.pub }

// Signer returns the signer for id, or nil.
func (c *Coordinator) Signer(id frost.Identifier) *Signer { return c.signers[id] }

// Signers returns the identifiers of all signers in ascending order.
func (c *Coordinator) Signers() []frost.Identifier {
	return frost.SortedIdentifiers(c.signers)
}

// Sign signs message with every signer.
func (c *Coordinator) Sign(message []byte) (*frost.Signature, error) {
	return c.SignWith(c.Signers(), message)
}

// SignWith signs message with the given subset of signers, which must
// hold at least min_signers of them.
func (c *Coordinator) SignWith(ids []frost.Identifier, message []byte) (*frost.Signature, error) {
	signers := make(map[frost.Identifier]*Signer, len(ids))
	for _, id := range ids {
		s, ok := c.signers[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSigner, id)
		}
		signers[id] = s
	}
	order := frost.SortedIdentifiers(signers)

	// Round 1: commitments.
	commitments := make(map[frost.Identifier]*frost.SigningCommitments, len(order))
	for _, id := range order {
		comm, err := signers[id].Commit(c.rng)
		if err != nil {
			return nil, err
		}
		commitments[id] = comm
	}
	sp := frost.NewSigningPackage(commitments, message)

	// Round 2: signature shares.
	shares := make(map[frost.Identifier]*frost.SignatureShare, len(order))
	for _, id := range order {
		share, err := signers[id].Sign(sp)
		if err != nil {
			return nil, err
		}
		shares[id] = share
	}

	sig, err := c.frost.Aggregate(sp, shares, c.pub)
	if err != nil {
		return nil, err
	}
	if !c.frost.Verify(c.pub.VerifyingKey, message, sig) {
		return nil, ErrVerificationFailure
	}

	c.Log.Info().Int("signers", len(order)).Msg("signed")
	return sig, nil
}
