package frost

import (
	"errors"
	"fmt"
)

// Parameter and identifier errors.
var (
	// ErrInvalidMaxSigners is returned when max_signers is zero.
	ErrInvalidMaxSigners = errors.New("max_signers must be at least 1")
	// ErrInvalidMinSigners is returned when min_signers is zero or above
	// max_signers.
	ErrInvalidMinSigners   = errors.New("min_signers must be between 1 and max_signers")
	ErrInvalidIdentifier   = errors.New("invalid identifier")
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
	ErrUnknownIdentifier   = errors.New("unknown identifier")
)

// Key generation errors.
var (
	// ErrIncorrectNumberOfPackages is returned when a round does not hold
	// exactly one package per expected participant.
	ErrIncorrectNumberOfPackages = errors.New("incorrect number of packages")
	// ErrIncorrectCommitment is returned for a commitment of the wrong
	// length, or one that does not match the signing nonces.
	ErrIncorrectCommitment     = errors.New("incorrect commitment")
	ErrInvalidProofOfKnowledge = errors.New("invalid proof of knowledge")
	// ErrInvalidSecretShare is returned when a share does not lie on the
	// committed polynomial it claims to come from.
	ErrInvalidSecretShare = errors.New("invalid secret share")
)

// Signing errors.
var (
	ErrMissingCommitment  = errors.New("missing signing commitment")
	ErrIdentityCommitment = errors.New("identity signing commitment")
	// ErrNotEnoughSigners is returned when fewer than min_signers
	// commitments are in the signing package.
	ErrNotEnoughSigners = errors.New("not enough signers")
	// ErrInvalidSignatureShare is returned by Aggregate for a share that
	// fails to verify against its signer's verifying share.
	ErrInvalidSignatureShare = errors.New("invalid signature share")
	ErrMissingNonces         = errors.New("missing signing nonces")
)

// ErrGroupMismatch is returned when decoding data encoded for another
// group.
var ErrGroupMismatch = errors.New("group mismatch")

// CryptoError is returned by every primitive operation. Op names the
// operation, Culprit is the participant whose input was rejected when that
// can be told, and Err is one of the sentinel errors above or a decoding
// error.
type CryptoError struct {
	Op      string
	Culprit Identifier
	Err     error
}

func (e *CryptoError) Error() string {
	if e.Culprit == "" {
		return fmt.Sprintf("frost: %s: %s", e.Op, e.Err)
	}
	return fmt.Sprintf("frost: %s: participant %s: %s", e.Op, e.Culprit, e.Err)
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}

func cryptoErr(op string, culprit Identifier, err error) error {
	return &CryptoError{Op: op, Culprit: culprit, Err: err}
}
