// Package frost implements the primitive operations of FROST (Flexible
// Round-Optimized Schnorr Threshold) signatures over any [group.Group].
//
// The package is deliberately stateless: every operation is a function of
// the packages handed to it, and callers decide when each one runs. The
// packages dkg, dealer and session drive these primitives.
//
// # Distributed Key Generation
//
// Key generation runs in three local steps around two message exchanges:
//
//  1. [FROST.DKGRound1] samples a secret polynomial and returns a
//     [Round1Package] (coefficient commitments and a proof of knowledge of
//     the constant term) to broadcast to every other participant.
//  2. [FROST.DKGRound2] checks every peer's proof and evaluates the
//     polynomial at each peer's identifier, returning one [Round2Package]
//     per peer.
//  3. [FROST.DKGRound3] checks each received share against its sender's
//     commitment and yields the participant's [KeyPackage] together with
//     the group's [PublicKeyPackage].
//
// Both exchanges expect a package from every one of the other
// max_signers-1 participants.
//
// # Trusted Dealer
//
// [FROST.DealerSplit] generates the group secret in one place and
// Shamir-splits it into one [SecretShare] per identifier 1..n.
// [FROST.NewKeyPackage] checks a share against the dealer's commitment.
//
// # Signing
//
//  1. Each signer calls [FROST.Commit] and publishes its
//     [SigningCommitments], keeping the [SigningNonces] private.
//  2. A [SigningPackage] binds all commitments to the message.
//  3. Each signer calls [FROST.Sign] to produce a [SignatureShare].
//  4. [FROST.Aggregate] checks every share and sums them into a
//     [Signature], which [FROST.Verify] checks against the group key.
//
// Nonces must never be used twice. This package cannot enforce that on
// its own since it keeps no state; see package dealer for a signer that
// does.
//
// # Errors
//
// Every failure is reported as a [*CryptoError] carrying the operation,
// the offending participant when known, and one of the sentinel errors of
// this package. Cryptographic failures mean malformed input and are never
// worth retrying.
package frost
