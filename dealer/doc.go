// Package dealer runs FROST signing for a set of local signers, either
// after a trusted dealer split the group key or over key packages from a
// distributed key generation.
//
// # Usage
//
//	c, err := dealer.Generate(f, rand.Reader, 5, 3)
//	if err != nil {
//		return err
//	}
//	sig, err := c.Sign(message)
//
// # Nonce Safety
//
// Each [Signer] keeps at most one nonce pair. [Signer.Commit] fills the
// slot and [Signer.Sign] empties it before signing, so a second Sign
// without a fresh Commit returns [ErrNonceConsumed] instead of reusing a
// nonce, which would leak the signing share.
package dealer
