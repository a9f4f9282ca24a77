// Package secp256k1 implements [group.Group] over the secp256k1 curve,
// backed by the decred secp256k1 package.
//
// Scalars encode as 32 big-endian bytes. Points encode in the 33-byte SEC1
// compressed form; the identity, which SEC1 cannot express compressed, is
// encoded as 33 zero bytes.
//
//	g := secp256k1.Group{}
//	f := frost.New(g)
package secp256k1
