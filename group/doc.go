// Package group defines the abstract prime-order group used by the
// threshold signing primitives in package frost.
//
// Three interfaces make up the contract:
//
//   - [Scalar]: integers modulo the group order
//   - [Point]: group elements
//   - [Group]: a factory tying both together with a generator, random
//     sampling and a name
//
// # Mutable receivers
//
// Arithmetic sets the receiver to the result and returns it, so a fresh
// value is usually requested from the group first:
//
//	// r = a + b*c
//	r := g.NewScalar().Mul(b, c)
//	r = g.NewScalar().Add(a, r)
//
// # Encodings
//
// Scalars encode to a fixed-width big-endian byte string, so comparing
// two encodings byte-wise orders scalars numerically. Package frost relies
// on this for participant identifiers.
//
// Implementations live in packages bjj (Baby Jubjub on gnark-crypto) and
// secp256k1 (decred secp256k1).
package group
