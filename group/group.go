package group

import (
	"io"
)

// Scalar is an element of the scalar field of a [Group].
//
// Methods that take operands set the receiver to the result and return it.
// Results are always reduced into [0, order).
type Scalar interface {
	// Add sets the receiver to a+b and returns it.
	Add(a, b Scalar) Scalar
	// Sub sets the receiver to a-b and returns it.
	Sub(a, b Scalar) Scalar
	// Mul sets the receiver to a*b and returns it.
	Mul(a, b Scalar) Scalar
	// Negate sets the receiver to -a and returns it.
	Negate(a Scalar) Scalar
	// Invert sets the receiver to a^{-1} and returns it.
	// Returns an error if a is zero.
	Invert(a Scalar) (Scalar, error)
	// Set sets the receiver to a and returns it.
	Set(a Scalar) Scalar
	// Bytes returns the fixed-width big-endian encoding of the scalar.
	Bytes() []byte
	// SetBytes sets the receiver from a big-endian byte slice of any
	// length, reducing modulo the group order.
	SetBytes(data []byte) (Scalar, error)
	// Equal reports whether the receiver equals b.
	Equal(b Scalar) bool
	// IsZero reports whether the receiver is zero.
	IsZero() bool
}

// Point is an element of a [Group].
//
// Like [Scalar], arithmetic methods use a mutable receiver.
type Point interface {
	// Add sets the receiver to a+b and returns it.
	Add(a, b Point) Point
	// Sub sets the receiver to a-b and returns it.
	Sub(a, b Point) Point
	// Negate sets the receiver to -a and returns it.
	Negate(a Point) Point
	// ScalarMult sets the receiver to s*p and returns it.
	ScalarMult(s Scalar, p Point) Point
	// Set sets the receiver to a and returns it.
	Set(a Point) Point
	// Bytes returns the canonical compressed encoding of the point.
	Bytes() []byte
	// SetBytes decodes a canonical encoding into the receiver.
	// Returns an error if data is not a valid group element.
	SetBytes(data []byte) (Point, error)
	// Equal reports whether the receiver equals b.
	Equal(b Point) bool
	// IsIdentity reports whether the receiver is the identity element.
	IsIdentity() bool
}

// Group is a prime-order group suitable for Schnorr signatures.
type Group interface {
	// Name identifies the group in encodings and logs.
	Name() string
	// NewScalar returns a new zero scalar.
	NewScalar() Scalar
	// NewPoint returns a new identity point.
	NewPoint() Point
	// Generator returns the group's base point.
	Generator() Point
	// RandomScalar returns a uniformly random scalar read from r.
	RandomScalar(r io.Reader) (Scalar, error)
	// HashToScalar hashes the concatenation of data to a scalar.
	HashToScalar(data ...[]byte) (Scalar, error)
	// Order returns the group order as big-endian bytes.
	Order() []byte
}

// ScalarFromUint64 returns n as a scalar of g.
func ScalarFromUint64(g Group, n uint64) Scalar {
	var buf [8]byte
	for i := 7; i >= 0; i-- {
		buf[i] = byte(n)
		n >>= 8
	}
	s, _ := g.NewScalar().SetBytes(buf[:])
	return s
}

// BaseMult returns s*G for the generator G of g.
func BaseMult(g Group, s Scalar) Point {
	return g.NewPoint().ScalarMult(s, g.Generator())
}
