package bjj

import (
	"crypto/sha512"
	"errors"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"

	"github.com/f3rmion/frostd/group"
)

// scalarLen is the width of a scalar encoding.
const scalarLen = 32

// curveOrder is the Baby Jubjub subgroup order.
// This is distinct from the BN254 scalar field order (Fr).
var curveOrder *big.Int

func init() {
	curve := twistededwards.GetEdwardsCurve()
	curveOrder = new(big.Int).Set(&curve.Order)
}

// Scalar is an element of the Baby Jubjub scalar field.
// It implements [group.Scalar] with big.Int arithmetic modulo the
// subgroup order.
//
// Every operation reduces its result, so a Scalar always holds a value in
// [0, order) and encodes to exactly 32 bytes.
type Scalar struct {
	inner *big.Int
}

func newScalar() *Scalar {
	return &Scalar{inner: new(big.Int)}
}

func castScalar(s group.Scalar) *Scalar {
	out, ok := s.(*Scalar)
	if !ok {
		panic("bjj: scalar from a different group")
	}
	return out
}

func (s *Scalar) reduce() {
	s.inner.Mod(s.inner, curveOrder)
}

// Add sets s to a + b (mod order) and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add(castScalar(a).inner, castScalar(b).inner)
	s.reduce()
	return s
}

// Sub sets s to a - b (mod order) and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.inner.Sub(castScalar(a).inner, castScalar(b).inner)
	s.reduce()
	return s
}

// Mul sets s to a * b (mod order) and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Mul(castScalar(a).inner, castScalar(b).inner)
	s.reduce()
	return s
}

// Negate sets s to -a (mod order) and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.Neg(castScalar(a).inner)
	s.reduce()
	return s
}

// Invert sets s to a^(-1) (mod order) and returns s.
// Zero has no inverse; for a zero a it returns an error and leaves s
// unchanged.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	as := castScalar(a)
	if as.IsZero() {
		return nil, errors.New("bjj: cannot invert zero scalar")
	}
	s.inner.ModInverse(as.inner, curveOrder)
	return s, nil
}

// Set copies a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Set(castScalar(a).inner)
	return s
}

// Bytes returns the 32-byte big-endian encoding of s.
// The width is fixed, so encodings of different scalars compare in
// numeric order.
func (s *Scalar) Bytes() []byte {
	out := make([]byte, scalarLen)
	s.inner.FillBytes(out)
	return out
}

// SetBytes sets s from a big-endian byte slice and returns s.
// Input of any length is accepted and reduced modulo the order, so it
// never fails. Callers that need canonical encodings check the width and
// compare against Bytes.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	s.inner.SetBytes(data)
	s.reduce()
	return s, nil
}

// Equal reports whether s and b are the same scalar.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Cmp(castScalar(b).inner) == 0
}

// IsZero reports whether s is zero.
func (s *Scalar) IsZero() bool {
	return s.inner.Sign() == 0
}

// Point is a point on the Baby Jubjub curve.
// It implements [group.Point] on top of gnark-crypto's PointAffine.
//
// Points are kept in affine coordinates (x, y) on the twisted Edwards
// form of the curve, where the identity element is (0, 1) rather than a
// point at infinity.
type Point struct {
	inner twistededwards.PointAffine
}

func castPoint(p group.Point) *Point {
	out, ok := p.(*Point)
	if !ok {
		panic("bjj: point from a different group")
	}
	return out
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	p.inner.Add(&castPoint(a).inner, &castPoint(b).inner)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	var negB twistededwards.PointAffine
	negB.Neg(&castPoint(b).inner)
	p.inner.Add(&castPoint(a).inner, &negB)
	return p
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	p.inner.Neg(&castPoint(a).inner)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.ScalarMultiplication(&castPoint(q).inner, castScalar(s).inner)
	return p
}

// Set copies a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner.Set(&castPoint(a).inner)
	return p
}

// Bytes returns the 32-byte compressed encoding of p.
func (p *Point) Bytes() []byte {
	b := p.inner.Bytes()
	return b[:]
}

// SetBytes decodes a 32-byte compressed point into p and returns p.
// It fails if data is not the encoding of a point on the curve.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if err := p.inner.Unmarshal(data); err != nil {
		return nil, err
	}
	return p, nil
}

// Equal reports whether p and b are the same point.
func (p *Point) Equal(b group.Point) bool {
	return p.inner.Equal(&castPoint(b).inner)
}

// IsIdentity reports whether p is the identity element (0, 1).
func (p *Point) IsIdentity() bool {
	return p.inner.IsZero()
}

// BJJ implements [group.Group] for the Baby Jubjub curve.
//
// BJJ carries no state. Use &BJJ{} or new(BJJ); any two values are
// interchangeable.
type BJJ struct{}

// Name implements [group.Group].
func (g *BJJ) Name() string { return "bjj" }

// NewScalar returns a zero scalar.
func (g *BJJ) NewScalar() group.Scalar {
	return newScalar()
}

// NewPoint returns a new point set to the identity element (0, 1).
func (g *BJJ) NewPoint() group.Point {
	var p Point
	p.inner.X.SetZero()
	p.inner.Y.SetOne()
	return &p
}

// Generator returns the standard Baby Jubjub base point.
func (g *BJJ) Generator() group.Point {
	var p Point
	p.inner = twistededwards.GetEdwardsCurve().Base
	return &p
}

// RandomScalar returns a uniformly random scalar drawn from r.
//
// It reads 64 bytes and reduces them modulo the 251-bit order, so the
// bias from the reduction is negligible.
func (g *BJJ) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [2 * scalarLen]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	s := newScalar()
	s.inner.SetBytes(buf[:])
	s.reduce()
	return s, nil
}

// HashToScalar hashes data to a scalar.
// The slices are concatenated and hashed with SHA-512, and the 64-byte
// digest is reduced modulo the order.
func (g *BJJ) HashToScalar(data ...[]byte) (group.Scalar, error) {
	h := sha512.New()
	for _, d := range data {
		h.Write(d)
	}
	s := newScalar()
	s.inner.SetBytes(h.Sum(nil))
	s.reduce()
	return s, nil
}

// Order returns the order of the prime-order subgroup as a big-endian
// byte slice.
func (g *BJJ) Order() []byte {
	return curveOrder.Bytes()
}
