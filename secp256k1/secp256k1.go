package secp256k1

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"math/big"

	dsecp "github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/f3rmion/frostd/group"
)

const (
	scalarLen = 32
	pointLen  = 33
)

var curveOrder = new(big.Int).Set(dsecp.S256().Params().N)

// Scalar is an element of Z/nZ for the secp256k1 order n.
type Scalar struct {
	value dsecp.ModNScalar
}

func castScalar(s group.Scalar) *Scalar {
	out, ok := s.(*Scalar)
	if !ok {
		panic(fmt.Sprintf("secp256k1: failed to convert scalar: %T", s))
	}
	return out
}

// Add sets s to a + b and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.value.Add2(&castScalar(a).value, &castScalar(b).value)
	return s
}

// Sub sets s to a - b and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	var negB dsecp.ModNScalar
	negB.NegateVal(&castScalar(b).value)
	s.value.Add2(&castScalar(a).value, &negB)
	return s
}

// Mul sets s to a * b and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.value.Mul2(&castScalar(a).value, &castScalar(b).value)
	return s
}

// Negate sets s to -a and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.value.NegateVal(&castScalar(a).value)
	return s
}

// Invert sets s to a^(-1) and returns s.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	as := castScalar(a)
	if as.value.IsZero() {
		return nil, errors.New("secp256k1: cannot invert zero scalar")
	}
	s.value.InverseValNonConst(&as.value)
	return s, nil
}

// Set copies a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.value.Set(&castScalar(a).value)
	return s
}

// Bytes returns the 32-byte big-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	b := s.value.Bytes()
	return b[:]
}

// SetBytes sets s from a big-endian byte slice of any length, reduced
// modulo the order.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	n := new(big.Int).SetBytes(data)
	n.Mod(n, curveOrder)
	var buf [scalarLen]byte
	n.FillBytes(buf[:])
	s.value.SetBytes(&buf)
	return s, nil
}

// Equal reports whether s and b are the same scalar.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.value.Equals(&castScalar(b).value)
}

// IsZero reports whether s is zero.
func (s *Scalar) IsZero() bool {
	return s.value.IsZero()
}

// Point is a secp256k1 point in Jacobian coordinates.
type Point struct {
	value dsecp.JacobianPoint
}

func castPoint(p group.Point) *Point {
	out, ok := p.(*Point)
	if !ok {
		panic(fmt.Sprintf("secp256k1: failed to convert point: %T", p))
	}
	return out
}

func isInfinity(p *dsecp.JacobianPoint) bool {
	var x, y, z dsecp.FieldVal
	x.Set(&p.X).Normalize()
	y.Set(&p.Y).Normalize()
	z.Set(&p.Z).Normalize()
	return (x.IsZero() && y.IsZero()) || z.IsZero()
}

// affine returns a normalized affine copy of p, which must not be the identity.
func affine(p *dsecp.JacobianPoint) dsecp.JacobianPoint {
	var out dsecp.JacobianPoint
	out.Set(p)
	out.X.Normalize()
	out.Y.Normalize()
	out.Z.Normalize()
	out.ToAffine()
	return out
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	var out dsecp.JacobianPoint
	dsecp.AddNonConst(&castPoint(a).value, &castPoint(b).value, &out)
	p.value.Set(&out)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	var negB Point
	negB.Negate(b)
	return p.Add(a, &negB)
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	p.value.Set(&castPoint(a).value)
	p.value.Y.Normalize()
	p.value.Y.Negate(1)
	p.value.Y.Normalize()
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	var out dsecp.JacobianPoint
	dsecp.ScalarMultNonConst(&castScalar(s).value, &castPoint(q).value, &out)
	p.value.Set(&out)
	return p
}

// Set copies a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.value.Set(&castPoint(a).value)
	return p
}

// Bytes returns the 33-byte compressed encoding of p.
func (p *Point) Bytes() []byte {
	out := make([]byte, pointLen)
	if isInfinity(&p.value) {
		return out
	}
	a := affine(&p.value)
	out[0] = 0x02
	if a.Y.IsOdd() {
		out[0] = 0x03
	}
	x := a.X.Bytes()
	copy(out[1:], x[:])
	return out
}

// SetBytes decodes a compressed encoding into p.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != pointLen {
		return nil, fmt.Errorf("secp256k1: invalid point length %d", len(data))
	}
	if data[0] == 0 {
		for _, b := range data[1:] {
			if b != 0 {
				return nil, errors.New("secp256k1: invalid identity encoding")
			}
		}
		p.value = dsecp.JacobianPoint{}
		return p, nil
	}
	if data[0] != 0x02 && data[0] != 0x03 {
		return nil, fmt.Errorf("secp256k1: invalid point prefix %#x", data[0])
	}
	var v dsecp.JacobianPoint
	if v.X.SetByteSlice(data[1:]) {
		return nil, errors.New("secp256k1: x coordinate out of range")
	}
	if !dsecp.DecompressY(&v.X, data[0] == 0x03, &v.Y) {
		return nil, errors.New("secp256k1: x coordinate not on curve")
	}
	v.Z.SetInt(1)
	p.value = v
	return p, nil
}

// Equal reports whether p and b are the same point.
func (p *Point) Equal(b group.Point) bool {
	other := castPoint(b)
	pInf, bInf := isInfinity(&p.value), isInfinity(&other.value)
	if pInf || bInf {
		return pInf == bInf
	}
	pa, ba := affine(&p.value), affine(&other.value)
	return pa.X.Equals(&ba.X) && pa.Y.Equals(&ba.Y)
}

// IsIdentity reports whether p is the point at infinity.
func (p *Point) IsIdentity() bool {
	return isInfinity(&p.value)
}

// Group implements [group.Group] for secp256k1.
type Group struct{}

// Name implements [group.Group].
func (Group) Name() string { return "secp256k1" }

// NewScalar returns a zero scalar.
func (Group) NewScalar() group.Scalar { return new(Scalar) }

// NewPoint returns the point at infinity.
func (Group) NewPoint() group.Point { return new(Point) }

// Generator returns the standard base point.
func (Group) Generator() group.Point {
	var one dsecp.ModNScalar
	one.SetInt(1)
	p := new(Point)
	dsecp.ScalarBaseMultNonConst(&one, &p.value)
	return p
}

// RandomScalar reads 64 bytes from r and reduces them modulo the order.
func (Group) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [2 * scalarLen]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	return new(Scalar).SetBytes(buf[:])
}

// HashToScalar hashes data with SHA-256 twice under distinct counters and
// reduces the 64-byte result modulo the order.
func (Group) HashToScalar(data ...[]byte) (group.Scalar, error) {
	wide := make([]byte, 0, 2*sha256.Size)
	for _, ctr := range []byte{0, 1} {
		h := sha256.New()
		h.Write([]byte{ctr})
		for _, d := range data {
			h.Write(d)
		}
		wide = h.Sum(wide)
	}
	return new(Scalar).SetBytes(wide)
}

// Order returns the group order as big-endian bytes.
func (Group) Order() []byte {
	return curveOrder.Bytes()
}
