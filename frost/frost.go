package frost

import (
	"io"

	"github.com/f3rmion/frostd/group"
)

// FROST is a ciphersuite: a group together with the hash functions used
// for binding factors, challenges, nonces and identifiers.
type FROST struct {
	group  group.Group
	hasher Hasher
}

// New returns a FROST ciphersuite over g using [NewSHA256Hasher].
func New(g group.Group) *FROST {
	return NewWithHasher(g, NewSHA256Hasher())
}

// NewWithHasher returns a FROST ciphersuite over g using a custom hasher.
// Use [NewBlake2bHasher] for compatibility with Ledger/iden3 FROST.
func NewWithHasher(g group.Group, h Hasher) *FROST {
	return &FROST{group: g, hasher: h}
}

// Group returns the group of this ciphersuite.
func (f *FROST) Group() group.Group {
	return f.group
}

// Hasher returns the hash functions of this ciphersuite.
func (f *FROST) Hasher() Hasher {
	return f.hasher
}

// ValidateParams checks threshold parameters without running any
// protocol step.
func ValidateParams(maxSigners, minSigners uint16) error {
	if err := validateParams(maxSigners, minSigners); err != nil {
		return cryptoErr("parameters", "", err)
	}
	return nil
}

// validateParams checks the threshold parameters shared by key generation
// and dealer splitting.
func validateParams(maxSigners, minSigners uint16) error {
	if maxSigners == 0 {
		return ErrInvalidMaxSigners
	}
	if minSigners == 0 || minSigners > maxSigners {
		return ErrInvalidMinSigners
	}
	return nil
}

// randomPolynomial returns degree-1 random coefficients plus the given
// constant term, and the commitment to each coefficient.
func (f *FROST) randomPolynomial(rng io.Reader, constant group.Scalar, minSigners uint16) ([]group.Scalar, []group.Point, error) {
	coeffs := make([]group.Scalar, minSigners)
	coeffs[0] = constant
	for i := 1; i < int(minSigners); i++ {
		c, err := f.group.RandomScalar(rng)
		if err != nil {
			return nil, nil, err
		}
		coeffs[i] = c
	}

	commitment := make([]group.Point, len(coeffs))
	for i, c := range coeffs {
		commitment[i] = group.BaseMult(f.group, c)
	}
	return coeffs, commitment, nil
}

// evalPolynomial evaluates coeffs at x with Horner's rule.
func (f *FROST) evalPolynomial(coeffs []group.Scalar, x group.Scalar) group.Scalar {
	result := f.group.NewScalar().Set(coeffs[len(coeffs)-1])
	for i := len(coeffs) - 2; i >= 0; i-- {
		result = f.group.NewScalar().Mul(result, x)
		result = f.group.NewScalar().Add(result, coeffs[i])
	}
	return result
}

// evalCommitment evaluates a polynomial commitment at x, giving f(x)*G.
func (f *FROST) evalCommitment(commitment []group.Point, x group.Scalar) group.Point {
	result := f.group.NewPoint()
	xPower := group.ScalarFromUint64(f.group, 1)
	for _, c := range commitment {
		term := f.group.NewPoint().ScalarMult(xPower, c)
		result = f.group.NewPoint().Add(result, term)
		xPower = f.group.NewScalar().Mul(xPower, x)
	}
	return result
}

// lagrangeCoefficient returns the Lagrange coefficient at zero for x over
// the interpolation set xs, which must contain x.
func (f *FROST) lagrangeCoefficient(x group.Scalar, xs []group.Scalar) (group.Scalar, error) {
	num := group.ScalarFromUint64(f.group, 1)
	den := group.ScalarFromUint64(f.group, 1)

	for _, xj := range xs {
		if xj.Equal(x) {
			continue
		}
		num = f.group.NewScalar().Mul(num, xj)
		diff := f.group.NewScalar().Sub(xj, x)
		den = f.group.NewScalar().Mul(den, diff)
	}

	denInv, err := f.group.NewScalar().Invert(den)
	if err != nil {
		return nil, ErrDuplicateIdentifier
	}
	return f.group.NewScalar().Mul(num, denInv), nil
}
