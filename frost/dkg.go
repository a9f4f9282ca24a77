package frost

import (
	"io"

	"github.com/f3rmion/frostd/group"
)

// Round1SecretPackage is a participant's private state after round 1.
// It must never be sent to anyone.
type Round1SecretPackage struct {
	identifier   Identifier
	coefficients []group.Scalar
	commitment   []group.Point
	minSigners   uint16
	maxSigners   uint16
}

// Identifier returns the participant the package belongs to.
func (s *Round1SecretPackage) Identifier() Identifier { return s.identifier }

// Round1Package is broadcast to every other participant: commitments to
// the secret polynomial and a Schnorr proof of knowledge of its constant
// term.
type Round1Package struct {
	Commitment []group.Point
	ProofR     group.Point
	ProofZ     group.Scalar
}

// Round2SecretPackage is a participant's private state after round 2.
type Round2SecretPackage struct {
	identifier Identifier
	commitment []group.Point
	ownShare   group.Scalar
	minSigners uint16
	maxSigners uint16
}

// Identifier returns the participant the package belongs to.
func (s *Round2SecretPackage) Identifier() Identifier { return s.identifier }

// Round2Package carries the sender's polynomial evaluated at one
// recipient. It is addressed to that recipient only.
type Round2Package struct {
	SigningShare group.Scalar
}

// DKGRound1 starts key generation for participant id.
//
// It samples a random polynomial of degree minSigners-1, commits to its
// coefficients and proves knowledge of the constant term.
func (f *FROST) DKGRound1(rng io.Reader, id Identifier, maxSigners, minSigners uint16) (*Round1SecretPackage, *Round1Package, error) {
	const op = "dkg round 1"
	if err := validateParams(maxSigners, minSigners); err != nil {
		return nil, nil, cryptoErr(op, "", err)
	}
	if _, err := f.scalarOf(id); err != nil {
		return nil, nil, cryptoErr(op, id, err)
	}

	secret, err := f.group.RandomScalar(rng)
	if err != nil {
		return nil, nil, cryptoErr(op, "", err)
	}
	coeffs, commitment, err := f.randomPolynomial(rng, secret, minSigners)
	if err != nil {
		return nil, nil, cryptoErr(op, "", err)
	}

	// Proof of knowledge of a_0: R = k*G, z = k + a_0*c.
	k, err := f.group.RandomScalar(rng)
	if err != nil {
		return nil, nil, cryptoErr(op, "", err)
	}
	R := group.BaseMult(f.group, k)
	c := f.hasher.HDKG(f.group, id.Bytes(), commitment[0].Bytes(), R.Bytes())
	z := f.group.NewScalar().Mul(coeffs[0], c)
	z = f.group.NewScalar().Add(k, z)

	secretPkg := &Round1SecretPackage{
		identifier:   id,
		coefficients: coeffs,
		commitment:   commitment,
		minSigners:   minSigners,
		maxSigners:   maxSigners,
	}
	pkg := &Round1Package{
		Commitment: commitment,
		ProofR:     R,
		ProofZ:     z,
	}
	return secretPkg, pkg, nil
}

// verifyProofOfKnowledge checks z*G == R + c*phi_0 for sender.
func (f *FROST) verifyProofOfKnowledge(sender Identifier, pkg *Round1Package) bool {
	if len(pkg.Commitment) == 0 || pkg.ProofR == nil || pkg.ProofZ == nil {
		return false
	}
	c := f.hasher.HDKG(f.group, sender.Bytes(), pkg.Commitment[0].Bytes(), pkg.ProofR.Bytes())
	lhs := group.BaseMult(f.group, pkg.ProofZ)
	rhs := f.group.NewPoint().ScalarMult(c, pkg.Commitment[0])
	rhs = f.group.NewPoint().Add(pkg.ProofR, rhs)
	return lhs.Equal(rhs)
}

// DKGRound2 checks the round 1 packages of all other participants and
// computes one share for each of them.
//
// round1 must hold exactly maxSigners-1 packages and must not contain the
// caller's own identifier.
func (f *FROST) DKGRound2(secret *Round1SecretPackage, round1 map[Identifier]*Round1Package) (*Round2SecretPackage, map[Identifier]*Round2Package, error) {
	const op = "dkg round 2"
	if len(round1) != int(secret.maxSigners)-1 {
		return nil, nil, cryptoErr(op, "", ErrIncorrectNumberOfPackages)
	}

	out := make(map[Identifier]*Round2Package, len(round1))
	for _, sender := range SortedIdentifiers(round1) {
		pkg := round1[sender]
		if sender == secret.identifier {
			return nil, nil, cryptoErr(op, sender, ErrDuplicateIdentifier)
		}
		x, err := f.scalarOf(sender)
		if err != nil {
			return nil, nil, cryptoErr(op, sender, err)
		}
		if pkg == nil || len(pkg.Commitment) != int(secret.minSigners) {
			return nil, nil, cryptoErr(op, sender, ErrIncorrectCommitment)
		}
		if !f.verifyProofOfKnowledge(sender, pkg) {
			return nil, nil, cryptoErr(op, sender, ErrInvalidProofOfKnowledge)
		}
		out[sender] = &Round2Package{SigningShare: f.evalPolynomial(secret.coefficients, x)}
	}

	self, _ := f.scalarOf(secret.identifier)
	secret2 := &Round2SecretPackage{
		identifier: secret.identifier,
		commitment: secret.commitment,
		ownShare:   f.evalPolynomial(secret.coefficients, self),
		minSigners: secret.minSigners,
		maxSigners: secret.maxSigners,
	}
	return secret2, out, nil
}

// DKGRound3 checks the shares received in round 2 against the round 1
// commitments and derives the participant's key package and the group's
// public key package.
//
// round1 and round2 must be keyed by exactly the same maxSigners-1
// identifiers.
func (f *FROST) DKGRound3(secret *Round2SecretPackage, round1 map[Identifier]*Round1Package, round2 map[Identifier]*Round2Package) (*KeyPackage, *PublicKeyPackage, error) {
	const op = "dkg round 3"
	want := int(secret.maxSigners) - 1
	if len(round1) != want || len(round2) != want {
		return nil, nil, cryptoErr(op, "", ErrIncorrectNumberOfPackages)
	}

	self, err := f.scalarOf(secret.identifier)
	if err != nil {
		return nil, nil, cryptoErr(op, secret.identifier, err)
	}

	signingShare := f.group.NewScalar().Set(secret.ownShare)
	summed := make([]group.Point, secret.minSigners)
	for k := range summed {
		summed[k] = f.group.NewPoint().Set(secret.commitment[k])
	}

	for _, sender := range SortedIdentifiers(round2) {
		share := round2[sender]
		r1, ok := round1[sender]
		if !ok {
			return nil, nil, cryptoErr(op, sender, ErrUnknownIdentifier)
		}
		if len(r1.Commitment) != int(secret.minSigners) {
			return nil, nil, cryptoErr(op, sender, ErrIncorrectCommitment)
		}
		if share == nil || share.SigningShare == nil {
			return nil, nil, cryptoErr(op, sender, ErrInvalidSecretShare)
		}
		expected := f.evalCommitment(r1.Commitment, self)
		if !group.BaseMult(f.group, share.SigningShare).Equal(expected) {
			return nil, nil, cryptoErr(op, sender, ErrInvalidSecretShare)
		}

		signingShare = f.group.NewScalar().Add(signingShare, share.SigningShare)
		for k := range summed {
			summed[k] = f.group.NewPoint().Add(summed[k], r1.Commitment[k])
		}
	}

	ids := append(SortedIdentifiers(round1), secret.identifier)
	pub, err := f.publicKeyPackage(summed, ids)
	if err != nil {
		return nil, nil, cryptoErr(op, "", err)
	}

	verifyingShare := group.BaseMult(f.group, signingShare)
	if !verifyingShare.Equal(pub.VerifyingShares[secret.identifier]) {
		return nil, nil, cryptoErr(op, secret.identifier, ErrInvalidSecretShare)
	}

	kp := &KeyPackage{
		Identifier:     secret.identifier,
		SigningShare:   signingShare,
		VerifyingShare: verifyingShare,
		VerifyingKey:   pub.VerifyingKey,
		MinSigners:     secret.minSigners,
	}
	return kp, pub, nil
}
