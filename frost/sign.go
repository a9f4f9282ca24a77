package frost

import (
	"io"

	"github.com/f3rmion/frostd/group"
)

// nonceRandomLen is the amount of fresh randomness hedged into each nonce.
const nonceRandomLen = 32

// SigningNonces holds a signer's secret nonce pair for one signature.
// It must be used at most once and never shared.
type SigningNonces struct {
	Hiding      group.Scalar // d
	Binding     group.Scalar // e
	Commitments *SigningCommitments
}

// SigningCommitments is published in round 1 of signing.
type SigningCommitments struct {
	Hiding  group.Point // D = d * G
	Binding group.Point // E = e * G
}

// Equal reports whether c and o commit to the same nonces.
func (c *SigningCommitments) Equal(o *SigningCommitments) bool {
	return c.Hiding.Equal(o.Hiding) && c.Binding.Equal(o.Binding)
}

// SignatureShare is a participant's share of the signature.
type SignatureShare struct {
	Share group.Scalar
}

// Signature is a Schnorr signature (R, z).
type Signature struct {
	R group.Point
	Z group.Scalar
}

// Bytes returns R || z.
func (s *Signature) Bytes() []byte {
	out := append([]byte{}, s.R.Bytes()...)
	return append(out, s.Z.Bytes()...)
}

// SigningPackage binds the commitments of the chosen signers to the
// message being signed.
type SigningPackage struct {
	commitments map[Identifier]*SigningCommitments
	message     []byte
}

// NewSigningPackage returns a signing package over copies of commitments
// and message.
func NewSigningPackage(commitments map[Identifier]*SigningCommitments, message []byte) *SigningPackage {
	c := make(map[Identifier]*SigningCommitments, len(commitments))
	for id, comm := range commitments {
		c[id] = comm
	}
	return &SigningPackage{
		commitments: c,
		message:     append([]byte{}, message...),
	}
}

// Message returns the message to be signed.
func (sp *SigningPackage) Message() []byte { return sp.message }

// Commitments returns the commitments of signer id, or nil.
func (sp *SigningPackage) Commitments(id Identifier) *SigningCommitments {
	return sp.commitments[id]
}

// Signers returns the identifiers of all signers in ascending order.
func (sp *SigningPackage) Signers() []Identifier {
	return SortedIdentifiers(sp.commitments)
}

// Commit generates a fresh nonce pair for kp and the commitments to
// publish.
//
// Each nonce is hashed from fresh randomness and the signing share, so a
// weak rng alone does not reveal the share.
func (f *FROST) Commit(rng io.Reader, kp *KeyPackage) (*SigningNonces, *SigningCommitments, error) {
	const op = "commit"
	secret := kp.SigningShare.Bytes()

	nonce := func() (group.Scalar, error) {
		random := make([]byte, nonceRandomLen)
		if _, err := io.ReadFull(rng, random); err != nil {
			return nil, err
		}
		return f.hasher.H3(f.group, random, secret), nil
	}

	d, err := nonce()
	if err != nil {
		return nil, nil, cryptoErr(op, kp.Identifier, err)
	}
	e, err := nonce()
	if err != nil {
		return nil, nil, cryptoErr(op, kp.Identifier, err)
	}

	commitments := &SigningCommitments{
		Hiding:  group.BaseMult(f.group, d),
		Binding: group.BaseMult(f.group, e),
	}
	nonces := &SigningNonces{
		Hiding:      d,
		Binding:     e,
		Commitments: commitments,
	}
	return nonces, commitments, nil
}

// signingContext holds the values every signer and the aggregator derive
// identically from a signing package.
type signingContext struct {
	ids            []Identifier
	xs             []group.Scalar
	bindingFactors map[Identifier]group.Scalar
	R              group.Point
	c              group.Scalar
}

func (f *FROST) newSigningContext(op string, sp *SigningPackage, verifyingKey group.Point) (*signingContext, error) {
	ids := sp.Signers()
	if len(ids) == 0 {
		return nil, cryptoErr(op, "", ErrNotEnoughSigners)
	}

	xs := make([]group.Scalar, len(ids))
	// Encoded commitment list: id || D || E for each signer, ascending.
	var commBytes []byte
	for i, id := range ids {
		x, err := f.scalarOf(id)
		if err != nil {
			return nil, cryptoErr(op, id, err)
		}
		comm := sp.commitments[id]
		if comm == nil || comm.Hiding == nil || comm.Binding == nil {
			return nil, cryptoErr(op, id, ErrMissingCommitment)
		}
		if comm.Hiding.IsIdentity() || comm.Binding.IsIdentity() {
			return nil, cryptoErr(op, id, ErrIdentityCommitment)
		}
		xs[i] = x
		commBytes = append(commBytes, id.Bytes()...)
		commBytes = append(commBytes, comm.Hiding.Bytes()...)
		commBytes = append(commBytes, comm.Binding.Bytes()...)
	}

	// rho_i = H1(Y || H4(msg), H5(commitment list), id)
	prefix := append([]byte{}, verifyingKey.Bytes()...)
	prefix = append(prefix, f.hasher.H4(f.group, sp.message)...)
	commHash := f.hasher.H5(f.group, commBytes)

	factors := make(map[Identifier]group.Scalar, len(ids))
	R := f.group.NewPoint()
	for _, id := range ids {
		rho := f.hasher.H1(f.group, prefix, commHash, id.Bytes())
		factors[id] = rho

		// R += D_i + rho_i * E_i
		comm := sp.commitments[id]
		rhoE := f.group.NewPoint().ScalarMult(rho, comm.Binding)
		term := f.group.NewPoint().Add(comm.Hiding, rhoE)
		R = f.group.NewPoint().Add(R, term)
	}

	// c = H2(R, Y, msg)
	c := f.hasher.H2(f.group, R.Bytes(), verifyingKey.Bytes(), sp.message)

	return &signingContext{
		ids:            ids,
		xs:             xs,
		bindingFactors: factors,
		R:              R,
		c:              c,
	}, nil
}

func (f *FROST) lambda(op string, sc *signingContext, id Identifier) (group.Scalar, error) {
	x, err := f.scalarOf(id)
	if err != nil {
		return nil, cryptoErr(op, id, err)
	}
	l, err := f.lagrangeCoefficient(x, sc.xs)
	if err != nil {
		return nil, cryptoErr(op, id, err)
	}
	return l, nil
}

// Sign produces kp's signature share over sp using nonces. The caller
// must discard nonces afterwards.
func (f *FROST) Sign(sp *SigningPackage, nonces *SigningNonces, kp *KeyPackage) (*SignatureShare, error) {
	const op = "sign"
	if nonces == nil || nonces.Commitments == nil {
		return nil, cryptoErr(op, kp.Identifier, ErrMissingNonces)
	}
	own, ok := sp.commitments[kp.Identifier]
	if !ok {
		return nil, cryptoErr(op, kp.Identifier, ErrMissingCommitment)
	}
	if own == nil || !own.Equal(nonces.Commitments) {
		return nil, cryptoErr(op, kp.Identifier, ErrIncorrectCommitment)
	}
	if len(sp.commitments) < int(kp.MinSigners) {
		return nil, cryptoErr(op, "", ErrNotEnoughSigners)
	}

	sc, err := f.newSigningContext(op, sp, kp.VerifyingKey)
	if err != nil {
		return nil, err
	}
	lambda, err := f.lambda(op, sc, kp.Identifier)
	if err != nil {
		return nil, err
	}
	rho := sc.bindingFactors[kp.Identifier]

	z := f.group.NewScalar().Mul(rho, nonces.Binding)           // rho * e
	z = f.group.NewScalar().Add(nonces.Hiding, z)               // d + rho * e
	lambdaS := f.group.NewScalar().Mul(lambda, kp.SigningShare) // lambda * s
	lambdaSC := f.group.NewScalar().Mul(lambdaS, sc.c)          // lambda * s * c
	z = f.group.NewScalar().Add(z, lambdaSC)                    // d + rho*e + lambda*s*c

	return &SignatureShare{Share: z}, nil
}

// Aggregate checks every signature share against its signer's verifying
// share and combines them into a signature.
//
// shares must be keyed by exactly the signers of sp. A share that fails
// to verify is reported with its signer as the culprit.
func (f *FROST) Aggregate(sp *SigningPackage, shares map[Identifier]*SignatureShare, pub *PublicKeyPackage) (*Signature, error) {
	const op = "aggregate"
	if len(shares) != len(sp.commitments) {
		return nil, cryptoErr(op, "", ErrIncorrectNumberOfPackages)
	}
	for id := range shares {
		if _, ok := sp.commitments[id]; !ok {
			return nil, cryptoErr(op, id, ErrUnknownIdentifier)
		}
	}

	sc, err := f.newSigningContext(op, sp, pub.VerifyingKey)
	if err != nil {
		return nil, err
	}

	z := f.group.NewScalar()
	for _, id := range sc.ids {
		share := shares[id]
		if share == nil || share.Share == nil {
			return nil, cryptoErr(op, id, ErrInvalidSignatureShare)
		}
		Y, ok := pub.VerifyingShares[id]
		if !ok {
			return nil, cryptoErr(op, id, ErrUnknownIdentifier)
		}
		lambda, err := f.lambda(op, sc, id)
		if err != nil {
			return nil, err
		}

		// z_i * G == D_i + rho_i * E_i + c * lambda_i * Y_i
		comm := sp.commitments[id]
		lhs := group.BaseMult(f.group, share.Share)
		rhs := f.group.NewPoint().ScalarMult(sc.bindingFactors[id], comm.Binding)
		rhs = f.group.NewPoint().Add(comm.Hiding, rhs)
		cl := f.group.NewScalar().Mul(sc.c, lambda)
		rhs = f.group.NewPoint().Add(rhs, f.group.NewPoint().ScalarMult(cl, Y))
		if !lhs.Equal(rhs) {
			return nil, cryptoErr(op, id, ErrInvalidSignatureShare)
		}

		z = f.group.NewScalar().Add(z, share.Share)
	}

	return &Signature{R: sc.R, Z: z}, nil
}

// Verify checks a signature on message against the group verifying key.
func (f *FROST) Verify(verifyingKey group.Point, message []byte, sig *Signature) bool {
	if sig == nil || sig.R == nil || sig.Z == nil {
		return false
	}
	// c = H2(R, Y, message)
	c := f.hasher.H2(f.group, sig.R.Bytes(), verifyingKey.Bytes(), message)

	// Check: z*G == R + c*Y
	lhs := group.BaseMult(f.group, sig.Z)
	cY := f.group.NewPoint().ScalarMult(c, verifyingKey)
	rhs := f.group.NewPoint().Add(sig.R, cY)

	return lhs.Equal(rhs)
}
