package frost

import (
	"io"

	"github.com/f3rmion/frostd/group"
)

// DealerSplit generates a fresh group secret and Shamir-splits it among
// identifiers 1..maxSigners so that any minSigners of them can sign.
func (f *FROST) DealerSplit(rng io.Reader, maxSigners, minSigners uint16) (map[Identifier]*SecretShare, *PublicKeyPackage, error) {
	const op = "dealer split"
	if err := validateParams(maxSigners, minSigners); err != nil {
		return nil, nil, cryptoErr(op, "", err)
	}

	secret, err := f.group.RandomScalar(rng)
	if err != nil {
		return nil, nil, cryptoErr(op, "", err)
	}
	coeffs, commitment, err := f.randomPolynomial(rng, secret, minSigners)
	if err != nil {
		return nil, nil, cryptoErr(op, "", err)
	}

	shares := make(map[Identifier]*SecretShare, maxSigners)
	ids := make([]Identifier, 0, maxSigners)
	for i := uint64(1); i <= uint64(maxSigners); i++ {
		id, err := f.IdentifierFromUint(i)
		if err != nil {
			return nil, nil, err
		}
		x := group.ScalarFromUint64(f.group, i)
		shares[id] = &SecretShare{
			Identifier:   id,
			SigningShare: f.evalPolynomial(coeffs, x),
			Commitment:   commitment,
		}
		ids = append(ids, id)
	}

	pub, err := f.publicKeyPackage(commitment, ids)
	if err != nil {
		return nil, nil, cryptoErr(op, "", err)
	}
	return shares, pub, nil
}

// NewKeyPackage checks a dealer's share against its commitment and turns
// it into a key package.
func (f *FROST) NewKeyPackage(share *SecretShare) (*KeyPackage, error) {
	const op = "key package"
	if share == nil || len(share.Commitment) == 0 || share.SigningShare == nil {
		return nil, cryptoErr(op, "", ErrInvalidSecretShare)
	}
	x, err := f.scalarOf(share.Identifier)
	if err != nil {
		return nil, cryptoErr(op, share.Identifier, err)
	}

	verifyingShare := group.BaseMult(f.group, share.SigningShare)
	if !verifyingShare.Equal(f.evalCommitment(share.Commitment, x)) {
		return nil, cryptoErr(op, share.Identifier, ErrInvalidSecretShare)
	}

	return &KeyPackage{
		Identifier:     share.Identifier,
		SigningShare:   f.group.NewScalar().Set(share.SigningShare),
		VerifyingShare: verifyingShare,
		VerifyingKey:   f.group.NewPoint().Set(share.Commitment[0]),
		MinSigners:     uint16(len(share.Commitment)),
	}, nil
}
