package frost

import (
	"github.com/f3rmion/frostd/group"
)

// KeyPackage is everything a participant needs to sign: its long-lived
// signing share and the public values to check its own output.
type KeyPackage struct {
	Identifier     Identifier
	SigningShare   group.Scalar
	VerifyingShare group.Point
	VerifyingKey   group.Point
	MinSigners     uint16
}

// PublicKeyPackage holds the public side of a key generation: the group
// verifying key and one verifying share per participant.
type PublicKeyPackage struct {
	VerifyingShares map[Identifier]group.Point
	VerifyingKey    group.Point
}

// Equal reports whether p and o hold the same group key and verifying
// shares.
func (p *PublicKeyPackage) Equal(o *PublicKeyPackage) bool {
	if p == nil || o == nil {
		return p == o
	}
	if !p.VerifyingKey.Equal(o.VerifyingKey) || len(p.VerifyingShares) != len(o.VerifyingShares) {
		return false
	}
	for id, share := range p.VerifyingShares {
		other, ok := o.VerifyingShares[id]
		if !ok || !share.Equal(other) {
			return false
		}
	}
	return true
}

// SecretShare is a dealer's output for one participant: the share value
// and the commitment to the dealer's polynomial it can be checked against.
type SecretShare struct {
	Identifier   Identifier
	SigningShare group.Scalar
	Commitment   []group.Point
}

// publicKeyPackage builds the public package for ids from a summed
// polynomial commitment.
func (f *FROST) publicKeyPackage(commitment []group.Point, ids []Identifier) (*PublicKeyPackage, error) {
	shares := make(map[Identifier]group.Point, len(ids))
	for _, id := range ids {
		x, err := f.scalarOf(id)
		if err != nil {
			return nil, err
		}
		shares[id] = f.evalCommitment(commitment, x)
	}
	return &PublicKeyPackage{
		VerifyingShares: shares,
		VerifyingKey:    f.group.NewPoint().Set(commitment[0]),
	}, nil
}
