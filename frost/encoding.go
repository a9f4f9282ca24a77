package frost

import (
	"fmt"

	"github.com/f3rmion/frostd/group"
	"github.com/fxamacker/cbor/v2"
)

// encMode produces deterministic CBOR so that equal packages always
// encode to equal bytes.
var encMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}

type round1Wire struct {
	Group      string   `cbor:"1,keyasint"`
	Commitment [][]byte `cbor:"2,keyasint"`
	ProofR     []byte   `cbor:"3,keyasint"`
	ProofZ     []byte   `cbor:"4,keyasint"`
}

type round2Wire struct {
	Group        string `cbor:"1,keyasint"`
	SigningShare []byte `cbor:"2,keyasint"`
}

type publicKeyWire struct {
	Group           string            `cbor:"1,keyasint"`
	VerifyingKey    []byte            `cbor:"2,keyasint"`
	VerifyingShares map[string][]byte `cbor:"3,keyasint"`
}

// MarshalRound1Package encodes pkg as CBOR.
func (f *FROST) MarshalRound1Package(pkg *Round1Package) ([]byte, error) {
	w := round1Wire{
		Group:      f.group.Name(),
		Commitment: make([][]byte, len(pkg.Commitment)),
		ProofR:     pkg.ProofR.Bytes(),
		ProofZ:     pkg.ProofZ.Bytes(),
	}
	for i, c := range pkg.Commitment {
		w.Commitment[i] = c.Bytes()
	}
	return encMode.Marshal(w)
}

// UnmarshalRound1Package decodes a package produced by
// [FROST.MarshalRound1Package].
func (f *FROST) UnmarshalRound1Package(data []byte) (*Round1Package, error) {
	const op = "decode round 1 package"
	var w round1Wire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, cryptoErr(op, "", err)
	}
	if w.Group != f.group.Name() {
		return nil, cryptoErr(op, "", fmt.Errorf("%w: %q", ErrGroupMismatch, w.Group))
	}

	pkg := &Round1Package{Commitment: make([]group.Point, len(w.Commitment))}
	for i, c := range w.Commitment {
		p, err := f.group.NewPoint().SetBytes(c)
		if err != nil {
			return nil, cryptoErr(op, "", fmt.Errorf("commitment %d: %w", i, err))
		}
		pkg.Commitment[i] = p
	}
	R, err := f.group.NewPoint().SetBytes(w.ProofR)
	if err != nil {
		return nil, cryptoErr(op, "", fmt.Errorf("proof: %w", err))
	}
	z, err := f.decodeScalar(w.ProofZ)
	if err != nil {
		return nil, cryptoErr(op, "", fmt.Errorf("proof: %w", err))
	}
	pkg.ProofR, pkg.ProofZ = R, z
	return pkg, nil
}

// MarshalRound2Package encodes pkg as CBOR.
func (f *FROST) MarshalRound2Package(pkg *Round2Package) ([]byte, error) {
	return encMode.Marshal(round2Wire{
		Group:        f.group.Name(),
		SigningShare: pkg.SigningShare.Bytes(),
	})
}

// UnmarshalRound2Package decodes a package produced by
// [FROST.MarshalRound2Package].
func (f *FROST) UnmarshalRound2Package(data []byte) (*Round2Package, error) {
	const op = "decode round 2 package"
	var w round2Wire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, cryptoErr(op, "", err)
	}
	if w.Group != f.group.Name() {
		return nil, cryptoErr(op, "", fmt.Errorf("%w: %q", ErrGroupMismatch, w.Group))
	}
	s, err := f.decodeScalar(w.SigningShare)
	if err != nil {
		return nil, cryptoErr(op, "", err)
	}
	return &Round2Package{SigningShare: s}, nil
}

// MarshalPublicKeyPackage encodes pub as deterministic CBOR. Two
// participants holding the same group key produce identical bytes.
func (f *FROST) MarshalPublicKeyPackage(pub *PublicKeyPackage) ([]byte, error) {
	w := publicKeyWire{
		Group:           f.group.Name(),
		VerifyingKey:    pub.VerifyingKey.Bytes(),
		VerifyingShares: make(map[string][]byte, len(pub.VerifyingShares)),
	}
	for id, share := range pub.VerifyingShares {
		w.VerifyingShares[string(id)] = share.Bytes()
	}
	return encMode.Marshal(w)
}

// UnmarshalPublicKeyPackage decodes a package produced by
// [FROST.MarshalPublicKeyPackage].
func (f *FROST) UnmarshalPublicKeyPackage(data []byte) (*PublicKeyPackage, error) {
	const op = "decode public key package"
	var w publicKeyWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, cryptoErr(op, "", err)
	}
	if w.Group != f.group.Name() {
		return nil, cryptoErr(op, "", fmt.Errorf("%w: %q", ErrGroupMismatch, w.Group))
	}
	vk, err := f.group.NewPoint().SetBytes(w.VerifyingKey)
	if err != nil {
		return nil, cryptoErr(op, "", err)
	}
	pub := &PublicKeyPackage{
		VerifyingKey:    vk,
		VerifyingShares: make(map[Identifier]group.Point, len(w.VerifyingShares)),
	}
	for raw, b := range w.VerifyingShares {
		id, err := f.ParseIdentifier([]byte(raw))
		if err != nil {
			return nil, err
		}
		p, err := f.group.NewPoint().SetBytes(b)
		if err != nil {
			return nil, cryptoErr(op, id, err)
		}
		pub.VerifyingShares[id] = p
	}
	return pub, nil
}

// decodeScalar accepts only canonical fixed-width scalar encodings.
func (f *FROST) decodeScalar(b []byte) (group.Scalar, error) {
	s, err := f.group.NewScalar().SetBytes(b)
	if err != nil {
		return nil, err
	}
	if string(s.Bytes()) != string(b) {
		return nil, fmt.Errorf("non-canonical scalar")
	}
	return s, nil
}
