package frost

import (
	"bytes"
	"encoding/hex"
	"sort"

	"github.com/f3rmion/frostd/group"
)

// Identifier names a participant. It holds the fixed-width big-endian
// encoding of a non-zero scalar, so identifiers are comparable, usable as
// map keys, and sort in numeric order.
type Identifier string

// String returns the hex encoding of the identifier without leading zero
// bytes.
func (id Identifier) String() string {
	trimmed := bytes.TrimLeft([]byte(id), "\x00")
	if len(trimmed) == 0 {
		return "00"
	}
	return hex.EncodeToString(trimmed)
}

// Bytes returns the identifier's scalar encoding.
func (id Identifier) Bytes() []byte {
	return []byte(id)
}

// IdentifierFromUint returns the identifier for the scalar n. Trusted
// dealer splits use 1..max_signers.
func (f *FROST) IdentifierFromUint(n uint64) (Identifier, error) {
	if n == 0 {
		return "", cryptoErr("identifier", "", ErrInvalidIdentifier)
	}
	return Identifier(group.ScalarFromUint64(f.group, n).Bytes()), nil
}

// DeriveIdentifier hashes an arbitrary seed, typically a participant
// index, to an identifier. The same seed always yields the same
// identifier.
func (f *FROST) DeriveIdentifier(seed []byte) (Identifier, error) {
	s := f.hasher.HID(f.group, seed)
	if s.IsZero() {
		return "", cryptoErr("identifier", "", ErrInvalidIdentifier)
	}
	return Identifier(s.Bytes()), nil
}

// ParseIdentifier checks that b is the canonical encoding of a non-zero
// scalar and returns it as an identifier.
func (f *FROST) ParseIdentifier(b []byte) (Identifier, error) {
	if _, err := f.scalarOf(Identifier(b)); err != nil {
		return "", cryptoErr("identifier", "", err)
	}
	return Identifier(b), nil
}

// scalarOf returns the scalar named by id.
func (f *FROST) scalarOf(id Identifier) (group.Scalar, error) {
	s, err := f.group.NewScalar().SetBytes([]byte(id))
	if err != nil {
		return nil, ErrInvalidIdentifier
	}
	if s.IsZero() || !bytes.Equal(s.Bytes(), []byte(id)) {
		return nil, ErrInvalidIdentifier
	}
	return s, nil
}

// SortedIdentifiers returns the keys of m in ascending order.
func SortedIdentifiers[V any](m map[Identifier]V) []Identifier {
	ids := make([]Identifier, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
