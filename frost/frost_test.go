package frost

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"testing"

	"github.com/f3rmion/frostd/bjj"
	"github.com/f3rmion/frostd/group"
	"github.com/f3rmion/frostd/secp256k1"
)

var groups = []group.Group{&bjj.BJJ{}, secp256k1.Group{}}

// runDKG runs all three key generation rounds for ids 1..maxSigners.
func runDKG(t *testing.T, f *FROST, maxSigners, minSigners uint16) (map[Identifier]*KeyPackage, []*PublicKeyPackage) {
	t.Helper()

	ids := make([]Identifier, maxSigners)
	secrets1 := make(map[Identifier]*Round1SecretPackage)
	round1 := make(map[Identifier]*Round1Package)
	for i := range ids {
		id, err := f.IdentifierFromUint(uint64(i + 1))
		if err != nil {
			t.Fatal(err)
		}
		ids[i] = id
		s, pkg, err := f.DKGRound1(rand.Reader, id, maxSigners, minSigners)
		if err != nil {
			t.Fatalf("round 1 for %s: %v", id, err)
		}
		secrets1[id] = s
		round1[id] = pkg
	}

	secrets2 := make(map[Identifier]*Round2SecretPackage)
	// inbox[recipient][sender]
	inbox := make(map[Identifier]map[Identifier]*Round2Package)
	for _, id := range ids {
		inbox[id] = make(map[Identifier]*Round2Package)
	}
	for _, id := range ids {
		s, out, err := f.DKGRound2(secrets1[id], othersOf(round1, id))
		if err != nil {
			t.Fatalf("round 2 for %s: %v", id, err)
		}
		secrets2[id] = s
		for to, pkg := range out {
			inbox[to][id] = pkg
		}
	}

	keys := make(map[Identifier]*KeyPackage)
	var pubs []*PublicKeyPackage
	for _, id := range ids {
		kp, pub, err := f.DKGRound3(secrets2[id], othersOf(round1, id), inbox[id])
		if err != nil {
			t.Fatalf("round 3 for %s: %v", id, err)
		}
		keys[id] = kp
		pubs = append(pubs, pub)
	}
	return keys, pubs
}

func othersOf[V any](m map[Identifier]V, self Identifier) map[Identifier]V {
	out := make(map[Identifier]V, len(m))
	for id, v := range m {
		if id != self {
			out[id] = v
		}
	}
	return out
}

// signWith runs both signing rounds with the given signers.
func signWith(t *testing.T, f *FROST, keys map[Identifier]*KeyPackage, pub *PublicKeyPackage, signers []Identifier, message []byte) *Signature {
	t.Helper()

	nonces := make(map[Identifier]*SigningNonces)
	commitments := make(map[Identifier]*SigningCommitments)
	for _, id := range signers {
		n, c, err := f.Commit(rand.Reader, keys[id])
		if err != nil {
			t.Fatal(err)
		}
		nonces[id] = n
		commitments[id] = c
	}

	sp := NewSigningPackage(commitments, message)
	shares := make(map[Identifier]*SignatureShare)
	for _, id := range signers {
		share, err := f.Sign(sp, nonces[id], keys[id])
		if err != nil {
			t.Fatalf("sign for %s: %v", id, err)
		}
		shares[id] = share
	}

	sig, err := f.Aggregate(sp, shares, pub)
	if err != nil {
		t.Fatal(err)
	}
	return sig
}

func TestDKGAndSign(t *testing.T) {
	for _, g := range groups {
		t.Run(g.Name(), func(t *testing.T) {
			f := New(g)
			keys, pubs := runDKG(t, f, 3, 2)

			t.Run("DKG", func(t *testing.T) {
				for i := 1; i < len(pubs); i++ {
					if !pubs[0].Equal(pubs[i]) {
						t.Fatalf("participant %d disagrees on the public key package", i+1)
					}
				}
				for id, kp := range keys {
					if !kp.VerifyingKey.Equal(pubs[0].VerifyingKey) {
						t.Errorf("participant %s has a different group key", id)
					}
					if !kp.VerifyingShare.Equal(pubs[0].VerifyingShares[id]) {
						t.Errorf("participant %s has a different verifying share", id)
					}
				}
			})

			t.Run("Sign", func(t *testing.T) {
				message := []byte("hello frost")
				signers := SortedIdentifiers(keys)[:2]
				sig := signWith(t, f, keys, pubs[0], signers, message)
				if !f.Verify(pubs[0].VerifyingKey, message, sig) {
					t.Fatal("signature verification failed")
				}
			})
		})
	}
}

func TestSigningWithDifferentSignerSubsets(t *testing.T) {
	f := New(&bjj.BJJ{})
	keys, pubs := runDKG(t, f, 5, 3)
	ids := SortedIdentifiers(keys)
	message := []byte("subset test")

	subsets := [][]int{
		{0, 1, 2},
		{0, 2, 4},
		{2, 3, 4},
		{1, 3, 4},
		{0, 1, 2, 3},
		{0, 1, 2, 3, 4},
	}

	for _, subset := range subsets {
		t.Run(subsetName(subset), func(t *testing.T) {
			signers := make([]Identifier, len(subset))
			for i, idx := range subset {
				signers[i] = ids[idx]
			}
			sig := signWith(t, f, keys, pubs[0], signers, message)
			if !f.Verify(pubs[0].VerifyingKey, message, sig) {
				t.Fatal("signature verification failed")
			}
		})
	}
}

func subsetName(subset []int) string {
	name := "signers"
	for _, i := range subset {
		name += fmt.Sprintf("_%d", i+1)
	}
	return name
}

func TestSigningWithDifferentThresholds(t *testing.T) {
	cases := []struct {
		max, min uint16
	}{
		{1, 1},
		{2, 1},
		{2, 2},
		{3, 3},
		{4, 2},
		{5, 5},
	}

	f := New(&bjj.BJJ{})
	for _, tc := range cases {
		name := fmt.Sprintf("%d-of-%d", tc.min, tc.max)
		t.Run(name, func(t *testing.T) {
			keys, pubs := runDKG(t, f, tc.max, tc.min)
			message := []byte(name)
			signers := SortedIdentifiers(keys)[:tc.min]
			sig := signWith(t, f, keys, pubs[0], signers, message)
			if !f.Verify(pubs[0].VerifyingKey, message, sig) {
				t.Fatal("signature verification failed")
			}
		})
	}
}

func TestSignatureVerificationFailures(t *testing.T) {
	g := &bjj.BJJ{}
	f := New(g)
	keys, pubs := runDKG(t, f, 3, 2)
	message := []byte("original message")
	sig := signWith(t, f, keys, pubs[0], SortedIdentifiers(keys)[:2], message)

	if !f.Verify(pubs[0].VerifyingKey, message, sig) {
		t.Fatal("valid signature failed verification")
	}

	t.Run("WrongMessage", func(t *testing.T) {
		if f.Verify(pubs[0].VerifyingKey, []byte("different message"), sig) {
			t.Error("signature verified with wrong message")
		}
	})

	t.Run("WrongGroupKey", func(t *testing.T) {
		_, otherPubs := runDKG(t, f, 3, 2)
		if f.Verify(otherPubs[0].VerifyingKey, message, sig) {
			t.Error("signature verified with wrong group key")
		}
	})

	t.Run("TamperedSignatureR", func(t *testing.T) {
		tampered := &Signature{
			R: g.NewPoint().Add(sig.R, g.Generator()),
			Z: sig.Z,
		}
		if f.Verify(pubs[0].VerifyingKey, message, tampered) {
			t.Error("signature verified with tampered R")
		}
	})

	t.Run("TamperedSignatureZ", func(t *testing.T) {
		tampered := &Signature{
			R: sig.R,
			Z: g.NewScalar().Add(sig.Z, group.ScalarFromUint64(g, 1)),
		}
		if f.Verify(pubs[0].VerifyingKey, message, tampered) {
			t.Error("signature verified with tampered Z")
		}
	})

	t.Run("EmptyMessage", func(t *testing.T) {
		empty := signWith(t, f, keys, pubs[0], SortedIdentifiers(keys)[1:], nil)
		if !f.Verify(pubs[0].VerifyingKey, nil, empty) {
			t.Error("signature on empty message failed verification")
		}
		if f.Verify(pubs[0].VerifyingKey, message, empty) {
			t.Error("signature on empty message verified for another message")
		}
	})
}

func TestThresholdValidation(t *testing.T) {
	f := New(&bjj.BJJ{})
	id, _ := f.IdentifierFromUint(1)

	cases := []struct {
		name     string
		max, min uint16
		want     error
	}{
		{"MinSignersZero", 3, 0, ErrInvalidMinSigners},
		{"MinAboveMax", 2, 3, ErrInvalidMinSigners},
		{"MaxSignersZero", 0, 0, ErrInvalidMaxSigners},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := f.DKGRound1(rand.Reader, id, tc.max, tc.min)
			var cerr *CryptoError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected CryptoError, got %v", err)
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}

			_, _, err = f.DealerSplit(rand.Reader, tc.max, tc.min)
			if !errors.Is(err, tc.want) {
				t.Errorf("dealer split: expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestDKGRejectsBadInput(t *testing.T) {
	g := &bjj.BJJ{}
	f := New(g)

	setup := func(t *testing.T) ([]Identifier, map[Identifier]*Round1SecretPackage, map[Identifier]*Round1Package) {
		ids := make([]Identifier, 3)
		secrets := make(map[Identifier]*Round1SecretPackage)
		pkgs := make(map[Identifier]*Round1Package)
		for i := range ids {
			ids[i], _ = f.IdentifierFromUint(uint64(i + 1))
			s, p, err := f.DKGRound1(rand.Reader, ids[i], 3, 2)
			if err != nil {
				t.Fatal(err)
			}
			secrets[ids[i]] = s
			pkgs[ids[i]] = p
		}
		return ids, secrets, pkgs
	}

	t.Run("InvalidProof", func(t *testing.T) {
		ids, secrets, pkgs := setup(t)
		bad := *pkgs[ids[1]]
		bad.ProofZ = g.NewScalar().Add(bad.ProofZ, group.ScalarFromUint64(g, 1))
		pkgs[ids[1]] = &bad

		_, _, err := f.DKGRound2(secrets[ids[0]], othersOf(pkgs, ids[0]))
		var cerr *CryptoError
		if !errors.As(err, &cerr) || !errors.Is(err, ErrInvalidProofOfKnowledge) {
			t.Fatalf("expected invalid proof error, got %v", err)
		}
		if cerr.Culprit != ids[1] {
			t.Errorf("expected culprit %s, got %s", ids[1], cerr.Culprit)
		}
	})

	t.Run("WrongPackageCount", func(t *testing.T) {
		ids, secrets, pkgs := setup(t)
		partial := map[Identifier]*Round1Package{ids[1]: pkgs[ids[1]]}
		_, _, err := f.DKGRound2(secrets[ids[0]], partial)
		if !errors.Is(err, ErrIncorrectNumberOfPackages) {
			t.Fatalf("expected package count error, got %v", err)
		}
	})

	t.Run("OwnPackageIncluded", func(t *testing.T) {
		ids, secrets, pkgs := setup(t)
		withSelf := map[Identifier]*Round1Package{ids[0]: pkgs[ids[0]], ids[1]: pkgs[ids[1]]}
		_, _, err := f.DKGRound2(secrets[ids[0]], withSelf)
		if !errors.Is(err, ErrDuplicateIdentifier) {
			t.Fatalf("expected duplicate identifier error, got %v", err)
		}
	})

	t.Run("InvalidShare", func(t *testing.T) {
		ids, secrets, pkgs := setup(t)
		inbox := make(map[Identifier]*Round2Package)
		var own *Round2SecretPackage
		for _, id := range ids {
			s, out, err := f.DKGRound2(secrets[id], othersOf(pkgs, id))
			if err != nil {
				t.Fatal(err)
			}
			if id == ids[0] {
				own = s
				continue
			}
			inbox[id] = out[ids[0]]
		}
		inbox[ids[2]] = &Round2Package{
			SigningShare: g.NewScalar().Add(inbox[ids[2]].SigningShare, group.ScalarFromUint64(g, 1)),
		}

		_, _, err := f.DKGRound3(own, othersOf(pkgs, ids[0]), inbox)
		var cerr *CryptoError
		if !errors.As(err, &cerr) || !errors.Is(err, ErrInvalidSecretShare) {
			t.Fatalf("expected invalid share error, got %v", err)
		}
		if cerr.Culprit != ids[2] {
			t.Errorf("expected culprit %s, got %s", ids[2], cerr.Culprit)
		}
	})
}

func TestDealerSplit(t *testing.T) {
	for _, g := range groups {
		t.Run(g.Name(), func(t *testing.T) {
			f := New(g)
			shares, pub, err := f.DealerSplit(rand.Reader, 5, 3)
			if err != nil {
				t.Fatal(err)
			}
			if len(shares) != 5 || len(pub.VerifyingShares) != 5 {
				t.Fatalf("expected 5 shares, got %d and %d", len(shares), len(pub.VerifyingShares))
			}

			keys := make(map[Identifier]*KeyPackage)
			for i := uint64(1); i <= 5; i++ {
				id, _ := f.IdentifierFromUint(i)
				share, ok := shares[id]
				if !ok {
					t.Fatalf("missing share for identifier %d", i)
				}
				kp, err := f.NewKeyPackage(share)
				if err != nil {
					t.Fatal(err)
				}
				if kp.MinSigners != 3 {
					t.Errorf("expected min signers 3, got %d", kp.MinSigners)
				}
				keys[id] = kp
			}

			message := []byte("message to sign")
			ids := SortedIdentifiers(keys)
			sig := signWith(t, f, keys, pub, []Identifier{ids[4], ids[0], ids[2]}, message)
			if !f.Verify(pub.VerifyingKey, message, sig) {
				t.Fatal("signature verification failed")
			}
		})
	}

	t.Run("TamperedShare", func(t *testing.T) {
		g := &bjj.BJJ{}
		f := New(g)
		shares, _, err := f.DealerSplit(rand.Reader, 3, 2)
		if err != nil {
			t.Fatal(err)
		}
		id, _ := f.IdentifierFromUint(2)
		share := *shares[id]
		share.SigningShare = g.NewScalar().Add(share.SigningShare, group.ScalarFromUint64(g, 1))
		if _, err := f.NewKeyPackage(&share); !errors.Is(err, ErrInvalidSecretShare) {
			t.Fatalf("expected invalid share error, got %v", err)
		}
	})
}

func TestSignRejectsBadInput(t *testing.T) {
	g := &bjj.BJJ{}
	f := New(g)
	shares, pub, err := f.DealerSplit(rand.Reader, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	keys := make(map[Identifier]*KeyPackage)
	for id, s := range shares {
		keys[id], err = f.NewKeyPackage(s)
		if err != nil {
			t.Fatal(err)
		}
	}
	ids := SortedIdentifiers(keys)

	commitRound := func(t *testing.T, signers []Identifier) (map[Identifier]*SigningNonces, map[Identifier]*SigningCommitments) {
		nonces := make(map[Identifier]*SigningNonces)
		commitments := make(map[Identifier]*SigningCommitments)
		for _, id := range signers {
			n, c, err := f.Commit(rand.Reader, keys[id])
			if err != nil {
				t.Fatal(err)
			}
			nonces[id], commitments[id] = n, c
		}
		return nonces, commitments
	}

	t.Run("NotEnoughSigners", func(t *testing.T) {
		nonces, commitments := commitRound(t, ids[:1])
		sp := NewSigningPackage(commitments, []byte("m"))
		if _, err := f.Sign(sp, nonces[ids[0]], keys[ids[0]]); !errors.Is(err, ErrNotEnoughSigners) {
			t.Fatalf("expected not enough signers, got %v", err)
		}
	})

	t.Run("SignerNotInPackage", func(t *testing.T) {
		nonces, commitments := commitRound(t, ids)
		delete(commitments, ids[2])
		sp := NewSigningPackage(commitments, []byte("m"))
		if _, err := f.Sign(sp, nonces[ids[2]], keys[ids[2]]); !errors.Is(err, ErrMissingCommitment) {
			t.Fatalf("expected missing commitment, got %v", err)
		}
	})

	t.Run("MismatchedNonces", func(t *testing.T) {
		nonces, commitments := commitRound(t, ids[:2])
		sp := NewSigningPackage(commitments, []byte("m"))
		if _, err := f.Sign(sp, nonces[ids[1]], keys[ids[0]]); !errors.Is(err, ErrIncorrectCommitment) {
			t.Fatalf("expected incorrect commitment, got %v", err)
		}
	})

	t.Run("AggregateReportsCulprit", func(t *testing.T) {
		nonces, commitments := commitRound(t, ids[:2])
		sp := NewSigningPackage(commitments, []byte("m"))
		sigShares := make(map[Identifier]*SignatureShare)
		for _, id := range ids[:2] {
			s, err := f.Sign(sp, nonces[id], keys[id])
			if err != nil {
				t.Fatal(err)
			}
			sigShares[id] = s
		}
		sigShares[ids[1]] = &SignatureShare{
			Share: g.NewScalar().Add(sigShares[ids[1]].Share, group.ScalarFromUint64(g, 1)),
		}

		_, err := f.Aggregate(sp, sigShares, pub)
		var cerr *CryptoError
		if !errors.As(err, &cerr) || !errors.Is(err, ErrInvalidSignatureShare) {
			t.Fatalf("expected invalid signature share, got %v", err)
		}
		if cerr.Culprit != ids[1] {
			t.Errorf("expected culprit %s, got %s", ids[1], cerr.Culprit)
		}
	})

	t.Run("AggregateMissingShare", func(t *testing.T) {
		nonces, commitments := commitRound(t, ids[:2])
		sp := NewSigningPackage(commitments, []byte("m"))
		s, err := f.Sign(sp, nonces[ids[0]], keys[ids[0]])
		if err != nil {
			t.Fatal(err)
		}
		_, err = f.Aggregate(sp, map[Identifier]*SignatureShare{ids[0]: s}, pub)
		if !errors.Is(err, ErrIncorrectNumberOfPackages) {
			t.Fatalf("expected package count error, got %v", err)
		}
	})
}

func TestHashers(t *testing.T) {
	hashers := []*DigestHasher{NewSHA256Hasher(), NewBlake2bHasher(), NewBlake3Hasher()}
	g := &bjj.BJJ{}

	for _, h := range hashers {
		t.Run(h.Name, func(t *testing.T) {
			f := NewWithHasher(g, h)
			keys, pubs := runDKG(t, f, 3, 2)
			message := []byte("test message")
			sig := signWith(t, f, keys, pubs[0], SortedIdentifiers(keys)[:2], message)
			if !f.Verify(pubs[0].VerifyingKey, message, sig) {
				t.Fatal("signature verification failed")
			}

			a := h.H1(g, []byte("a"), []byte("b"), []byte("c"))
			b := h.H1(g, []byte("a"), []byte("b"), []byte("c"))
			if !a.Equal(b) {
				t.Error("H1 is not deterministic")
			}
			if a.Equal(h.H2(g, []byte("a"), []byte("b"), []byte("c"))) {
				t.Error("H1 and H2 share a domain")
			}
		})
	}

	t.Run("HashersDisagree", func(t *testing.T) {
		a := NewSHA256Hasher().H4(g, []byte("m"))
		b := NewBlake3Hasher().H4(g, []byte("m"))
		if bytes.Equal(a, b) {
			t.Error("different hashers produced the same digest")
		}
	})
}

func TestIdentifiers(t *testing.T) {
	f := New(&bjj.BJJ{})

	t.Run("FromUintOrdering", func(t *testing.T) {
		prev, _ := f.IdentifierFromUint(1)
		for i := uint64(2); i <= 300; i++ {
			id, err := f.IdentifierFromUint(i)
			if err != nil {
				t.Fatal(err)
			}
			if !(prev < id) {
				t.Fatalf("identifier %d does not sort after %d", i, i-1)
			}
			prev = id
		}
		if _, err := f.IdentifierFromUint(0); !errors.Is(err, ErrInvalidIdentifier) {
			t.Errorf("expected invalid identifier for 0, got %v", err)
		}
	})

	t.Run("Derive", func(t *testing.T) {
		a, err := f.DeriveIdentifier([]byte{1})
		if err != nil {
			t.Fatal(err)
		}
		b, _ := f.DeriveIdentifier([]byte{1})
		c, _ := f.DeriveIdentifier([]byte{2})
		if a != b {
			t.Error("derivation is not deterministic")
		}
		if a == c {
			t.Error("different seeds derived the same identifier")
		}
	})

	t.Run("Parse", func(t *testing.T) {
		id, _ := f.IdentifierFromUint(7)
		parsed, err := f.ParseIdentifier(id.Bytes())
		if err != nil || parsed != id {
			t.Fatalf("parse failed: %v", err)
		}
		if _, err := f.ParseIdentifier(make([]byte, 32)); err == nil {
			t.Error("parsed the zero identifier")
		}
		if _, err := f.ParseIdentifier([]byte{7}); err == nil {
			t.Error("parsed a short identifier")
		}
	})

	t.Run("String", func(t *testing.T) {
		id, _ := f.IdentifierFromUint(10)
		if id.String() != "0a" {
			t.Errorf("expected 0a, got %s", id)
		}
	})
}

func TestEncoding(t *testing.T) {
	g := &bjj.BJJ{}
	f := New(g)

	t.Run("DKGOverWire", func(t *testing.T) {
		ids := make([]Identifier, 3)
		secrets := make(map[Identifier]*Round1SecretPackage)
		decoded := make(map[Identifier]*Round1Package)
		for i := range ids {
			ids[i], _ = f.IdentifierFromUint(uint64(i + 1))
			s, p, err := f.DKGRound1(rand.Reader, ids[i], 3, 2)
			if err != nil {
				t.Fatal(err)
			}
			secrets[ids[i]] = s
			data, err := f.MarshalRound1Package(p)
			if err != nil {
				t.Fatal(err)
			}
			decoded[ids[i]], err = f.UnmarshalRound1Package(data)
			if err != nil {
				t.Fatal(err)
			}
		}

		secrets2 := make(map[Identifier]*Round2SecretPackage)
		inbox := make(map[Identifier]map[Identifier]*Round2Package)
		for _, id := range ids {
			inbox[id] = make(map[Identifier]*Round2Package)
		}
		for _, id := range ids {
			s, out, err := f.DKGRound2(secrets[id], othersOf(decoded, id))
			if err != nil {
				t.Fatal(err)
			}
			secrets2[id] = s
			for to, pkg := range out {
				data, err := f.MarshalRound2Package(pkg)
				if err != nil {
					t.Fatal(err)
				}
				inbox[to][id], err = f.UnmarshalRound2Package(data)
				if err != nil {
					t.Fatal(err)
				}
			}
		}

		var encoded [][]byte
		for _, id := range ids {
			_, pub, err := f.DKGRound3(secrets2[id], othersOf(decoded, id), inbox[id])
			if err != nil {
				t.Fatal(err)
			}
			data, err := f.MarshalPublicKeyPackage(pub)
			if err != nil {
				t.Fatal(err)
			}
			encoded = append(encoded, data)

			back, err := f.UnmarshalPublicKeyPackage(data)
			if err != nil {
				t.Fatal(err)
			}
			if !back.Equal(pub) {
				t.Error("public key package changed over the wire")
			}
		}
		for i := 1; i < len(encoded); i++ {
			if !bytes.Equal(encoded[0], encoded[i]) {
				t.Fatalf("participant %d encodes a different public key package", i+1)
			}
		}
	})

	t.Run("GroupMismatch", func(t *testing.T) {
		id, _ := f.IdentifierFromUint(1)
		_, p, err := f.DKGRound1(rand.Reader, id, 2, 2)
		if err != nil {
			t.Fatal(err)
		}
		data, err := f.MarshalRound1Package(p)
		if err != nil {
			t.Fatal(err)
		}
		other := New(secp256k1.Group{})
		if _, err := other.UnmarshalRound1Package(data); !errors.Is(err, ErrGroupMismatch) {
			t.Fatalf("expected group mismatch, got %v", err)
		}
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := f.UnmarshalRound2Package([]byte{0xff, 0x00})
		var cerr *CryptoError
		if !errors.As(err, &cerr) {
			t.Fatalf("expected CryptoError, got %v", err)
		}
	})
}
