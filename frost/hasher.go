package frost

import (
	"crypto/sha256"
	"hash"

	"github.com/f3rmion/frostd/group"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// Hasher defines the hash operations required by FROST.
// Different implementations can provide different hash functions
// and domain separation schemes.
type Hasher interface {
	// H1 computes the binding factor for a signer.
	// Inputs: message prefix, encoded commitment list hash, signer ID.
	H1(g group.Group, msg, encCommitList, signerID []byte) group.Scalar

	// H2 computes the Schnorr challenge.
	// Inputs: R point, public key Y, message.
	H2(g group.Group, R, Y, msg []byte) group.Scalar

	// H3 derives a nonce from fresh randomness and the signer's secret.
	H3(g group.Group, random, secret []byte) group.Scalar

	// H4 hashes a message for signing.
	H4(g group.Group, msg []byte) []byte

	// H5 hashes the commitment list.
	H5(g group.Group, encCommitList []byte) []byte

	// HDKG computes the challenge of the key generation proof of knowledge.
	// Inputs: participant ID, commitment to the constant term, R point.
	HDKG(g group.Group, id, phi0, R []byte) group.Scalar

	// HID derives a participant identifier from an arbitrary seed.
	HID(g group.Group, seed []byte) group.Scalar
}

// DigestHasher implements Hasher over any [hash.Hash] with domain
// separation.
//
// Every digest is computed over prefix + tag + input. Scalars are the
// digest reduced modulo the group order, read big-endian unless
// LittleEndian is set.
type DigestHasher struct {
	// Name identifies the hasher in logs and configuration.
	Name string
	// Prefix is the domain separation prefix.
	Prefix string
	// LittleEndian reverses digests before reducing them to scalars.
	LittleEndian bool

	newHash func() hash.Hash
}

// NewDigestHasher returns a DigestHasher using digests from newHash.
func NewDigestHasher(name, prefix string, newHash func() hash.Hash) *DigestHasher {
	return &DigestHasher{Name: name, Prefix: prefix, newHash: newHash}
}

// NewSHA256Hasher returns the default hasher, SHA-256 without a prefix.
func NewSHA256Hasher() *DigestHasher {
	return NewDigestHasher("sha256", "", sha256.New)
}

// NewBlake2bHasher returns a Blake2b-512 hasher compatible with
// Ledger/iden3 FROST implementations.
//
// The 64-byte output is interpreted as little-endian before reducing mod
// the curve order.
func NewBlake2bHasher() *DigestHasher {
	h := NewDigestHasher("blake2b", "FROST-EDBABYJUJUB-BLAKE512-v1", func() hash.Hash {
		// New512 only fails for keys longer than 64 bytes.
		hh, _ := blake2b.New512(nil)
		return hh
	})
	h.LittleEndian = true
	return h
}

// NewBlake3Hasher returns a BLAKE3 hasher with a frostd prefix.
func NewBlake3Hasher() *DigestHasher {
	return NewDigestHasher("blake3", "FROSTD-BLAKE3-v1", func() hash.Hash {
		return blake3.New()
	})
}

func (h *DigestHasher) hash(tag string, data ...[]byte) []byte {
	hasher := h.newHash()
	hasher.Write([]byte(h.Prefix))
	hasher.Write([]byte(tag))
	for _, d := range data {
		hasher.Write(d)
	}
	return hasher.Sum(nil)
}

func (h *DigestHasher) hashToScalar(g group.Group, tag string, data ...[]byte) group.Scalar {
	digest := h.hash(tag, data...)

	if h.LittleEndian {
		reversed := make([]byte, len(digest))
		for i := range digest {
			reversed[i] = digest[len(digest)-1-i]
		}
		digest = reversed
	}

	// SetBytes reduces inputs of any length.
	s, _ := g.NewScalar().SetBytes(digest)
	return s
}

// H1 implements Hasher.H1 (binding factor computation).
func (h *DigestHasher) H1(g group.Group, msg, encCommitList, signerID []byte) group.Scalar {
	return h.hashToScalar(g, "rho", msg, encCommitList, signerID)
}

// H2 implements Hasher.H2 (Schnorr challenge).
func (h *DigestHasher) H2(g group.Group, R, Y, msg []byte) group.Scalar {
	return h.hashToScalar(g, "chal", R, Y, msg)
}

// H3 implements Hasher.H3 (nonce generation).
func (h *DigestHasher) H3(g group.Group, random, secret []byte) group.Scalar {
	return h.hashToScalar(g, "nonce", random, secret)
}

// H4 implements Hasher.H4 (message hashing).
func (h *DigestHasher) H4(g group.Group, msg []byte) []byte {
	return h.hash("msg", msg)
}

// H5 implements Hasher.H5 (commitment list hashing).
func (h *DigestHasher) H5(g group.Group, encCommitList []byte) []byte {
	return h.hash("com", encCommitList)
}

// HDKG implements Hasher.HDKG.
func (h *DigestHasher) HDKG(g group.Group, id, phi0, R []byte) group.Scalar {
	return h.hashToScalar(g, "dkg", id, phi0, R)
}

// HID implements Hasher.HID.
func (h *DigestHasher) HID(g group.Group, seed []byte) group.Scalar {
	return h.hashToScalar(g, "id", seed)
}
