// Package grouptest runs a shared set of algebraic checks against any
// [group.Group] implementation.
package grouptest

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/f3rmion/frostd/group"
)

// Run exercises scalar and point arithmetic of g.
func Run(t *testing.T, g group.Group) {
	t.Helper()
	t.Run("Scalar", func(t *testing.T) { testScalar(t, g) })
	t.Run("Point", func(t *testing.T) { testPoint(t, g) })
}

func randomNonZero(t *testing.T, g group.Group) group.Scalar {
	t.Helper()
	for {
		s, err := g.RandomScalar(rand.Reader)
		if err != nil {
			t.Fatal(err)
		}
		if !s.IsZero() {
			return s
		}
	}
}

func testScalar(t *testing.T, g group.Group) {
	t.Run("AddSub", func(t *testing.T) {
		a := randomNonZero(t, g)
		b := randomNonZero(t, g)

		sum := g.NewScalar().Add(a, b)
		diff := g.NewScalar().Sub(sum, b)

		if !diff.Equal(a) {
			t.Error("(a+b)-b != a")
		}
	})

	t.Run("MulInvert", func(t *testing.T) {
		a := randomNonZero(t, g)
		aInv, err := g.NewScalar().Invert(a)
		if err != nil {
			t.Fatal(err)
		}

		one := group.ScalarFromUint64(g, 1)
		if !g.NewScalar().Mul(a, aInv).Equal(one) {
			t.Error("a*a^-1 != 1")
		}
	})

	t.Run("InvertZeroFails", func(t *testing.T) {
		if _, err := g.NewScalar().Invert(g.NewScalar()); err == nil {
			t.Error("expected error inverting zero")
		}
	})

	t.Run("Negate", func(t *testing.T) {
		a := randomNonZero(t, g)
		negA := g.NewScalar().Negate(a)

		if !g.NewScalar().Add(a, negA).IsZero() {
			t.Error("a + (-a) != 0")
		}
		if a.Equal(negA) {
			t.Error("a should not equal -a")
		}
	})

	t.Run("BytesRoundtrip", func(t *testing.T) {
		a := randomNonZero(t, g)

		restored, err := g.NewScalar().SetBytes(a.Bytes())
		if err != nil {
			t.Fatal(err)
		}
		if !restored.Equal(a) {
			t.Error("scalar bytes roundtrip failed")
		}
	})

	t.Run("FixedWidthOrdering", func(t *testing.T) {
		small := group.ScalarFromUint64(g, 2).Bytes()
		large := group.ScalarFromUint64(g, 258).Bytes()

		if len(small) != len(large) {
			t.Fatalf("encodings differ in width: %d vs %d", len(small), len(large))
		}
		if bytes.Compare(small, large) >= 0 {
			t.Error("byte order does not follow numeric order")
		}
	})

	t.Run("NewScalarIsZero", func(t *testing.T) {
		if !g.NewScalar().IsZero() {
			t.Error("new scalar should be zero")
		}
	})
}

func testPoint(t *testing.T, g group.Group) {
	t.Run("AddSub", func(t *testing.T) {
		P := group.BaseMult(g, randomNonZero(t, g))
		Q := group.BaseMult(g, randomNonZero(t, g))

		sum := g.NewPoint().Add(P, Q)
		diff := g.NewPoint().Sub(sum, Q)

		if !diff.Equal(P) {
			t.Error("(P+Q)-Q != P")
		}
	})

	t.Run("Distributive", func(t *testing.T) {
		a := randomNonZero(t, g)
		b := randomNonZero(t, g)

		lhs := group.BaseMult(g, g.NewScalar().Add(a, b))
		rhs := g.NewPoint().Add(group.BaseMult(g, a), group.BaseMult(g, b))

		if !lhs.Equal(rhs) {
			t.Error("(a+b)G != aG + bG")
		}
	})

	t.Run("Negate", func(t *testing.T) {
		P := group.BaseMult(g, randomNonZero(t, g))
		negP := g.NewPoint().Negate(P)

		if !g.NewPoint().Add(P, negP).IsIdentity() {
			t.Error("P + (-P) != identity")
		}
	})

	t.Run("BytesRoundtrip", func(t *testing.T) {
		P := group.BaseMult(g, randomNonZero(t, g))

		restored, err := g.NewPoint().SetBytes(P.Bytes())
		if err != nil {
			t.Fatal(err)
		}
		if !restored.Equal(P) {
			t.Error("point bytes roundtrip failed")
		}
	})

	t.Run("IdentityRoundtrip", func(t *testing.T) {
		restored, err := g.NewPoint().SetBytes(g.NewPoint().Bytes())
		if err != nil {
			t.Fatal(err)
		}
		if !restored.IsIdentity() {
			t.Error("identity bytes roundtrip failed")
		}
	})

	t.Run("IsIdentity", func(t *testing.T) {
		if !g.NewPoint().IsIdentity() {
			t.Error("new point should be identity")
		}
		if g.Generator().IsIdentity() {
			t.Error("generator should not be identity")
		}
	})

	t.Run("OrderAnnihilates", func(t *testing.T) {
		// order reduces to zero, so order*G must be the identity
		n, err := g.NewScalar().SetBytes(g.Order())
		if err != nil {
			t.Fatal(err)
		}
		if !n.IsZero() {
			t.Error("order should reduce to zero")
		}
		if !group.BaseMult(g, n).IsIdentity() {
			t.Error("0*G should be identity")
		}
	})
}
