package factorbase

import (
	"testing"

	"github.com/bfix/gnfs/numeric"
	"github.com/bfix/gnfs/poly"
	"github.com/stretchr/testify/require"
)

// f(x) = x^2 + 1, used throughout since its roots mod p are easy to
// check by hand: r^2 ≡ -1 (mod p), which exists iff p ≡ 1 (mod 4).
func quadraticPoly() poly.BigPoly {
	zero := numeric.NewBig(0)
	one := numeric.NewBig(1)
	return poly.New([]numeric.BigInt{one, zero, one}, zero)
}

func TestBuildRational(t *testing.T) {
	rb := BuildRational(30)
	require.Len(t, rb.Primes, 10) // 2,3,5,7,11,13,17,19,23,29
}

func TestBuildAlgebraicRootsOfQuadratic(t *testing.T) {
	f := quadraticPoly()
	ab := BuildAlgebraic(f, 30)
	for _, e := range ab.Entries {
		got := f.Eval(e.R, numeric.NewBig(0)).Mod(e.P)
		require.Equal(t, 0, got.Sign())
	}
	// p=5: r=2 and r=3 both satisfy r^2+1 ≡ 0 (mod 5).
	found := 0
	for _, e := range ab.Entries {
		if v, ok := e.P.Int64(); ok && v == 5 {
			found++
		}
	}
	require.Equal(t, 2, found)
}

func TestBuildQuadraticAboveBound(t *testing.T) {
	f := quadraticPoly()
	qb := BuildQuadratic(f, 30, 3)
	require.Len(t, qb.Entries, 3)
	for _, e := range qb.Entries {
		v, ok := e.P.Int64()
		require.True(t, ok)
		require.Greater(t, v, int64(30))
		got := f.Eval(e.R, numeric.NewBig(0)).Mod(e.P)
		require.Equal(t, 0, got.Sign())
	}
}

func TestBuildAll(t *testing.T) {
	f := quadraticPoly()
	r, a, q := Build(f, Bounds{RationalBound: 50, AlgebraicBound: 50, QuadraticCount: 2})
	require.NotEmpty(t, r.Primes)
	require.NotEmpty(t, a.Entries)
	require.Len(t, q.Entries, 2)
}
