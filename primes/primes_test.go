package primes

import (
	"testing"

	"github.com/bfix/gnfs/numeric"
	"github.com/stretchr/testify/require"
)

func TestSieveUpTo(t *testing.T) {
	got := SieveUpTo(50)
	want := []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47}
	require.Equal(t, len(want), len(got))
	for i := range want {
		require.Equal(t, want[i], got[i])
	}
}

func TestNextPrime(t *testing.T) {
	require.Equal(t, int64(3), mustInt64(t, NextPrime(numeric.NewBig(2))))
	require.Equal(t, int64(11), mustInt64(t, NextPrime(numeric.NewBig(8))))
	require.Equal(t, int64(2), mustInt64(t, NextPrime(numeric.NewBig(1))))
}

func TestIsPrime(t *testing.T) {
	require.True(t, IsPrime(numeric.NewBig(97)))
	require.False(t, IsPrime(numeric.NewBig(91))) // 7*13
	require.False(t, IsPrime(numeric.NewBig(1)))
}

func TestTonelliShanksRoundTrip(t *testing.T) {
	p := numeric.NewBig(10007)
	for _, n := range []int64{2, 3, 5, 10, 100, 9999} {
		nb := numeric.NewBig(n)
		if Legendre(nb, p) != 1 {
			continue
		}
		root, err := TonelliShanks(nb, p)
		require.NoError(t, err)
		sq := root.Mul(root).Mod(p)
		require.Equal(t, 0, sq.Cmp(nb.Mod(p)))
	}
}

func TestTonelliShanksNonResidue(t *testing.T) {
	p := numeric.NewBig(7)
	_, err := TonelliShanks(numeric.NewBig(3), p)
	require.Error(t, err)
}

func TestSymbolSearch(t *testing.T) {
	p := numeric.NewBig(7)
	x, ok := SymbolSearch(numeric.NewBig(1), p, -1)
	require.True(t, ok)
	require.Equal(t, -1, Legendre(x, p))
}

func mustInt64(t *testing.T, b numeric.BigInt) int64 {
	v, ok := b.Int64()
	require.True(t, ok)
	return v
}
