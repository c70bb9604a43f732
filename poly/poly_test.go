package poly

import (
	"testing"

	"github.com/bfix/gnfs/numeric"
	"github.com/stretchr/testify/require"
)

func TestEvalHorner(t *testing.T) {
	// f(x) = x^3 + 2x + 5
	zero := numeric.NewBig(0)
	f := New([]numeric.BigInt{numeric.NewBig(5), numeric.NewBig(2), zero, numeric.NewBig(1)}, zero)
	got := f.Eval(numeric.NewBig(3), zero)
	want := numeric.NewBig(3*3*3 + 2*3 + 5)
	require.Equal(t, 0, got.Cmp(want))
}

func TestDerivative(t *testing.T) {
	zero := numeric.NewBig(0)
	// f(x) = x^3 + 2x + 5  =>  f'(x) = 3x^2 + 2
	f := New([]numeric.BigInt{numeric.NewBig(5), numeric.NewBig(2), zero, numeric.NewBig(1)}, zero)
	d := f.Derivative(zero)
	require.Equal(t, 2, d.Degree())
	got := d.Eval(numeric.NewBig(4), zero)
	want := numeric.NewBig(3*4*4 + 2)
	require.Equal(t, 0, got.Cmp(want))
}

func TestMulAndDivModRoundTrip(t *testing.T) {
	zero := numeric.NewBig(0)
	one := numeric.NewBig(1)
	a := New([]numeric.BigInt{numeric.NewBig(1), numeric.NewBig(1)}, zero)    // x+1
	b := New([]numeric.BigInt{numeric.NewBig(-1), one}, zero)                // x-1
	prod := Mul(a, b, zero)                                                  // x^2 - 1
	q, r, ok := DivMod(prod, a, zero, one)
	require.True(t, ok)
	require.True(t, r.IsZero())
	require.Equal(t, 0, q.Eval(numeric.NewBig(2), zero).Cmp(numeric.NewBig(1)))
}

func TestModExpMatchesRepeatedSquaring(t *testing.T) {
	p := numeric.NewBig(31)
	zero := numeric.NewBig(0)
	// f = x^3 + x + 1 (irreducible over F_31 is not required for this check)
	f := New([]numeric.BigInt{numeric.NewBig(1), numeric.NewBig(1), zero, numeric.NewBig(1)}, zero)
	g := New([]numeric.BigInt{numeric.NewBig(2), numeric.NewBig(3)}, zero)

	got, err := ModExp(g, f, numeric.NewBig(5), p)
	require.NoError(t, err)

	naive, err := ModMod(g, f, p)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		naive, err = reduceProduct(naive, g, f, p)
		require.NoError(t, err)
	}
	require.True(t, got.Degree() == naive.Degree())
	for i := range got.Coeffs {
		require.Equal(t, 0, got.Coeffs[i].Cmp(naive.Coeffs[i]))
	}
}

func TestIsIrreducibleMod(t *testing.T) {
	// f = x^2 + 1 is irreducible mod 3 (no root: 0,1,2 -> 1,2,2 none 0)
	// but reducible mod 5 (2^2+1=5=0 mod5).
	zero := numeric.NewBig(0)
	f := New([]numeric.BigInt{numeric.NewBig(1), zero, numeric.NewBig(1)}, zero)

	irr3, err := IsIrreducibleMod(f, numeric.NewBig(3))
	require.NoError(t, err)
	require.True(t, irr3)

	irr5, err := IsIrreducibleMod(f, numeric.NewBig(5))
	require.NoError(t, err)
	require.False(t, irr5)
}
